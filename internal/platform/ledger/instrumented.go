package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricLedgerCalls    = "ledger_gateway_calls_total"
	MetricLedgerDuration = "ledger_gateway_call_duration_seconds"
)

// Instrumented records call counts and latency per gateway method.
type Instrumented struct {
	next     Gateway
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func Instrument(next Gateway, registerer prometheus.Registerer) (*Instrumented, error) {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: MetricLedgerCalls,
		Help: "Ledger gateway calls by method and outcome",
	}, []string{"method", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    MetricLedgerDuration,
		Help:    "Ledger gateway call latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	if registerer != nil {
		var err error
		if calls, err = registerCollector(registerer, calls); err != nil {
			return nil, err
		}
		if duration, err = registerCollector(registerer, duration); err != nil {
			return nil, err
		}
	}
	return &Instrumented{next: next, calls: calls, duration: duration}, nil
}

func registerCollector[T prometheus.Collector](registerer prometheus.Registerer, collector T) (T, error) {
	if err := registerer.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return collector, err
	}
	return collector, nil
}

func (g *Instrumented) observe(method string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	g.calls.WithLabelValues(method, outcome).Inc()
	g.duration.WithLabelValues(method).Observe(time.Since(started).Seconds())
}

func (g *Instrumented) CreateElection(ctx context.Context, operatorKey Key, posts []PostSpec) (result CreateResult, err error) {
	defer func(started time.Time) { g.observe(OpCreateElection, started, err) }(time.Now())
	return g.next.CreateElection(ctx, operatorKey, posts)
}

func (g *Instrumented) StartElection(ctx context.Context, operatorKey Key) (txID string, err error) {
	defer func(started time.Time) { g.observe(OpStartElection, started, err) }(time.Now())
	return g.next.StartElection(ctx, operatorKey)
}

func (g *Instrumented) EndElection(ctx context.Context, operatorKey Key) (txID string, err error) {
	defer func(started time.Time) { g.observe(OpEndElection, started, err) }(time.Now())
	return g.next.EndElection(ctx, operatorKey)
}

func (g *Instrumented) CloseElection(ctx context.Context, operatorKey Key) (txID string, err error) {
	defer func(started time.Time) { g.observe(OpCloseElection, started, err) }(time.Now())
	return g.next.CloseElection(ctx, operatorKey)
}

func (g *Instrumented) SubmitVote(ctx context.Context, voterKey Key, postIndex int, candidateIndex int) (txID string, err error) {
	defer func(started time.Time) { g.observe(OpSubmitVote, started, err) }(time.Now())
	return g.next.SubmitVote(ctx, voterKey, postIndex, candidateIndex)
}

func (g *Instrumented) FetchTally(ctx context.Context, electionRef string) (tally []PostTally, err error) {
	defer func(started time.Time) { g.observe(OpFetchTally, started, err) }(time.Now())
	return g.next.FetchTally(ctx, electionRef)
}

func (g *Instrumented) Transfer(ctx context.Context, fromKey Key, toAddress string, amount int64) (txID string, err error) {
	defer func(started time.Time) { g.observe(OpTransfer, started, err) }(time.Now())
	return g.next.Transfer(ctx, fromKey, toAddress, amount)
}

func (g *Instrumented) EstimateFee(ctx context.Context, fromKey Key, toAddress string, amount int64) (fee int64, err error) {
	defer func(started time.Time) { g.observe(OpEstimateFee, started, err) }(time.Now())
	return g.next.EstimateFee(ctx, fromKey, toAddress, amount)
}

func (g *Instrumented) Balance(ctx context.Context, address string) (balance int64, err error) {
	defer func(started time.Time) { g.observe(OpBalance, started, err) }(time.Now())
	return g.next.Balance(ctx, address)
}

var _ Gateway = (*Instrumented)(nil)
