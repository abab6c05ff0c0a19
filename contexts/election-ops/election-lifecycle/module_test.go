package electionlifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ballotbridge/contexts/election-ops/election-lifecycle/domain/entities"
	domainerrors "ballotbridge/contexts/election-ops/election-lifecycle/domain/errors"
	"ballotbridge/contexts/election-ops/election-lifecycle/ports"
	httptransport "ballotbridge/contexts/election-ops/election-lifecycle/transport/http"
)

type fakeLedger struct {
	mu     sync.Mutex
	calls  map[string]int
	fail   map[string]error
	tally  []entities.PostResult
	nextTx int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{calls: map[string]int{}, fail: map[string]error{}}
}

func (f *fakeLedger) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	f.nextTx++
	return f.fail[op]
}

func (f *fakeLedger) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeLedger) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := 0
	for _, n := range f.calls {
		sum += n
	}
	return sum
}

func (f *fakeLedger) CreateElection(_ context.Context, _ []byte, _ []entities.Post) (ports.LedgerElection, error) {
	if err := f.record("create"); err != nil {
		return ports.LedgerElection{}, err
	}
	return ports.LedgerElection{ElectionRef: "slot-ref", TxID: "tx-create"}, nil
}

func (f *fakeLedger) StartElection(context.Context, []byte) (string, error) {
	return "tx-start", f.record("start")
}

func (f *fakeLedger) EndElection(context.Context, []byte) (string, error) {
	return "tx-end", f.record("end")
}

func (f *fakeLedger) CloseElection(context.Context, []byte) (string, error) {
	return "tx-close", f.record("close")
}

func (f *fakeLedger) FetchTally(context.Context, string) ([]entities.PostResult, error) {
	if err := f.record("tally"); err != nil {
		return nil, err
	}
	return f.tally, nil
}

type plainVault struct{}

func (plainVault) Decrypt(blob string) ([]byte, error) {
	return []byte(blob), nil
}

type operatorKeys map[string]string

func (o operatorKeys) OperatorKey(_ context.Context, operatorID string) (string, error) {
	key, ok := o[operatorID]
	if !ok {
		return "", errors.New("unknown operator")
	}
	return key, nil
}

type fixture struct {
	module Module
	ledger *fakeLedger
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ledger: newFakeLedger(),
		now:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.module = NewInMemoryModule(nil, Dependencies{
		Ledger:    f.ledger,
		Vault:     plainVault{},
		Operators: operatorKeys{"op-1": "op-1-key", "op-2": "op-2-key"},
	})
	f.module.Store.SetNow(func() time.Time { return f.now })
	return f
}

func operator(id string) ports.Actor {
	return ports.Actor{AccountID: id, Operator: true, EncryptedKey: id + "-key"}
}

func initializeRequest(duration int) httptransport.InitializeElectionRequest {
	return httptransport.InitializeElectionRequest{
		Title:       " Board election ",
		Description: "annual",
		Posts: []httptransport.PostInput{
			{Title: "Chair", Candidates: []httptransport.CandidateInput{{Name: "Ada"}, {Name: "Grace", ImageRef: "img/grace.png"}}},
			{Title: "Treasurer", Candidates: []httptransport.CandidateInput{{Name: "Linus"}, {Name: "Ken"}, {Name: "Rob"}}},
		},
		DurationHours: duration,
	}
}

func (f *fixture) initialize(t *testing.T, actor ports.Actor) httptransport.ElectionResponse {
	t.Helper()
	created, err := f.module.Handler.InitializeHandler(context.Background(), actor, initializeRequest(1))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return created.Election
}

func TestInitializeWithZeroDurationMakesNoLedgerCall(t *testing.T) {
	f := newFixture(t)
	_, err := f.module.Handler.InitializeHandler(context.Background(), operator("op-1"), initializeRequest(0))
	if !errors.Is(err, domainerrors.ErrInvalidElection) {
		t.Fatalf("expected invalid election, got %v", err)
	}
	if f.ledger.total() != 0 {
		t.Fatalf("expected no ledger calls, got %d", f.ledger.total())
	}
	items, err := f.module.Handler.ListAllHandler(context.Background(), operator("op-1"))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items.Items) != 0 {
		t.Fatalf("expected no persisted elections, got %d", len(items.Items))
	}
}

func TestInitializeRejectsParticipantsAndEmptyPosts(t *testing.T) {
	f := newFixture(t)
	participant := ports.Actor{AccountID: "voter-1", EncryptedKey: "k"}
	if _, err := f.module.Handler.InitializeHandler(context.Background(), participant, initializeRequest(1)); !errors.Is(err, domainerrors.ErrOperatorRequired) {
		t.Fatalf("expected operator required, got %v", err)
	}

	req := initializeRequest(1)
	req.Posts[1].Candidates = nil
	if _, err := f.module.Handler.InitializeHandler(context.Background(), operator("op-1"), req); !errors.Is(err, domainerrors.ErrInvalidElection) {
		t.Fatalf("expected invalid election for empty candidate list, got %v", err)
	}
}

func TestInitializeClearsLedgerSlotThenPersists(t *testing.T) {
	f := newFixture(t)
	f.ledger.fail["end"] = errors.New("nothing to end")
	f.ledger.fail["close"] = errors.New("nothing to close")

	election := f.initialize(t, operator("op-1"))
	if election.Title != "Board election" || election.Status != string(entities.StatusNotStarted) {
		t.Fatalf("unexpected election %+v", election)
	}
	if election.LedgerRef != "slot-ref" {
		t.Fatalf("expected ledger ref from gateway, got %q", election.LedgerRef)
	}
	if election.Posts[0].Candidates[1].ImageRef != "img/grace.png" {
		t.Fatalf("expected candidate image to be kept, got %+v", election.Posts[0].Candidates[1])
	}
	if f.ledger.count("end") != 1 || f.ledger.count("close") != 1 || f.ledger.count("create") != 1 {
		t.Fatalf("unexpected ledger calls %+v", f.ledger.calls)
	}
}

func TestInitializeLedgerFailurePersistsNothing(t *testing.T) {
	f := newFixture(t)
	f.ledger.fail["create"] = errors.New("rpc down")
	_, err := f.module.Handler.InitializeHandler(context.Background(), operator("op-1"), initializeRequest(2))
	if !errors.Is(err, domainerrors.ErrLedgerUnavailable) {
		t.Fatalf("expected ledger unavailable, got %v", err)
	}
	items, _ := f.module.Handler.ListAllHandler(context.Background(), operator("op-1"))
	if len(items.Items) != 0 {
		t.Fatalf("expected nothing persisted, got %d", len(items.Items))
	}
}

func TestFullLifecycleSnapshotsResultsAtClose(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := operator("op-1")
	election := f.initialize(t, actor)

	started, err := f.module.Handler.StartHandler(ctx, actor, election.ElectionID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Election.Status != string(entities.StatusActive) || started.TxID != "tx-start" {
		t.Fatalf("unexpected start response %+v", started)
	}
	if started.Election.RemainingHours == nil || *started.Election.RemainingHours != 1 {
		t.Fatalf("expected one remaining hour, got %v", started.Election.RemainingHours)
	}
	if _, err := f.module.Handler.StartHandler(ctx, actor, election.ElectionID); !errors.Is(err, domainerrors.ErrElectionAlreadyActive) {
		t.Fatalf("expected already active, got %v", err)
	}

	f.now = f.now.Add(20 * time.Minute)
	ended, err := f.module.Handler.EndHandler(ctx, actor, election.ElectionID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.Election.EndDate == nil || *ended.Election.EndDate != f.now.Format(time.RFC3339) {
		t.Fatalf("expected end date overwritten with actual end, got %v", ended.Election.EndDate)
	}
	if ended.Election.IsActive {
		t.Fatalf("expected inactive election after end")
	}

	f.ledger.tally = []entities.PostResult{
		{PostIndex: 0, Title: "Chair", Candidates: []entities.CandidateResult{{Name: "Ada", Votes: 3}, {Name: "Grace", Votes: 1}}},
	}
	closed, err := f.module.Handler.CloseHandler(ctx, actor, election.ElectionID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !closed.Election.Closed || len(closed.Election.Results) != 1 || closed.Election.Results[0].Candidates[0].Votes != 3 {
		t.Fatalf("unexpected close response %+v", closed.Election)
	}

	f.ledger.tally = nil
	details, err := f.module.Handler.DetailsHandler(ctx, election.ElectionID, true)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.LiveResults || len(details.Results) != 1 {
		t.Fatalf("expected stored snapshot after close, got %+v", details)
	}
	if _, err := f.module.Handler.CloseHandler(ctx, actor, election.ElectionID); !errors.Is(err, domainerrors.ErrElectionClosed) {
		t.Fatalf("expected already closed, got %v", err)
	}
	if _, err := f.module.Handler.StartHandler(ctx, actor, election.ElectionID); !errors.Is(err, domainerrors.ErrElectionClosed) {
		t.Fatalf("expected closed election to refuse start, got %v", err)
	}
}

func TestCloseWhileActiveIsRejectedWithoutLedgerCall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := operator("op-1")
	election := f.initialize(t, actor)
	if _, err := f.module.Handler.StartHandler(ctx, actor, election.ElectionID); err != nil {
		t.Fatalf("start: %v", err)
	}
	closesBefore := f.ledger.count("close")

	if _, err := f.module.Handler.CloseHandler(ctx, actor, election.ElectionID); !errors.Is(err, domainerrors.ErrElectionStillActive) {
		t.Fatalf("expected still active, got %v", err)
	}
	if f.ledger.count("close") != closesBefore {
		t.Fatalf("expected no ledger close call")
	}
	stored, err := f.module.Queries.Raw(ctx, election.ElectionID)
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	if stored.Closed {
		t.Fatalf("expected election to remain open")
	}
}

func TestCloseBeforeStartIsRejected(t *testing.T) {
	f := newFixture(t)
	actor := operator("op-1")
	election := f.initialize(t, actor)
	if _, err := f.module.Handler.CloseHandler(context.Background(), actor, election.ElectionID); !errors.Is(err, domainerrors.ErrElectionNotStarted) {
		t.Fatalf("expected not started, got %v", err)
	}
}

func TestCloseKeepsEmptyResultsWhenTallyFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := operator("op-1")
	election := f.initialize(t, actor)
	if _, err := f.module.Handler.StartHandler(ctx, actor, election.ElectionID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.module.Handler.EndHandler(ctx, actor, election.ElectionID); err != nil {
		t.Fatalf("end: %v", err)
	}
	f.ledger.fail["tally"] = errors.New("tally unavailable")
	closed, err := f.module.Handler.CloseHandler(ctx, actor, election.ElectionID)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !closed.Election.Closed || len(closed.Election.Results) != 0 {
		t.Fatalf("expected closed election with empty results, got %+v", closed.Election)
	}
}

func TestOnlyOneElectionMayBeActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.initialize(t, operator("op-1"))
	second := f.initialize(t, operator("op-2"))

	if _, err := f.module.Handler.StartHandler(ctx, operator("op-1"), first.ElectionID); err != nil {
		t.Fatalf("start first: %v", err)
	}
	if _, err := f.module.Handler.StartHandler(ctx, operator("op-2"), second.ElectionID); !errors.Is(err, domainerrors.ErrAnotherElectionActive) {
		t.Fatalf("expected another election active, got %v", err)
	}
	if _, err := f.module.Handler.InitializeHandler(ctx, operator("op-2"), initializeRequest(3)); !errors.Is(err, domainerrors.ErrAnotherElectionActive) {
		t.Fatalf("expected initialize to be refused while active, got %v", err)
	}
}

func TestStoreRejectsSecondActiveElectionEvenWhenPreCheckIsSkipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.initialize(t, operator("op-1"))
	second := f.initialize(t, operator("op-2"))

	start := f.now
	end := start.Add(time.Hour)
	if err := f.module.Store.MarkStarted(ctx, first.ElectionID, start, end, start); err != nil {
		t.Fatalf("mark first started: %v", err)
	}
	if err := f.module.Store.MarkStarted(ctx, second.ElectionID, start, end, start); !errors.Is(err, domainerrors.ErrAnotherElectionActive) {
		t.Fatalf("expected store to refuse a second active election, got %v", err)
	}
	if err := f.module.Store.MarkStarted(ctx, first.ElectionID, start, end, start); !errors.Is(err, domainerrors.ErrTransitionConflict) {
		t.Fatalf("expected repeated start to conflict, got %v", err)
	}
}

func TestTransitionsRequireOwningOperator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	election := f.initialize(t, operator("op-1"))
	if _, err := f.module.Handler.StartHandler(ctx, operator("op-2"), election.ElectionID); !errors.Is(err, domainerrors.ErrNotElectionOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
	if _, err := f.module.Handler.StartHandler(ctx, ports.Actor{AccountID: "op-1"}, election.ElectionID); !errors.Is(err, domainerrors.ErrOperatorRequired) {
		t.Fatalf("expected operator required, got %v", err)
	}
	if _, err := f.module.Handler.StartHandler(ctx, operator("op-1"), "missing"); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStartLedgerFailureLeavesElectionUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := operator("op-1")
	election := f.initialize(t, actor)
	f.ledger.fail["start"] = errors.New("rpc timeout")

	if _, err := f.module.Handler.StartHandler(ctx, actor, election.ElectionID); !errors.Is(err, domainerrors.ErrLedgerUnavailable) {
		t.Fatalf("expected ledger unavailable, got %v", err)
	}
	stored, _ := f.module.Queries.Raw(ctx, election.ElectionID)
	if stored.IsActive || stored.Started() {
		t.Fatalf("expected election not started, got %+v", stored)
	}
}

func TestAutoExpiryIsLazyAndIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := operator("op-1")
	election := f.initialize(t, actor)
	if _, err := f.module.Handler.StartHandler(ctx, actor, election.ElectionID); err != nil {
		t.Fatalf("start: %v", err)
	}
	endsBefore := f.ledger.count("end")

	f.now = f.now.Add(61 * time.Minute)
	for i := 0; i < 3; i++ {
		details, err := f.module.Handler.DetailsHandler(ctx, election.ElectionID, false)
		if err != nil {
			t.Fatalf("details: %v", err)
		}
		if details.Status != string(entities.StatusEnded) || details.IsActive {
			t.Fatalf("read %d: expected ENDED and inactive, got %s active=%v", i, details.Status, details.IsActive)
		}
		if details.RemainingHours == nil || *details.RemainingHours != 0 {
			t.Fatalf("expected zero remaining hours, got %v", details.RemainingHours)
		}
	}
	if got := f.ledger.count("end") - endsBefore; got != 1 {
		t.Fatalf("expected one reconciliation end call, got %d", got)
	}

	active, err := f.module.Handler.ListActiveHandler(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active.Items) != 0 {
		t.Fatalf("expected no active elections, got %d", len(active.Items))
	}
}

func TestAutoExpirySurvivesLedgerFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor := operator("op-1")
	election := f.initialize(t, actor)
	if _, err := f.module.Handler.StartHandler(ctx, actor, election.ElectionID); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.ledger.fail["end"] = errors.New("ledger unreachable")
	f.now = f.now.Add(2 * time.Hour)

	got, err := f.module.Queries.Get(ctx, election.ElectionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IsActive {
		t.Fatalf("expected local expiry despite ledger failure")
	}
}

func TestDetailsWithLiveResults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	election := f.initialize(t, operator("op-1"))
	f.ledger.tally = []entities.PostResult{{PostIndex: 0, Title: "Chair"}}

	details, err := f.module.Handler.DetailsHandler(ctx, election.ElectionID, true)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if !details.LiveResults || len(details.Results) != 1 {
		t.Fatalf("expected live results, got %+v", details)
	}

	f.ledger.fail["tally"] = errors.New("down")
	if _, err := f.module.Handler.DetailsHandler(ctx, election.ElectionID, true); !errors.Is(err, domainerrors.ErrLedgerUnavailable) {
		t.Fatalf("expected ledger unavailable, got %v", err)
	}
}

func TestOperatorListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.initialize(t, operator("op-1"))
	f.now = f.now.Add(time.Minute)
	f.initialize(t, operator("op-2"))
	if _, err := f.module.Handler.StartHandler(ctx, operator("op-1"), first.ElectionID); err != nil {
		t.Fatalf("start: %v", err)
	}

	all, err := f.module.Handler.ListAllHandler(ctx, operator("op-1"))
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all.Items) != 2 || all.Items[1].ElectionID != first.ElectionID {
		t.Fatalf("expected newest first, got %+v", all.Items)
	}
	mine, _ := f.module.Handler.ListMineHandler(ctx, operator("op-1"))
	if len(mine.Items) != 1 || mine.Items[0].ElectionID != first.ElectionID {
		t.Fatalf("unexpected own elections %+v", mine.Items)
	}
	unstarted, _ := f.module.Handler.ListUnstartedHandler(ctx, operator("op-1"))
	if len(unstarted.Items) != 1 || unstarted.Items[0].ElectionID == first.ElectionID {
		t.Fatalf("unexpected unstarted elections %+v", unstarted.Items)
	}
	active, _ := f.module.Handler.ListActiveHandler(ctx)
	if len(active.Items) != 1 || active.Items[0].ElectionID != first.ElectionID {
		t.Fatalf("unexpected active elections %+v", active.Items)
	}
	if _, err := f.module.Handler.ListAllHandler(ctx, ports.Actor{AccountID: "voter"}); !errors.Is(err, domainerrors.ErrOperatorRequired) {
		t.Fatalf("expected operator required, got %v", err)
	}
}
