package queries

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "ballotbridge/contexts/election-ops/election-lifecycle/application"
	"ballotbridge/contexts/election-ops/election-lifecycle/domain/entities"
	domainerrors "ballotbridge/contexts/election-ops/election-lifecycle/domain/errors"
	"ballotbridge/contexts/election-ops/election-lifecycle/ports"
)

type ElectionQueries struct {
	Elections ports.ElectionRepository
	Ledger    ports.Ledger
	Expirer   application.Expirer
	Clock     ports.Clock
	Logger    *slog.Logger
}

// ElectionDetails is an election plus its tally when one was requested.
// Live is true when the tally came from the ledger rather than the close
// snapshot.
type ElectionDetails struct {
	Election entities.Election
	Results  []entities.PostResult
	Live     bool
}

func (q ElectionQueries) ListAll(ctx context.Context, actor ports.Actor) ([]entities.Election, error) {
	if !actor.Operator {
		return nil, domainerrors.ErrOperatorRequired
	}
	return q.list(ctx, ports.ElectionFilter{})
}

func (q ElectionQueries) ListMine(ctx context.Context, actor ports.Actor) ([]entities.Election, error) {
	if !actor.Operator {
		return nil, domainerrors.ErrOperatorRequired
	}
	return q.list(ctx, ports.ElectionFilter{OperatorID: actor.AccountID})
}

func (q ElectionQueries) ListUnstarted(ctx context.Context, actor ports.Actor) ([]entities.Election, error) {
	if !actor.Operator {
		return nil, domainerrors.ErrOperatorRequired
	}
	return q.list(ctx, ports.ElectionFilter{UnstartedOnly: true})
}

// ListActive returns elections currently inside their voting window.
func (q ElectionQueries) ListActive(ctx context.Context) ([]entities.Election, error) {
	items, err := q.list(ctx, ports.ElectionFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	now := q.Clock.Now().UTC()
	out := make([]entities.Election, 0, len(items))
	for _, item := range items {
		if item.AcceptingVotes(now) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (q ElectionQueries) Details(ctx context.Context, electionID string, includeResults bool) (ElectionDetails, error) {
	election, err := q.Expirer.Load(ctx, electionID)
	if err != nil {
		return ElectionDetails{}, err
	}
	details := ElectionDetails{Election: election}
	if !includeResults {
		return details, nil
	}
	if election.Closed {
		details.Results = election.Results
		return details, nil
	}

	results, err := q.Ledger.FetchTally(ctx, election.LedgerRef)
	if err != nil {
		application.ResolveLogger(q.Logger).Warn("live tally fetch failed",
			"event", "election_live_tally_failed",
			"module", "election-ops/election-lifecycle",
			"layer", "application",
			"election_id", election.ElectionID,
			"error", err.Error(),
		)
		return ElectionDetails{}, fmt.Errorf("%w: fetch tally: %v", domainerrors.ErrLedgerUnavailable, err)
	}
	details.Results = results
	details.Live = true
	return details, nil
}

// Get loads an election with auto-expiry applied.
func (q ElectionQueries) Get(ctx context.Context, electionID string) (entities.Election, error) {
	return q.Expirer.Load(ctx, strings.TrimSpace(electionID))
}

// Raw loads an election without touching its state.
func (q ElectionQueries) Raw(ctx context.Context, electionID string) (entities.Election, error) {
	return q.Elections.GetElection(ctx, strings.TrimSpace(electionID))
}

// Active returns the election flagged active, expiring it first when due.
func (q ElectionQueries) Active(ctx context.Context) (entities.Election, bool, error) {
	election, found, err := q.Elections.FindActiveElection(ctx)
	if err != nil || !found {
		return entities.Election{}, false, err
	}
	election, err = q.Expirer.Refresh(ctx, election)
	if err != nil {
		return entities.Election{}, false, err
	}
	return election, election.IsActive, nil
}

func (q ElectionQueries) list(ctx context.Context, filter ports.ElectionFilter) ([]entities.Election, error) {
	items, err := q.Elections.ListElections(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range items {
		refreshed, err := q.Expirer.Refresh(ctx, items[i])
		if err != nil {
			return nil, err
		}
		items[i] = refreshed
	}
	return items, nil
}
