package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"ballotbridge/contexts/election-ops/election-lifecycle/domain/entities"
	domainerrors "ballotbridge/contexts/election-ops/election-lifecycle/domain/errors"
	"ballotbridge/contexts/election-ops/election-lifecycle/ports"
)

// Expirer performs the lazy auto-expiry shared by every path that inspects
// an election's status. The local transition is authoritative; the ledger
// end call that follows is reconciliation only and never fails the caller.
type Expirer struct {
	Elections ports.ElectionRepository
	Ledger    ports.Ledger
	Vault     ports.KeyVault
	Operators ports.OperatorDirectory
	Clock     ports.Clock
	Logger    *slog.Logger
}

// Load reads an election and expires it when its end date has passed.
func (x Expirer) Load(ctx context.Context, electionID string) (entities.Election, error) {
	election, err := x.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return entities.Election{}, err
	}
	return x.Refresh(ctx, election)
}

// Refresh applies auto-expiry to an already loaded election.
func (x Expirer) Refresh(ctx context.Context, election entities.Election) (entities.Election, error) {
	now := x.Clock.Now().UTC()
	if !election.Expired(now) {
		return election, nil
	}

	err := x.Elections.MarkEnded(ctx, election.ElectionID, nil, now)
	switch {
	case err == nil:
		election.IsActive = false
		election.UpdatedAt = now
		ResolveLogger(x.Logger).Info("election auto-expired",
			"event", "election_auto_expired",
			"module", "election-ops/election-lifecycle",
			"layer", "application",
			"election_id", election.ElectionID,
		)
		x.reconcileLedger(ctx, election)
	case errors.Is(err, domainerrors.ErrTransitionConflict):
		// another reader expired it first
		election.IsActive = false
	default:
		return entities.Election{}, err
	}
	return election, nil
}

func (x Expirer) reconcileLedger(ctx context.Context, election entities.Election) {
	logger := ResolveLogger(x.Logger)
	if x.Ledger == nil || x.Operators == nil || x.Vault == nil {
		return
	}
	sealed, err := x.Operators.OperatorKey(ctx, election.OperatorID)
	if err == nil {
		var key []byte
		key, err = x.Vault.Decrypt(sealed)
		if err == nil {
			_, err = x.Ledger.EndElection(ctx, key)
			clear(key)
		}
	}
	if err != nil {
		logger.Warn("ledger reconciliation after auto-expiry failed",
			"event", "election_auto_expiry_ledger_end_failed",
			"module", "election-ops/election-lifecycle",
			"layer", "application",
			"election_id", election.ElectionID,
			"error", err.Error(),
		)
	}
}
