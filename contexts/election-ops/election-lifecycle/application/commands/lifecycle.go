package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "ballotbridge/contexts/election-ops/election-lifecycle/application"
	"ballotbridge/contexts/election-ops/election-lifecycle/domain/entities"
	domainerrors "ballotbridge/contexts/election-ops/election-lifecycle/domain/errors"
	"ballotbridge/contexts/election-ops/election-lifecycle/ports"
)

type InitializeCommand struct {
	Actor         ports.Actor
	Title         string
	Description   string
	Posts         []entities.Post
	DurationHours int
}

type TransitionCommand struct {
	Actor      ports.Actor
	ElectionID string
}

// TransitionResult carries the committed election and the ledger
// transaction that authorized the transition.
type TransitionResult struct {
	Election entities.Election
	TxID     string
}

// LifecycleUseCase drives election transitions ledger-first: a ledger
// failure aborts the transition before any local write.
type LifecycleUseCase struct {
	Elections ports.ElectionRepository
	Ledger    ports.Ledger
	Vault     ports.KeyVault
	Expirer   application.Expirer
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc LifecycleUseCase) Initialize(ctx context.Context, cmd InitializeCommand) (TransitionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.Actor.Operator {
		return TransitionResult{}, domainerrors.ErrOperatorRequired
	}
	posts := entities.NormalizePosts(cmd.Posts)
	title := strings.TrimSpace(cmd.Title)
	if err := entities.ValidateDefinition(title, posts, cmd.DurationHours); err != nil {
		logger.Warn("election initialize validation failed",
			"event", "election_initialize_validation_failed",
			"module", "election-ops/election-lifecycle",
			"layer", "application",
			"operator_id", cmd.Actor.AccountID,
			"error", err.Error(),
		)
		return TransitionResult{}, err
	}
	if err := uc.ensureNoActiveElection(ctx, ""); err != nil {
		return TransitionResult{}, err
	}

	key, err := uc.Vault.Decrypt(cmd.Actor.EncryptedKey)
	if err != nil {
		return TransitionResult{}, err
	}
	defer clear(key)

	// Clear whatever still occupies the single ledger slot. Either call
	// fails when there is nothing to end or close, which is expected.
	if _, err := uc.Ledger.EndElection(ctx, key); err != nil {
		logger.Debug("ledger slot end skipped",
			"event", "election_initialize_slot_end_skipped",
			"module", "election-ops/election-lifecycle",
			"layer", "application",
			"error", err.Error(),
		)
	}
	if _, err := uc.Ledger.CloseElection(ctx, key); err != nil {
		logger.Debug("ledger slot close skipped",
			"event", "election_initialize_slot_close_skipped",
			"module", "election-ops/election-lifecycle",
			"layer", "application",
			"error", err.Error(),
		)
	}

	created, err := uc.Ledger.CreateElection(ctx, key, posts)
	if err != nil {
		return TransitionResult{}, uc.ledgerFailure(logger, "create", "", err)
	}

	electionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return TransitionResult{}, err
	}
	now := uc.Clock.Now().UTC()
	election := entities.Election{
		ElectionID:    electionID,
		LedgerRef:     created.ElectionRef,
		Title:         title,
		Description:   strings.TrimSpace(cmd.Description),
		Posts:         posts,
		DurationHours: cmd.DurationHours,
		OperatorID:    cmd.Actor.AccountID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.Elections.CreateElection(ctx, election); err != nil {
		return TransitionResult{}, err
	}

	logger.Info("election initialized",
		"event", "election_initialized",
		"module", "election-ops/election-lifecycle",
		"layer", "application",
		"election_id", election.ElectionID,
		"ledger_ref", election.LedgerRef,
		"posts", len(election.Posts),
		"duration_hours", election.DurationHours,
	)
	return TransitionResult{Election: election, TxID: created.TxID}, nil
}

func (uc LifecycleUseCase) Start(ctx context.Context, cmd TransitionCommand) (TransitionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	election, err := uc.loadOwned(ctx, cmd)
	if err != nil {
		return TransitionResult{}, err
	}
	switch {
	case election.IsActive:
		return TransitionResult{}, domainerrors.ErrElectionAlreadyActive
	case election.Closed:
		return TransitionResult{}, domainerrors.ErrElectionClosed
	case election.Started():
		return TransitionResult{}, domainerrors.ErrElectionAlreadyStarted
	}
	if err := uc.ensureNoActiveElection(ctx, election.ElectionID); err != nil {
		return TransitionResult{}, err
	}

	key, err := uc.Vault.Decrypt(cmd.Actor.EncryptedKey)
	if err != nil {
		return TransitionResult{}, err
	}
	defer clear(key)
	txID, err := uc.Ledger.StartElection(ctx, key)
	if err != nil {
		return TransitionResult{}, uc.ledgerFailure(logger, "start", election.ElectionID, err)
	}

	now := uc.Clock.Now().UTC()
	endDate := now.Add(time.Duration(election.DurationHours) * time.Hour)
	if err := uc.Elections.MarkStarted(ctx, election.ElectionID, now, endDate, now); err != nil {
		uc.logCommitFailure(logger, "start", election.ElectionID, txID, err)
		return TransitionResult{}, err
	}
	election.IsActive = true
	election.StartDate = &now
	election.EndDate = &endDate
	election.UpdatedAt = now

	logger.Info("election started",
		"event", "election_started",
		"module", "election-ops/election-lifecycle",
		"layer", "application",
		"election_id", election.ElectionID,
		"end_date", endDate.Format(time.RFC3339),
		"tx_id", txID,
	)
	return TransitionResult{Election: election, TxID: txID}, nil
}

func (uc LifecycleUseCase) End(ctx context.Context, cmd TransitionCommand) (TransitionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	election, err := uc.loadOwned(ctx, cmd)
	if err != nil {
		return TransitionResult{}, err
	}
	if !election.IsActive {
		return TransitionResult{}, domainerrors.ErrElectionNotActive
	}

	key, err := uc.Vault.Decrypt(cmd.Actor.EncryptedKey)
	if err != nil {
		return TransitionResult{}, err
	}
	defer clear(key)
	txID, err := uc.Ledger.EndElection(ctx, key)
	if err != nil {
		return TransitionResult{}, uc.ledgerFailure(logger, "end", election.ElectionID, err)
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Elections.MarkEnded(ctx, election.ElectionID, &now, now); err != nil {
		uc.logCommitFailure(logger, "end", election.ElectionID, txID, err)
		return TransitionResult{}, err
	}
	election.IsActive = false
	election.EndDate = &now
	election.UpdatedAt = now

	logger.Info("election ended",
		"event", "election_ended",
		"module", "election-ops/election-lifecycle",
		"layer", "application",
		"election_id", election.ElectionID,
		"tx_id", txID,
	)
	return TransitionResult{Election: election, TxID: txID}, nil
}

func (uc LifecycleUseCase) Close(ctx context.Context, cmd TransitionCommand) (TransitionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	election, err := uc.loadOwned(ctx, cmd)
	if err != nil {
		return TransitionResult{}, err
	}
	switch {
	case election.Closed:
		return TransitionResult{}, domainerrors.ErrElectionClosed
	case election.IsActive:
		return TransitionResult{}, domainerrors.ErrElectionStillActive
	case !election.Started():
		return TransitionResult{}, domainerrors.ErrElectionNotStarted
	}

	key, err := uc.Vault.Decrypt(cmd.Actor.EncryptedKey)
	if err != nil {
		return TransitionResult{}, err
	}
	defer clear(key)
	txID, err := uc.Ledger.CloseElection(ctx, key)
	if err != nil {
		return TransitionResult{}, uc.ledgerFailure(logger, "close", election.ElectionID, err)
	}

	results, err := uc.Ledger.FetchTally(ctx, election.LedgerRef)
	if err != nil {
		logger.Warn("final tally fetch failed, closing with empty results",
			"event", "election_close_tally_failed",
			"module", "election-ops/election-lifecycle",
			"layer", "application",
			"election_id", election.ElectionID,
			"error", err.Error(),
		)
		results = []entities.PostResult{}
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Elections.MarkClosed(ctx, election.ElectionID, results, now); err != nil {
		uc.logCommitFailure(logger, "close", election.ElectionID, txID, err)
		return TransitionResult{}, err
	}
	election.Closed = true
	election.Results = results
	election.UpdatedAt = now

	logger.Info("election closed",
		"event", "election_closed",
		"module", "election-ops/election-lifecycle",
		"layer", "application",
		"election_id", election.ElectionID,
		"tx_id", txID,
	)
	return TransitionResult{Election: election, TxID: txID}, nil
}

func (uc LifecycleUseCase) loadOwned(ctx context.Context, cmd TransitionCommand) (entities.Election, error) {
	election, err := uc.Expirer.Load(ctx, cmd.ElectionID)
	if err != nil {
		return entities.Election{}, err
	}
	if !cmd.Actor.Operator {
		return entities.Election{}, domainerrors.ErrOperatorRequired
	}
	if election.OperatorID != cmd.Actor.AccountID {
		return entities.Election{}, domainerrors.ErrNotElectionOwner
	}
	return election, nil
}

// ensureNoActiveElection is the application-level pre-check for the single
// active election rule. It races with concurrent starts; the store's unique
// constraint on the active flag is what actually enforces the rule.
func (uc LifecycleUseCase) ensureNoActiveElection(ctx context.Context, exceptID string) error {
	active, found, err := uc.Elections.FindActiveElection(ctx)
	if err != nil {
		return err
	}
	if !found || active.ElectionID == exceptID {
		return nil
	}
	active, err = uc.Expirer.Refresh(ctx, active)
	if err != nil {
		return err
	}
	if active.IsActive {
		return domainerrors.ErrAnotherElectionActive
	}
	return nil
}

func (uc LifecycleUseCase) ledgerFailure(logger *slog.Logger, action string, electionID string, err error) error {
	logger.Warn("ledger rejected election transition",
		"event", "election_ledger_"+action+"_failed",
		"module", "election-ops/election-lifecycle",
		"layer", "application",
		"election_id", electionID,
		"error", err.Error(),
	)
	return fmt.Errorf("%w: %s election: %v", domainerrors.ErrLedgerUnavailable, action, err)
}

func (uc LifecycleUseCase) logCommitFailure(logger *slog.Logger, action string, electionID string, txID string, err error) {
	logger.Error("local commit failed after ledger accepted transition",
		"event", "election_"+action+"_commit_failed",
		"module", "election-ops/election-lifecycle",
		"layer", "application",
		"election_id", electionID,
		"tx_id", txID,
		"error", err.Error(),
	)
}
