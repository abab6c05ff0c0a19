package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "ballotbridge/contexts/treasury/token-circulation/application"
	"ballotbridge/contexts/treasury/token-circulation/domain/entities"
	domainerrors "ballotbridge/contexts/treasury/token-circulation/domain/errors"
	"ballotbridge/contexts/treasury/token-circulation/ports"

	"golang.org/x/sync/errgroup"
)

// feeProbeAmount is the placeholder amount used when quoting a transfer
// fee before the real amount is known.
const feeProbeAmount int64 = 1

// CirculationUseCase owns every fund movement between the operator and
// participants.
type CirculationUseCase struct {
	Accounts           ports.Accounts
	Elections          ports.ElectionStatus
	Ledger             ports.Ledger
	Vault              ports.KeyVault
	StakeAmount        int64
	ReclaimBasisPoints int
	Concurrency        int
	Logger             *slog.Logger
}

// PreFund sends the stake from the operator to a participant while an
// election is active. It reports funded=false without error when no
// election is running.
func (uc CirculationUseCase) PreFund(ctx context.Context, holder entities.Holder) (txID string, funded bool, err error) {
	active, err := uc.Elections.ElectionActive(ctx)
	if err != nil || !active {
		return "", false, err
	}
	if strings.TrimSpace(holder.Address) == "" {
		return "", false, domainerrors.ErrInvalidTransfer
	}
	operator, err := uc.operator(ctx)
	if err != nil {
		return "", false, err
	}
	if operator.Address == holder.Address {
		return "", false, nil
	}
	txID, err = uc.send(ctx, operator, holder.Address, uc.StakeAmount)
	if err != nil {
		return "", false, err
	}
	application.ResolveLogger(uc.Logger).Info("participant pre-funded",
		"event", "circulation_prefund_sent",
		"module", "treasury/token-circulation",
		"layer", "application",
		"account_id", holder.AccountID,
		"amount", uc.StakeAmount,
		"tx_id", txID,
	)
	return txID, true, nil
}

// AirdropToAll sends the stake from the calling operator to every
// participant wallet. Results keep target order.
func (uc CirculationUseCase) AirdropToAll(ctx context.Context, actor ports.Actor) ([]entities.TransferResult, error) {
	if !actor.Operator {
		return nil, domainerrors.ErrOperatorRequired
	}
	targets, err := uc.targets(ctx, actor.Holder.Address)
	if err != nil {
		return nil, err
	}
	key, err := uc.Vault.Decrypt(actor.Holder.EncryptedKey)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	results := uc.fanOut(ctx, targets, func(ctx context.Context, target entities.Holder) (int64, string, error) {
		txID, err := uc.Ledger.Transfer(ctx, key, target.Address, uc.StakeAmount)
		return uc.StakeAmount, txID, err
	})
	uc.logBatch("circulation_airdrop_completed", results)
	return results, nil
}

// AirdropToAddress sends the stake from the calling operator to one wallet.
func (uc CirculationUseCase) AirdropToAddress(ctx context.Context, actor ports.Actor, address string) (entities.TransferResult, error) {
	if !actor.Operator {
		return entities.TransferResult{}, domainerrors.ErrOperatorRequired
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return entities.TransferResult{}, fmt.Errorf("%w: wallet address is required", domainerrors.ErrInvalidTransfer)
	}
	if address == actor.Holder.Address {
		return entities.TransferResult{}, fmt.Errorf("%w: cannot airdrop to the operator wallet", domainerrors.ErrInvalidTransfer)
	}
	txID, err := uc.send(ctx, actor.Holder, address, uc.StakeAmount)
	if err != nil {
		return entities.TransferResult{}, err
	}
	return entities.TransferResult{Address: address, Amount: uc.StakeAmount, Success: true, TxID: txID}, nil
}

// SendBackAll makes every participant return the configured percentage of
// its balance to the calling operator.
func (uc CirculationUseCase) SendBackAll(ctx context.Context, actor ports.Actor) ([]entities.TransferResult, error) {
	if !actor.Operator {
		return nil, domainerrors.ErrOperatorRequired
	}
	targets, err := uc.targets(ctx, actor.Holder.Address)
	if err != nil {
		return nil, err
	}
	results := uc.fanOut(ctx, targets, func(ctx context.Context, target entities.Holder) (int64, string, error) {
		return uc.reclaim(ctx, target, actor.Holder.Address, func(balance int64, fee int64) (int64, error) {
			return entities.PercentageAmount(balance, fee, uc.ReclaimBasisPoints)
		})
	})
	uc.logBatch("circulation_send_back_completed", results)
	return results, nil
}

// ReclaimPercentage returns the configured share of the holder's balance to
// the authoritative operator.
func (uc CirculationUseCase) ReclaimPercentage(ctx context.Context, holder entities.Holder) (entities.TransferResult, error) {
	return uc.reclaimToOperator(ctx, holder, func(balance int64, fee int64) (int64, error) {
		return entities.PercentageAmount(balance, fee, uc.ReclaimBasisPoints)
	})
}

// ReclaimAll returns everything but the fee to the authoritative operator.
func (uc CirculationUseCase) ReclaimAll(ctx context.Context, holder entities.Holder) (entities.TransferResult, error) {
	return uc.reclaimToOperator(ctx, holder, entities.FullAmount)
}

func (uc CirculationUseCase) reclaimToOperator(
	ctx context.Context,
	holder entities.Holder,
	amountFor func(balance int64, fee int64) (int64, error),
) (entities.TransferResult, error) {
	operator, err := uc.operator(ctx)
	if err != nil {
		return entities.TransferResult{}, err
	}
	if operator.Address == holder.Address {
		return entities.TransferResult{}, fmt.Errorf("%w: operator cannot reclaim from itself", domainerrors.ErrInvalidTransfer)
	}
	amount, txID, err := uc.reclaim(ctx, holder, operator.Address, amountFor)
	if err != nil {
		return entities.TransferResult{}, err
	}
	application.ResolveLogger(uc.Logger).Info("funds reclaimed",
		"event", "circulation_reclaim_sent",
		"module", "treasury/token-circulation",
		"layer", "application",
		"account_id", holder.AccountID,
		"amount", amount,
		"tx_id", txID,
	)
	return entities.TransferResult{
		AccountID: holder.AccountID,
		Address:   holder.Address,
		Amount:    amount,
		Success:   true,
		TxID:      txID,
	}, nil
}

// reclaim reads the balance, quotes the fee for this exact route and only
// then sizes and sends the transfer.
func (uc CirculationUseCase) reclaim(
	ctx context.Context,
	holder entities.Holder,
	destination string,
	amountFor func(balance int64, fee int64) (int64, error),
) (int64, string, error) {
	if strings.TrimSpace(holder.EncryptedKey) == "" {
		return 0, "", domainerrors.ErrHolderKeyMissing
	}
	key, err := uc.Vault.Decrypt(holder.EncryptedKey)
	if err != nil {
		return 0, "", err
	}
	defer clear(key)

	balance, err := uc.Ledger.Balance(ctx, holder.Address)
	if err != nil {
		return 0, "", ledgerError("read balance", err)
	}
	fee, err := uc.Ledger.EstimateFee(ctx, key, destination, feeProbeAmount)
	if err != nil {
		return 0, "", ledgerError("estimate fee", err)
	}
	amount, err := amountFor(balance, fee)
	if err != nil {
		return 0, "", err
	}
	txID, err := uc.Ledger.Transfer(ctx, key, destination, amount)
	if err != nil {
		return 0, "", ledgerError("transfer", err)
	}
	return amount, txID, nil
}

func (uc CirculationUseCase) send(ctx context.Context, from entities.Holder, to string, amount int64) (string, error) {
	if amount <= 0 {
		return "", domainerrors.ErrInvalidTransfer
	}
	key, err := uc.Vault.Decrypt(from.EncryptedKey)
	if err != nil {
		return "", err
	}
	defer clear(key)
	txID, err := uc.Ledger.Transfer(ctx, key, to, amount)
	if err != nil {
		return "", ledgerError("transfer", err)
	}
	return txID, nil
}

func (uc CirculationUseCase) operator(ctx context.Context) (entities.Holder, error) {
	operator, err := uc.Accounts.Operator(ctx)
	if err != nil {
		return entities.Holder{}, fmt.Errorf("%w: %v", domainerrors.ErrOperatorUnavailable, err)
	}
	if strings.TrimSpace(operator.Address) == "" || strings.TrimSpace(operator.EncryptedKey) == "" {
		return entities.Holder{}, domainerrors.ErrOperatorUnavailable
	}
	return operator, nil
}

// targets lists participant wallets, leaving out the given operator
// address so the operator never transfers to itself.
func (uc CirculationUseCase) targets(ctx context.Context, operatorAddress string) ([]entities.Holder, error) {
	holders, err := uc.Accounts.Holders(ctx)
	if err != nil {
		return nil, err
	}
	operatorAddress = strings.TrimSpace(operatorAddress)
	out := make([]entities.Holder, 0, len(holders))
	for _, holder := range holders {
		address := strings.TrimSpace(holder.Address)
		if address == "" || strings.TrimSpace(holder.EncryptedKey) == "" || address == operatorAddress {
			continue
		}
		holder.Address = address
		out = append(out, holder)
	}
	if len(out) == 0 {
		return nil, domainerrors.ErrNoTargets
	}
	return out, nil
}

// fanOut runs one transfer per target with bounded concurrency. Each
// goroutine writes only its own slot, so results keep target order and one
// failure never cancels the others.
func (uc CirculationUseCase) fanOut(
	ctx context.Context,
	targets []entities.Holder,
	transfer func(ctx context.Context, target entities.Holder) (int64, string, error),
) []entities.TransferResult {
	results := make([]entities.TransferResult, len(targets))
	limit := uc.Concurrency
	if limit < 1 {
		limit = 1
	}
	var group errgroup.Group
	group.SetLimit(limit)
	for i, target := range targets {
		group.Go(func() error {
			result := entities.TransferResult{AccountID: target.AccountID, Address: target.Address}
			amount, txID, err := transfer(ctx, target)
			if err != nil {
				result.Error = err.Error()
			} else {
				result.Amount = amount
				result.Success = true
				result.TxID = txID
			}
			results[i] = result
			return nil
		})
	}
	_ = group.Wait()
	return results
}

func (uc CirculationUseCase) logBatch(event string, results []entities.TransferResult) {
	failed := 0
	for _, result := range results {
		if !result.Success {
			failed++
		}
	}
	application.ResolveLogger(uc.Logger).Info("batch transfer completed",
		"event", event,
		"module", "treasury/token-circulation",
		"layer", "application",
		"targets", len(results),
		"failed", failed,
	)
}

func ledgerError(action string, err error) error {
	return fmt.Errorf("%w: %s: %v", domainerrors.ErrLedgerUnavailable, action, err)
}
