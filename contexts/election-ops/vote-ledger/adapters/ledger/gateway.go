package ledgeradapter

import (
	"context"
	"errors"

	domainerrors "ballotbridge/contexts/election-ops/vote-ledger/domain/errors"
	"ballotbridge/contexts/election-ops/vote-ledger/ports"
	"ballotbridge/internal/platform/ledger"
)

type Gateway struct {
	gateway ledger.Gateway
}

func NewGateway(gateway ledger.Gateway) Gateway {
	return Gateway{gateway: gateway}
}

// SubmitVote reports a ledger-side duplicate as ErrAlreadyVoted so callers
// see the same conflict the local store would raise.
func (g Gateway) SubmitVote(ctx context.Context, voterKey []byte, postIndex int, candidateIndex int) (string, error) {
	txID, err := g.gateway.SubmitVote(ctx, voterKey, postIndex, candidateIndex)
	if errors.Is(err, ledger.ErrAlreadyVoted) {
		return "", domainerrors.ErrAlreadyVoted
	}
	return txID, err
}

var _ ports.Ledger = Gateway{}
