package ledgeradapter

import (
	"context"

	"ballotbridge/contexts/treasury/token-circulation/ports"
	"ballotbridge/internal/platform/ledger"
)

type Gateway struct {
	gateway ledger.Gateway
}

func NewGateway(gateway ledger.Gateway) Gateway {
	return Gateway{gateway: gateway}
}

func (g Gateway) Transfer(ctx context.Context, fromKey []byte, toAddress string, amount int64) (string, error) {
	return g.gateway.Transfer(ctx, fromKey, toAddress, amount)
}

func (g Gateway) EstimateFee(ctx context.Context, fromKey []byte, toAddress string, amount int64) (int64, error) {
	return g.gateway.EstimateFee(ctx, fromKey, toAddress, amount)
}

func (g Gateway) Balance(ctx context.Context, address string) (int64, error) {
	return g.gateway.Balance(ctx, address)
}

var _ ports.Ledger = Gateway{}
