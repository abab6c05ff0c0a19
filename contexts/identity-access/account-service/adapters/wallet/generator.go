package wallet

import (
	"ballotbridge/contexts/identity-access/account-service/ports"
	"ballotbridge/internal/platform/ledger"
)

// Generator provisions ed25519 ledger wallets.
type Generator struct{}

func (Generator) NewWallet() (string, []byte, error) {
	address, key, err := ledger.GenerateWallet()
	if err != nil {
		return "", nil, err
	}
	return address, key, nil
}

var _ ports.WalletGenerator = Generator{}
