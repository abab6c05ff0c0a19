package keyvault

import (
	"log/slog"

	"ballotbridge/contexts/custody/key-vault/adapters/aead"
	"ballotbridge/contexts/custody/key-vault/application"
	"ballotbridge/contexts/custody/key-vault/ports"
)

type Module struct {
	Vault *application.Vault
}

type Dependencies struct {
	Secret  string
	Sealers ports.SealerFactory
	Logger  *slog.Logger
}

func NewModule(deps Dependencies) (Module, error) {
	sealers := deps.Sealers
	if sealers == nil {
		sealers = aead.XChaCha{}
	}
	sealer, err := sealers.NewSealer(deps.Secret)
	if err != nil {
		return Module{}, err
	}
	return Module{
		Vault: application.NewVault(sealer, nil, deps.Logger),
	}, nil
}
