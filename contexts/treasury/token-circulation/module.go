package tokencirculation

import (
	"log/slog"

	httpadapter "ballotbridge/contexts/treasury/token-circulation/adapters/http"
	"ballotbridge/contexts/treasury/token-circulation/application/commands"
	"ballotbridge/contexts/treasury/token-circulation/ports"
)

// DefaultStakeAmount is 0.0021 of a whole token in ledger units.
const DefaultStakeAmount int64 = 2_100_000

// DefaultReclaimBasisPoints reclaims 90% of a balance.
const DefaultReclaimBasisPoints = 9000

type Module struct {
	Handler     httpadapter.Handler
	Circulation commands.CirculationUseCase
}

type Dependencies struct {
	Accounts           ports.Accounts
	Elections          ports.ElectionStatus
	Ledger             ports.Ledger
	Vault              ports.KeyVault
	StakeAmount        int64
	ReclaimBasisPoints int
	Concurrency        int
	Logger             *slog.Logger
}

func NewModule(deps Dependencies) Module {
	stake := deps.StakeAmount
	if stake <= 0 {
		stake = DefaultStakeAmount
	}
	basisPoints := deps.ReclaimBasisPoints
	if basisPoints <= 0 {
		basisPoints = DefaultReclaimBasisPoints
	}
	circulation := commands.CirculationUseCase{
		Accounts:           deps.Accounts,
		Elections:          deps.Elections,
		Ledger:             deps.Ledger,
		Vault:              deps.Vault,
		StakeAmount:        stake,
		ReclaimBasisPoints: basisPoints,
		Concurrency:        deps.Concurrency,
		Logger:             deps.Logger,
	}
	return Module{
		Handler:     httpadapter.Handler{Circulation: circulation, Logger: deps.Logger},
		Circulation: circulation,
	}
}
