package voteledger

import (
	"log/slog"

	httpadapter "ballotbridge/contexts/election-ops/vote-ledger/adapters/http"
	"ballotbridge/contexts/election-ops/vote-ledger/adapters/memory"
	"ballotbridge/contexts/election-ops/vote-ledger/application/commands"
	"ballotbridge/contexts/election-ops/vote-ledger/application/queries"
	"ballotbridge/contexts/election-ops/vote-ledger/domain/entities"
	"ballotbridge/contexts/election-ops/vote-ledger/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Queries queries.VoteQueries
	Store   *memory.Store
}

type Dependencies struct {
	Votes     ports.VoteRepository
	Elections ports.ElectionSource
	Ledger    ports.Ledger
	Vault     ports.KeyVault
	Reclaimer ports.FundReclaimer
	Voters    ports.VoterDirectory
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	voteQueries := queries.VoteQueries{
		Votes:     deps.Votes,
		Elections: deps.Elections,
		Voters:    deps.Voters,
		Clock:     deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Submit: commands.SubmitVoteUseCase{
				Votes:     deps.Votes,
				Elections: deps.Elections,
				Ledger:    deps.Ledger,
				Vault:     deps.Vault,
				Reclaimer: deps.Reclaimer,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Logger:    deps.Logger,
			},
			Queries: voteQueries,
			Logger:  deps.Logger,
		},
		Queries: voteQueries,
	}
}

// NewInMemoryModule backs the module with an in-memory store. Clock and
// IDGen are only taken from the store when deps leaves them nil.
func NewInMemoryModule(seed []entities.VoteRecord, deps Dependencies) Module {
	store := memory.NewStore(seed)
	deps.Votes = store
	if deps.Clock == nil {
		deps.Clock = store
	}
	if deps.IDGen == nil {
		deps.IDGen = store
	}
	module := NewModule(deps)
	module.Store = store
	return module
}
