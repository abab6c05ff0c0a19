package electionlifecycle

import (
	"log/slog"

	httpadapter "ballotbridge/contexts/election-ops/election-lifecycle/adapters/http"
	"ballotbridge/contexts/election-ops/election-lifecycle/adapters/memory"
	application "ballotbridge/contexts/election-ops/election-lifecycle/application"
	"ballotbridge/contexts/election-ops/election-lifecycle/application/commands"
	"ballotbridge/contexts/election-ops/election-lifecycle/application/queries"
	"ballotbridge/contexts/election-ops/election-lifecycle/domain/entities"
	"ballotbridge/contexts/election-ops/election-lifecycle/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Queries queries.ElectionQueries
	Store   *memory.Store
}

type Dependencies struct {
	Elections ports.ElectionRepository
	Ledger    ports.Ledger
	Vault     ports.KeyVault
	Operators ports.OperatorDirectory
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	expirer := application.Expirer{
		Elections: deps.Elections,
		Ledger:    deps.Ledger,
		Vault:     deps.Vault,
		Operators: deps.Operators,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	electionQueries := queries.ElectionQueries{
		Elections: deps.Elections,
		Ledger:    deps.Ledger,
		Expirer:   expirer,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Lifecycle: commands.LifecycleUseCase{
				Elections: deps.Elections,
				Ledger:    deps.Ledger,
				Vault:     deps.Vault,
				Expirer:   expirer,
				Clock:     deps.Clock,
				IDGen:     deps.IDGen,
				Logger:    deps.Logger,
			},
			Queries: electionQueries,
			Clock:   deps.Clock,
			Logger:  deps.Logger,
		},
		Queries: electionQueries,
	}
}

// NewInMemoryModule backs the module with an in-memory store; Elections,
// Clock and IDGen in deps are replaced by the store.
func NewInMemoryModule(seed []entities.Election, deps Dependencies) Module {
	store := memory.NewStore(seed)
	deps.Elections = store
	deps.Clock = store
	deps.IDGen = store
	module := NewModule(deps)
	module.Store = store
	return module
}
