package ledgeradapter

import (
	"context"

	"ballotbridge/contexts/election-ops/election-lifecycle/domain/entities"
	"ballotbridge/contexts/election-ops/election-lifecycle/ports"
	"ballotbridge/internal/platform/ledger"
)

// Gateway adapts the shared ledger gateway to the election module's port.
// Candidate image references stay local; the ledger only stores names.
type Gateway struct {
	gateway ledger.Gateway
}

func NewGateway(gateway ledger.Gateway) Gateway {
	return Gateway{gateway: gateway}
}

func (g Gateway) CreateElection(ctx context.Context, operatorKey []byte, posts []entities.Post) (ports.LedgerElection, error) {
	specs := make([]ledger.PostSpec, 0, len(posts))
	for _, post := range posts {
		names := make([]string, 0, len(post.Candidates))
		for _, candidate := range post.Candidates {
			names = append(names, candidate.Name)
		}
		specs = append(specs, ledger.PostSpec{Title: post.Title, Candidates: names})
	}
	created, err := g.gateway.CreateElection(ctx, operatorKey, specs)
	if err != nil {
		return ports.LedgerElection{}, err
	}
	return ports.LedgerElection{ElectionRef: created.ElectionRef, TxID: created.TxID}, nil
}

func (g Gateway) StartElection(ctx context.Context, operatorKey []byte) (string, error) {
	return g.gateway.StartElection(ctx, operatorKey)
}

func (g Gateway) EndElection(ctx context.Context, operatorKey []byte) (string, error) {
	return g.gateway.EndElection(ctx, operatorKey)
}

func (g Gateway) CloseElection(ctx context.Context, operatorKey []byte) (string, error) {
	return g.gateway.CloseElection(ctx, operatorKey)
}

func (g Gateway) FetchTally(ctx context.Context, electionRef string) ([]entities.PostResult, error) {
	tallies, err := g.gateway.FetchTally(ctx, electionRef)
	if err != nil {
		return nil, err
	}
	results := make([]entities.PostResult, 0, len(tallies))
	for _, tally := range tallies {
		candidates := make([]entities.CandidateResult, 0, len(tally.Candidates))
		for _, candidate := range tally.Candidates {
			candidates = append(candidates, entities.CandidateResult{Name: candidate.Name, Votes: candidate.Votes})
		}
		results = append(results, entities.PostResult{
			PostIndex:  tally.PostIndex,
			Title:      tally.Title,
			Candidates: candidates,
		})
	}
	return results, nil
}

var _ ports.Ledger = Gateway{}
