package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"ballotbridge/contexts/election-ops/election-lifecycle/application/commands"
	"ballotbridge/contexts/election-ops/election-lifecycle/application/queries"
	"ballotbridge/contexts/election-ops/election-lifecycle/domain/entities"
	"ballotbridge/contexts/election-ops/election-lifecycle/ports"
	httptransport "ballotbridge/contexts/election-ops/election-lifecycle/transport/http"
)

type Handler struct {
	Lifecycle commands.LifecycleUseCase
	Queries   queries.ElectionQueries
	Clock     ports.Clock
	Logger    *slog.Logger
}

// InitializeHandler godoc
// @Summary Initialize election
// @Description Creates the ledger election account and stores the election unstarted.
// @Tags election-lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.InitializeElectionRequest true "Election definition"
// @Success 201 {object} httptransport.TransitionResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/elections/initialize [post]
func (h Handler) InitializeHandler(
	ctx context.Context,
	actor ports.Actor,
	req httptransport.InitializeElectionRequest,
) (httptransport.TransitionResponse, error) {
	posts := make([]entities.Post, 0, len(req.Posts))
	for _, post := range req.Posts {
		candidates := make([]entities.Candidate, 0, len(post.Candidates))
		for _, candidate := range post.Candidates {
			candidates = append(candidates, entities.Candidate{Name: candidate.Name, ImageRef: candidate.ImageRef})
		}
		posts = append(posts, entities.Post{Title: post.Title, Candidates: candidates})
	}
	result, err := h.Lifecycle.Initialize(ctx, commands.InitializeCommand{
		Actor:         actor,
		Title:         req.Title,
		Description:   req.Description,
		Posts:         posts,
		DurationHours: req.DurationHours,
	})
	if err != nil {
		return httptransport.TransitionResponse{}, err
	}
	return h.transition(result), nil
}

// StartHandler godoc
// @Summary Start election
// @Description Opens voting for the configured duration.
// @Tags election-lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param election_id path string true "Election id"
// @Success 200 {object} httptransport.TransitionResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/elections/{election_id}/start [post]
func (h Handler) StartHandler(ctx context.Context, actor ports.Actor, electionID string) (httptransport.TransitionResponse, error) {
	result, err := h.Lifecycle.Start(ctx, commands.TransitionCommand{Actor: actor, ElectionID: electionID})
	if err != nil {
		return httptransport.TransitionResponse{}, err
	}
	return h.transition(result), nil
}

// EndHandler godoc
// @Summary End election
// @Description Stops voting immediately.
// @Tags election-lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param election_id path string true "Election id"
// @Success 200 {object} httptransport.TransitionResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/elections/{election_id}/end [post]
func (h Handler) EndHandler(ctx context.Context, actor ports.Actor, electionID string) (httptransport.TransitionResponse, error) {
	result, err := h.Lifecycle.End(ctx, commands.TransitionCommand{Actor: actor, ElectionID: electionID})
	if err != nil {
		return httptransport.TransitionResponse{}, err
	}
	return h.transition(result), nil
}

// CloseHandler godoc
// @Summary Close election
// @Description Closes an ended election and snapshots the final tally.
// @Tags election-lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param election_id path string true "Election id"
// @Success 200 {object} httptransport.TransitionResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/elections/{election_id}/close [post]
func (h Handler) CloseHandler(ctx context.Context, actor ports.Actor, electionID string) (httptransport.TransitionResponse, error) {
	result, err := h.Lifecycle.Close(ctx, commands.TransitionCommand{Actor: actor, ElectionID: electionID})
	if err != nil {
		return httptransport.TransitionResponse{}, err
	}
	return h.transition(result), nil
}

func (h Handler) ListAllHandler(ctx context.Context, actor ports.Actor) (httptransport.ListElectionsResponse, error) {
	items, err := h.Queries.ListAll(ctx, actor)
	if err != nil {
		return httptransport.ListElectionsResponse{}, err
	}
	return h.list(items), nil
}

func (h Handler) ListMineHandler(ctx context.Context, actor ports.Actor) (httptransport.ListElectionsResponse, error) {
	items, err := h.Queries.ListMine(ctx, actor)
	if err != nil {
		return httptransport.ListElectionsResponse{}, err
	}
	return h.list(items), nil
}

func (h Handler) ListUnstartedHandler(ctx context.Context, actor ports.Actor) (httptransport.ListElectionsResponse, error) {
	items, err := h.Queries.ListUnstarted(ctx, actor)
	if err != nil {
		return httptransport.ListElectionsResponse{}, err
	}
	return h.list(items), nil
}

// ListActiveHandler godoc
// @Summary List active elections
// @Description Returns elections currently accepting votes.
// @Tags election-lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.ListElectionsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/elections/active [get]
func (h Handler) ListActiveHandler(ctx context.Context) (httptransport.ListElectionsResponse, error) {
	items, err := h.Queries.ListActive(ctx)
	if err != nil {
		return httptransport.ListElectionsResponse{}, err
	}
	return h.list(items), nil
}

// DetailsHandler godoc
// @Summary Get election details
// @Description Returns one election, with live or final results when requested.
// @Tags election-lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param election_id path string true "Election id"
// @Param include_results query bool false "Include results (default true)"
// @Success 200 {object} httptransport.ElectionResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/elections/{election_id} [get]
func (h Handler) DetailsHandler(ctx context.Context, electionID string, includeResults bool) (httptransport.ElectionResponse, error) {
	details, err := h.Queries.Details(ctx, electionID, includeResults)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	response := MapElection(details.Election, h.Clock.Now())
	response.Results = nil
	if includeResults {
		response.Results = mapResults(details.Results)
		response.LiveResults = details.Live
	}
	return response, nil
}

func (h Handler) transition(result commands.TransitionResult) httptransport.TransitionResponse {
	return httptransport.TransitionResponse{
		Election: MapElection(result.Election, h.Clock.Now()),
		TxID:     result.TxID,
	}
}

func (h Handler) list(items []entities.Election) httptransport.ListElectionsResponse {
	now := h.Clock.Now()
	out := make([]httptransport.ElectionResponse, 0, len(items))
	for _, item := range items {
		out = append(out, MapElection(item, now))
	}
	return httptransport.ListElectionsResponse{Items: out}
}

// MapElection renders an election with its derived status for now.
func MapElection(election entities.Election, now time.Time) httptransport.ElectionResponse {
	posts := make([]httptransport.PostResponse, 0, len(election.Posts))
	for _, post := range election.Posts {
		candidates := make([]httptransport.CandidateResponse, 0, len(post.Candidates))
		for _, candidate := range post.Candidates {
			candidates = append(candidates, httptransport.CandidateResponse{Name: candidate.Name, ImageRef: candidate.ImageRef})
		}
		posts = append(posts, httptransport.PostResponse{Title: post.Title, Candidates: candidates})
	}
	response := httptransport.ElectionResponse{
		ElectionID:    election.ElectionID,
		LedgerRef:     election.LedgerRef,
		Title:         election.Title,
		Description:   election.Description,
		Posts:         posts,
		IsActive:      election.IsActive,
		Closed:        election.Closed,
		Status:        string(election.Status(now)),
		StartDate:     formatTime(election.StartDate),
		EndDate:       formatTime(election.EndDate),
		DurationHours: election.DurationHours,
		OperatorID:    election.OperatorID,
		CreatedAt:     election.CreatedAt.UTC().Format(time.RFC3339),
	}
	if election.Started() {
		if hours, ok := election.RemainingHours(now); ok {
			response.RemainingHours = &hours
		}
	}
	if election.Closed {
		response.Results = mapResults(election.Results)
	}
	return response
}

func mapResults(results []entities.PostResult) []httptransport.PostResultResponse {
	out := make([]httptransport.PostResultResponse, 0, len(results))
	for _, result := range results {
		candidates := make([]httptransport.CandidateResultResponse, 0, len(result.Candidates))
		for _, candidate := range result.Candidates {
			candidates = append(candidates, httptransport.CandidateResultResponse{Name: candidate.Name, Votes: candidate.Votes})
		}
		out = append(out, httptransport.PostResultResponse{
			PostIndex:  result.PostIndex,
			Title:      result.Title,
			Candidates: candidates,
		})
	}
	return out
}

func formatTime(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.UTC().Format(time.RFC3339)
	return &formatted
}
