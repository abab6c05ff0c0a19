package http

import (
	"encoding/json"
	"errors"
	"strings"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CandidateInput accepts either a bare candidate name or an object with a
// name and an optional image reference. Both shapes decode to the same
// value so nothing past the boundary branches on input shape.
type CandidateInput struct {
	Name     string `json:"name"`
	ImageRef string `json:"image_ref,omitempty"`
}

func (c *CandidateInput) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = CandidateInput{Name: name}
		return nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		return errors.New("candidate must be a name or an object with a name")
	}
	var raw struct {
		Name          string `json:"name"`
		ImageRef      string `json:"image_ref"`
		ImageURL      string `json:"image_url"`
		ImageURLCamel string `json:"imageUrl"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	image := raw.ImageRef
	if image == "" {
		image = raw.ImageURL
	}
	if image == "" {
		image = raw.ImageURLCamel
	}
	*c = CandidateInput{Name: raw.Name, ImageRef: image}
	return nil
}

type PostInput struct {
	Title      string           `json:"title"`
	Candidates []CandidateInput `json:"candidates"`
}

type InitializeElectionRequest struct {
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Posts         []PostInput `json:"posts"`
	DurationHours int         `json:"duration"`
}

type CandidateResponse struct {
	Name     string `json:"name"`
	ImageRef string `json:"image_ref,omitempty"`
}

type PostResponse struct {
	Title      string              `json:"title"`
	Candidates []CandidateResponse `json:"candidates"`
}

type CandidateResultResponse struct {
	Name  string `json:"name"`
	Votes int64  `json:"votes"`
}

type PostResultResponse struct {
	PostIndex  int                       `json:"post_index"`
	Title      string                    `json:"title"`
	Candidates []CandidateResultResponse `json:"candidates"`
}

type ElectionResponse struct {
	ElectionID     string               `json:"election_id"`
	LedgerRef      string               `json:"ledger_ref"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Posts          []PostResponse       `json:"posts"`
	IsActive       bool                 `json:"is_active"`
	Closed         bool                 `json:"closed"`
	Status         string               `json:"status"`
	StartDate      *string              `json:"start_date,omitempty"`
	EndDate        *string              `json:"end_date,omitempty"`
	DurationHours  int                  `json:"duration"`
	RemainingHours *int                 `json:"remaining_hours,omitempty"`
	OperatorID     string               `json:"operator_id"`
	CreatedAt      string               `json:"created_at"`
	Results        []PostResultResponse `json:"results,omitempty"`
	LiveResults    bool                 `json:"live_results,omitempty"`
}

type TransitionResponse struct {
	Election ElectionResponse `json:"election"`
	TxID     string           `json:"tx_id"`
}

type ListElectionsResponse struct {
	Items []ElectionResponse `json:"items"`
}
