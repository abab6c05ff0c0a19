package entities

import (
	"fmt"
	"math"
	"strings"
	"time"

	domainerrors "ballotbridge/contexts/election-ops/election-lifecycle/domain/errors"
)

const (
	MinDurationHours = 1
	MaxDurationHours = 168
)

type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusActive     Status = "ACTIVE"
	StatusEnded      Status = "ENDED"
	StatusInactive   Status = "INACTIVE"
)

// Candidate is the single normalized candidate shape; ImageRef is optional.
type Candidate struct {
	Name     string
	ImageRef string
}

type Post struct {
	Title      string
	Candidates []Candidate
}

type CandidateResult struct {
	Name  string
	Votes int64
}

type PostResult struct {
	PostIndex  int
	Title      string
	Candidates []CandidateResult
}

type Election struct {
	ElectionID    string
	LedgerRef     string
	Title         string
	Description   string
	Posts         []Post
	IsActive      bool
	StartDate     *time.Time
	EndDate       *time.Time
	DurationHours int
	Closed        bool
	Results       []PostResult
	OperatorID    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Status resolves the reporting status. An elapsed end date wins over the
// active flag so a stale flag is never reported as ACTIVE.
func (e Election) Status(now time.Time) Status {
	switch {
	case e.EndDate != nil && now.After(*e.EndDate):
		return StatusEnded
	case e.IsActive:
		return StatusActive
	case e.StartDate == nil:
		return StatusNotStarted
	default:
		return StatusInactive
	}
}

// Expired reports whether the election is flagged active past its end date.
func (e Election) Expired(now time.Time) bool {
	return e.IsActive && e.EndDate != nil && now.After(*e.EndDate)
}

func (e Election) Started() bool {
	return e.StartDate != nil
}

// AcceptingVotes is true only inside the active window.
func (e Election) AcceptingVotes(now time.Time) bool {
	return e.IsActive && e.EndDate != nil && !now.After(*e.EndDate)
}

// RemainingHours floors the hours left until the end date. ok is false when
// the election has no end date yet.
func (e Election) RemainingHours(now time.Time) (hours int, ok bool) {
	if e.EndDate == nil {
		return 0, false
	}
	left := e.EndDate.Sub(now)
	if left <= 0 {
		return 0, true
	}
	return int(math.Floor(left.Hours())), true
}

// NormalizePosts trims titles and candidate fields.
func NormalizePosts(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, post := range posts {
		candidates := make([]Candidate, 0, len(post.Candidates))
		for _, candidate := range post.Candidates {
			candidates = append(candidates, Candidate{
				Name:     strings.TrimSpace(candidate.Name),
				ImageRef: strings.TrimSpace(candidate.ImageRef),
			})
		}
		out = append(out, Post{Title: strings.TrimSpace(post.Title), Candidates: candidates})
	}
	return out
}

func ValidateDefinition(title string, posts []Post, durationHours int) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domainerrors.ErrInvalidElection)
	}
	if durationHours < MinDurationHours || durationHours > MaxDurationHours {
		return fmt.Errorf("%w: duration must be between %d and %d hours",
			domainerrors.ErrInvalidElection, MinDurationHours, MaxDurationHours)
	}
	if len(posts) == 0 {
		return fmt.Errorf("%w: at least one post is required", domainerrors.ErrInvalidElection)
	}
	for i, post := range posts {
		if strings.TrimSpace(post.Title) == "" {
			return fmt.Errorf("%w: post %d has no title", domainerrors.ErrInvalidElection, i)
		}
		if len(post.Candidates) == 0 {
			return fmt.Errorf("%w: post %d has no candidates", domainerrors.ErrInvalidElection, i)
		}
		for j, candidate := range post.Candidates {
			if strings.TrimSpace(candidate.Name) == "" {
				return fmt.Errorf("%w: post %d candidate %d has no name", domainerrors.ErrInvalidElection, i, j)
			}
		}
	}
	return nil
}
