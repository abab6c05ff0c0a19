package entities

import "time"

// VoteRecord is a ledger-confirmed vote. It is never written without the
// ledger transaction that carried it.
type VoteRecord struct {
	VoteID         string
	VoterID        string
	ElectionID     string
	PostIndex      int
	CandidateIndex int
	TxID           string
	VoterAddress   string
	CreatedAt      time.Time
}

type HistoryStatus string

const (
	HistoryActive    HistoryStatus = "Active"
	HistoryEnded     HistoryStatus = "Ended"
	HistoryScheduled HistoryStatus = "Scheduled"
)

type CandidateView struct {
	Name     string
	ImageRef string
}

type PostView struct {
	Title      string
	Candidates []CandidateView
}

// ElectionView is the part of an election the vote ledger reads.
type ElectionView struct {
	ElectionID string
	Title      string
	Posts      []PostView
	IsActive   bool
	StartDate  *time.Time
	EndDate    *time.Time
	Closed     bool
}

// PastEnd reports whether now is after the scheduled end date.
func (e ElectionView) PastEnd(now time.Time) bool {
	return e.EndDate != nil && now.After(*e.EndDate)
}

// HistoryStatus labels an election in a voter's history.
func (e ElectionView) HistoryStatus(now time.Time) HistoryStatus {
	switch {
	case e.IsActive:
		return HistoryActive
	case e.PastEnd(now):
		return HistoryEnded
	default:
		return HistoryScheduled
	}
}

// Candidate returns the candidate at the given position, if any.
func (e ElectionView) Candidate(postIndex int, candidateIndex int) (CandidateView, bool) {
	if postIndex < 0 || postIndex >= len(e.Posts) {
		return CandidateView{}, false
	}
	candidates := e.Posts[postIndex].Candidates
	if candidateIndex < 0 || candidateIndex >= len(candidates) {
		return CandidateView{}, false
	}
	return candidates[candidateIndex], true
}

func (e ElectionView) PostTitle(postIndex int) string {
	if postIndex < 0 || postIndex >= len(e.Posts) {
		return ""
	}
	return e.Posts[postIndex].Title
}
