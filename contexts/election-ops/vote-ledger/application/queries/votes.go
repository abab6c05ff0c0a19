package queries

import (
	"context"
	"errors"
	"strings"
	"time"

	"ballotbridge/contexts/election-ops/vote-ledger/domain/entities"
	domainerrors "ballotbridge/contexts/election-ops/vote-ledger/domain/errors"
	"ballotbridge/contexts/election-ops/vote-ledger/ports"
)

type VoteEntry struct {
	PostIndex      int
	PostTitle      string
	CandidateIndex int
	Candidate      entities.CandidateView
	TxID           string
	VotedAt        time.Time
}

type ElectionVotes struct {
	ElectionID string
	Title      string
	Status     entities.HistoryStatus
	Votes      []VoteEntry
}

type VoteHistory struct {
	TotalVotes int
	Elections  []ElectionVotes
}

type PostVoteStatus struct {
	PostIndex int
	PostTitle string
	Voted     bool
}

type ElectionVoter struct {
	Username  string
	Address   string
	PostIndex int
	VotedAt   time.Time
}

type VoteQueries struct {
	Votes     ports.VoteRepository
	Elections ports.ElectionSource
	Voters    ports.VoterDirectory
	Clock     ports.Clock
}

// MyVotes groups a voter's records by election, newest vote first.
// Records whose election disappeared are skipped.
func (q VoteQueries) MyVotes(ctx context.Context, voterID string) (VoteHistory, error) {
	records, err := q.Votes.ListVotesByVoter(ctx, strings.TrimSpace(voterID))
	if err != nil {
		return VoteHistory{}, err
	}
	now := q.Clock.Now().UTC()
	elections := make(map[string]entities.ElectionView)
	index := make(map[string]int)
	history := VoteHistory{Elections: []ElectionVotes{}}
	for _, record := range records {
		election, ok := elections[record.ElectionID]
		if !ok {
			election, err = q.Elections.CurrentElection(ctx, record.ElectionID)
			if errors.Is(err, domainerrors.ErrElectionNotFound) {
				continue
			}
			if err != nil {
				return VoteHistory{}, err
			}
			elections[record.ElectionID] = election
		}
		position, ok := index[record.ElectionID]
		if !ok {
			position = len(history.Elections)
			index[record.ElectionID] = position
			history.Elections = append(history.Elections, ElectionVotes{
				ElectionID: election.ElectionID,
				Title:      election.Title,
				Status:     election.HistoryStatus(now),
			})
		}
		candidate, _ := election.Candidate(record.PostIndex, record.CandidateIndex)
		history.Elections[position].Votes = append(history.Elections[position].Votes, VoteEntry{
			PostIndex:      record.PostIndex,
			PostTitle:      election.PostTitle(record.PostIndex),
			CandidateIndex: record.CandidateIndex,
			Candidate:      candidate,
			TxID:           record.TxID,
			VotedAt:        record.CreatedAt,
		})
		history.TotalVotes++
	}
	return history, nil
}

// VoteStatus reports, per post, whether the voter already voted.
func (q VoteQueries) VoteStatus(ctx context.Context, voterID string, electionID string) ([]PostVoteStatus, error) {
	election, err := q.Elections.CurrentElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return nil, err
	}
	records, err := q.Votes.ListVotesByVoter(ctx, strings.TrimSpace(voterID))
	if err != nil {
		return nil, err
	}
	voted := make(map[int]bool)
	for _, record := range records {
		if record.ElectionID == election.ElectionID {
			voted[record.PostIndex] = true
		}
	}
	out := make([]PostVoteStatus, 0, len(election.Posts))
	for i, post := range election.Posts {
		out = append(out, PostVoteStatus{PostIndex: i, PostTitle: post.Title, Voted: voted[i]})
	}
	return out, nil
}

// ElectionVoters lists who voted on which post, never what they chose.
func (q VoteQueries) ElectionVoters(ctx context.Context, electionID string) ([]ElectionVoter, error) {
	election, err := q.Elections.RawElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return nil, err
	}
	records, err := q.Votes.ListVotesByElection(ctx, election.ElectionID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		if _, ok := seen[record.VoterID]; ok {
			continue
		}
		seen[record.VoterID] = struct{}{}
		ids = append(ids, record.VoterID)
	}
	profiles := map[string]ports.VoterProfile{}
	if q.Voters != nil && len(ids) > 0 {
		profiles, err = q.Voters.Profiles(ctx, ids)
		if err != nil {
			return nil, err
		}
	}
	out := make([]ElectionVoter, 0, len(records))
	for _, record := range records {
		out = append(out, ElectionVoter{
			Username:  profiles[record.VoterID].Username,
			Address:   record.VoterAddress,
			PostIndex: record.PostIndex,
			VotedAt:   record.CreatedAt,
		})
	}
	return out, nil
}
