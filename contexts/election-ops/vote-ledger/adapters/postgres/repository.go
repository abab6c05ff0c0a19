package postgresadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ballotbridge/contexts/election-ops/vote-ledger/domain/entities"
	domainerrors "ballotbridge/contexts/election-ops/vote-ledger/domain/errors"
	"ballotbridge/contexts/election-ops/vote-ledger/ports"
	"ballotbridge/internal/platform/db"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates vote_records with the (voter, election, post) unique
// index that rejects racing duplicate votes.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&voteModel{}); err != nil {
		return r.logError("vote_repo_migrate_failed", err)
	}
	return nil
}

func (r *Repository) SaveVote(ctx context.Context, vote entities.VoteRecord) error {
	row := voteModelFromEntity(vote)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return r.logError("vote_repo_save_failed", err, "election_id", row.ElectionID, "voter_id", row.VoterID)
	}
	return nil
}

func (r *Repository) HasVote(ctx context.Context, voterID string, electionID string, postIndex int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Where("voter_id = ? AND election_id = ? AND post_index = ?", strings.TrimSpace(voterID), strings.TrimSpace(electionID), postIndex).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("vote_repo_has_vote_failed", err, "election_id", electionID, "voter_id", voterID)
	}
	return count > 0, nil
}

func (r *Repository) CountVotes(ctx context.Context, voterID string, electionID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Where("voter_id = ? AND election_id = ?", voterID, electionID).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("vote_repo_count_failed", err, "election_id", electionID, "voter_id", voterID)
	}
	return int(count), nil
}

func (r *Repository) ListVotesByVoter(ctx context.Context, voterID string) ([]entities.VoteRecord, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("voter_id = ?", voterID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("vote_repo_list_by_voter_failed", err, "voter_id", voterID)
	}
	return toVoteEntities(rows), nil
}

func (r *Repository) ListVotesByElection(ctx context.Context, electionID string) ([]entities.VoteRecord, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", electionID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("vote_repo_list_by_election_failed", err, "election_id", electionID)
	}
	return toVoteEntities(rows), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-ops/vote-ledger",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("vote repository operation failed", fields...)
	return err
}

type voteModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	VoterID        string    `gorm:"column:voter_id;not null;uniqueIndex:ux_vote_records_voter_election_post,priority:1"`
	ElectionID     string    `gorm:"column:election_id;not null;index;uniqueIndex:ux_vote_records_voter_election_post,priority:2"`
	PostIndex      int       `gorm:"column:post_index;not null;uniqueIndex:ux_vote_records_voter_election_post,priority:3"`
	CandidateIndex int       `gorm:"column:candidate_index;not null"`
	TxID           string    `gorm:"column:tx_id;not null"`
	VoterAddress   string    `gorm:"column:voter_address;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;index"`
}

func (voteModel) TableName() string {
	return "vote_records"
}

func voteModelFromEntity(vote entities.VoteRecord) voteModel {
	row := voteModel{
		ID:             strings.TrimSpace(vote.VoteID),
		VoterID:        strings.TrimSpace(vote.VoterID),
		ElectionID:     strings.TrimSpace(vote.ElectionID),
		PostIndex:      vote.PostIndex,
		CandidateIndex: vote.CandidateIndex,
		TxID:           vote.TxID,
		VoterAddress:   vote.VoterAddress,
		CreatedAt:      vote.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m voteModel) toEntity() entities.VoteRecord {
	return entities.VoteRecord{
		VoteID:         m.ID,
		VoterID:        m.VoterID,
		ElectionID:     m.ElectionID,
		PostIndex:      m.PostIndex,
		CandidateIndex: m.CandidateIndex,
		TxID:           m.TxID,
		VoterAddress:   m.VoterAddress,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

func toVoteEntities(rows []voteModel) []entities.VoteRecord {
	items := make([]entities.VoteRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

var _ ports.VoteRepository = (*Repository)(nil)
