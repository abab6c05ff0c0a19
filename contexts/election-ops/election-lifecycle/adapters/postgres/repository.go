package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ballotbridge/contexts/election-ops/election-lifecycle/domain/entities"
	domainerrors "ballotbridge/contexts/election-ops/election-lifecycle/domain/errors"
	"ballotbridge/contexts/election-ops/election-lifecycle/ports"
	"ballotbridge/internal/platform/db"

	"gorm.io/gorm"
)

// singleActiveIndex backs the one-active-election rule at the storage layer.
// Postgres and SQLite both accept partial unique indexes in this form.
const singleActiveIndex = `CREATE UNIQUE INDEX IF NOT EXISTS ux_elections_single_active ON elections (is_active) WHERE is_active`

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

func (r *Repository) Migrate(ctx context.Context) error {
	tx := r.db.WithContext(ctx)
	if err := tx.AutoMigrate(&electionModel{}); err != nil {
		return r.logError("election_repo_migrate_failed", err)
	}
	if err := tx.Exec(singleActiveIndex).Error; err != nil {
		return r.logError("election_repo_single_active_index_failed", err)
	}
	return nil
}

func (r *Repository) CreateElection(ctx context.Context, election entities.Election) error {
	row, err := electionModelFromEntity(election)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if db.IsUniqueViolation(err) {
			if row.IsActive {
				return domainerrors.ErrAnotherElectionActive
			}
			return domainerrors.ErrTransitionConflict
		}
		return r.logError("election_repo_create_failed", err, "election_id", row.ID)
	}
	return nil
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("election_repo_get_failed", err, "election_id", electionID)
	}
	return row.toEntity()
}

func (r *Repository) ListElections(ctx context.Context, filter ports.ElectionFilter) ([]entities.Election, error) {
	query := r.db.WithContext(ctx).Model(&electionModel{})
	if operatorID := strings.TrimSpace(filter.OperatorID); operatorID != "" {
		query = query.Where("operator_id = ?", operatorID)
	}
	if filter.UnstartedOnly {
		query = query.Where("start_date IS NULL AND closed = ?", false)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []electionModel
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_failed", err)
	}
	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) FindActiveElection(ctx context.Context) (entities.Election, bool, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Limit(1).
		Find(&rows).Error; err != nil {
		return entities.Election{}, false, r.logError("election_repo_find_active_failed", err)
	}
	if len(rows) == 0 {
		return entities.Election{}, false, nil
	}
	election, err := rows[0].toEntity()
	if err != nil {
		return entities.Election{}, false, err
	}
	return election, true, nil
}

func (r *Repository) MarkStarted(ctx context.Context, electionID string, startDate time.Time, endDate time.Time, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("id = ? AND is_active = ? AND closed = ? AND start_date IS NULL", electionID, false, false).
		Updates(map[string]any{
			"is_active":  true,
			"start_date": startDate.UTC(),
			"end_date":   endDate.UTC(),
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		if db.IsUniqueViolation(result.Error) {
			return domainerrors.ErrAnotherElectionActive
		}
		return r.logError("election_repo_mark_started_failed", result.Error, "election_id", electionID)
	}
	return r.requireApplied(ctx, electionID, result.RowsAffected)
}

func (r *Repository) MarkEnded(ctx context.Context, electionID string, endDate *time.Time, updatedAt time.Time) error {
	updates := map[string]any{
		"is_active":  false,
		"updated_at": updatedAt.UTC(),
	}
	if endDate != nil {
		updates["end_date"] = endDate.UTC()
	}
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("id = ? AND is_active = ?", electionID, true).
		Updates(updates)
	if result.Error != nil {
		return r.logError("election_repo_mark_ended_failed", result.Error, "election_id", electionID)
	}
	return r.requireApplied(ctx, electionID, result.RowsAffected)
}

func (r *Repository) MarkClosed(ctx context.Context, electionID string, results []entities.PostResult, updatedAt time.Time) error {
	if results == nil {
		results = []entities.PostResult{}
	}
	payload, err := json.Marshal(resultModelsFromEntities(results))
	if err != nil {
		return fmt.Errorf("encode election results: %w", err)
	}
	result := r.db.WithContext(ctx).
		Model(&electionModel{}).
		Where("id = ? AND is_active = ? AND closed = ? AND start_date IS NOT NULL", electionID, false, false).
		Updates(map[string]any{
			"closed":       true,
			"results_json": string(payload),
			"updated_at":   updatedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("election_repo_mark_closed_failed", result.Error, "election_id", electionID)
	}
	return r.requireApplied(ctx, electionID, result.RowsAffected)
}

// requireApplied turns a zero-row conditional update into NotFound or a
// transition conflict.
func (r *Repository) requireApplied(ctx context.Context, electionID string, rowsAffected int64) error {
	if rowsAffected > 0 {
		return nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&electionModel{}).Where("id = ?", electionID).Count(&count).Error; err != nil {
		return r.logError("election_repo_exists_check_failed", err, "election_id", electionID)
	}
	if count == 0 {
		return domainerrors.ErrElectionNotFound
	}
	return domainerrors.ErrTransitionConflict
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-ops/election-lifecycle",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

type electionModel struct {
	ID            string     `gorm:"column:id;primaryKey"`
	LedgerRef     string     `gorm:"column:ledger_ref;not null"`
	Title         string     `gorm:"column:title;not null"`
	Description   string     `gorm:"column:description;not null"`
	PostsJSON     string     `gorm:"column:posts_json;type:text;not null"`
	IsActive      bool       `gorm:"column:is_active;not null;default:false"`
	StartDate     *time.Time `gorm:"column:start_date"`
	EndDate       *time.Time `gorm:"column:end_date"`
	DurationHours int        `gorm:"column:duration_hours;not null"`
	Closed        bool       `gorm:"column:closed;not null;default:false"`
	ResultsJSON   string     `gorm:"column:results_json;type:text"`
	OperatorID    string     `gorm:"column:operator_id;index;not null"`
	CreatedAt     time.Time  `gorm:"column:created_at;index"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

type postModel struct {
	Title      string           `json:"title"`
	Candidates []candidateModel `json:"candidates"`
}

type candidateModel struct {
	Name     string `json:"name"`
	ImageRef string `json:"image_ref,omitempty"`
}

type postResultModel struct {
	PostIndex  int                    `json:"post_index"`
	Title      string                 `json:"title"`
	Candidates []candidateResultModel `json:"candidates"`
}

type candidateResultModel struct {
	Name  string `json:"name"`
	Votes int64  `json:"votes"`
}

func electionModelFromEntity(election entities.Election) (electionModel, error) {
	posts := make([]postModel, 0, len(election.Posts))
	for _, post := range election.Posts {
		candidates := make([]candidateModel, 0, len(post.Candidates))
		for _, candidate := range post.Candidates {
			candidates = append(candidates, candidateModel{Name: candidate.Name, ImageRef: candidate.ImageRef})
		}
		posts = append(posts, postModel{Title: post.Title, Candidates: candidates})
	}
	postsJSON, err := json.Marshal(posts)
	if err != nil {
		return electionModel{}, fmt.Errorf("encode election posts: %w", err)
	}
	row := electionModel{
		ID:            strings.TrimSpace(election.ElectionID),
		LedgerRef:     election.LedgerRef,
		Title:         election.Title,
		Description:   election.Description,
		PostsJSON:     string(postsJSON),
		IsActive:      election.IsActive,
		StartDate:     utcPtr(election.StartDate),
		EndDate:       utcPtr(election.EndDate),
		DurationHours: election.DurationHours,
		Closed:        election.Closed,
		OperatorID:    election.OperatorID,
		CreatedAt:     election.CreatedAt.UTC(),
		UpdatedAt:     election.UpdatedAt.UTC(),
	}
	if election.Results != nil {
		resultsJSON, err := json.Marshal(resultModelsFromEntities(election.Results))
		if err != nil {
			return electionModel{}, fmt.Errorf("encode election results: %w", err)
		}
		row.ResultsJSON = string(resultsJSON)
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row, nil
}

func (m electionModel) toEntity() (entities.Election, error) {
	var posts []postModel
	if err := json.Unmarshal([]byte(m.PostsJSON), &posts); err != nil {
		return entities.Election{}, fmt.Errorf("decode posts of election %s: %w", m.ID, err)
	}
	election := entities.Election{
		ElectionID:    m.ID,
		LedgerRef:     m.LedgerRef,
		Title:         m.Title,
		Description:   m.Description,
		Posts:         make([]entities.Post, 0, len(posts)),
		IsActive:      m.IsActive,
		StartDate:     utcPtr(m.StartDate),
		EndDate:       utcPtr(m.EndDate),
		DurationHours: m.DurationHours,
		Closed:        m.Closed,
		OperatorID:    m.OperatorID,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
	for _, post := range posts {
		candidates := make([]entities.Candidate, 0, len(post.Candidates))
		for _, candidate := range post.Candidates {
			candidates = append(candidates, entities.Candidate{Name: candidate.Name, ImageRef: candidate.ImageRef})
		}
		election.Posts = append(election.Posts, entities.Post{Title: post.Title, Candidates: candidates})
	}
	if m.ResultsJSON != "" {
		var results []postResultModel
		if err := json.Unmarshal([]byte(m.ResultsJSON), &results); err != nil {
			return entities.Election{}, fmt.Errorf("decode results of election %s: %w", m.ID, err)
		}
		election.Results = make([]entities.PostResult, 0, len(results))
		for _, result := range results {
			candidates := make([]entities.CandidateResult, 0, len(result.Candidates))
			for _, candidate := range result.Candidates {
				candidates = append(candidates, entities.CandidateResult{Name: candidate.Name, Votes: candidate.Votes})
			}
			election.Results = append(election.Results, entities.PostResult{
				PostIndex:  result.PostIndex,
				Title:      result.Title,
				Candidates: candidates,
			})
		}
	}
	return election, nil
}

func resultModelsFromEntities(results []entities.PostResult) []postResultModel {
	out := make([]postResultModel, 0, len(results))
	for _, result := range results {
		candidates := make([]candidateResultModel, 0, len(result.Candidates))
		for _, candidate := range result.Candidates {
			candidates = append(candidates, candidateResultModel{Name: candidate.Name, Votes: candidate.Votes})
		}
		out = append(out, postResultModel{PostIndex: result.PostIndex, Title: result.Title, Candidates: candidates})
	}
	return out
}

func utcPtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}

var _ ports.ElectionRepository = (*Repository)(nil)
