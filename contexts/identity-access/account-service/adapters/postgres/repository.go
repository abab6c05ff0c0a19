package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ballotbridge/contexts/identity-access/account-service/domain/entities"
	domainerrors "ballotbridge/contexts/identity-access/account-service/domain/errors"
	"ballotbridge/contexts/identity-access/account-service/ports"
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

// Migrate creates the accounts table and its unique indexes.
func (r *Repository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&accountModel{}); err != nil {
		return r.logError("account_repo_migrate_failed", err)
	}
	return nil
}

func (r *Repository) CreateAccount(ctx context.Context, account entities.Account) error {
	row := accountModelFromEntity(account)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return domainerrors.ErrAccountExists
		}
		return r.logError("account_repo_create_failed", err, "account_id", row.ID)
	}
	return nil
}

func (r *Repository) GetAccount(ctx context.Context, accountID string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(accountID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, r.logError("account_repo_get_failed", err, "account_id", strings.TrimSpace(accountID))
	}
	return row.toEntity(), nil
}

func (r *Repository) FindByLogin(ctx context.Context, identifier string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", strings.TrimSpace(identifier), entities.NormalizeEmail(identifier)).
		Order("created_at ASC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, r.logError("account_repo_find_by_login_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) FirstOperator(ctx context.Context) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("role = ?", string(entities.RoleOperator)).
		Order("created_at ASC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrOperatorNotFound
		}
		return entities.Account{}, r.logError("account_repo_first_operator_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCustodialAccounts(ctx context.Context) ([]entities.Account, error) {
	var rows []accountModel
	if err := r.db.WithContext(ctx).
		Where("address <> '' AND encrypted_key <> ''").
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("account_repo_list_custodial_failed", err)
	}
	return toAccountEntities(rows), nil
}

func (r *Repository) ListAccountsByID(ctx context.Context, accountIDs []string) ([]entities.Account, error) {
	if len(accountIDs) == 0 {
		return []entities.Account{}, nil
	}
	var rows []accountModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", accountIDs).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("account_repo_list_by_id_failed", err, "count", len(accountIDs))
	}
	return toAccountEntities(rows), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "identity-access/account-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("account repository operation failed", fields...)
	return err
}

type accountModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex:ux_accounts_username;not null"`
	Email        string    `gorm:"column:email;uniqueIndex:ux_accounts_email;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Address      string    `gorm:"column:address;uniqueIndex:ux_accounts_address;not null"`
	EncryptedKey string    `gorm:"column:encrypted_key;not null"`
	Role         string    `gorm:"column:role;index;not null"`
	Verified     bool      `gorm:"column:verified;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string {
	return "accounts"
}

func accountModelFromEntity(account entities.Account) accountModel {
	row := accountModel{
		ID:           strings.TrimSpace(account.AccountID),
		Username:     strings.TrimSpace(account.Username),
		Email:        entities.NormalizeEmail(account.Email),
		PasswordHash: account.PasswordHash,
		Address:      strings.TrimSpace(account.Address),
		EncryptedKey: account.EncryptedKey,
		Role:         string(account.Role),
		Verified:     account.Verified,
		CreatedAt:    account.CreatedAt.UTC(),
		UpdatedAt:    account.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m accountModel) toEntity() entities.Account {
	return entities.Account{
		AccountID:    m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Address:      m.Address,
		EncryptedKey: m.EncryptedKey,
		Role:         entities.Role(m.Role),
		Verified:     m.Verified,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func toAccountEntities(rows []accountModel) []entities.Account {
	items := make([]entities.Account, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

var _ ports.AccountRepository = (*Repository)(nil)
