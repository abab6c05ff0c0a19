package entities

import (
	"strings"
	"time"
)

type Role string

const (
	RoleOperator    Role = "operator"
	RoleParticipant Role = "participant"
)

type Account struct {
	AccountID    string
	Username     string
	Email        string
	PasswordHash string
	Address      string
	EncryptedKey string
	Role         Role
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a Account) IsOperator() bool {
	return a.Role == RoleOperator
}

// HasCustodialKey reports whether the account can sign ledger operations.
func (a Account) HasCustodialKey() bool {
	return strings.TrimSpace(a.Address) != "" && strings.TrimSpace(a.EncryptedKey) != ""
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
