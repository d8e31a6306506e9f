package ledger

import (
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
)

// Account represents an entry in the flat chart of accounts.
// It is a posting target for journal lines. Once a posted journal line
// references an account, the account is frozen: the repository layer rejects
// updates to referenced accounts.
type Account struct {
	shared.BaseAggregateRoot
	Code string
	Name string
}

// NewAccount creates a new ledger account
func NewAccount(code, name string) (*Account, error) {
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Account code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Account code cannot exceed 20 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Account name cannot be empty")
	}

	return &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
	}, nil
}

// Rename changes the account name
func (a *Account) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeValidation, "Account name cannot be empty")
	}
	a.Name = name
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}
