package ledger

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for ledger account persistence
type AccountRepository interface {
	// Create creates a new account
	// Returns an error if an account with the same code already exists
	Create(ctx context.Context, account *Account) error

	// Update updates an existing account
	Update(ctx context.Context, account *Account) error

	// FindByID finds an account by its ID
	// Returns shared.ErrNotFound if not found
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByCode finds an account by its unique code
	// Returns shared.ErrNotFound if not found
	FindByCode(ctx context.Context, code string) (*Account, error)

	// FindAll retrieves all accounts with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Account, error)

	// ExistsByCode checks if an account with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// IsReferenced reports whether any journal line references the account
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)

	// Count counts accounts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// AnalyticAccountRepository defines the interface for analytic account persistence
type AnalyticAccountRepository interface {
	// Create creates a new analytic account
	// Returns an error if an account with the same code already exists
	Create(ctx context.Context, account *AnalyticAccount) error

	// Update updates an existing analytic account
	// Uses optimistic locking via the version field
	Update(ctx context.Context, account *AnalyticAccount) error

	// FindByID finds an analytic account by its ID
	// Returns shared.ErrNotFound if not found
	FindByID(ctx context.Context, id uuid.UUID) (*AnalyticAccount, error)

	// FindByCode finds an analytic account by its unique code
	// Returns shared.ErrNotFound if not found
	FindByCode(ctx context.Context, code string) (*AnalyticAccount, error)

	// FindAll retrieves all analytic accounts with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]AnalyticAccount, error)

	// FindByStatus finds all analytic accounts with a specific status
	FindByStatus(ctx context.Context, status AnalyticAccountStatus, filter shared.Filter) ([]AnalyticAccount, error)

	// FindChildren finds the direct children of an analytic account
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]AnalyticAccount, error)

	// ExistsByCode checks if an analytic account with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Count counts analytic accounts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// AnalyticLineFilter narrows analytic spend queries to a cost center set and
// date window
type AnalyticLineFilter struct {
	AnalyticAccountIDs []uuid.UUID
	DateFrom           time.Time
	DateTo             time.Time
}

// JournalEntryRepository defines the interface for journal entry persistence
type JournalEntryRepository interface {
	// Create creates a new journal entry together with its lines
	Create(ctx context.Context, entry *JournalEntry) error

	// Update updates an existing journal entry
	// Uses optimistic locking via the version field
	Update(ctx context.Context, entry *JournalEntry) error

	// FindByID finds a journal entry by its ID, lines included
	// Returns shared.ErrNotFound if not found
	FindByID(ctx context.Context, id uuid.UUID) (*JournalEntry, error)

	// FindByNumber finds a journal entry by its unique number
	// Returns shared.ErrNotFound if not found
	FindByNumber(ctx context.Context, number string) (*JournalEntry, error)

	// FindAll retrieves journal entries with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]JournalEntry, error)

	// FindByStatus finds all journal entries with a specific status
	FindByStatus(ctx context.Context, status JournalEntryStatus, filter shared.Filter) ([]JournalEntry, error)

	// SumPostedDebits sums the debit amounts of posted lines matching the
	// analytic filter. Used to compute budget actuals.
	SumPostedDebits(ctx context.Context, filter AnalyticLineFilter) (decimal.Decimal, error)

	// NextSequence returns the next entry sequence number for the given year
	NextSequence(ctx context.Context, year int) (int, error)

	// Count counts journal entries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
