package budget

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BudgetRepository defines the interface for budget persistence
type BudgetRepository interface {
	// Create creates a new budget
	Create(ctx context.Context, b *Budget) error

	// Update updates an existing budget
	// Uses optimistic locking via the version field
	Update(ctx context.Context, b *Budget) error

	// CreateRevision persists the revision and the revised source in a
	// single transaction. Either both rows are written or neither is.
	CreateRevision(ctx context.Context, source *Budget, revision *Budget) error

	// FindByID finds a budget by its ID
	// Returns shared.ErrNotFound if not found
	FindByID(ctx context.Context, id uuid.UUID) (*Budget, error)

	// FindAll retrieves budgets with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Budget, error)

	// FindByStatus finds all budgets with a specific status
	FindByStatus(ctx context.Context, status BudgetStatus, filter shared.Filter) ([]Budget, error)

	// FindByAnalyticAccount finds all budgets for an analytic account
	FindByAnalyticAccount(ctx context.Context, analyticAccountID uuid.UUID, filter shared.Filter) ([]Budget, error)

	// FindConfirmedCovering finds the CONFIRMED budget for the analytic
	// account whose period contains the date.
	// Returns shared.ErrNotFound if no confirmed budget covers the date.
	FindConfirmedCovering(ctx context.Context, analyticAccountID uuid.UUID, date time.Time) (*Budget, error)

	// Count counts budgets matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
