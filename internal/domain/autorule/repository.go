package autorule

import (
	"context"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RuleRepository defines the interface for auto-analytical rule persistence
type RuleRepository interface {
	// Create creates a new rule
	Create(ctx context.Context, rule *Rule) error

	// Update updates an existing rule
	// Uses optimistic locking via the version field
	Update(ctx context.Context, rule *Rule) error

	// FindByID finds a rule by its ID
	// Returns shared.ErrNotFound if not found
	FindByID(ctx context.Context, id uuid.UUID) (*Rule, error)

	// FindAll retrieves rules with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Rule, error)

	// FindByStatus finds all rules with a specific status
	FindByStatus(ctx context.Context, status RuleStatus, filter shared.Filter) ([]Rule, error)

	// FindConfirmed retrieves all confirmed rules for selection
	FindConfirmed(ctx context.Context) ([]Rule, error)

	// Delete deletes a draft rule
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts rules matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
