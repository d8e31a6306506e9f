package trade

import (
	"context"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create creates a new order together with its lines
	Create(ctx context.Context, order *Order) error

	// Update updates an existing order
	// Uses optimistic locking via the version field
	Update(ctx context.Context, order *Order) error

	// FindByID finds an order by its ID, lines included
	// Returns shared.ErrNotFound if not found
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its unique number
	// Returns shared.ErrNotFound if not found
	FindByNumber(ctx context.Context, number string) (*Order, error)

	// FindAll retrieves orders with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// FindByKind finds all orders of a kind
	FindByKind(ctx context.Context, kind OrderKind, filter shared.Filter) ([]Order, error)

	// FindByStatus finds all orders with a specific status
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)

	// Delete deletes a draft order and its lines
	Delete(ctx context.Context, id uuid.UUID) error

	// NextSequence returns the next order sequence number for the kind and
	// year
	NextSequence(ctx context.Context, kind OrderKind, year int) (int, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
