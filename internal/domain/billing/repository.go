package billing

import (
	"context"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentRepository defines the interface for invoice and bill persistence
type DocumentRepository interface {
	// Create creates a new document together with its lines
	Create(ctx context.Context, doc *Document) error

	// Update updates an existing document
	// Uses optimistic locking via the version field so concurrent post
	// calls serialize: the loser observes a concurrency conflict.
	Update(ctx context.Context, doc *Document) error

	// SaveWithJournalEntry persists the posted document and the journal
	// entry it produced in a single transaction. The document row is
	// updated with an optimistic version check so concurrent post calls
	// serialize; the loser observes a concurrency conflict.
	SaveWithJournalEntry(ctx context.Context, doc *Document, entry *ledger.JournalEntry) error

	// FindByID finds a document by its ID, lines included
	// Returns shared.ErrNotFound if not found
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)

	// FindByNumber finds a document by its unique number
	// Returns shared.ErrNotFound if not found
	FindByNumber(ctx context.Context, number string) (*Document, error)

	// FindAll retrieves documents with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Document, error)

	// FindByKind finds all documents of a kind
	FindByKind(ctx context.Context, kind DocumentKind, filter shared.Filter) ([]Document, error)

	// FindByStatus finds all documents with a specific status
	FindByStatus(ctx context.Context, status DocumentStatus, filter shared.Filter) ([]Document, error)

	// FindByPartner finds all documents for a partner
	FindByPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]Document, error)

	// Delete deletes a draft document and its lines
	Delete(ctx context.Context, id uuid.UUID) error

	// NextSequence returns the next document sequence number for the kind
	// and year
	NextSequence(ctx context.Context, kind DocumentKind, year int) (int, error)

	// Count counts documents matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// Create creates a new payment together with its allocations
	Create(ctx context.Context, payment *Payment) error

	// SaveWithDocument persists the payment, its allocations and the
	// updated document in a single transaction. The document update uses
	// an optimistic version check.
	SaveWithDocument(ctx context.Context, payment *Payment, doc *Document) error

	// FindByID finds a payment by its ID, allocations included
	// Returns shared.ErrNotFound if not found
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindAll retrieves payments with optional filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, error)

	// FindByPartner finds all payments for a partner
	FindByPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]Payment, error)

	// FindAllocationsByDocument finds all allocations settling a document
	FindAllocationsByDocument(ctx context.Context, documentID uuid.UUID) ([]PaymentAllocation, error)

	// Count counts payments matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
