package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// Create creates a document together with its lines
func (r *GormDocumentRepository) Create(ctx context.Context, doc *billing.Document) error {
	model := models.DocumentModelFromDomain(doc)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates a document with optimistic locking. Removed lines are
// deleted, the remaining ones are upserted in the same transaction.
func (r *GormDocumentRepository) Update(ctx context.Context, doc *billing.Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateDocumentWithLock(tx, doc); err != nil {
			return err
		}
		return syncDocumentLines(tx, doc.ID, models.DocumentModelFromDomain(doc).Lines)
	})
}

// SaveWithJournalEntry persists the posted document and the journal entry it
// produced atomically. The document update carries the version check, so of
// two concurrent post calls exactly one writes the entry; the loser sees a
// concurrency conflict and no entry row.
func (r *GormDocumentRepository) SaveWithJournalEntry(ctx context.Context, doc *billing.Document, entry *ledger.JournalEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateDocumentWithLock(tx, doc); err != nil {
			return err
		}
		return tx.Create(models.JournalEntryModelFromDomain(entry)).Error
	})
}

// FindByID finds a document by its ID, lines included
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a document by its unique number
func (r *GormDocumentRepository) FindByNumber(ctx context.Context, number string) (*billing.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&model, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll retrieves documents with filtering
func (r *GormDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Document, error) {
	query := r.db.WithContext(ctx).Model(&models.DocumentModel{}).Preload("Lines")
	return findDocuments(applyFilter(query, filter, DocumentSortFields, "number"))
}

// FindByKind finds all documents of a kind
func (r *GormDocumentRepository) FindByKind(ctx context.Context, kind billing.DocumentKind, filter shared.Filter) ([]billing.Document, error) {
	query := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Preload("Lines").
		Where("kind = ?", kind)
	return findDocuments(applyFilter(query, filter, DocumentSortFields, "number"))
}

// FindByStatus finds all documents with a specific status
func (r *GormDocumentRepository) FindByStatus(ctx context.Context, status billing.DocumentStatus, filter shared.Filter) ([]billing.Document, error) {
	query := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Preload("Lines").
		Where("status = ?", status)
	return findDocuments(applyFilter(query, filter, DocumentSortFields, "number"))
}

// FindByPartner finds all documents for a partner
func (r *GormDocumentRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]billing.Document, error) {
	query := r.db.WithContext(ctx).Model(&models.DocumentModel{}).
		Preload("Lines").
		Where("partner_id = ?", partnerID)
	return findDocuments(applyFilter(query, filter, DocumentSortFields, "number"))
}

// Delete deletes a document and its lines
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).
			Delete(&models.DocumentLineModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.DocumentModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// NextSequence returns the next document sequence number for the kind and year
func (r *GormDocumentRepository) NextSequence(ctx context.Context, kind billing.DocumentKind, year int) (int, error) {
	prefix := fmt.Sprintf("%s/%d/", kind.NumberPrefix(), year)
	return nextSequence(r.db.WithContext(ctx), &models.DocumentModel{}, "number", prefix)
}

// Count counts documents matching the filter
func (r *GormDocumentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DocumentModel{})
	query = applySearch(query, filter, "number")

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func updateDocumentWithLock(tx *gorm.DB, doc *billing.Document) error {
	model := models.DocumentModelFromDomain(doc)
	result := tx.Model(&models.DocumentModel{}).
		Where("id = ? AND version = ?", doc.ID, doc.Version-1).
		Updates(map[string]interface{}{
			"number":           model.Number,
			"kind":             model.Kind,
			"partner_id":       model.PartnerID,
			"document_date":    model.DocumentDate,
			"due_date":         model.DueDate,
			"status":           model.Status,
			"total_amount":     model.TotalAmount,
			"tax_amount":       model.TaxAmount,
			"payment_state":    model.PaymentState,
			"amount_due":       model.AmountDue,
			"journal_entry_id": model.JournalEntryID,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func syncDocumentLines(tx *gorm.DB, documentID uuid.UUID, lines []models.DocumentLineModel) error {
	currentIDs := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		currentIDs[i] = line.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("document_id = ? AND id NOT IN ?", documentID, currentIDs).
			Delete(&models.DocumentLineModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("document_id = ?", documentID).
			Delete(&models.DocumentLineModel{}).Error; err != nil {
			return err
		}
	}

	for i := range lines {
		if err := tx.Save(&lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func findDocuments(query *gorm.DB) ([]billing.Document, error) {
	var documentModels []models.DocumentModel
	if err := query.Find(&documentModels).Error; err != nil {
		return nil, err
	}
	documents := make([]billing.Document, len(documentModels))
	for i, model := range documentModels {
		documents[i] = *model.ToDomain()
	}
	return documents, nil
}

// Ensure GormDocumentRepository implements DocumentRepository
var _ billing.DocumentRepository = (*GormDocumentRepository)(nil)
