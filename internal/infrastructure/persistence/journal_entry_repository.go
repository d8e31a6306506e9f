package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormJournalEntryRepository implements JournalEntryRepository using GORM
type GormJournalEntryRepository struct {
	db *gorm.DB
}

// NewGormJournalEntryRepository creates a new GormJournalEntryRepository
func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

// Create creates a journal entry together with its lines
func (r *GormJournalEntryRepository) Create(ctx context.Context, entry *ledger.JournalEntry) error {
	model := models.JournalEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates a journal entry with optimistic locking. Lines removed from
// the entry are deleted, the remaining ones are upserted in the same
// transaction.
func (r *GormJournalEntryRepository) Update(ctx context.Context, entry *ledger.JournalEntry) error {
	model := models.JournalEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.JournalEntryModel{}).
			Where("id = ? AND version = ?", entry.ID, entry.Version-1).
			Updates(map[string]interface{}{
				"number":     model.Number,
				"reference":  model.Reference,
				"entry_date": model.EntryDate,
				"status":     model.Status,
				"posted_at":  model.PostedAt,
				"version":    model.Version,
				"updated_at": model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return syncJournalLines(tx, entry.ID, model.Lines)
	})
}

// FindByID finds a journal entry by its ID, lines included
func (r *GormJournalEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.JournalEntry, error) {
	var model models.JournalEntryModel
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

// FindByNumber finds a journal entry by its unique number
func (r *GormJournalEntryRepository) FindByNumber(ctx context.Context, number string) (*ledger.JournalEntry, error) {
	var model models.JournalEntryModel
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

// FindAll retrieves journal entries with filtering
func (r *GormJournalEntryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.JournalEntry, error) {
	var entryModels []models.JournalEntryModel
	query := r.db.WithContext(ctx).Model(&models.JournalEntryModel{}).Preload("Lines")
	query = applyFilter(query, filter, JournalEntrySortFields, "number", "reference")

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return journalEntriesToDomain(entryModels), nil
}

// FindByStatus finds all journal entries with a specific status
func (r *GormJournalEntryRepository) FindByStatus(ctx context.Context, status ledger.JournalEntryStatus, filter shared.Filter) ([]ledger.JournalEntry, error) {
	var entryModels []models.JournalEntryModel
	query := r.db.WithContext(ctx).Model(&models.JournalEntryModel{}).
		Preload("Lines").
		Where("status = ?", status)
	query = applyFilter(query, filter, JournalEntrySortFields, "number", "reference")

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	return journalEntriesToDomain(entryModels), nil
}

// SumPostedDebits sums the debit amounts of posted lines matching the
// analytic filter
func (r *GormJournalEntryRepository) SumPostedDebits(ctx context.Context, filter ledger.AnalyticLineFilter) (decimal.Decimal, error) {
	if len(filter.AnalyticAccountIDs) == 0 {
		return decimal.Zero, nil
	}

	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.JournalLineModel{}).
		Select("COALESCE(SUM(journal_lines.debit), 0) as total").
		Joins("JOIN journal_entries ON journal_entries.id = journal_lines.journal_entry_id").
		Where("journal_entries.status = ?", ledger.JournalEntryStatusPosted).
		Where("journal_lines.analytic_account_id IN ?", filter.AnalyticAccountIDs).
		Where("journal_entries.entry_date >= ? AND journal_entries.entry_date <= ?", filter.DateFrom, filter.DateTo).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// NextSequence returns the next entry sequence number for the given year
func (r *GormJournalEntryRepository) NextSequence(ctx context.Context, year int) (int, error) {
	prefix := fmt.Sprintf("JRNL/%d/", year)
	return nextSequence(r.db.WithContext(ctx), &models.JournalEntryModel{}, "number", prefix)
}

// Count counts journal entries matching the filter
func (r *GormJournalEntryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.JournalEntryModel{})
	query = applySearch(query, filter, "number", "reference")

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// syncJournalLines replaces the persisted lines of an entry with the given
// set: rows no longer present are deleted, the rest are upserted
func syncJournalLines(tx *gorm.DB, entryID uuid.UUID, lines []models.JournalLineModel) error {
	currentIDs := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		currentIDs[i] = line.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("journal_entry_id = ? AND id NOT IN ?", entryID, currentIDs).
			Delete(&models.JournalLineModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("journal_entry_id = ?", entryID).
			Delete(&models.JournalLineModel{}).Error; err != nil {
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

func journalEntriesToDomain(entryModels []models.JournalEntryModel) []ledger.JournalEntry {
	entries := make([]ledger.JournalEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries
}

// Ensure GormJournalEntryRepository implements JournalEntryRepository
var _ ledger.JournalEntryRepository = (*GormJournalEntryRepository)(nil)
