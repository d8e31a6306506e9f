package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/finbooks/backend/internal/domain/budget"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBudgetRepository implements BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// Create creates a new budget
func (r *GormBudgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	model := models.BudgetModelFromDomain(b)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates a budget with optimistic locking
func (r *GormBudgetRepository) Update(ctx context.Context, b *budget.Budget) error {
	return updateBudgetWithLock(r.db.WithContext(ctx), b)
}

// CreateRevision persists the revision and the revised source atomically.
// The source row carries a version check so a concurrent revision of the same
// budget loses with a conflict instead of producing two replacements.
func (r *GormBudgetRepository) CreateRevision(ctx context.Context, source *budget.Budget, revision *budget.Budget) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateBudgetWithLock(tx, source); err != nil {
			return err
		}
		return tx.Create(models.BudgetModelFromDomain(revision)).Error
	})
}

// FindByID finds a budget by its ID
func (r *GormBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	var model models.BudgetModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll retrieves budgets with filtering
func (r *GormBudgetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]budget.Budget, error) {
	var budgetModels []models.BudgetModel
	query := r.db.WithContext(ctx).Model(&models.BudgetModel{})
	query = applyFilter(query, filter, BudgetSortFields, "name")

	if err := query.Find(&budgetModels).Error; err != nil {
		return nil, err
	}
	return budgetsToDomain(budgetModels), nil
}

// FindByStatus finds all budgets with a specific status
func (r *GormBudgetRepository) FindByStatus(ctx context.Context, status budget.BudgetStatus, filter shared.Filter) ([]budget.Budget, error) {
	var budgetModels []models.BudgetModel
	query := r.db.WithContext(ctx).Model(&models.BudgetModel{}).
		Where("status = ?", status)
	query = applyFilter(query, filter, BudgetSortFields, "name")

	if err := query.Find(&budgetModels).Error; err != nil {
		return nil, err
	}
	return budgetsToDomain(budgetModels), nil
}

// FindByAnalyticAccount finds all budgets for an analytic account
func (r *GormBudgetRepository) FindByAnalyticAccount(ctx context.Context, analyticAccountID uuid.UUID, filter shared.Filter) ([]budget.Budget, error) {
	var budgetModels []models.BudgetModel
	query := r.db.WithContext(ctx).Model(&models.BudgetModel{}).
		Where("analytic_account_id = ?", analyticAccountID)
	query = applyFilter(query, filter, BudgetSortFields, "name")

	if err := query.Find(&budgetModels).Error; err != nil {
		return nil, err
	}
	return budgetsToDomain(budgetModels), nil
}

// FindConfirmedCovering finds the CONFIRMED budget for the analytic account
// whose period contains the date. Non-overlap of confirmed periods per
// analytic account is a caller convention, so at most one row qualifies; the
// newest one wins if the convention was broken.
func (r *GormBudgetRepository) FindConfirmedCovering(ctx context.Context, analyticAccountID uuid.UUID, date time.Time) (*budget.Budget, error) {
	var model models.BudgetModel
	if err := r.db.WithContext(ctx).
		Where("analytic_account_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			analyticAccountID, budget.BudgetStatusConfirmed, date, date).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Count counts budgets matching the filter
func (r *GormBudgetRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.BudgetModel{})
	query = applySearch(query, filter, "name")

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func updateBudgetWithLock(tx *gorm.DB, b *budget.Budget) error {
	model := models.BudgetModelFromDomain(b)
	result := tx.Model(&models.BudgetModel{}).
		Where("id = ? AND version = ?", b.ID, b.Version-1).
		Updates(map[string]interface{}{
			"name":                model.Name,
			"analytic_account_id": model.AnalyticAccountID,
			"budget_type":         model.BudgetType,
			"budgeted_amount":     model.BudgetedAmount,
			"start_date":          model.StartDate,
			"end_date":            model.EndDate,
			"status":              model.Status,
			"revision_of_id":      model.RevisionOfID,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func budgetsToDomain(budgetModels []models.BudgetModel) []budget.Budget {
	budgets := make([]budget.Budget, len(budgetModels))
	for i, model := range budgetModels {
		budgets[i] = *model.ToDomain()
	}
	return budgets
}

// Ensure GormBudgetRepository implements BudgetRepository
var _ budget.BudgetRepository = (*GormBudgetRepository)(nil)
