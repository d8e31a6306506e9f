package persistence

import (
	"context"
	"errors"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAnalyticAccountRepository implements AnalyticAccountRepository using GORM
type GormAnalyticAccountRepository struct {
	db *gorm.DB
}

// NewGormAnalyticAccountRepository creates a new GormAnalyticAccountRepository
func NewGormAnalyticAccountRepository(db *gorm.DB) *GormAnalyticAccountRepository {
	return &GormAnalyticAccountRepository{db: db}
}

// Create creates a new analytic account
func (r *GormAnalyticAccountRepository) Create(ctx context.Context, account *ledger.AnalyticAccount) error {
	model := models.AnalyticAccountModelFromDomain(account)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an analytic account with optimistic locking
func (r *GormAnalyticAccountRepository) Update(ctx context.Context, account *ledger.AnalyticAccount) error {
	model := models.AnalyticAccountModelFromDomain(account)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", account.ID, account.Version-1).
		Updates(map[string]interface{}{
			"code":       model.Code,
			"name":       model.Name,
			"parent_id":  model.ParentID,
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds an analytic account by its ID
func (r *GormAnalyticAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.AnalyticAccount, error) {
	var model models.AnalyticAccountModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an analytic account by its unique code
func (r *GormAnalyticAccountRepository) FindByCode(ctx context.Context, code string) (*ledger.AnalyticAccount, error) {
	var model models.AnalyticAccountModel
	if err := r.db.WithContext(ctx).
		First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll retrieves all analytic accounts with filtering
func (r *GormAnalyticAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.AnalyticAccount, error) {
	var accountModels []models.AnalyticAccountModel
	query := r.db.WithContext(ctx).Model(&models.AnalyticAccountModel{})
	query = applyFilter(query, filter, AnalyticAccountSortFields, "code", "name")

	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return analyticAccountsToDomain(accountModels), nil
}

// FindByStatus finds all analytic accounts with a specific status
func (r *GormAnalyticAccountRepository) FindByStatus(ctx context.Context, status ledger.AnalyticAccountStatus, filter shared.Filter) ([]ledger.AnalyticAccount, error) {
	var accountModels []models.AnalyticAccountModel
	query := r.db.WithContext(ctx).Model(&models.AnalyticAccountModel{}).
		Where("status = ?", status)
	query = applyFilter(query, filter, AnalyticAccountSortFields, "code", "name")

	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return analyticAccountsToDomain(accountModels), nil
}

// FindChildren finds the direct children of an analytic account
func (r *GormAnalyticAccountRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]ledger.AnalyticAccount, error) {
	var accountModels []models.AnalyticAccountModel
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("code ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}
	return analyticAccountsToDomain(accountModels), nil
}

// ExistsByCode checks if an analytic account with the given code exists
func (r *GormAnalyticAccountRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AnalyticAccountModel{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count counts analytic accounts matching the filter
func (r *GormAnalyticAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.AnalyticAccountModel{})
	query = applySearch(query, filter, "code", "name")

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func analyticAccountsToDomain(accountModels []models.AnalyticAccountModel) []ledger.AnalyticAccount {
	accounts := make([]ledger.AnalyticAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts
}

// Ensure GormAnalyticAccountRepository implements AnalyticAccountRepository
var _ ledger.AnalyticAccountRepository = (*GormAnalyticAccountRepository)(nil)
