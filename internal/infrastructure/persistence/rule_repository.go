package persistence

import (
	"context"
	"errors"

	"github.com/finbooks/backend/internal/domain/autorule"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRuleRepository implements RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GormRuleRepository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// Create creates a new rule
func (r *GormRuleRepository) Create(ctx context.Context, rule *autorule.Rule) error {
	model := models.RuleModelFromDomain(rule)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates a rule with optimistic locking
func (r *GormRuleRepository) Update(ctx context.Context, rule *autorule.Rule) error {
	model := models.RuleModelFromDomain(rule)
	result := r.db.WithContext(ctx).
		Model(&models.RuleModel{}).
		Where("id = ? AND version = ?", rule.ID, rule.Version-1).
		Updates(map[string]interface{}{
			"name":                model.Name,
			"partner_tag_id":      model.PartnerTagID,
			"partner_id":          model.PartnerID,
			"product_category_id": model.ProductCategoryID,
			"product_id":          model.ProductID,
			"analytic_account_id": model.AnalyticAccountID,
			"priority":            model.Priority,
			"status":              model.Status,
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

// FindByID finds a rule by its ID
func (r *GormRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*autorule.Rule, error) {
	var model models.RuleModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll retrieves rules with filtering
func (r *GormRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]autorule.Rule, error) {
	var ruleModels []models.RuleModel
	query := r.db.WithContext(ctx).Model(&models.RuleModel{})
	query = applyFilter(query, filter, RuleSortFields, "name")

	if err := query.Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	return rulesToDomain(ruleModels), nil
}

// FindByStatus finds all rules with a specific status
func (r *GormRuleRepository) FindByStatus(ctx context.Context, status autorule.RuleStatus, filter shared.Filter) ([]autorule.Rule, error) {
	var ruleModels []models.RuleModel
	query := r.db.WithContext(ctx).Model(&models.RuleModel{}).
		Where("status = ?", status)
	query = applyFilter(query, filter, RuleSortFields, "name")

	if err := query.Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	return rulesToDomain(ruleModels), nil
}

// FindConfirmed retrieves all confirmed rules ordered for selection: the most
// specific first, creation time breaking ties
func (r *GormRuleRepository) FindConfirmed(ctx context.Context) ([]autorule.Rule, error) {
	var ruleModels []models.RuleModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", autorule.RuleStatusConfirmed).
		Order("priority DESC, created_at DESC").
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	return rulesToDomain(ruleModels), nil
}

// Delete deletes a rule
func (r *GormRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RuleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts rules matching the filter
func (r *GormRuleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.RuleModel{})
	query = applySearch(query, filter, "name")

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func rulesToDomain(ruleModels []models.RuleModel) []autorule.Rule {
	rules := make([]autorule.Rule, len(ruleModels))
	for i, model := range ruleModels {
		rules[i] = *model.ToDomain()
	}
	return rules
}

// Ensure GormRuleRepository implements RuleRepository
var _ autorule.RuleRepository = (*GormRuleRepository)(nil)
