package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/trade"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create creates an order together with its lines
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an order with optimistic locking. Removed lines are deleted,
// the remaining ones are upserted in the same transaction.
func (r *GormOrderRepository) Update(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", order.ID, order.Version-1).
			Updates(map[string]interface{}{
				"number":       model.Number,
				"kind":         model.Kind,
				"partner_id":   model.PartnerID,
				"order_date":   model.OrderDate,
				"status":       model.Status,
				"total_amount": model.TotalAmount,
				"version":      model.Version,
				"updated_at":   model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return syncOrderLines(tx, order.ID, model.Lines)
	})
}

// FindByID finds an order by its ID, lines included
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
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

// FindByNumber finds an order by its unique number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*trade.Order, error) {
	var model models.OrderModel
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

// FindAll retrieves orders with filtering
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Preload("Lines")
	return findOrders(applyFilter(query, filter, OrderSortFields, "number"))
}

// FindByKind finds all orders of a kind
func (r *GormOrderRepository) FindByKind(ctx context.Context, kind trade.OrderKind, filter shared.Filter) ([]trade.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Preload("Lines").
		Where("kind = ?", kind)
	return findOrders(applyFilter(query, filter, OrderSortFields, "number"))
}

// FindByStatus finds all orders with a specific status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status trade.OrderStatus, filter shared.Filter) ([]trade.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Preload("Lines").
		Where("status = ?", status)
	return findOrders(applyFilter(query, filter, OrderSortFields, "number"))
}

// Delete deletes an order and its lines
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).
			Delete(&models.OrderLineModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.OrderModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// NextSequence returns the next order sequence number for the kind and year
func (r *GormOrderRepository) NextSequence(ctx context.Context, kind trade.OrderKind, year int) (int, error) {
	prefix := fmt.Sprintf("%s/%d/", kind.NumberPrefix(), year)
	return nextSequence(r.db.WithContext(ctx), &models.OrderModel{}, "number", prefix)
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	query = applySearch(query, filter, "number")

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func syncOrderLines(tx *gorm.DB, orderID uuid.UUID, lines []models.OrderLineModel) error {
	currentIDs := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		currentIDs[i] = line.ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", orderID, currentIDs).
			Delete(&models.OrderLineModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", orderID).
			Delete(&models.OrderLineModel{}).Error; err != nil {
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

func findOrders(query *gorm.DB) ([]trade.Order, error) {
	var orderModels []models.OrderModel
	if err := query.Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
