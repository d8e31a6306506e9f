package trade

import (
	"context"
	"fmt"
	"time"

	appbilling "github.com/finbooks/backend/internal/application/billing"
	"github.com/finbooks/backend/internal/domain/autorule"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService provides application-level purchase and sales order operations
type OrderService struct {
	orderRepo trade.OrderRepository
	checker   appbilling.AvailabilityChecker
	selector  appbilling.AnalyticSelector
	clock     shared.Clock
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	checker appbilling.AvailabilityChecker,
	selector appbilling.AnalyticSelector,
	clock shared.Clock,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		checker:   checker,
		selector:  selector,
		clock:     clock,
		publisher: publisher,
		logger:    logger,
	}
}

// OrderLineRequest represents one position of an order in requests
type OrderLineRequest struct {
	ProductID         *uuid.UUID      `json:"product_id"`
	ProductCategoryID *uuid.UUID      `json:"product_category_id"`
	Label             string          `json:"label" binding:"required,max=500"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required"`
	PriceUnit         decimal.Decimal `json:"price_unit"`
	AnalyticAccountID *uuid.UUID      `json:"analytic_account_id"`
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	Kind          string             `json:"kind" binding:"required,oneof=PURCHASE_ORDER SALES_ORDER"`
	PartnerID     uuid.UUID          `json:"partner_id" binding:"required"`
	PartnerTagIDs []uuid.UUID        `json:"partner_tag_ids"`
	OrderDate     time.Time          `json:"order_date" binding:"required"`
	Lines         []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
	CreatedBy     *uuid.UUID         `json:"-"`
}

// UpdateOrderRequest represents a request to edit a draft order
type UpdateOrderRequest struct {
	PartnerID     uuid.UUID          `json:"partner_id" binding:"required"`
	PartnerTagIDs []uuid.UUID        `json:"partner_tag_ids"`
	OrderDate     time.Time          `json:"order_date" binding:"required"`
	Lines         []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// OrderLineResponse represents one position of an order in API responses
type OrderLineResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         *uuid.UUID      `json:"product_id,omitempty"`
	Label             string          `json:"label"`
	Quantity          decimal.Decimal `json:"quantity"`
	PriceUnit         decimal.Decimal `json:"price_unit"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	AnalyticAccountID *uuid.UUID      `json:"analytic_account_id,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uuid.UUID                  `json:"id"`
	Number      string                     `json:"number"`
	Kind        string                     `json:"kind"`
	PartnerID   uuid.UUID                  `json:"partner_id"`
	OrderDate   time.Time                  `json:"order_date"`
	Status      string                     `json:"status"`
	TotalAmount decimal.Decimal            `json:"total_amount"`
	Lines       []OrderLineResponse        `json:"lines"`
	Warnings    []appbilling.BudgetWarning `json:"warnings,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
	UpdatedAt   time.Time                  `json:"updated_at"`
	Version     int                        `json:"version"`
}

func toOrderResponse(o *trade.Order, warnings []appbilling.BudgetWarning) *OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ID:                line.ID,
			ProductID:         line.ProductID,
			Label:             line.Label,
			Quantity:          line.Quantity,
			PriceUnit:         line.PriceUnit,
			Subtotal:          line.Subtotal,
			AnalyticAccountID: line.AnalyticAccountID,
		})
	}
	return &OrderResponse{
		ID:          o.ID,
		Number:      o.Number,
		Kind:        o.Kind.String(),
		PartnerID:   o.PartnerID,
		OrderDate:   o.OrderDate,
		Status:      o.Status.String(),
		TotalAmount: o.TotalAmount,
		Lines:       lines,
		Warnings:    warnings,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Version:     o.Version,
	}
}

func (s *OrderService) buildLines(ctx context.Context, partnerID uuid.UUID, partnerTagIDs []uuid.UUID, requests []OrderLineRequest) ([]trade.OrderLine, error) {
	lines := make([]trade.OrderLine, 0, len(requests))
	for _, req := range requests {
		analyticID := req.AnalyticAccountID
		if analyticID == nil && s.selector != nil {
			selected, err := s.selector.SelectAnalyticAccount(ctx, autorule.LineContext{
				PartnerTagIDs:     partnerTagIDs,
				PartnerID:         &partnerID,
				ProductCategoryID: req.ProductCategoryID,
				ProductID:         req.ProductID,
			})
			if err != nil {
				return nil, err
			}
			analyticID = selected
		}

		line, err := trade.NewOrderLine(req.ProductID, req.Label, req.Quantity, req.PriceUnit, analyticID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	return lines, nil
}

func (s *OrderService) nextNumber(ctx context.Context, kind trade.OrderKind) (string, error) {
	year := s.clock.Now().Year()
	seq, err := s.orderRepo.NextSequence(ctx, kind, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d/%04d", kind.NumberPrefix(), year, seq), nil
}

// Create creates a draft order with a generated number
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	kind := trade.OrderKind(req.Kind)
	lines, err := s.buildLines(ctx, req.PartnerID, req.PartnerTagIDs, req.Lines)
	if err != nil {
		return nil, err
	}

	number, err := s.nextNumber(ctx, kind)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(number, kind, req.PartnerID, req.OrderDate, lines)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		order.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order, nil), nil
}

// GetByID gets an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, nil), nil
}

// List retrieves orders with pagination
func (s *OrderService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *toOrderResponse(&orders[i], nil))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update edits a draft order's header and lines
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.UpdateHeader(req.PartnerID, req.OrderDate); err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, req.PartnerID, req.PartnerTagIDs, req.Lines)
	if err != nil {
		return nil, err
	}
	if err := order.ReplaceLines(lines); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order, nil), nil
}

// collectBudgetWarnings runs the advisory availability check for the analytic
// lines of a purchase order
func (s *OrderService) collectBudgetWarnings(ctx context.Context, order *trade.Order) []appbilling.BudgetWarning {
	if s.checker == nil {
		return nil
	}
	var warnings []appbilling.BudgetWarning
	for _, line := range order.AnalyticLines() {
		result, err := s.checker.CheckAvailability(ctx, *line.AnalyticAccountID, line.Subtotal, order.OrderDate)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("budget availability check failed",
					zap.String("order", order.Number), zap.Error(err))
			}
			continue
		}
		if !result.Available {
			warnings = append(warnings, appbilling.BudgetWarning{
				AnalyticAccountID: *line.AnalyticAccountID,
				BudgetID:          result.BudgetID,
				Remaining:         result.Remaining,
				Requested:         line.Subtotal,
				Message:           result.Message,
			})
		}
	}
	return warnings
}

// Confirm transitions an order from DRAFT to CONFIRMED. Purchase orders run
// the advisory budget check per analytic line; warnings are returned but the
// transition always proceeds.
func (s *OrderService) Confirm(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Confirm(s.clock); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)

	var warnings []appbilling.BudgetWarning
	if order.Kind == trade.OrderKindPurchase {
		warnings = s.collectBudgetWarnings(ctx, order)
	}
	return toOrderResponse(order, warnings), nil
}

// Cancel transitions an order to CANCELLED
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)
	return toOrderResponse(order, nil), nil
}

// Delete removes a draft order
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !order.CanModify() {
		return shared.NewInvalidStateError("delete", trade.OrderStatusDraft.String(), order.Status.String())
	}
	return s.orderRepo.Delete(ctx, id)
}

func (s *OrderService) publishDomainEvents(ctx context.Context, order *trade.Order) {
	if s.publisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish order events", zap.Error(err))
	}
	order.ClearDomainEvents()
}
