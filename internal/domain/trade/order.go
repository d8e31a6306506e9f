package trade

import (
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderKind distinguishes purchase orders from sales orders. Both share the
// same lifecycle; the kind decides the numbering prefix and whether budget
// warnings are evaluated on confirmation.
type OrderKind string

const (
	OrderKindPurchase OrderKind = "PURCHASE_ORDER"
	OrderKindSales    OrderKind = "SALES_ORDER"
)

// IsValid checks if the kind is a valid OrderKind
func (k OrderKind) IsValid() bool {
	return k == OrderKindPurchase || k == OrderKindSales
}

// String returns the string representation of OrderKind
func (k OrderKind) String() string {
	return string(k)
}

// NumberPrefix returns the sequence prefix for the kind
func (k OrderKind) NumberPrefix() string {
	if k == OrderKindSales {
		return "SO"
	}
	return "PO"
}

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// CANCELLED is reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusCancelled
	case OrderStatusCancelled:
		return false
	}
	return false
}

// OrderLine is a single position on a purchase or sales order
type OrderLine struct {
	shared.BaseEntity
	OrderID           uuid.UUID
	ProductID         *uuid.UUID
	Label             string
	Quantity          decimal.Decimal
	PriceUnit         decimal.Decimal
	Subtotal          decimal.Decimal
	AnalyticAccountID *uuid.UUID
}

// NewOrderLine creates an order line with the subtotal derived from quantity
// and unit price
func NewOrderLine(productID *uuid.UUID, label string, quantity, priceUnit decimal.Decimal, analyticAccountID *uuid.UUID) (*OrderLine, error) {
	if label == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order line label cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order line quantity must be positive")
	}
	if priceUnit.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order line unit price cannot be negative")
	}

	return &OrderLine{
		BaseEntity:        shared.NewBaseEntity(),
		ProductID:         productID,
		Label:             label,
		Quantity:          quantity,
		PriceUnit:         priceUnit,
		Subtotal:          quantity.Mul(priceUnit),
		AnalyticAccountID: analyticAccountID,
	}, nil
}

// Order is a purchase or sales order. Confirmation triggers an advisory
// budget check for purchase orders; no journal entry is ever produced.
type Order struct {
	shared.AuditedAggregateRoot
	Number      string
	Kind        OrderKind
	PartnerID   uuid.UUID
	OrderDate   time.Time
	Status      OrderStatus
	TotalAmount decimal.Decimal
	Lines       []OrderLine
}

// NewOrder creates a draft order with the given lines
func NewOrder(number string, kind OrderKind, partnerID uuid.UUID, orderDate time.Time, lines []OrderLine) (*Order, error) {
	if number == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order number cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("Invalid order kind: %s", kind))
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order requires a partner")
	}
	if orderDate.IsZero() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order date is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order requires at least one line")
	}

	order := &Order{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Number:               number,
		Kind:                 kind,
		PartnerID:            partnerID,
		OrderDate:            orderDate,
		Status:               OrderStatusDraft,
		Lines:                lines,
	}
	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
	}
	order.recomputeTotal()

	return order, nil
}

func (o *Order) recomputeTotal() {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Subtotal)
	}
	o.TotalAmount = total
}

// CanModify returns true if the order can still be edited
func (o *Order) CanModify() bool {
	return o.Status == OrderStatusDraft
}

// UpdateHeader edits the header fields of a draft order
func (o *Order) UpdateHeader(partnerID uuid.UUID, orderDate time.Time) error {
	if !o.CanModify() {
		return shared.NewInvalidStateError("update", OrderStatusDraft.String(), o.Status.String())
	}
	if partnerID == uuid.Nil {
		return shared.NewDomainError(shared.CodeValidation, "Order requires a partner")
	}
	if orderDate.IsZero() {
		return shared.NewDomainError(shared.CodeValidation, "Order date is required")
	}

	o.PartnerID = partnerID
	o.OrderDate = orderDate
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// ReplaceLines swaps the lines of a draft order and recomputes the total
func (o *Order) ReplaceLines(lines []OrderLine) error {
	if !o.CanModify() {
		return shared.NewInvalidStateError("update lines", OrderStatusDraft.String(), o.Status.String())
	}
	if len(lines) == 0 {
		return shared.NewDomainError(shared.CodeValidation, "Order requires at least one line")
	}
	for i := range lines {
		lines[i].OrderID = o.ID
	}
	o.Lines = lines
	o.recomputeTotal()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Confirm transitions the order from DRAFT to CONFIRMED. Budget warnings are
// evaluated by the caller and never block this transition.
func (o *Order) Confirm(clock shared.Clock) error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	o.Status = OrderStatusConfirmed
	o.UpdatedAt = clock.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderConfirmedEvent(o))

	return nil
}

// Cancel transitions the order to CANCELLED from any non-terminal state
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o))

	return nil
}

// AnalyticLines returns the lines carrying an analytic account tag
func (o *Order) AnalyticLines() []OrderLine {
	var tagged []OrderLine
	for _, line := range o.Lines {
		if line.AnalyticAccountID != nil {
			tagged = append(tagged, line)
		}
	}
	return tagged
}
