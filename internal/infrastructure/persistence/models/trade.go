package models

import (
	"time"

	"github.com/finbooks/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root. Purchase
// and sales orders share the table; Kind tells them apart.
type OrderModel struct {
	AuditedAggregateModel
	Number      string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_orders_number"`
	Kind        trade.OrderKind   `gorm:"type:varchar(20);not null;index"`
	PartnerID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	OrderDate   time.Time         `gorm:"not null;index"`
	Status      trade.OrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	TotalAmount decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Lines       []OrderLineModel  `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		Number:               m.Number,
		Kind:                 m.Kind,
		PartnerID:            m.PartnerID,
		OrderDate:            m.OrderDate,
		Status:               m.Status,
		TotalAmount:          m.TotalAmount,
		Lines:                make([]trade.OrderLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		order.Lines[i] = *line.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainAuditedAggregateRoot(o.AuditedAggregateRoot)
	m.Number = o.Number
	m.Kind = o.Kind
	m.PartnerID = o.PartnerID
	m.OrderDate = o.OrderDate
	m.Status = o.Status
	m.TotalAmount = o.TotalAmount
	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i, line := range o.Lines {
		m.Lines[i] = *OrderLineModelFromDomain(&line)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineModel is the persistence model for OrderLine.
type OrderLineModel struct {
	BaseModel
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         *uuid.UUID      `gorm:"type:uuid;index"`
	Label             string          `gorm:"type:varchar(500);not null"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PriceUnit         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AnalyticAccountID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain OrderLine.
func (m *OrderLineModel) ToDomain() *trade.OrderLine {
	return &trade.OrderLine{
		BaseEntity:        m.BaseModel.ToDomain(),
		OrderID:           m.OrderID,
		ProductID:         m.ProductID,
		Label:             m.Label,
		Quantity:          m.Quantity,
		PriceUnit:         m.PriceUnit,
		Subtotal:          m.Subtotal,
		AnalyticAccountID: m.AnalyticAccountID,
	}
}

// FromDomain populates the persistence model from a domain OrderLine.
func (m *OrderLineModel) FromDomain(l *trade.OrderLine) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.OrderID = l.OrderID
	m.ProductID = l.ProductID
	m.Label = l.Label
	m.Quantity = l.Quantity
	m.PriceUnit = l.PriceUnit
	m.Subtotal = l.Subtotal
	m.AnalyticAccountID = l.AnalyticAccountID
}

// OrderLineModelFromDomain creates a new persistence model from a domain OrderLine.
func OrderLineModelFromDomain(l *trade.OrderLine) *OrderLineModel {
	m := &OrderLineModel{}
	m.FromDomain(l)
	return m
}
