package models

import (
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentModel is the persistence model for the Document aggregate root.
// Customer invoices and vendor bills share the table; Kind tells them apart.
type DocumentModel struct {
	AuditedAggregateModel
	Number         string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_documents_number"`
	Kind           billing.DocumentKind   `gorm:"type:varchar(20);not null;index"`
	PartnerID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	DocumentDate   time.Time              `gorm:"not null;index"`
	DueDate        *time.Time             `gorm:"index"`
	Status         billing.DocumentStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	TotalAmount    decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	TaxAmount      decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	PaymentState   billing.PaymentState   `gorm:"type:varchar(20);not null;default:'NOT_PAID';index"`
	AmountDue      decimal.Decimal        `gorm:"type:decimal(18,4);not null;index"`
	JournalEntryID *uuid.UUID             `gorm:"type:uuid;index"`
	Lines          []DocumentLineModel    `gorm:"foreignKey:DocumentID;references:ID"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document entity.
func (m *DocumentModel) ToDomain() *billing.Document {
	doc := &billing.Document{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		Number:               m.Number,
		Kind:                 m.Kind,
		PartnerID:            m.PartnerID,
		DocumentDate:         m.DocumentDate,
		DueDate:              m.DueDate,
		Status:               m.Status,
		TotalAmount:          m.TotalAmount,
		TaxAmount:            m.TaxAmount,
		PaymentState:         m.PaymentState,
		AmountDue:            m.AmountDue,
		JournalEntryID:       m.JournalEntryID,
		Lines:                make([]billing.DocumentLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		doc.Lines[i] = *line.ToDomain()
	}
	return doc
}

// FromDomain populates the persistence model from a domain Document entity.
func (m *DocumentModel) FromDomain(d *billing.Document) {
	m.FromDomainAuditedAggregateRoot(d.AuditedAggregateRoot)
	m.Number = d.Number
	m.Kind = d.Kind
	m.PartnerID = d.PartnerID
	m.DocumentDate = d.DocumentDate
	m.DueDate = d.DueDate
	m.Status = d.Status
	m.TotalAmount = d.TotalAmount
	m.TaxAmount = d.TaxAmount
	m.PaymentState = d.PaymentState
	m.AmountDue = d.AmountDue
	m.JournalEntryID = d.JournalEntryID
	m.Lines = make([]DocumentLineModel, len(d.Lines))
	for i, line := range d.Lines {
		m.Lines[i] = *DocumentLineModelFromDomain(&line)
	}
}

// DocumentModelFromDomain creates a new persistence model from a domain Document.
func DocumentModelFromDomain(d *billing.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}

// DocumentLineModel is the persistence model for DocumentLine.
type DocumentLineModel struct {
	BaseModel
	DocumentID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         *uuid.UUID      `gorm:"type:uuid;index"`
	Label             string          `gorm:"type:varchar(500);not null"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PriceUnit         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AnalyticAccountID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (DocumentLineModel) TableName() string {
	return "document_lines"
}

// ToDomain converts the persistence model to a domain DocumentLine.
func (m *DocumentLineModel) ToDomain() *billing.DocumentLine {
	return &billing.DocumentLine{
		BaseEntity:        m.BaseModel.ToDomain(),
		DocumentID:        m.DocumentID,
		ProductID:         m.ProductID,
		Label:             m.Label,
		Quantity:          m.Quantity,
		PriceUnit:         m.PriceUnit,
		Subtotal:          m.Subtotal,
		AnalyticAccountID: m.AnalyticAccountID,
	}
}

// FromDomain populates the persistence model from a domain DocumentLine.
func (m *DocumentLineModel) FromDomain(l *billing.DocumentLine) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.DocumentID = l.DocumentID
	m.ProductID = l.ProductID
	m.Label = l.Label
	m.Quantity = l.Quantity
	m.PriceUnit = l.PriceUnit
	m.Subtotal = l.Subtotal
	m.AnalyticAccountID = l.AnalyticAccountID
}

// DocumentLineModelFromDomain creates a new persistence model from a domain DocumentLine.
func DocumentLineModelFromDomain(l *billing.DocumentLine) *DocumentLineModel {
	m := &DocumentLineModel{}
	m.FromDomain(l)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate root.
type PaymentModel struct {
	AuditedAggregateModel
	PartnerID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	PaymentDate time.Time                `gorm:"not null;index"`
	Reference   string                   `gorm:"type:varchar(200)"`
	Type        billing.PaymentType      `gorm:"type:varchar(20);not null;index"`
	Status      billing.PaymentStatus    `gorm:"type:varchar(20);not null;default:'CONFIRMED'"`
	Allocations []PaymentAllocationModel `gorm:"foreignKey:PaymentID;references:ID"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *billing.Payment {
	p := &billing.Payment{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		PartnerID:            m.PartnerID,
		Amount:               m.Amount,
		PaymentDate:          m.PaymentDate,
		Reference:            m.Reference,
		Type:                 m.Type,
		Status:               m.Status,
		Allocations:          make([]billing.PaymentAllocation, len(m.Allocations)),
	}
	for i, alloc := range m.Allocations {
		p.Allocations[i] = *alloc.ToDomain()
	}
	return p
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainAuditedAggregateRoot(p.AuditedAggregateRoot)
	m.PartnerID = p.PartnerID
	m.Amount = p.Amount
	m.PaymentDate = p.PaymentDate
	m.Reference = p.Reference
	m.Type = p.Type
	m.Status = p.Status
	m.Allocations = make([]PaymentAllocationModel, len(p.Allocations))
	for i, alloc := range p.Allocations {
		m.Allocations[i] = *PaymentAllocationModelFromDomain(&alloc)
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}

// PaymentAllocationModel is the persistence model for PaymentAllocation.
type PaymentAllocationModel struct {
	BaseModel
	PaymentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	DocumentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PaymentAllocationModel) TableName() string {
	return "payment_allocations"
}

// ToDomain converts the persistence model to a domain PaymentAllocation.
func (m *PaymentAllocationModel) ToDomain() *billing.PaymentAllocation {
	return &billing.PaymentAllocation{
		BaseEntity: m.BaseModel.ToDomain(),
		PaymentID:  m.PaymentID,
		DocumentID: m.DocumentID,
		Amount:     m.Amount,
	}
}

// FromDomain populates the persistence model from a domain PaymentAllocation.
func (m *PaymentAllocationModel) FromDomain(a *billing.PaymentAllocation) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.PaymentID = a.PaymentID
	m.DocumentID = a.DocumentID
	m.Amount = a.Amount
}

// PaymentAllocationModelFromDomain creates a new persistence model from a domain PaymentAllocation.
func PaymentAllocationModelFromDomain(a *billing.PaymentAllocation) *PaymentAllocationModel {
	m := &PaymentAllocationModel{}
	m.FromDomain(a)
	return m
}
