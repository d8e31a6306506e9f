package models

import (
	"time"

	"github.com/finbooks/backend/internal/domain/budget"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetModel is the persistence model for the Budget aggregate root.
type BudgetModel struct {
	AuditedAggregateModel
	Name              string              `gorm:"type:varchar(200);not null"`
	AnalyticAccountID uuid.UUID           `gorm:"type:uuid;not null;index"`
	BudgetType        budget.BudgetType   `gorm:"type:varchar(20);not null;index"`
	BudgetedAmount    decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	StartDate         time.Time           `gorm:"not null;index"`
	EndDate           time.Time           `gorm:"not null;index"`
	Status            budget.BudgetStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	RevisionOfID      *uuid.UUID          `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (BudgetModel) TableName() string {
	return "budgets"
}

// ToDomain converts the persistence model to a domain Budget entity.
func (m *BudgetModel) ToDomain() *budget.Budget {
	return &budget.Budget{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		Name:                 m.Name,
		AnalyticAccountID:    m.AnalyticAccountID,
		BudgetType:           m.BudgetType,
		BudgetedAmount:       m.BudgetedAmount,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		Status:               m.Status,
		RevisionOfID:         m.RevisionOfID,
	}
}

// FromDomain populates the persistence model from a domain Budget entity.
func (m *BudgetModel) FromDomain(b *budget.Budget) {
	m.FromDomainAuditedAggregateRoot(b.AuditedAggregateRoot)
	m.Name = b.Name
	m.AnalyticAccountID = b.AnalyticAccountID
	m.BudgetType = b.BudgetType
	m.BudgetedAmount = b.BudgetedAmount
	m.StartDate = b.StartDate
	m.EndDate = b.EndDate
	m.Status = b.Status
	m.RevisionOfID = b.RevisionOfID
}

// BudgetModelFromDomain creates a new persistence model from a domain Budget.
func BudgetModelFromDomain(b *budget.Budget) *BudgetModel {
	m := &BudgetModel{}
	m.FromDomain(b)
	return m
}
