package budget

import (
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeBudget identifies budget aggregates in events and the outbox
const AggregateTypeBudget = "Budget"

// Event type constants
const (
	EventTypeBudgetApproved = "BudgetApproved"
	EventTypeBudgetRevised  = "BudgetRevised"
	EventTypeBudgetArchived = "BudgetArchived"
)

// BudgetApprovedEvent is published when a budget is approved
type BudgetApprovedEvent struct {
	shared.BaseDomainEvent
	BudgetID          uuid.UUID       `json:"budget_id"`
	Name              string          `json:"name"`
	AnalyticAccountID uuid.UUID       `json:"analytic_account_id"`
	BudgetType        BudgetType      `json:"budget_type"`
	BudgetedAmount    decimal.Decimal `json:"budgeted_amount"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
}

// NewBudgetApprovedEvent creates a new BudgetApprovedEvent
func NewBudgetApprovedEvent(b *Budget) *BudgetApprovedEvent {
	return &BudgetApprovedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeBudgetApproved, AggregateTypeBudget, b.ID),
		BudgetID:          b.ID,
		Name:              b.Name,
		AnalyticAccountID: b.AnalyticAccountID,
		BudgetType:        b.BudgetType,
		BudgetedAmount:    b.BudgetedAmount,
		StartDate:         b.StartDate,
		EndDate:           b.EndDate,
	}
}

// BudgetRevisedEvent is published when a confirmed budget is superseded by a
// new draft revision
type BudgetRevisedEvent struct {
	shared.BaseDomainEvent
	BudgetID uuid.UUID `json:"budget_id"`
	Name     string    `json:"name"`
}

// NewBudgetRevisedEvent creates a new BudgetRevisedEvent
func NewBudgetRevisedEvent(b *Budget) *BudgetRevisedEvent {
	return &BudgetRevisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetRevised, AggregateTypeBudget, b.ID),
		BudgetID:        b.ID,
		Name:            b.Name,
	}
}

// BudgetArchivedEvent is published when a budget is archived
type BudgetArchivedEvent struct {
	shared.BaseDomainEvent
	BudgetID uuid.UUID `json:"budget_id"`
	Name     string    `json:"name"`
}

// NewBudgetArchivedEvent creates a new BudgetArchivedEvent
func NewBudgetArchivedEvent(b *Budget) *BudgetArchivedEvent {
	return &BudgetArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBudgetArchived, AggregateTypeBudget, b.ID),
		BudgetID:        b.ID,
		Name:            b.Name,
	}
}
