package budget

import (
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetType distinguishes income targets from expense ceilings
type BudgetType string

const (
	BudgetTypeIncome  BudgetType = "INCOME"
	BudgetTypeExpense BudgetType = "EXPENSE"
)

// IsValid checks if the type is a valid BudgetType
func (t BudgetType) IsValid() bool {
	return t == BudgetTypeIncome || t == BudgetTypeExpense
}

// String returns the string representation of BudgetType
func (t BudgetType) String() string {
	return string(t)
}

// BudgetStatus represents the status of a budget
type BudgetStatus string

const (
	BudgetStatusDraft     BudgetStatus = "DRAFT"
	BudgetStatusConfirmed BudgetStatus = "CONFIRMED"
	BudgetStatusRevised   BudgetStatus = "REVISED"
	BudgetStatusArchived  BudgetStatus = "ARCHIVED"
)

// IsValid checks if the status is a valid BudgetStatus
func (s BudgetStatus) IsValid() bool {
	switch s {
	case BudgetStatusDraft, BudgetStatusConfirmed, BudgetStatusRevised, BudgetStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of BudgetStatus
func (s BudgetStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The sequence is DRAFT -> CONFIRMED -> REVISED or ARCHIVED; REVISED and
// ARCHIVED are terminal.
func (s BudgetStatus) CanTransitionTo(target BudgetStatus) bool {
	switch s {
	case BudgetStatusDraft:
		return target == BudgetStatusConfirmed
	case BudgetStatusConfirmed:
		return target == BudgetStatusRevised || target == BudgetStatusArchived
	case BudgetStatusRevised, BudgetStatusArchived:
		return false
	}
	return false
}

// Budget is an advisory spending or income plan for one analytic account over
// a date window. Availability checks compare actuals against BudgetedAmount
// but never block document transitions.
type Budget struct {
	shared.AuditedAggregateRoot
	Name              string
	AnalyticAccountID uuid.UUID
	BudgetType        BudgetType
	BudgetedAmount    decimal.Decimal
	StartDate         time.Time
	EndDate           time.Time
	Status            BudgetStatus
	RevisionOfID      *uuid.UUID
}

func validateBudgetFields(name string, analyticAccountID uuid.UUID, budgetType BudgetType, amount decimal.Decimal, startDate, endDate time.Time) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeValidation, "Budget name cannot be empty")
	}
	if analyticAccountID == uuid.Nil {
		return shared.NewDomainError(shared.CodeValidation, "Budget requires an analytic account")
	}
	if !budgetType.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("Invalid budget type: %s", budgetType))
	}
	if amount.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "Budgeted amount cannot be negative")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return shared.NewDomainError(shared.CodeValidation, "Budget period is required")
	}
	if endDate.Before(startDate) {
		return shared.NewDomainError(shared.CodeValidation, "Budget end date cannot be before start date")
	}
	return nil
}

// NewBudget creates a new budget in DRAFT status
func NewBudget(name string, analyticAccountID uuid.UUID, budgetType BudgetType, amount decimal.Decimal, startDate, endDate time.Time) (*Budget, error) {
	if err := validateBudgetFields(name, analyticAccountID, budgetType, amount, startDate, endDate); err != nil {
		return nil, err
	}

	return &Budget{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Name:                 name,
		AnalyticAccountID:    analyticAccountID,
		BudgetType:           budgetType,
		BudgetedAmount:       amount,
		StartDate:            startDate,
		EndDate:              endDate,
		Status:               BudgetStatusDraft,
	}, nil
}

// CanModify returns true if the budget can still be edited
func (b *Budget) CanModify() bool {
	return b.Status == BudgetStatusDraft
}

// IsConfirmed returns true if the budget is confirmed
func (b *Budget) IsConfirmed() bool {
	return b.Status == BudgetStatusConfirmed
}

// Covers reports whether the given date falls inside the budget period,
// bounds included
func (b *Budget) Covers(date time.Time) bool {
	return !date.Before(b.StartDate) && !date.After(b.EndDate)
}

// Update changes the fields of a draft budget
func (b *Budget) Update(name string, analyticAccountID uuid.UUID, budgetType BudgetType, amount decimal.Decimal, startDate, endDate time.Time) error {
	if !b.CanModify() {
		return shared.NewInvalidStateError("update", BudgetStatusDraft.String(), b.Status.String())
	}
	if err := validateBudgetFields(name, analyticAccountID, budgetType, amount, startDate, endDate); err != nil {
		return err
	}

	b.Name = name
	b.AnalyticAccountID = analyticAccountID
	b.BudgetType = budgetType
	b.BudgetedAmount = amount
	b.StartDate = startDate
	b.EndDate = endDate
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// Approve transitions the budget from DRAFT to CONFIRMED
func (b *Budget) Approve() error {
	if !b.Status.CanTransitionTo(BudgetStatusConfirmed) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot approve budget in %s status", b.Status))
	}
	b.Status = BudgetStatusConfirmed
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBudgetApprovedEvent(b))

	return nil
}

// Archive transitions the budget from CONFIRMED to ARCHIVED
func (b *Budget) Archive() error {
	if !b.Status.CanTransitionTo(BudgetStatusArchived) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot archive budget in %s status", b.Status))
	}
	b.Status = BudgetStatusArchived
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBudgetArchivedEvent(b))

	return nil
}

// MarkRevised flips a confirmed budget to REVISED. Callers must create the
// replacing draft in the same transaction; the replacement carries this
// budget's id in RevisionOfID.
func (b *Budget) MarkRevised() error {
	if !b.Status.CanTransitionTo(BudgetStatusRevised) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot revise budget in %s status", b.Status))
	}
	b.Status = BudgetStatusRevised
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBudgetRevisedEvent(b))

	return nil
}

// NewRevision builds the replacing draft for a confirmed budget. The caller
// persists it together with MarkRevised on the source.
func (b *Budget) NewRevision(name string, analyticAccountID uuid.UUID, budgetType BudgetType, amount decimal.Decimal, startDate, endDate time.Time) (*Budget, error) {
	if !b.IsConfirmed() {
		return nil, shared.NewInvalidStateError("revise", BudgetStatusConfirmed.String(), b.Status.String())
	}

	revision, err := NewBudget(name, analyticAccountID, budgetType, amount, startDate, endDate)
	if err != nil {
		return nil, err
	}
	revision.RevisionOfID = &b.ID
	return revision, nil
}
