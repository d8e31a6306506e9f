package ledger

import (
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AnalyticAccountStatus represents the status of an analytic account
type AnalyticAccountStatus string

const (
	AnalyticAccountStatusDraft     AnalyticAccountStatus = "DRAFT"
	AnalyticAccountStatusConfirmed AnalyticAccountStatus = "CONFIRMED"
	AnalyticAccountStatusArchived  AnalyticAccountStatus = "ARCHIVED"
)

// IsValid checks if the status is a valid AnalyticAccountStatus
func (s AnalyticAccountStatus) IsValid() bool {
	switch s {
	case AnalyticAccountStatusDraft, AnalyticAccountStatusConfirmed, AnalyticAccountStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of AnalyticAccountStatus
func (s AnalyticAccountStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// The lifecycle is strictly forward: DRAFT -> CONFIRMED -> ARCHIVED.
func (s AnalyticAccountStatus) CanTransitionTo(target AnalyticAccountStatus) bool {
	switch s {
	case AnalyticAccountStatusDraft:
		return target == AnalyticAccountStatusConfirmed
	case AnalyticAccountStatusConfirmed:
		return target == AnalyticAccountStatusArchived
	case AnalyticAccountStatusArchived:
		return false
	}
	return false
}

// AnalyticAccount represents a cost center used to tag spend and income lines
// independent of the ledger account. Analytic accounts form a tree through
// ParentID; cycle prevention happens on reparent via an ancestor walk.
type AnalyticAccount struct {
	shared.AuditedAggregateRoot
	Code     string
	Name     string
	ParentID *uuid.UUID
	Status   AnalyticAccountStatus
}

// NewAnalyticAccount creates a new analytic account in DRAFT status
func NewAnalyticAccount(code, name string, parentID *uuid.UUID) (*AnalyticAccount, error) {
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Analytic account code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Analytic account code cannot exceed 20 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Analytic account name cannot be empty")
	}

	return &AnalyticAccount{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Code:                 code,
		Name:                 name,
		ParentID:             parentID,
		Status:               AnalyticAccountStatusDraft,
	}, nil
}

// CanModify returns true if the account can still be edited
func (a *AnalyticAccount) CanModify() bool {
	return a.Status == AnalyticAccountStatusDraft
}

// Update changes the name of a draft account
func (a *AnalyticAccount) Update(name string) error {
	if !a.CanModify() {
		return shared.NewInvalidStateError("update", AnalyticAccountStatusDraft.String(), a.Status.String())
	}
	if name == "" {
		return shared.NewDomainError(shared.CodeValidation, "Analytic account name cannot be empty")
	}
	a.Name = name
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// SetParent reparents a draft account. The account cannot be its own parent;
// the full ancestor cycle check happens in the application service, which can
// walk the tree.
func (a *AnalyticAccount) SetParent(parentID *uuid.UUID) error {
	if !a.CanModify() {
		return shared.NewInvalidStateError("reparent", AnalyticAccountStatusDraft.String(), a.Status.String())
	}
	if parentID != nil && *parentID == a.ID {
		return shared.NewDomainError(shared.CodeValidation, "Analytic account cannot be its own parent")
	}
	a.ParentID = parentID
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Confirm transitions the account from DRAFT to CONFIRMED
func (a *AnalyticAccount) Confirm() error {
	if !a.Status.CanTransitionTo(AnalyticAccountStatusConfirmed) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot confirm analytic account in %s status", a.Status))
	}
	a.Status = AnalyticAccountStatusConfirmed
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAnalyticAccountConfirmedEvent(a))

	return nil
}

// Archive transitions the account from CONFIRMED to ARCHIVED
func (a *AnalyticAccount) Archive() error {
	if !a.Status.CanTransitionTo(AnalyticAccountStatusArchived) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot archive analytic account in %s status", a.Status))
	}
	a.Status = AnalyticAccountStatusArchived
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAnalyticAccountArchivedEvent(a))

	return nil
}

// IsConfirmed returns true if the account is confirmed
func (a *AnalyticAccount) IsConfirmed() bool {
	return a.Status == AnalyticAccountStatusConfirmed
}

// IsArchived returns true if the account is archived
func (a *AnalyticAccount) IsArchived() bool {
	return a.Status == AnalyticAccountStatusArchived
}
