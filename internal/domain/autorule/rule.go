package autorule

import (
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RuleStatus represents the status of an auto-analytical rule
type RuleStatus string

const (
	RuleStatusDraft     RuleStatus = "DRAFT"
	RuleStatusConfirmed RuleStatus = "CONFIRMED"
	RuleStatusArchived  RuleStatus = "ARCHIVED"
)

// IsValid checks if the status is a valid RuleStatus
func (s RuleStatus) IsValid() bool {
	switch s {
	case RuleStatusDraft, RuleStatusConfirmed, RuleStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of RuleStatus
func (s RuleStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s RuleStatus) CanTransitionTo(target RuleStatus) bool {
	switch s {
	case RuleStatusDraft:
		return target == RuleStatusConfirmed
	case RuleStatusConfirmed:
		return target == RuleStatusArchived
	case RuleStatusArchived:
		return false
	}
	return false
}

// MatchConditions is the partner and product context a rule matches against.
// Nil fields are wildcards; a rule needs at least one non-nil field.
type MatchConditions struct {
	PartnerTagID      *uuid.UUID
	PartnerID         *uuid.UUID
	ProductCategoryID *uuid.UUID
	ProductID         *uuid.UUID
}

// FieldCount returns the number of set match fields
func (m MatchConditions) FieldCount() int {
	count := 0
	for _, field := range []*uuid.UUID{m.PartnerTagID, m.PartnerID, m.ProductCategoryID, m.ProductID} {
		if field != nil {
			count++
		}
	}
	return count
}

// IsEmpty returns true if no match field is set
func (m MatchConditions) IsEmpty() bool {
	return m.FieldCount() == 0
}

// LineContext is the partner and product information of the transaction line
// being classified
type LineContext struct {
	PartnerTagIDs     []uuid.UUID
	PartnerID         *uuid.UUID
	ProductCategoryID *uuid.UUID
	ProductID         *uuid.UUID
}

// Matches reports whether every set condition field agrees with the context.
// A set PartnerTagID matches when the context carries that tag.
func (m MatchConditions) Matches(ctx LineContext) bool {
	if m.PartnerTagID != nil {
		found := false
		for _, tagID := range ctx.PartnerTagIDs {
			if tagID == *m.PartnerTagID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if m.PartnerID != nil && (ctx.PartnerID == nil || *ctx.PartnerID != *m.PartnerID) {
		return false
	}
	if m.ProductCategoryID != nil && (ctx.ProductCategoryID == nil || *ctx.ProductCategoryID != *m.ProductCategoryID) {
		return false
	}
	if m.ProductID != nil && (ctx.ProductID == nil || *ctx.ProductID != *m.ProductID) {
		return false
	}
	return true
}

// Rule maps a partner/product context to a default analytic account.
// Priority is derived from the conditions and never set directly: rules with
// more fields set are more specific and outrank general ones.
type Rule struct {
	shared.AuditedAggregateRoot
	Name              string
	Conditions        MatchConditions
	AnalyticAccountID uuid.UUID
	Priority          int
	Status            RuleStatus
}

// NewRule creates a new rule in DRAFT status
func NewRule(name string, conditions MatchConditions, analyticAccountID uuid.UUID) (*Rule, error) {
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Rule name cannot be empty")
	}
	if conditions.IsEmpty() {
		return nil, shared.NewDomainError(shared.CodeNoMatchCondition, "Rule requires at least one match condition")
	}
	if analyticAccountID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Rule requires an analytic account")
	}

	return &Rule{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Name:                 name,
		Conditions:           conditions,
		AnalyticAccountID:    analyticAccountID,
		Priority:             conditions.FieldCount(),
		Status:               RuleStatusDraft,
	}, nil
}

// CanModify returns true if the rule can still be edited
func (r *Rule) CanModify() bool {
	return r.Status == RuleStatusDraft
}

// RuleUpdate carries the changed fields of an update. Nil pointers leave the
// current value in place; condition fields use a set flag so a condition can
// be explicitly cleared.
type RuleUpdate struct {
	Name              *string
	AnalyticAccountID *uuid.UUID

	SetPartnerTagID      bool
	PartnerTagID         *uuid.UUID
	SetPartnerID         bool
	PartnerID            *uuid.UUID
	SetProductCategoryID bool
	ProductCategoryID    *uuid.UUID
	SetProductID         bool
	ProductID            *uuid.UUID
}

// Update merges the changes into the rule and recomputes priority. The merge
// fails when it would leave the rule with no match condition.
func (r *Rule) Update(update RuleUpdate) error {
	if !r.CanModify() {
		return shared.NewInvalidStateError("update", RuleStatusDraft.String(), r.Status.String())
	}

	merged := r.Conditions
	if update.SetPartnerTagID {
		merged.PartnerTagID = update.PartnerTagID
	}
	if update.SetPartnerID {
		merged.PartnerID = update.PartnerID
	}
	if update.SetProductCategoryID {
		merged.ProductCategoryID = update.ProductCategoryID
	}
	if update.SetProductID {
		merged.ProductID = update.ProductID
	}
	if merged.IsEmpty() {
		return shared.NewDomainError(shared.CodeNoMatchCondition, "Rule update would leave no match condition")
	}

	if update.Name != nil {
		if *update.Name == "" {
			return shared.NewDomainError(shared.CodeValidation, "Rule name cannot be empty")
		}
		r.Name = *update.Name
	}
	if update.AnalyticAccountID != nil {
		if *update.AnalyticAccountID == uuid.Nil {
			return shared.NewDomainError(shared.CodeValidation, "Rule requires an analytic account")
		}
		r.AnalyticAccountID = *update.AnalyticAccountID
	}

	r.Conditions = merged
	r.Priority = merged.FieldCount()
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Confirm transitions the rule from DRAFT to CONFIRMED
func (r *Rule) Confirm() error {
	if !r.Status.CanTransitionTo(RuleStatusConfirmed) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot confirm rule in %s status", r.Status))
	}
	r.Status = RuleStatusConfirmed
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRuleConfirmedEvent(r))

	return nil
}

// Archive transitions the rule from CONFIRMED to ARCHIVED
func (r *Rule) Archive() error {
	if !r.Status.CanTransitionTo(RuleStatusArchived) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot archive rule in %s status", r.Status))
	}
	r.Status = RuleStatusArchived
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRuleArchivedEvent(r))

	return nil
}

// SelectRule picks the analytic account for a line context from the given
// rules. Only CONFIRMED rules participate; the highest priority wins and ties
// break toward the most recently created rule. Returns nil when nothing
// matches.
func SelectRule(rules []Rule, ctx LineContext) *Rule {
	var best *Rule
	for i := range rules {
		rule := &rules[i]
		if rule.Status != RuleStatusConfirmed {
			continue
		}
		if !rule.Conditions.Matches(ctx) {
			continue
		}
		if best == nil ||
			rule.Priority > best.Priority ||
			(rule.Priority == best.Priority && rule.CreatedAt.After(best.CreatedAt)) {
			best = rule
		}
	}
	return best
}
