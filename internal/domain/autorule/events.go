package autorule

import (
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeRule identifies rule aggregates in events and the outbox
const AggregateTypeRule = "AutoAnalyticalRule"

// Event type constants
const (
	EventTypeRuleConfirmed = "AutoAnalyticalRuleConfirmed"
	EventTypeRuleArchived  = "AutoAnalyticalRuleArchived"
)

// RuleConfirmedEvent is published when a rule is confirmed
type RuleConfirmedEvent struct {
	shared.BaseDomainEvent
	RuleID            uuid.UUID `json:"rule_id"`
	Name              string    `json:"name"`
	AnalyticAccountID uuid.UUID `json:"analytic_account_id"`
	Priority          int       `json:"priority"`
}

// NewRuleConfirmedEvent creates a new RuleConfirmedEvent
func NewRuleConfirmedEvent(r *Rule) *RuleConfirmedEvent {
	return &RuleConfirmedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeRuleConfirmed, AggregateTypeRule, r.ID),
		RuleID:            r.ID,
		Name:              r.Name,
		AnalyticAccountID: r.AnalyticAccountID,
		Priority:          r.Priority,
	}
}

// RuleArchivedEvent is published when a rule is archived
type RuleArchivedEvent struct {
	shared.BaseDomainEvent
	RuleID uuid.UUID `json:"rule_id"`
	Name   string    `json:"name"`
}

// NewRuleArchivedEvent creates a new RuleArchivedEvent
func NewRuleArchivedEvent(r *Rule) *RuleArchivedEvent {
	return &RuleArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRuleArchived, AggregateTypeRule, r.ID),
		RuleID:          r.ID,
		Name:            r.Name,
	}
}
