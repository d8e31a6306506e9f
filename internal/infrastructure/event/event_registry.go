package event

import (
	"github.com/finbooks/backend/internal/domain/autorule"
	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/budget"
	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/trade"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// Ledger domain events
	serializer.Register(ledger.EventTypeAnalyticAccountConfirmed, &ledger.AnalyticAccountConfirmedEvent{})
	serializer.Register(ledger.EventTypeAnalyticAccountArchived, &ledger.AnalyticAccountArchivedEvent{})
	serializer.Register(ledger.EventTypeJournalEntryPosted, &ledger.JournalEntryPostedEvent{})

	// Budget domain events
	serializer.Register(budget.EventTypeBudgetApproved, &budget.BudgetApprovedEvent{})
	serializer.Register(budget.EventTypeBudgetRevised, &budget.BudgetRevisedEvent{})
	serializer.Register(budget.EventTypeBudgetArchived, &budget.BudgetArchivedEvent{})

	// Auto-analytical rule events
	serializer.Register(autorule.EventTypeRuleConfirmed, &autorule.RuleConfirmedEvent{})
	serializer.Register(autorule.EventTypeRuleArchived, &autorule.RuleArchivedEvent{})

	// Billing domain events
	serializer.Register(billing.EventTypeDocumentPosted, &billing.DocumentPostedEvent{})
	serializer.Register(billing.EventTypeDocumentPaid, &billing.DocumentPaidEvent{})
	serializer.Register(billing.EventTypePaymentRegistered, &billing.PaymentRegisteredEvent{})

	// Trade domain events
	serializer.Register(trade.EventTypeOrderConfirmed, &trade.OrderConfirmedEvent{})
	serializer.Register(trade.EventTypeOrderCancelled, &trade.OrderCancelledEvent{})
}
