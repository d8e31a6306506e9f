package event

import (
	"testing"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAllEvents(t *testing.T) {
	serializer := NewEventSerializer()

	RegisterAllEvents(serializer)

	for _, eventType := range []string{
		ledger.EventTypeAnalyticAccountConfirmed,
		ledger.EventTypeAnalyticAccountArchived,
		ledger.EventTypeJournalEntryPosted,
		"BudgetApproved",
		"BudgetRevised",
		"BudgetArchived",
		"AutoAnalyticalRuleConfirmed",
		"AutoAnalyticalRuleArchived",
		billing.EventTypeDocumentPosted,
		billing.EventTypeDocumentPaid,
		billing.EventTypePaymentRegistered,
		"OrderConfirmed",
		"OrderCancelled",
	} {
		assert.True(t, serializer.IsRegistered(eventType), "expected %s to be registered", eventType)
	}
}

func TestRegisterAllEvents_RoundTrip(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	original := &ledger.JournalEntryPostedEvent{
		BaseDomainEvent: newTestEvent(ledger.EventTypeJournalEntryPosted).BaseDomainEvent,
		Number:          "JRNL/2026/0001",
		LineCount:       2,
	}

	data, err := serializer.Serialize(original)
	require.NoError(t, err)

	deserialized, err := serializer.Deserialize(ledger.EventTypeJournalEntryPosted, data)
	require.NoError(t, err)

	event, ok := deserialized.(*ledger.JournalEntryPostedEvent)
	require.True(t, ok)
	assert.Equal(t, original.Number, event.Number)
	assert.Equal(t, original.LineCount, event.LineCount)
}
