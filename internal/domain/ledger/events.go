package ledger

import (
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeAccount         = "Account"
	AggregateTypeAnalyticAccount = "AnalyticAccount"
	AggregateTypeJournalEntry    = "JournalEntry"
)

// Event type constants
const (
	EventTypeAnalyticAccountConfirmed = "AnalyticAccountConfirmed"
	EventTypeAnalyticAccountArchived  = "AnalyticAccountArchived"
	EventTypeJournalEntryPosted       = "JournalEntryPosted"
)

// AnalyticAccountConfirmedEvent is published when an analytic account is confirmed
type AnalyticAccountConfirmedEvent struct {
	shared.BaseDomainEvent
	AnalyticAccountID uuid.UUID  `json:"analytic_account_id"`
	Code              string     `json:"code"`
	Name              string     `json:"name"`
	ParentID          *uuid.UUID `json:"parent_id,omitempty"`
}

// NewAnalyticAccountConfirmedEvent creates a new AnalyticAccountConfirmedEvent
func NewAnalyticAccountConfirmedEvent(account *AnalyticAccount) *AnalyticAccountConfirmedEvent {
	return &AnalyticAccountConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeAnalyticAccountConfirmed,
			AggregateTypeAnalyticAccount,
			account.ID,
		),
		AnalyticAccountID: account.ID,
		Code:              account.Code,
		Name:              account.Name,
		ParentID:          account.ParentID,
	}
}

// AnalyticAccountArchivedEvent is published when an analytic account is archived
type AnalyticAccountArchivedEvent struct {
	shared.BaseDomainEvent
	AnalyticAccountID uuid.UUID `json:"analytic_account_id"`
	Code              string    `json:"code"`
}

// NewAnalyticAccountArchivedEvent creates a new AnalyticAccountArchivedEvent
func NewAnalyticAccountArchivedEvent(account *AnalyticAccount) *AnalyticAccountArchivedEvent {
	return &AnalyticAccountArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeAnalyticAccountArchived,
			AggregateTypeAnalyticAccount,
			account.ID,
		),
		AnalyticAccountID: account.ID,
		Code:              account.Code,
	}
}

// JournalEntryPostedEvent is published when a journal entry is posted
type JournalEntryPostedEvent struct {
	shared.BaseDomainEvent
	JournalEntryID uuid.UUID       `json:"journal_entry_id"`
	Number         string          `json:"number"`
	EntryDate      time.Time       `json:"entry_date"`
	DebitTotal     decimal.Decimal `json:"debit_total"`
	CreditTotal    decimal.Decimal `json:"credit_total"`
	LineCount      int             `json:"line_count"`
}

// NewJournalEntryPostedEvent creates a new JournalEntryPostedEvent
func NewJournalEntryPostedEvent(entry *JournalEntry) *JournalEntryPostedEvent {
	return &JournalEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(
			EventTypeJournalEntryPosted,
			AggregateTypeJournalEntry,
			entry.ID,
		),
		JournalEntryID: entry.ID,
		Number:         entry.Number,
		EntryDate:      entry.EntryDate,
		DebitTotal:     entry.DebitTotal(),
		CreditTotal:    entry.CreditTotal(),
		LineCount:      len(entry.Lines),
	}
}
