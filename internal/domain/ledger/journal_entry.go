package ledger

import (
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the maximum allowed difference between total debit and
// total credit of an entry. Entries within tolerance are considered balanced.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// JournalEntryStatus represents the status of a journal entry
type JournalEntryStatus string

const (
	JournalEntryStatusDraft  JournalEntryStatus = "DRAFT"
	JournalEntryStatusPosted JournalEntryStatus = "POSTED"
)

// IsValid checks if the status is a valid JournalEntryStatus
func (s JournalEntryStatus) IsValid() bool {
	switch s {
	case JournalEntryStatusDraft, JournalEntryStatusPosted:
		return true
	}
	return false
}

// String returns the string representation of JournalEntryStatus
func (s JournalEntryStatus) String() string {
	return string(s)
}

// UnbalancedEntryError is returned when an entry fails the balance check.
// It carries both totals so callers can report the exact imbalance.
type UnbalancedEntryError struct {
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("journal entry is unbalanced: debit total %s, credit total %s",
		e.DebitTotal.StringFixed(2), e.CreditTotal.StringFixed(2))
}

// JournalLine is a single debit or credit leg of a journal entry. Exactly one
// of Debit and Credit is expected to be non-zero; lines where both are zero
// are allowed but contribute nothing to the balance.
type JournalLine struct {
	shared.BaseEntity
	JournalEntryID    uuid.UUID
	AccountID         uuid.UUID
	PartnerID         *uuid.UUID
	AnalyticAccountID *uuid.UUID
	Label             string
	Debit             decimal.Decimal
	Credit            decimal.Decimal
}

// NewJournalLine creates a journal line for the given account
func NewJournalLine(accountID uuid.UUID, analyticAccountID *uuid.UUID, label string, debit, credit decimal.Decimal) (*JournalLine, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Journal line requires a ledger account")
	}
	if debit.IsNegative() || credit.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Journal line amounts cannot be negative")
	}
	if debit.IsPositive() && credit.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Journal line cannot carry both a debit and a credit")
	}

	return &JournalLine{
		BaseEntity:        shared.NewBaseEntity(),
		AccountID:         accountID,
		AnalyticAccountID: analyticAccountID,
		Label:             label,
		Debit:             debit,
		Credit:            credit,
	}, nil
}

// JournalEntry is a dated set of balanced debit and credit lines. Entries are
// created in DRAFT and become immutable once posted.
type JournalEntry struct {
	shared.AuditedAggregateRoot
	Number    string
	Reference string
	EntryDate time.Time
	Status    JournalEntryStatus
	PostedAt  *time.Time
	Lines     []JournalLine
}

// NewJournalEntry creates a draft journal entry with the given lines. The
// balance invariant is checked on posting, not on creation, so drafts can be
// assembled incrementally.
func NewJournalEntry(number, reference string, entryDate time.Time, lines []JournalLine) (*JournalEntry, error) {
	if number == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Journal entry number cannot be empty")
	}
	if entryDate.IsZero() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Journal entry date is required")
	}

	entry := &JournalEntry{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Number:               number,
		Reference:            reference,
		EntryDate:            entryDate,
		Status:               JournalEntryStatusDraft,
		Lines:                lines,
	}
	for i := range entry.Lines {
		entry.Lines[i].JournalEntryID = entry.ID
	}

	return entry, nil
}

// CanModify returns true if the entry can still be edited
func (e *JournalEntry) CanModify() bool {
	return e.Status == JournalEntryStatusDraft
}

// IsPosted returns true if the entry has been posted
func (e *JournalEntry) IsPosted() bool {
	return e.Status == JournalEntryStatusPosted
}

// ReplaceLines swaps the lines of a draft entry
func (e *JournalEntry) ReplaceLines(lines []JournalLine) error {
	if !e.CanModify() {
		return shared.NewInvalidStateError("update lines", JournalEntryStatusDraft.String(), e.Status.String())
	}
	for i := range lines {
		lines[i].JournalEntryID = e.ID
	}
	e.Lines = lines
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// DebitTotal returns the sum of all debit amounts
func (e *JournalEntry) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Debit)
	}
	return total
}

// CreditTotal returns the sum of all credit amounts
func (e *JournalEntry) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Credit)
	}
	return total
}

// IsBalanced reports whether the debit and credit totals agree within
// BalanceTolerance
func (e *JournalEntry) IsBalanced() bool {
	return e.DebitTotal().Sub(e.CreditTotal()).Abs().LessThanOrEqual(BalanceTolerance)
}

// Post transitions the entry from DRAFT to POSTED, enforcing the balance
// invariant. Posting an already posted entry returns ErrAlreadyPosted so
// retried requests stay idempotent.
func (e *JournalEntry) Post(clock shared.Clock) error {
	if e.Status == JournalEntryStatusPosted {
		return shared.ErrAlreadyPosted
	}
	if len(e.Lines) == 0 {
		return shared.NewDomainError(shared.CodeValidation, "Cannot post a journal entry without lines")
	}
	if !e.IsBalanced() {
		return &UnbalancedEntryError{
			DebitTotal:  e.DebitTotal(),
			CreditTotal: e.CreditTotal(),
		}
	}

	now := clock.Now()
	e.Status = JournalEntryStatusPosted
	e.PostedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewJournalEntryPostedEvent(e))

	return nil
}
