package billing

import (
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes customer invoices from vendor bills. Both share
// the same lifecycle and payment tracking; the kind decides the journal
// posting direction and the numbering prefix.
type DocumentKind string

const (
	DocumentKindCustomerInvoice DocumentKind = "OUT_INVOICE"
	DocumentKindVendorBill      DocumentKind = "IN_INVOICE"
)

// IsValid checks if the kind is a valid DocumentKind
func (k DocumentKind) IsValid() bool {
	return k == DocumentKindCustomerInvoice || k == DocumentKindVendorBill
}

// String returns the string representation of DocumentKind
func (k DocumentKind) String() string {
	return string(k)
}

// NumberPrefix returns the sequence prefix for the kind
func (k DocumentKind) NumberPrefix() string {
	if k == DocumentKindVendorBill {
		return "BILL"
	}
	return "INV"
}

// DocumentStatus represents the status of an invoice or bill
type DocumentStatus string

const (
	DocumentStatusDraft  DocumentStatus = "DRAFT"
	DocumentStatusPosted DocumentStatus = "POSTED"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	return s == DocumentStatusDraft || s == DocumentStatusPosted
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// PaymentState is derived from allocations, never set by callers
type PaymentState string

const (
	PaymentStateNotPaid PaymentState = "NOT_PAID"
	PaymentStatePartial PaymentState = "PARTIAL"
	PaymentStatePaid    PaymentState = "PAID"
)

// String returns the string representation of PaymentState
func (s PaymentState) String() string {
	return string(s)
}

// DocumentLine is a single product or service position on an invoice or bill
type DocumentLine struct {
	shared.BaseEntity
	DocumentID        uuid.UUID
	ProductID         *uuid.UUID
	Label             string
	Quantity          decimal.Decimal
	PriceUnit         decimal.Decimal
	Subtotal          decimal.Decimal
	AnalyticAccountID *uuid.UUID
}

// NewDocumentLine creates a document line. Subtotal is always derived from
// quantity and unit price, never supplied.
func NewDocumentLine(productID *uuid.UUID, label string, quantity, priceUnit decimal.Decimal, analyticAccountID *uuid.UUID) (*DocumentLine, error) {
	if label == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Document line label cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Document line quantity must be positive")
	}
	if priceUnit.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Document line unit price cannot be negative")
	}

	return &DocumentLine{
		BaseEntity:        shared.NewBaseEntity(),
		ProductID:         productID,
		Label:             label,
		Quantity:          quantity,
		PriceUnit:         priceUnit,
		Subtotal:          quantity.Mul(priceUnit),
		AnalyticAccountID: analyticAccountID,
	}, nil
}

// Document is a customer invoice or vendor bill. It owns its lines; the
// header totals are recomputed from the lines on every replacement. Posting
// freezes the document and links it to the journal entry it produced.
type Document struct {
	shared.AuditedAggregateRoot
	Number         string
	Kind           DocumentKind
	PartnerID      uuid.UUID
	DocumentDate   time.Time
	DueDate        *time.Time
	Status         DocumentStatus
	TotalAmount    decimal.Decimal
	TaxAmount      decimal.Decimal
	PaymentState   PaymentState
	AmountDue      decimal.Decimal
	JournalEntryID *uuid.UUID
	Lines          []DocumentLine
}

// NewDocument creates a draft invoice or bill with the given lines
func NewDocument(number string, kind DocumentKind, partnerID uuid.UUID, documentDate time.Time, dueDate *time.Time, lines []DocumentLine) (*Document, error) {
	if number == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Document number cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("Invalid document kind: %s", kind))
	}
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Document requires a partner")
	}
	if documentDate.IsZero() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Document date is required")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Document requires at least one line")
	}
	if dueDate != nil && dueDate.Before(documentDate) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Document due date cannot be before the document date")
	}

	doc := &Document{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Number:               number,
		Kind:                 kind,
		PartnerID:            partnerID,
		DocumentDate:         documentDate,
		DueDate:              dueDate,
		Status:               DocumentStatusDraft,
		TaxAmount:            decimal.Zero,
		PaymentState:         PaymentStateNotPaid,
		Lines:                lines,
	}
	for i := range doc.Lines {
		doc.Lines[i].DocumentID = doc.ID
	}
	doc.recomputeTotal()

	return doc, nil
}

func (d *Document) recomputeTotal() {
	total := decimal.Zero
	for _, line := range d.Lines {
		total = total.Add(line.Subtotal)
	}
	d.TotalAmount = total
	d.AmountDue = total
}

// CanModify returns true if the document can still be edited
func (d *Document) CanModify() bool {
	return d.Status == DocumentStatusDraft
}

// IsPosted returns true if the document has been posted
func (d *Document) IsPosted() bool {
	return d.Status == DocumentStatusPosted
}

// UpdateHeader edits the header fields of a draft document
func (d *Document) UpdateHeader(partnerID uuid.UUID, documentDate time.Time, dueDate *time.Time) error {
	if !d.CanModify() {
		return shared.NewInvalidStateError("update", DocumentStatusDraft.String(), d.Status.String())
	}
	if partnerID == uuid.Nil {
		return shared.NewDomainError(shared.CodeValidation, "Document requires a partner")
	}
	if documentDate.IsZero() {
		return shared.NewDomainError(shared.CodeValidation, "Document date is required")
	}
	if dueDate != nil && dueDate.Before(documentDate) {
		return shared.NewDomainError(shared.CodeValidation, "Document due date cannot be before the document date")
	}

	d.PartnerID = partnerID
	d.DocumentDate = documentDate
	d.DueDate = dueDate
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// ReplaceLines swaps the lines of a draft document and recomputes totals
func (d *Document) ReplaceLines(lines []DocumentLine) error {
	if !d.CanModify() {
		return shared.NewInvalidStateError("update lines", DocumentStatusDraft.String(), d.Status.String())
	}
	if len(lines) == 0 {
		return shared.NewDomainError(shared.CodeValidation, "Document requires at least one line")
	}
	for i := range lines {
		lines[i].DocumentID = d.ID
	}
	d.Lines = lines
	d.recomputeTotal()
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}

// MarkPosted transitions the document to POSTED and links the journal entry
// produced for it. Posting a posted document returns ErrAlreadyPosted.
func (d *Document) MarkPosted(journalEntryID uuid.UUID, clock shared.Clock) error {
	if d.Status == DocumentStatusPosted {
		return shared.ErrAlreadyPosted
	}
	if journalEntryID == uuid.Nil {
		return shared.NewDomainError(shared.CodeValidation, "Posting requires a journal entry reference")
	}

	d.Status = DocumentStatusPosted
	d.JournalEntryID = &journalEntryID
	d.UpdatedAt = clock.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDocumentPostedEvent(d))

	return nil
}

// ApplyAllocation reduces the amount due and rederives the payment state.
// The state is always recomputed from the amounts, never trusted as input.
func (d *Document) ApplyAllocation(amount decimal.Decimal) error {
	if !d.IsPosted() {
		return shared.NewInvalidStateError("allocate payment", DocumentStatusPosted.String(), d.Status.String())
	}
	if d.PaymentState == PaymentStatePaid {
		return shared.ErrAlreadyPaid
	}
	if !amount.IsPositive() {
		return shared.NewDomainError(shared.CodeValidation, "Allocation amount must be positive")
	}
	if amount.GreaterThan(d.AmountDue) {
		return shared.NewDomainError(shared.CodeValidation,
			fmt.Sprintf("Allocation amount %s exceeds amount due %s", amount.StringFixed(2), d.AmountDue.StringFixed(2)))
	}

	d.AmountDue = decimal.Max(decimal.Zero, d.AmountDue.Sub(amount))
	switch {
	case d.AmountDue.IsZero():
		d.PaymentState = PaymentStatePaid
	case d.AmountDue.LessThan(d.TotalAmount):
		d.PaymentState = PaymentStatePartial
	default:
		d.PaymentState = PaymentStateNotPaid
	}
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	if d.PaymentState == PaymentStatePaid {
		d.AddDomainEvent(NewDocumentPaidEvent(d))
	}

	return nil
}

// AnalyticLines returns the lines carrying an analytic account tag
func (d *Document) AnalyticLines() []DocumentLine {
	var tagged []DocumentLine
	for _, line := range d.Lines {
		if line.AnalyticAccountID != nil {
			tagged = append(tagged, line)
		}
	}
	return tagged
}
