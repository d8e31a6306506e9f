package billing

import (
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeDocument = "Document"
	AggregateTypePayment  = "Payment"
)

// Event type constants
const (
	EventTypeDocumentPosted    = "DocumentPosted"
	EventTypeDocumentPaid      = "DocumentPaid"
	EventTypePaymentRegistered = "PaymentRegistered"
)

// DocumentPostedEvent is published when an invoice or bill is posted
type DocumentPostedEvent struct {
	shared.BaseDomainEvent
	DocumentID     uuid.UUID       `json:"document_id"`
	Number         string          `json:"number"`
	Kind           DocumentKind    `json:"kind"`
	PartnerID      uuid.UUID       `json:"partner_id"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	JournalEntryID *uuid.UUID      `json:"journal_entry_id,omitempty"`
}

// NewDocumentPostedEvent creates a new DocumentPostedEvent
func NewDocumentPostedEvent(d *Document) *DocumentPostedEvent {
	return &DocumentPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentPosted, AggregateTypeDocument, d.ID),
		DocumentID:      d.ID,
		Number:          d.Number,
		Kind:            d.Kind,
		PartnerID:       d.PartnerID,
		TotalAmount:     d.TotalAmount,
		JournalEntryID:  d.JournalEntryID,
	}
}

// DocumentPaidEvent is published when a document's amount due reaches zero
type DocumentPaidEvent struct {
	shared.BaseDomainEvent
	DocumentID  uuid.UUID       `json:"document_id"`
	Number      string          `json:"number"`
	Kind        DocumentKind    `json:"kind"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewDocumentPaidEvent creates a new DocumentPaidEvent
func NewDocumentPaidEvent(d *Document) *DocumentPaidEvent {
	return &DocumentPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentPaid, AggregateTypeDocument, d.ID),
		DocumentID:      d.ID,
		Number:          d.Number,
		Kind:            d.Kind,
		TotalAmount:     d.TotalAmount,
	}
}

// PaymentRegisteredEvent is published when a payment is registered against a
// document
type PaymentRegisteredEvent struct {
	shared.BaseDomainEvent
	PaymentID   uuid.UUID       `json:"payment_id"`
	DocumentID  uuid.UUID       `json:"document_id"`
	PartnerID   uuid.UUID       `json:"partner_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        PaymentType     `json:"type"`
	PaymentDate time.Time       `json:"payment_date"`
}

// NewPaymentRegisteredEvent creates a new PaymentRegisteredEvent
func NewPaymentRegisteredEvent(p *Payment, documentID uuid.UUID, amount decimal.Decimal) *PaymentRegisteredEvent {
	return &PaymentRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRegistered, AggregateTypePayment, p.ID),
		PaymentID:       p.ID,
		DocumentID:      documentID,
		PartnerID:       p.PartnerID,
		Amount:          amount,
		Type:            p.Type,
		PaymentDate:     p.PaymentDate,
	}
}
