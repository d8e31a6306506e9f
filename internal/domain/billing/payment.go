package billing

import (
	"time"

	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType gives the money direction: INBOUND for customer receipts,
// OUTBOUND for vendor payments
type PaymentType string

const (
	PaymentTypeInbound  PaymentType = "INBOUND"
	PaymentTypeOutbound PaymentType = "OUTBOUND"
)

// IsValid checks if the type is a valid PaymentType
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeInbound || t == PaymentTypeOutbound
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// PaymentTypeForKind returns the payment direction matching a document kind
func PaymentTypeForKind(kind DocumentKind) PaymentType {
	if kind == DocumentKindVendorBill {
		return PaymentTypeOutbound
	}
	return PaymentTypeInbound
}

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
)

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentAllocation links a payment to the document it settles. One payment
// may settle several documents and one document may be settled by several
// payments.
type PaymentAllocation struct {
	shared.BaseEntity
	PaymentID  uuid.UUID
	DocumentID uuid.UUID
	Amount     decimal.Decimal
}

// Payment is money received or paid, settled against documents through
// allocations
type Payment struct {
	shared.AuditedAggregateRoot
	PartnerID   uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Reference   string
	Type        PaymentType
	Status      PaymentStatus
	Allocations []PaymentAllocation
}

// NewPayment creates a confirmed payment
func NewPayment(partnerID uuid.UUID, amount decimal.Decimal, paymentDate time.Time, reference string, paymentType PaymentType) (*Payment, error) {
	if partnerID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Payment requires a partner")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Payment amount must be positive")
	}
	if paymentDate.IsZero() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Payment date is required")
	}
	if !paymentType.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Invalid payment type")
	}

	return &Payment{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		PartnerID:            partnerID,
		Amount:               amount,
		PaymentDate:          paymentDate,
		Reference:            reference,
		Type:                 paymentType,
		Status:               PaymentStatusConfirmed,
	}, nil
}

// Allocate records that part of this payment settles the given document.
// The sum of allocations must not exceed the payment amount.
func (p *Payment) Allocate(documentID uuid.UUID, amount decimal.Decimal) (*PaymentAllocation, error) {
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Allocation requires a document")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Allocation amount must be positive")
	}

	allocated := decimal.Zero
	for _, a := range p.Allocations {
		allocated = allocated.Add(a.Amount)
	}
	if allocated.Add(amount).GreaterThan(p.Amount) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Allocations cannot exceed the payment amount")
	}

	allocation := PaymentAllocation{
		BaseEntity: shared.NewBaseEntity(),
		PaymentID:  p.ID,
		DocumentID: documentID,
		Amount:     amount,
	}
	p.Allocations = append(p.Allocations, allocation)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return &p.Allocations[len(p.Allocations)-1], nil
}
