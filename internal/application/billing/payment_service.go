package billing

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService provides application-level payment registration and
// allocation operations
type PaymentService struct {
	paymentRepo  billing.PaymentRepository
	documentRepo billing.DocumentRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo billing.PaymentRepository,
	documentRepo billing.DocumentRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		documentRepo: documentRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// RegisterPaymentRequest represents a request to settle part of a document
type RegisterPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Date      time.Time       `json:"date" binding:"required"`
	Reference string          `json:"reference" binding:"max=200"`
	CreatedBy *uuid.UUID      `json:"-"`
}

// PaymentAllocationResponse represents an allocation in API responses
type PaymentAllocationResponse struct {
	ID         uuid.UUID       `json:"id"`
	DocumentID uuid.UUID       `json:"document_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID                   `json:"id"`
	PartnerID   uuid.UUID                   `json:"partner_id"`
	Amount      decimal.Decimal             `json:"amount"`
	PaymentDate time.Time                   `json:"payment_date"`
	Reference   string                      `json:"reference,omitempty"`
	Type        string                      `json:"type"`
	Status      string                      `json:"status"`
	Allocations []PaymentAllocationResponse `json:"allocations"`
	CreatedAt   time.Time                   `json:"created_at"`
}

// RegisterPaymentResult carries the payment and the updated document state
type RegisterPaymentResult struct {
	Payment  *PaymentResponse  `json:"payment"`
	Document *DocumentResponse `json:"document"`
}

func toPaymentResponse(p *billing.Payment) *PaymentResponse {
	allocations := make([]PaymentAllocationResponse, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		allocations = append(allocations, PaymentAllocationResponse{
			ID:         a.ID,
			DocumentID: a.DocumentID,
			Amount:     a.Amount,
		})
	}
	return &PaymentResponse{
		ID:          p.ID,
		PartnerID:   p.PartnerID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Reference:   p.Reference,
		Type:        p.Type.String(),
		Status:      p.Status.String(),
		Allocations: allocations,
		CreatedAt:   p.CreatedAt,
	}
}

// RegisterPayment creates a payment allocated to a posted document and
// rederives the document's payment state. The payment, its allocation and
// the document update are written in one transaction.
func (s *PaymentService) RegisterPayment(ctx context.Context, documentID uuid.UUID, req RegisterPaymentRequest) (*RegisterPaymentResult, error) {
	doc, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if err := doc.ApplyAllocation(req.Amount); err != nil {
		return nil, err
	}

	payment, err := billing.NewPayment(doc.PartnerID, req.Amount, req.Date, req.Reference,
		billing.PaymentTypeForKind(doc.Kind))
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		payment.SetCreatedBy(*req.CreatedBy)
	}
	if _, err := payment.Allocate(doc.ID, req.Amount); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.SaveWithDocument(ctx, payment, doc); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, doc, payment, req.Amount)

	return &RegisterPaymentResult{
		Payment:  toPaymentResponse(payment),
		Document: toDocumentResponse(doc, nil),
	}, nil
}

// GetByID gets a payment by ID
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(payment), nil
}

// List retrieves payments with pagination
func (s *PaymentService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[PaymentResponse], error) {
	payments, err := s.paymentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.paymentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, *toPaymentResponse(&payments[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

func (s *PaymentService) publishEvents(ctx context.Context, doc *billing.Document, payment *billing.Payment, amount decimal.Decimal) {
	if s.publisher == nil {
		return
	}
	events := append(doc.GetDomainEvents(),
		billing.NewPaymentRegisteredEvent(payment, doc.ID, amount))
	if err := s.publisher.Publish(ctx, events...); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish payment events", zap.Error(err))
	}
	doc.ClearDomainEvents()
}
