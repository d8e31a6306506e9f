package billing

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPaymentRepository is a mock implementation of billing.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) SaveWithDocument(ctx context.Context, payment *billing.Payment, doc *billing.Document) error {
	args := m.Called(ctx, payment, doc)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Payment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]billing.Payment, error) {
	args := m.Called(ctx, partnerID, filter)
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllocationsByDocument(ctx context.Context, documentID uuid.UUID) ([]billing.PaymentAllocation, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).([]billing.PaymentAllocation), args.Error(1)
}

func (m *MockPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newPaymentService(paymentRepo *MockPaymentRepository, documentRepo *MockDocumentRepository) *PaymentService {
	return NewPaymentService(paymentRepo, documentRepo, nil, zap.NewNop())
}

func postedBill(t *testing.T, amount float64) *billing.Document {
	t.Helper()
	doc := draftBill(t, nil, amount)
	require.NoError(t, doc.MarkPosted(uuid.New(), testClock()))
	doc.ClearDomainEvents()
	return doc
}

func TestPaymentService_RegisterPayment_Partial(t *testing.T) {
	mockPaymentRepo := new(MockPaymentRepository)
	mockDocumentRepo := new(MockDocumentRepository)
	service := newPaymentService(mockPaymentRepo, mockDocumentRepo)

	ctx := context.Background()
	doc := postedBill(t, 1500.00)

	mockDocumentRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
	mockPaymentRepo.On("SaveWithDocument", ctx, mock.AnythingOfType("*billing.Payment"), doc).Return(nil)

	result, err := service.RegisterPayment(ctx, doc.ID, RegisterPaymentRequest{
		Amount:    decimal.NewFromFloat(500.00),
		Date:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Reference: "wire 1042",
	})

	require.NoError(t, err)
	assert.Equal(t, "PARTIAL", result.Document.PaymentState)
	assert.True(t, result.Document.AmountDue.Equal(decimal.NewFromFloat(1000.00)))
	assert.Equal(t, "OUTBOUND", result.Payment.Type)
	require.Len(t, result.Payment.Allocations, 1)
	assert.Equal(t, doc.ID, result.Payment.Allocations[0].DocumentID)
	assert.True(t, result.Payment.Allocations[0].Amount.Equal(decimal.NewFromFloat(500.00)))
	mockPaymentRepo.AssertExpectations(t)
}

func TestPaymentService_RegisterPayment_SettlesInFull(t *testing.T) {
	mockPaymentRepo := new(MockPaymentRepository)
	mockDocumentRepo := new(MockDocumentRepository)
	service := newPaymentService(mockPaymentRepo, mockDocumentRepo)

	ctx := context.Background()
	doc := postedBill(t, 1500.00)
	require.NoError(t, doc.ApplyAllocation(decimal.NewFromFloat(500.00)))
	doc.ClearDomainEvents()

	mockDocumentRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
	mockPaymentRepo.On("SaveWithDocument", ctx, mock.AnythingOfType("*billing.Payment"), doc).Return(nil)

	result, err := service.RegisterPayment(ctx, doc.ID, RegisterPaymentRequest{
		Amount: decimal.NewFromFloat(1000.00),
		Date:   time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "PAID", result.Document.PaymentState)
	assert.True(t, result.Document.AmountDue.IsZero())
}

func TestPaymentService_RegisterPayment_AlreadyPaid(t *testing.T) {
	mockPaymentRepo := new(MockPaymentRepository)
	mockDocumentRepo := new(MockDocumentRepository)
	service := newPaymentService(mockPaymentRepo, mockDocumentRepo)

	ctx := context.Background()
	doc := postedBill(t, 1500.00)
	require.NoError(t, doc.ApplyAllocation(decimal.NewFromFloat(1500.00)))
	doc.ClearDomainEvents()

	mockDocumentRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)

	result, err := service.RegisterPayment(ctx, doc.ID, RegisterPaymentRequest{
		Amount: decimal.NewFromFloat(1.00),
		Date:   time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrAlreadyPaid)
	mockPaymentRepo.AssertNotCalled(t, "SaveWithDocument", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_RegisterPayment_OverpaymentRejected(t *testing.T) {
	mockPaymentRepo := new(MockPaymentRepository)
	mockDocumentRepo := new(MockDocumentRepository)
	service := newPaymentService(mockPaymentRepo, mockDocumentRepo)

	ctx := context.Background()
	doc := postedBill(t, 1500.00)

	mockDocumentRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)

	result, err := service.RegisterPayment(ctx, doc.ID, RegisterPaymentRequest{
		Amount: decimal.NewFromFloat(2000.00),
		Date:   time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeValidation, domainErr.Code)
}

func TestPaymentService_RegisterPayment_DraftRejected(t *testing.T) {
	mockPaymentRepo := new(MockPaymentRepository)
	mockDocumentRepo := new(MockDocumentRepository)
	service := newPaymentService(mockPaymentRepo, mockDocumentRepo)

	ctx := context.Background()
	doc := draftBill(t, nil, 1500.00)

	mockDocumentRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)

	result, err := service.RegisterPayment(ctx, doc.ID, RegisterPaymentRequest{
		Amount: decimal.NewFromFloat(100.00),
		Date:   time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidState, domainErr.Code)
}
