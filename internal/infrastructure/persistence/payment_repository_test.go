package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPaymentTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.PaymentModel{},
		&models.PaymentAllocationModel{},
		&models.DocumentModel{},
		&models.DocumentLineModel{},
	)
	require.NoError(t, err)

	return db
}

func postedTestDocument(t *testing.T, repo *GormDocumentRepository, number string, amount int64) *billing.Document {
	t.Helper()
	ctx := context.Background()
	clock := shared.FixedClock{Instant: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}

	doc := newTestDocument(t, number, billing.DocumentKindCustomerInvoice, amount)
	require.NoError(t, repo.Create(ctx, doc))
	require.NoError(t, doc.MarkPosted(uuid.New(), clock))
	require.NoError(t, repo.Update(ctx, doc))
	return doc
}

func TestGormPaymentRepository_CreateAndFind(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	paymentDate := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	t.Run("creates and finds a payment", func(t *testing.T) {
		partnerID := uuid.New()
		payment, err := billing.NewPayment(partnerID, decimal.NewFromInt(1000), paymentDate, "WIRE-42", billing.PaymentTypeInbound)
		require.NoError(t, err)

		err = repo.Create(ctx, payment)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, partnerID, found.PartnerID)
		assert.True(t, found.Amount.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, "WIRE-42", found.Reference)
		assert.Equal(t, billing.PaymentTypeInbound, found.Type)
		assert.Equal(t, billing.PaymentStatusConfirmed, found.Status)
		assert.Empty(t, found.Allocations)
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormPaymentRepository_SaveWithDocument(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewGormPaymentRepository(db)
	docRepo := NewGormDocumentRepository(db)
	ctx := context.Background()
	paymentDate := time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)

	t.Run("persists the allocation and the updated document together", func(t *testing.T) {
		doc := postedTestDocument(t, docRepo, "INV/2026/0100", 800)

		payment, err := billing.NewPayment(doc.PartnerID, decimal.NewFromInt(300), paymentDate, "", billing.PaymentTypeInbound)
		require.NoError(t, err)
		_, err = payment.Allocate(doc.ID, decimal.NewFromInt(300))
		require.NoError(t, err)
		require.NoError(t, doc.ApplyAllocation(decimal.NewFromInt(300)))

		err = repo.SaveWithDocument(ctx, payment, doc)
		require.NoError(t, err)

		foundPayment, err := repo.FindByID(ctx, payment.ID)
		require.NoError(t, err)
		require.Len(t, foundPayment.Allocations, 1)
		assert.Equal(t, doc.ID, foundPayment.Allocations[0].DocumentID)
		assert.True(t, foundPayment.Allocations[0].Amount.Equal(decimal.NewFromInt(300)))

		foundDoc, err := docRepo.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.PaymentStatePartial, foundDoc.PaymentState)
		assert.True(t, foundDoc.AmountDue.Equal(decimal.NewFromInt(500)))
	})

	t.Run("surfaces a conflict when the document is stale", func(t *testing.T) {
		doc := postedTestDocument(t, docRepo, "INV/2026/0101", 600)

		stale, err := docRepo.FindByID(ctx, doc.ID)
		require.NoError(t, err)

		// A competing allocation lands first
		require.NoError(t, doc.ApplyAllocation(decimal.NewFromInt(100)))
		require.NoError(t, docRepo.Update(ctx, doc))

		payment, err := billing.NewPayment(stale.PartnerID, decimal.NewFromInt(200), paymentDate, "", billing.PaymentTypeInbound)
		require.NoError(t, err)
		_, err = payment.Allocate(stale.ID, decimal.NewFromInt(200))
		require.NoError(t, err)
		require.NoError(t, stale.ApplyAllocation(decimal.NewFromInt(200)))

		err = repo.SaveWithDocument(ctx, payment, stale)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)

		// The payment must not have been written
		_, err = repo.FindByID(ctx, payment.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormPaymentRepository_FindAllocationsByDocument(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewGormPaymentRepository(db)
	docRepo := NewGormDocumentRepository(db)
	ctx := context.Background()
	paymentDate := time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC)

	doc := postedTestDocument(t, docRepo, "INV/2026/0110", 1000)

	allocate := func(amount int64) {
		payment, err := billing.NewPayment(doc.PartnerID, decimal.NewFromInt(amount), paymentDate, "", billing.PaymentTypeInbound)
		require.NoError(t, err)
		_, err = payment.Allocate(doc.ID, decimal.NewFromInt(amount))
		require.NoError(t, err)
		require.NoError(t, doc.ApplyAllocation(decimal.NewFromInt(amount)))
		require.NoError(t, repo.SaveWithDocument(ctx, payment, doc))
	}

	allocate(400)
	allocate(600)

	t.Run("returns all allocations settling the document", func(t *testing.T) {
		allocations, err := repo.FindAllocationsByDocument(ctx, doc.ID)
		require.NoError(t, err)
		require.Len(t, allocations, 2)

		total := decimal.Zero
		for _, a := range allocations {
			total = total.Add(a.Amount)
		}
		assert.True(t, total.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("document ends up fully paid", func(t *testing.T) {
		found, err := docRepo.FindByID(ctx, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.PaymentStatePaid, found.PaymentState)
		assert.True(t, found.AmountDue.IsZero())
	})

	t.Run("returns empty slice for unknown document", func(t *testing.T) {
		allocations, err := repo.FindAllocationsByDocument(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, allocations)
	})
}

func TestGormPaymentRepository_FindByPartner(t *testing.T) {
	db := setupPaymentTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	paymentDate := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	partnerID := uuid.New()
	for i := 0; i < 2; i++ {
		payment, err := billing.NewPayment(partnerID, decimal.NewFromInt(int64(100*(i+1))), paymentDate, "", billing.PaymentTypeInbound)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, payment))
	}
	other, err := billing.NewPayment(uuid.New(), decimal.NewFromInt(50), paymentDate, "", billing.PaymentTypeOutbound)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	t.Run("returns payments of the partner only", func(t *testing.T) {
		payments, err := repo.FindByPartner(ctx, partnerID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, payments, 2)
	})

	t.Run("counts all payments", func(t *testing.T) {
		count, err := repo.Count(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestGormPaymentRepository_InterfaceCompliance(t *testing.T) {
	db := setupPaymentTestDB(t)
	var _ billing.PaymentRepository = NewGormPaymentRepository(db)
}
