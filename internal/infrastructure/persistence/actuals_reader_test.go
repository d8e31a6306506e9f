package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/budget"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupActualsTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.DocumentModel{},
		&models.DocumentLineModel{},
	)
	require.NoError(t, err)

	return db
}

func TestGormActualsReader_SumPostedLineSubtotals(t *testing.T) {
	db := setupActualsTestDB(t)
	reader := NewGormActualsReader(db)
	docRepo := NewGormDocumentRepository(db)
	ctx := context.Background()
	clock := shared.FixedClock{Instant: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}

	analyticID := uuid.New()
	windowFrom := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	windowTo := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	createDocument := func(number string, kind billing.DocumentKind, date time.Time, amount int64, analytic *uuid.UUID, post bool) {
		line, err := billing.NewDocumentLine(nil, "position", decimal.NewFromInt(1), decimal.NewFromInt(amount), analytic)
		require.NoError(t, err)
		doc, err := billing.NewDocument(number, kind, uuid.New(), date, nil, []billing.DocumentLine{*line})
		require.NoError(t, err)
		require.NoError(t, docRepo.Create(ctx, doc))
		if post {
			require.NoError(t, doc.MarkPosted(uuid.New(), clock))
			require.NoError(t, docRepo.Update(ctx, doc))
		}
	}

	inWindow := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	outOfWindow := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	otherAnalytic := uuid.New()

	createDocument("BILL/2026/0001", billing.DocumentKindVendorBill, inWindow, 400, &analyticID, true)
	createDocument("BILL/2026/0002", billing.DocumentKindVendorBill, inWindow, 100, &analyticID, true)
	createDocument("BILL/2026/0003", billing.DocumentKindVendorBill, inWindow, 999, &otherAnalytic, true)
	createDocument("BILL/2026/0004", billing.DocumentKindVendorBill, outOfWindow, 500, &analyticID, true)
	createDocument("BILL/2026/0005", billing.DocumentKindVendorBill, inWindow, 70, &analyticID, false)
	createDocument("BILL/2026/0006", billing.DocumentKindVendorBill, inWindow, 60, nil, true)
	createDocument("INV/2026/0001", billing.DocumentKindCustomerInvoice, inWindow, 250, &analyticID, true)

	t.Run("expense budgets read posted vendor bill lines", func(t *testing.T) {
		total, err := reader.SumPostedLineSubtotals(ctx, analyticID, budget.BudgetTypeExpense, windowFrom, windowTo)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(500)), "got %s", total)
	})

	t.Run("income budgets read posted customer invoice lines", func(t *testing.T) {
		total, err := reader.SumPostedLineSubtotals(ctx, analyticID, budget.BudgetTypeIncome, windowFrom, windowTo)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(250)), "got %s", total)
	})

	t.Run("returns zero for an untagged analytic account", func(t *testing.T) {
		total, err := reader.SumPostedLineSubtotals(ctx, uuid.New(), budget.BudgetTypeExpense, windowFrom, windowTo)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}
