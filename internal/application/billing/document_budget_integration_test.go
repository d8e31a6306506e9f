package billing

import (
	"context"
	"testing"
	"time"

	budgetapp "github.com/finbooks/backend/internal/application/budget"
	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPostingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.AccountModel{},
		&models.DocumentModel{},
		&models.DocumentLineModel{},
		&models.JournalEntryModel{},
		&models.JournalLineModel{},
		&models.BudgetModel{},
	)
	require.NoError(t, err)

	return db
}

// Runs the full posting path against real repositories so the availability
// check sums actuals from stored documents. The budget must see only spend
// committed before the bill being posted, never the bill's own lines.
func TestDocumentService_Post_BudgetWarningsReflectStoredActuals(t *testing.T) {
	db := setupPostingTestDB(t)
	ctx := context.Background()
	clock := shared.FixedClock{Instant: time.Date(2026, 5, 15, 10, 0, 0, 0, time.UTC)}

	accountRepo := persistence.NewGormAccountRepository(db)
	documentRepo := persistence.NewGormDocumentRepository(db)
	budgetRepo := persistence.NewGormBudgetRepository(db)
	actualsReader := persistence.NewGormActualsReader(db)

	for _, seed := range []struct{ code, name string }{
		{"400000", "Trade payables"},
		{"600000", "Operating expenses"},
	} {
		account, err := ledger.NewAccount(seed.code, seed.name)
		require.NoError(t, err)
		require.NoError(t, accountRepo.Create(ctx, account))
	}

	budgetService := budgetapp.NewBudgetService(budgetRepo, actualsReader, nil, zap.NewNop())
	documentService := NewDocumentService(
		documentRepo, accountRepo, budgetService, nil,
		LedgerAccountCodes{Payable: "400000", Expense: "600000"},
		clock, nil, zap.NewNop(),
	)

	analyticID := uuid.New()
	created, err := budgetService.Create(ctx, budgetapp.BudgetRequest{
		Name:              "Marketing 2026",
		AnalyticAccountID: analyticID,
		BudgetType:        "EXPENSE",
		BudgetedAmount:    decimal.NewFromInt(10000),
		StartDate:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:           time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	_, err = budgetService.Approve(ctx, created.ID)
	require.NoError(t, err)

	postBill := func(amount int64) *DocumentResponse {
		draft, err := documentService.Create(ctx, CreateDocumentRequest{
			Kind:         "IN_INVOICE",
			PartnerID:    uuid.New(),
			DocumentDate: time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
			Lines: []DocumentLineRequest{{
				Label:             "media buy",
				Quantity:          decimal.NewFromInt(1),
				PriceUnit:         decimal.NewFromInt(amount),
				AnalyticAccountID: &analyticID,
			}},
		})
		require.NoError(t, err)
		posted, err := documentService.Post(ctx, draft.ID)
		require.NoError(t, err)
		return posted
	}

	first := postBill(6000)
	assert.Equal(t, "POSTED", first.Status)
	assert.Empty(t, first.Warnings, "6000 against a fresh 10000 budget leaves headroom")

	second := postBill(5000)
	assert.Equal(t, "POSTED", second.Status)
	require.Len(t, second.Warnings, 1)

	warning := second.Warnings[0]
	assert.Equal(t, analyticID, warning.AnalyticAccountID)
	assert.True(t, warning.Remaining.Equal(decimal.NewFromInt(4000)),
		"remaining must count only the first bill, got %s", warning.Remaining)
	assert.True(t, warning.Requested.Equal(decimal.NewFromInt(5000)))
	assert.Contains(t, warning.Message, "exceeded")

	result, err := budgetService.CheckAvailability(ctx, analyticID,
		decimal.NewFromInt(1), time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, result.Remaining.Equal(decimal.NewFromInt(-1000)),
		"both bills consume the budget once posted, got %s", result.Remaining)
}
