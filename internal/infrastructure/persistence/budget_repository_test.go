package persistence

import (
	"context"
	"testing"
	"time"

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

func setupBudgetTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.BudgetModel{})
	require.NoError(t, err)

	return db
}

func newTestBudget(t *testing.T, analyticID uuid.UUID, amount int64, start, end time.Time) *budget.Budget {
	t.Helper()

	b, err := budget.NewBudget("Quarterly plan", analyticID, budget.BudgetTypeExpense, decimal.NewFromInt(amount), start, end)
	require.NoError(t, err)
	return b
}

func TestGormBudgetRepository_CreateAndFind(t *testing.T) {
	db := setupBudgetTestDB(t)
	repo := NewGormBudgetRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("creates and finds budget", func(t *testing.T) {
		analyticID := uuid.New()
		b := newTestBudget(t, analyticID, 10000, start, end)

		err := repo.Create(ctx, b)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, analyticID, found.AnalyticAccountID)
		assert.Equal(t, budget.BudgetTypeExpense, found.BudgetType)
		assert.Equal(t, budget.BudgetStatusDraft, found.Status)
		assert.True(t, found.BudgetedAmount.Equal(decimal.NewFromInt(10000)))
		assert.Nil(t, found.RevisionOfID)
	})

	t.Run("returns not found for unknown ID", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormBudgetRepository_Update(t *testing.T) {
	db := setupBudgetTestDB(t)
	repo := NewGormBudgetRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("persists approval", func(t *testing.T) {
		b := newTestBudget(t, uuid.New(), 5000, start, end)
		require.NoError(t, repo.Create(ctx, b))

		require.NoError(t, b.Approve())
		require.NoError(t, repo.Update(ctx, b))

		found, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, budget.BudgetStatusConfirmed, found.Status)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("rejects stale version", func(t *testing.T) {
		b := newTestBudget(t, uuid.New(), 5000, start, end)
		require.NoError(t, repo.Create(ctx, b))

		stale, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)

		require.NoError(t, b.Approve())
		require.NoError(t, repo.Update(ctx, b))

		require.NoError(t, stale.Approve())
		err = repo.Update(ctx, stale)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)
	})
}

func TestGormBudgetRepository_CreateRevision(t *testing.T) {
	db := setupBudgetTestDB(t)
	repo := NewGormBudgetRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	t.Run("marks the source revised and stores the replacement", func(t *testing.T) {
		analyticID := uuid.New()
		source := newTestBudget(t, analyticID, 20000, start, end)
		require.NoError(t, repo.Create(ctx, source))
		require.NoError(t, source.Approve())
		require.NoError(t, repo.Update(ctx, source))

		revision, err := source.NewRevision("Annual plan v2", analyticID, budget.BudgetTypeExpense, decimal.NewFromInt(25000), start, end)
		require.NoError(t, err)
		require.NoError(t, source.MarkRevised())

		err = repo.CreateRevision(ctx, source, revision)
		require.NoError(t, err)

		foundSource, err := repo.FindByID(ctx, source.ID)
		require.NoError(t, err)
		assert.Equal(t, budget.BudgetStatusRevised, foundSource.Status)

		foundRevision, err := repo.FindByID(ctx, revision.ID)
		require.NoError(t, err)
		assert.Equal(t, budget.BudgetStatusDraft, foundRevision.Status)
		require.NotNil(t, foundRevision.RevisionOfID)
		assert.Equal(t, source.ID, *foundRevision.RevisionOfID)
		assert.True(t, foundRevision.BudgetedAmount.Equal(decimal.NewFromInt(25000)))
	})

	t.Run("surfaces a conflict when the source is stale", func(t *testing.T) {
		analyticID := uuid.New()
		source := newTestBudget(t, analyticID, 8000, start, end)
		require.NoError(t, repo.Create(ctx, source))
		require.NoError(t, source.Approve())
		require.NoError(t, repo.Update(ctx, source))

		stale, err := repo.FindByID(ctx, source.ID)
		require.NoError(t, err)

		// Another writer archives the source first
		require.NoError(t, source.Archive())
		require.NoError(t, repo.Update(ctx, source))

		revision, err := stale.NewRevision("Too late", analyticID, budget.BudgetTypeExpense, decimal.NewFromInt(9000), start, end)
		require.NoError(t, err)
		require.NoError(t, stale.MarkRevised())

		err = repo.CreateRevision(ctx, stale, revision)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)

		// The revision must not have been written
		_, err = repo.FindByID(ctx, revision.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormBudgetRepository_FindConfirmedCovering(t *testing.T) {
	db := setupBudgetTestDB(t)
	repo := NewGormBudgetRepository(db)
	ctx := context.Background()

	analyticID := uuid.New()
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	confirmed := newTestBudget(t, analyticID, 12000, start, end)
	require.NoError(t, confirmed.Approve())
	require.NoError(t, repo.Create(ctx, confirmed))

	// Draft budget over the same window never participates
	draft := newTestBudget(t, analyticID, 99999, start, end)
	require.NoError(t, repo.Create(ctx, draft))

	t.Run("finds the confirmed budget covering the date", func(t *testing.T) {
		found, err := repo.FindConfirmedCovering(ctx, analyticID, time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, confirmed.ID, found.ID)
	})

	t.Run("includes the period bounds", func(t *testing.T) {
		found, err := repo.FindConfirmedCovering(ctx, analyticID, start)
		require.NoError(t, err)
		assert.Equal(t, confirmed.ID, found.ID)

		found, err = repo.FindConfirmedCovering(ctx, analyticID, end)
		require.NoError(t, err)
		assert.Equal(t, confirmed.ID, found.ID)
	})

	t.Run("returns not found outside the period", func(t *testing.T) {
		_, err := repo.FindConfirmedCovering(ctx, analyticID, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("returns not found for another analytic account", func(t *testing.T) {
		_, err := repo.FindConfirmedCovering(ctx, uuid.New(), time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormBudgetRepository_FindByAnalyticAccount(t *testing.T) {
	db := setupBudgetTestDB(t)
	repo := NewGormBudgetRepository(db)
	ctx := context.Background()

	analyticID := uuid.New()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newTestBudget(t, analyticID, int64(1000*(i+1)), start, end)))
	}
	require.NoError(t, repo.Create(ctx, newTestBudget(t, uuid.New(), 500, start, end)))

	t.Run("returns budgets of the analytic account only", func(t *testing.T) {
		budgets, err := repo.FindByAnalyticAccount(ctx, analyticID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, budgets, 3)
	})

	t.Run("counts all budgets", func(t *testing.T) {
		count, err := repo.Count(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})
}

func TestGormBudgetRepository_InterfaceCompliance(t *testing.T) {
	db := setupBudgetTestDB(t)
	var _ budget.BudgetRepository = NewGormBudgetRepository(db)
}
