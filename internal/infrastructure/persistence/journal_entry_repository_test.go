package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupJournalEntryTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.JournalEntryModel{},
		&models.JournalLineModel{},
	)
	require.NoError(t, err)

	return db
}

func balancedLines(t *testing.T, amount decimal.Decimal, analyticID *uuid.UUID) []ledger.JournalLine {
	t.Helper()

	debit, err := ledger.NewJournalLine(uuid.New(), analyticID, "debit leg", amount, decimal.Zero)
	require.NoError(t, err)
	credit, err := ledger.NewJournalLine(uuid.New(), nil, "credit leg", decimal.Zero, amount)
	require.NoError(t, err)
	return []ledger.JournalLine{*debit, *credit}
}

func TestGormJournalEntryRepository_CreateAndFind(t *testing.T) {
	db := setupJournalEntryTestDB(t)
	repo := NewGormJournalEntryRepository(db)
	ctx := context.Background()
	entryDate := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	t.Run("creates an entry together with its lines", func(t *testing.T) {
		entry, err := ledger.NewJournalEntry("JRNL/2026/0001", "opening", entryDate, balancedLines(t, decimal.NewFromInt(250), nil))
		require.NoError(t, err)

		err = repo.Create(ctx, entry)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "JRNL/2026/0001", found.Number)
		assert.Equal(t, ledger.JournalEntryStatusDraft, found.Status)
		require.Len(t, found.Lines, 2)
		assert.True(t, found.DebitTotal().Equal(decimal.NewFromInt(250)))
		assert.True(t, found.IsBalanced())
	})

	t.Run("finds an entry by number", func(t *testing.T) {
		entry, err := ledger.NewJournalEntry("JRNL/2026/0002", "", entryDate, balancedLines(t, decimal.NewFromInt(80), nil))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, entry))

		found, err := repo.FindByNumber(ctx, "JRNL/2026/0002")
		require.NoError(t, err)
		assert.Equal(t, entry.ID, found.ID)
	})

	t.Run("returns not found for unknown number", func(t *testing.T) {
		_, err := repo.FindByNumber(ctx, "JRNL/2026/9999")
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormJournalEntryRepository_Update(t *testing.T) {
	db := setupJournalEntryTestDB(t)
	repo := NewGormJournalEntryRepository(db)
	ctx := context.Background()
	clock := shared.FixedClock{Instant: time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)}
	entryDate := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	t.Run("replaces lines of a draft entry", func(t *testing.T) {
		entry, err := ledger.NewJournalEntry("JRNL/2026/0010", "", entryDate, balancedLines(t, decimal.NewFromInt(100), nil))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, entry))

		require.NoError(t, entry.ReplaceLines(balancedLines(t, decimal.NewFromInt(300), nil)))
		require.NoError(t, repo.Update(ctx, entry))

		found, err := repo.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		require.Len(t, found.Lines, 2)
		assert.True(t, found.DebitTotal().Equal(decimal.NewFromInt(300)))

		var lineCount int64
		require.NoError(t, db.Model(&models.JournalLineModel{}).Where("journal_entry_id = ?", entry.ID).Count(&lineCount).Error)
		assert.Equal(t, int64(2), lineCount)
	})

	t.Run("persists posting", func(t *testing.T) {
		entry, err := ledger.NewJournalEntry("JRNL/2026/0011", "", entryDate, balancedLines(t, decimal.NewFromInt(40), nil))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, entry))

		require.NoError(t, entry.Post(clock))
		require.NoError(t, repo.Update(ctx, entry))

		found, err := repo.FindByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, ledger.JournalEntryStatusPosted, found.Status)
		require.NotNil(t, found.PostedAt)
		assert.True(t, found.PostedAt.Equal(clock.Instant))
	})

	t.Run("rejects stale version", func(t *testing.T) {
		entry, err := ledger.NewJournalEntry("JRNL/2026/0012", "", entryDate, balancedLines(t, decimal.NewFromInt(75), nil))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, entry))

		stale, err := repo.FindByID(ctx, entry.ID)
		require.NoError(t, err)

		require.NoError(t, entry.Post(clock))
		require.NoError(t, repo.Update(ctx, entry))

		require.NoError(t, stale.Post(clock))
		err = repo.Update(ctx, stale)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)
	})
}

func TestGormJournalEntryRepository_SumPostedDebits(t *testing.T) {
	db := setupJournalEntryTestDB(t)
	repo := NewGormJournalEntryRepository(db)
	ctx := context.Background()
	clock := shared.FixedClock{Instant: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}

	analyticID := uuid.New()
	otherAnalyticID := uuid.New()
	inWindow := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	outOfWindow := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	post := func(number string, date time.Time, amount decimal.Decimal, analytic *uuid.UUID) {
		entry, err := ledger.NewJournalEntry(number, "", date, balancedLines(t, amount, analytic))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, entry))
		require.NoError(t, entry.Post(clock))
		require.NoError(t, repo.Update(ctx, entry))
	}

	post("JRNL/2026/0001", inWindow, decimal.NewFromInt(120), &analyticID)
	post("JRNL/2026/0002", inWindow, decimal.NewFromInt(30), &analyticID)
	post("JRNL/2026/0003", inWindow, decimal.NewFromInt(999), &otherAnalyticID)
	post("JRNL/2026/0004", outOfWindow, decimal.NewFromInt(500), &analyticID)

	// Draft entries are excluded regardless of tags
	draft, err := ledger.NewJournalEntry("JRNL/2026/0005", "", inWindow, balancedLines(t, decimal.NewFromInt(77), &analyticID))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, draft))

	t.Run("sums posted debits inside the window", func(t *testing.T) {
		total, err := repo.SumPostedDebits(ctx, ledger.AnalyticLineFilter{
			AnalyticAccountIDs: []uuid.UUID{analyticID},
			DateFrom:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			DateTo:             time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(150)), "got %s", total)
	})

	t.Run("returns zero for an empty analytic set", func(t *testing.T) {
		total, err := repo.SumPostedDebits(ctx, ledger.AnalyticLineFilter{})
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}

func TestGormJournalEntryRepository_NextSequence(t *testing.T) {
	db := setupJournalEntryTestDB(t)
	repo := NewGormJournalEntryRepository(db)
	ctx := context.Background()
	entryDate := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	t.Run("starts at one for an empty year", func(t *testing.T) {
		seq, err := repo.NextSequence(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, 1, seq)
	})

	t.Run("continues after the highest existing number", func(t *testing.T) {
		for _, number := range []string{"JRNL/2026/0001", "JRNL/2026/0007", "JRNL/2026/0003"} {
			entry, err := ledger.NewJournalEntry(number, "", entryDate, balancedLines(t, decimal.NewFromInt(10), nil))
			require.NoError(t, err)
			require.NoError(t, repo.Create(ctx, entry))
		}

		seq, err := repo.NextSequence(ctx, 2026)
		require.NoError(t, err)
		assert.Equal(t, 8, seq)
	})

	t.Run("sequences are independent per year", func(t *testing.T) {
		seq, err := repo.NextSequence(ctx, 2027)
		require.NoError(t, err)
		assert.Equal(t, 1, seq)
	})
}

func TestGormJournalEntryRepository_InterfaceCompliance(t *testing.T) {
	db := setupJournalEntryTestDB(t)
	var _ ledger.JournalEntryRepository = NewGormJournalEntryRepository(db)
}
