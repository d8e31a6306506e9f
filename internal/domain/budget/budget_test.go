package budget

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBudget(t *testing.T) *Budget {
	t.Helper()
	b, err := NewBudget(
		"Marketing Q1",
		uuid.New(),
		BudgetTypeExpense,
		decimal.NewFromInt(10000),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return b
}

func TestNewBudget(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	analyticID := uuid.New()

	t.Run("valid budget", func(t *testing.T) {
		b, err := NewBudget("Marketing Q1", analyticID, BudgetTypeExpense, decimal.NewFromInt(10000), start, end)
		require.NoError(t, err)
		assert.Equal(t, "Marketing Q1", b.Name)
		assert.Equal(t, analyticID, b.AnalyticAccountID)
		assert.Equal(t, BudgetStatusDraft, b.Status)
		assert.Nil(t, b.RevisionOfID)
		assert.Equal(t, 1, b.Version)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewBudget("", analyticID, BudgetTypeExpense, decimal.NewFromInt(10000), start, end)
		assert.Error(t, err)
	})

	t.Run("missing analytic account", func(t *testing.T) {
		_, err := NewBudget("Marketing Q1", uuid.Nil, BudgetTypeExpense, decimal.NewFromInt(10000), start, end)
		assert.Error(t, err)
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := NewBudget("Marketing Q1", analyticID, BudgetType("CAPEX"), decimal.NewFromInt(10000), start, end)
		assert.Error(t, err)
	})

	t.Run("negative amount", func(t *testing.T) {
		_, err := NewBudget("Marketing Q1", analyticID, BudgetTypeExpense, decimal.NewFromInt(-1), start, end)
		assert.Error(t, err)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewBudget("Marketing Q1", analyticID, BudgetTypeExpense, decimal.NewFromInt(10000), end, start)
		assert.Error(t, err)
	})

	t.Run("single day period", func(t *testing.T) {
		_, err := NewBudget("One day", analyticID, BudgetTypeExpense, decimal.NewFromInt(10000), start, start)
		assert.NoError(t, err)
	})
}

func TestBudgetStatusTransitions(t *testing.T) {
	assert.True(t, BudgetStatusDraft.CanTransitionTo(BudgetStatusConfirmed))
	assert.False(t, BudgetStatusDraft.CanTransitionTo(BudgetStatusArchived))
	assert.False(t, BudgetStatusDraft.CanTransitionTo(BudgetStatusRevised))
	assert.True(t, BudgetStatusConfirmed.CanTransitionTo(BudgetStatusRevised))
	assert.True(t, BudgetStatusConfirmed.CanTransitionTo(BudgetStatusArchived))
	assert.False(t, BudgetStatusConfirmed.CanTransitionTo(BudgetStatusDraft))
	assert.False(t, BudgetStatusRevised.CanTransitionTo(BudgetStatusArchived))
	assert.False(t, BudgetStatusArchived.CanTransitionTo(BudgetStatusConfirmed))
}

func TestBudgetApprove(t *testing.T) {
	t.Run("approve draft", func(t *testing.T) {
		b := validBudget(t)
		require.NoError(t, b.Approve())
		assert.Equal(t, BudgetStatusConfirmed, b.Status)
		assert.Equal(t, 2, b.Version)
		assert.Len(t, b.GetDomainEvents(), 1)
	})

	t.Run("approve twice fails", func(t *testing.T) {
		b := validBudget(t)
		require.NoError(t, b.Approve())
		assert.Error(t, b.Approve())
	})
}

func TestBudgetUpdate(t *testing.T) {
	t.Run("update draft", func(t *testing.T) {
		b := validBudget(t)
		newAnalytic := uuid.New()
		err := b.Update("Marketing H1", newAnalytic, BudgetTypeExpense, decimal.NewFromInt(20000),
			b.StartDate, b.EndDate.AddDate(0, 3, 0))
		require.NoError(t, err)
		assert.Equal(t, "Marketing H1", b.Name)
		assert.Equal(t, newAnalytic, b.AnalyticAccountID)
		assert.True(t, b.BudgetedAmount.Equal(decimal.NewFromInt(20000)))
	})

	t.Run("update confirmed rejected", func(t *testing.T) {
		b := validBudget(t)
		require.NoError(t, b.Approve())
		err := b.Update("Marketing H1", b.AnalyticAccountID, b.BudgetType, b.BudgetedAmount, b.StartDate, b.EndDate)
		assert.Error(t, err)
	})

	t.Run("update keeps field validation", func(t *testing.T) {
		b := validBudget(t)
		err := b.Update("", b.AnalyticAccountID, b.BudgetType, b.BudgetedAmount, b.StartDate, b.EndDate)
		assert.Error(t, err)
	})
}

func TestBudgetArchive(t *testing.T) {
	t.Run("archive confirmed", func(t *testing.T) {
		b := validBudget(t)
		require.NoError(t, b.Approve())
		require.NoError(t, b.Archive())
		assert.Equal(t, BudgetStatusArchived, b.Status)
	})

	t.Run("archive draft rejected", func(t *testing.T) {
		b := validBudget(t)
		assert.Error(t, b.Archive())
		assert.Equal(t, BudgetStatusDraft, b.Status)
	})

	t.Run("archive revised rejected", func(t *testing.T) {
		b := validBudget(t)
		require.NoError(t, b.Approve())
		require.NoError(t, b.MarkRevised())
		assert.Error(t, b.Archive())
	})
}

func TestBudgetRevision(t *testing.T) {
	t.Run("revision links to source", func(t *testing.T) {
		b := validBudget(t)
		require.NoError(t, b.Approve())

		revision, err := b.NewRevision("Marketing Q1 rev", b.AnalyticAccountID, b.BudgetType,
			decimal.NewFromInt(12000), b.StartDate, b.EndDate)
		require.NoError(t, err)
		assert.Equal(t, BudgetStatusDraft, revision.Status)
		require.NotNil(t, revision.RevisionOfID)
		assert.Equal(t, b.ID, *revision.RevisionOfID)
		assert.True(t, revision.BudgetedAmount.Equal(decimal.NewFromInt(12000)))

		require.NoError(t, b.MarkRevised())
		assert.Equal(t, BudgetStatusRevised, b.Status)
	})

	t.Run("revision requires confirmed source", func(t *testing.T) {
		b := validBudget(t)
		_, err := b.NewRevision("rev", b.AnalyticAccountID, b.BudgetType, b.BudgetedAmount, b.StartDate, b.EndDate)
		assert.Error(t, err)
	})

	t.Run("revised budget is read only", func(t *testing.T) {
		b := validBudget(t)
		require.NoError(t, b.Approve())
		require.NoError(t, b.MarkRevised())

		assert.Error(t, b.Update("x", b.AnalyticAccountID, b.BudgetType, b.BudgetedAmount, b.StartDate, b.EndDate))
		assert.Error(t, b.Approve())
		assert.Error(t, b.MarkRevised())
	})
}

func TestBudgetCovers(t *testing.T) {
	b := validBudget(t)

	assert.True(t, b.Covers(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, b.Covers(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, b.Covers(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, b.Covers(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, b.Covers(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
}
