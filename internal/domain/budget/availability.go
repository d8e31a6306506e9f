package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AvailabilityResult is the outcome of an availability check. It is advisory:
// Available=false is a warning to surface, never a reason to block a
// transition.
type AvailabilityResult struct {
	Available bool            `json:"available"`
	Remaining decimal.Decimal `json:"remaining"`
	Actuals   decimal.Decimal `json:"actuals"`
	BudgetID  *uuid.UUID      `json:"budget_id,omitempty"`
	Message   string          `json:"message"`
}

// ActualsReader aggregates realized spend or income for an analytic account.
// The billing side implements it over posted document lines.
type ActualsReader interface {
	// SumPostedLineSubtotals sums the subtotals of lines tagged with the
	// analytic account whose parent document is posted of the matching kind
	// and whose date falls inside [from, to]
	SumPostedLineSubtotals(ctx context.Context, analyticAccountID uuid.UUID, budgetType BudgetType, from, to time.Time) (decimal.Decimal, error)
}
