package persistence

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/budget"
	"github.com/finbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormActualsReader implements budget.ActualsReader over posted document
// lines. EXPENSE budgets read vendor bill lines, INCOME budgets read customer
// invoice lines; draft documents never count.
type GormActualsReader struct {
	db *gorm.DB
}

// NewGormActualsReader creates a new GormActualsReader
func NewGormActualsReader(db *gorm.DB) *GormActualsReader {
	return &GormActualsReader{db: db}
}

// SumPostedLineSubtotals sums the subtotals of lines tagged with the analytic
// account whose parent document is posted of the matching kind and dated
// inside [from, to]
func (r *GormActualsReader) SumPostedLineSubtotals(ctx context.Context, analyticAccountID uuid.UUID, budgetType budget.BudgetType, from, to time.Time) (decimal.Decimal, error) {
	kind := billing.DocumentKindVendorBill
	if budgetType == budget.BudgetTypeIncome {
		kind = billing.DocumentKindCustomerInvoice
	}

	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.DocumentLineModel{}).
		Select("COALESCE(SUM(document_lines.subtotal), 0) as total").
		Joins("JOIN documents ON documents.id = document_lines.document_id").
		Where("document_lines.analytic_account_id = ?", analyticAccountID).
		Where("documents.status = ? AND documents.kind = ?", billing.DocumentStatusPosted, kind).
		Where("documents.document_date >= ? AND documents.document_date <= ?", from, to).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Ensure GormActualsReader implements ActualsReader
var _ budget.ActualsReader = (*GormActualsReader)(nil)
