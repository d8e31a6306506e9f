package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/budget"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BudgetService provides application-level budget operations, including the
// advisory availability check consumed by the document engines
type BudgetService struct {
	budgetRepo     budget.BudgetRepository
	actualsReader  budget.ActualsReader
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgetRepo budget.BudgetRepository,
	actualsReader budget.ActualsReader,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *BudgetService {
	return &BudgetService{
		budgetRepo:     budgetRepo,
		actualsReader:  actualsReader,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	AnalyticAccountID uuid.UUID       `json:"analytic_account_id"`
	BudgetType        string          `json:"budget_type"`
	BudgetedAmount    decimal.Decimal `json:"budgeted_amount"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	Status            string          `json:"status"`
	RevisionOfID      *uuid.UUID      `json:"revision_of_id,omitempty"`
	CreatedBy         *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// BudgetRequest carries the editable fields of a budget
type BudgetRequest struct {
	Name              string          `json:"name" binding:"required,max=200"`
	AnalyticAccountID uuid.UUID       `json:"analytic_account_id" binding:"required"`
	BudgetType        string          `json:"budget_type" binding:"required,oneof=INCOME EXPENSE"`
	BudgetedAmount    decimal.Decimal `json:"budgeted_amount" binding:"required"`
	StartDate         time.Time       `json:"start_date" binding:"required"`
	EndDate           time.Time       `json:"end_date" binding:"required"`
	CreatedBy         *uuid.UUID      `json:"-"`
}

// CheckAvailabilityRequest represents an availability query
type CheckAvailabilityRequest struct {
	AnalyticAccountID uuid.UUID       `form:"analytic_account_id" binding:"required"`
	Amount            decimal.Decimal `form:"amount" binding:"required"`
	Date              time.Time       `form:"date" binding:"required"`
}

func toBudgetResponse(b *budget.Budget) *BudgetResponse {
	return &BudgetResponse{
		ID:                b.ID,
		Name:              b.Name,
		AnalyticAccountID: b.AnalyticAccountID,
		BudgetType:        b.BudgetType.String(),
		BudgetedAmount:    b.BudgetedAmount,
		StartDate:         b.StartDate,
		EndDate:           b.EndDate,
		Status:            b.Status.String(),
		RevisionOfID:      b.RevisionOfID,
		CreatedBy:         b.CreatedBy,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
		Version:           b.Version,
	}
}

// Create creates a new budget in DRAFT status
func (s *BudgetService) Create(ctx context.Context, req BudgetRequest) (*BudgetResponse, error) {
	b, err := budget.NewBudget(req.Name, req.AnalyticAccountID, budget.BudgetType(req.BudgetType),
		req.BudgetedAmount, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		b.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.budgetRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	return toBudgetResponse(b), nil
}

// GetByID gets a budget by ID
func (s *BudgetService) GetByID(ctx context.Context, id uuid.UUID) (*BudgetResponse, error) {
	b, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBudgetResponse(b), nil
}

// List retrieves budgets with pagination
func (s *BudgetService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[BudgetResponse], error) {
	budgets, err := s.budgetRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.budgetRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]BudgetResponse, 0, len(budgets))
	for i := range budgets {
		items = append(items, *toBudgetResponse(&budgets[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update edits a draft budget
func (s *BudgetService) Update(ctx context.Context, id uuid.UUID, req BudgetRequest) (*BudgetResponse, error) {
	b, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Update(req.Name, req.AnalyticAccountID, budget.BudgetType(req.BudgetType),
		req.BudgetedAmount, req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	return toBudgetResponse(b), nil
}

// Approve transitions a budget from DRAFT to CONFIRMED
func (s *BudgetService) Approve(ctx context.Context, id uuid.UUID) (*BudgetResponse, error) {
	b, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Approve(); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, b)
	return toBudgetResponse(b), nil
}

// Archive transitions a budget from CONFIRMED to ARCHIVED
func (s *BudgetService) Archive(ctx context.Context, id uuid.UUID) (*BudgetResponse, error) {
	b, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Archive(); err != nil {
		return nil, err
	}
	if err := s.budgetRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, b)
	return toBudgetResponse(b), nil
}

// CreateRevision supersedes a confirmed budget with a new draft. The source
// flips to REVISED and the replacement is linked to it via revision_of_id;
// the repository writes both rows in one transaction.
func (s *BudgetService) CreateRevision(ctx context.Context, id uuid.UUID, req BudgetRequest) (*BudgetResponse, error) {
	source, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	revision, err := source.NewRevision(req.Name, req.AnalyticAccountID, budget.BudgetType(req.BudgetType),
		req.BudgetedAmount, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		revision.SetCreatedBy(*req.CreatedBy)
	}
	if err := source.MarkRevised(); err != nil {
		return nil, err
	}

	if err := s.budgetRepo.CreateRevision(ctx, source, revision); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, source)
	return toBudgetResponse(revision), nil
}

// CheckAvailability compares requested spend against the remaining amount of
// the confirmed budget covering the date. The result is advisory: a missing
// budget means no blocking, and callers surface shortfalls as warnings.
func (s *BudgetService) CheckAvailability(ctx context.Context, analyticAccountID uuid.UUID, amount decimal.Decimal, date time.Time) (*budget.AvailabilityResult, error) {
	b, err := s.budgetRepo.FindConfirmedCovering(ctx, analyticAccountID, date)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == shared.CodeNotFound {
			return &budget.AvailabilityResult{
				Available: true,
				Remaining: decimal.Zero,
				Actuals:   decimal.Zero,
				Message:   "No confirmed budget covers this analytic account and date",
			}, nil
		}
		return nil, err
	}

	actuals, err := s.actualsReader.SumPostedLineSubtotals(ctx, analyticAccountID, b.BudgetType, b.StartDate, b.EndDate)
	if err != nil {
		return nil, err
	}

	remaining := b.BudgetedAmount.Sub(actuals)
	available := remaining.GreaterThanOrEqual(amount)
	message := fmt.Sprintf("Budget %q: %s remaining of %s", b.Name,
		remaining.StringFixed(2), b.BudgetedAmount.StringFixed(2))
	if !available {
		message = fmt.Sprintf("Budget %q exceeded: requested %s but only %s remaining",
			b.Name, amount.StringFixed(2), remaining.StringFixed(2))
	}

	return &budget.AvailabilityResult{
		Available: available,
		Remaining: remaining,
		Actuals:   actuals,
		BudgetID:  &b.ID,
		Message:   message,
	}, nil
}

func (s *BudgetService) publishDomainEvents(ctx context.Context, b *budget.Budget) {
	if s.eventPublisher == nil {
		return
	}
	events := b.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish budget events", zap.Error(err))
	}
	b.ClearDomainEvents()
}
