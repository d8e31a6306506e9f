package autorule

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/autorule"
	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RuleService provides application-level rule operations and the analytic
// account selection consumed by the document engines
type RuleService struct {
	ruleRepo       autorule.RuleRepository
	analyticRepo   ledger.AnalyticAccountRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewRuleService creates a new RuleService
func NewRuleService(
	ruleRepo autorule.RuleRepository,
	analyticRepo ledger.AnalyticAccountRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *RuleService {
	return &RuleService{
		ruleRepo:       ruleRepo,
		analyticRepo:   analyticRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// RuleResponse represents a rule in API responses
type RuleResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	PartnerTagID      *uuid.UUID `json:"partner_tag_id,omitempty"`
	PartnerID         *uuid.UUID `json:"partner_id,omitempty"`
	ProductCategoryID *uuid.UUID `json:"product_category_id,omitempty"`
	ProductID         *uuid.UUID `json:"product_id,omitempty"`
	AnalyticAccountID uuid.UUID  `json:"analytic_account_id"`
	Priority          int        `json:"priority"`
	Status            string     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Version           int        `json:"version"`
}

// CreateRuleRequest represents a request to create a rule
type CreateRuleRequest struct {
	Name              string     `json:"name" binding:"required,max=200"`
	PartnerTagID      *uuid.UUID `json:"partner_tag_id"`
	PartnerID         *uuid.UUID `json:"partner_id"`
	ProductCategoryID *uuid.UUID `json:"product_category_id"`
	ProductID         *uuid.UUID `json:"product_id"`
	AnalyticAccountID uuid.UUID  `json:"analytic_account_id" binding:"required"`
	CreatedBy         *uuid.UUID `json:"-"`
}

// UpdateRuleRequest represents a partial rule update. Condition fields use a
// value plus set flag so a condition can be cleared explicitly.
type UpdateRuleRequest struct {
	Name              *string    `json:"name"`
	AnalyticAccountID *uuid.UUID `json:"analytic_account_id"`

	SetPartnerTagID      bool       `json:"set_partner_tag_id"`
	PartnerTagID         *uuid.UUID `json:"partner_tag_id"`
	SetPartnerID         bool       `json:"set_partner_id"`
	PartnerID            *uuid.UUID `json:"partner_id"`
	SetProductCategoryID bool       `json:"set_product_category_id"`
	ProductCategoryID    *uuid.UUID `json:"product_category_id"`
	SetProductID         bool       `json:"set_product_id"`
	ProductID            *uuid.UUID `json:"product_id"`
}

func toRuleResponse(r *autorule.Rule) *RuleResponse {
	return &RuleResponse{
		ID:                r.ID,
		Name:              r.Name,
		PartnerTagID:      r.Conditions.PartnerTagID,
		PartnerID:         r.Conditions.PartnerID,
		ProductCategoryID: r.Conditions.ProductCategoryID,
		ProductID:         r.Conditions.ProductID,
		AnalyticAccountID: r.AnalyticAccountID,
		Priority:          r.Priority,
		Status:            r.Status.String(),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		Version:           r.Version,
	}
}

// Create creates a new rule in DRAFT status. The analytic account must exist.
func (s *RuleService) Create(ctx context.Context, req CreateRuleRequest) (*RuleResponse, error) {
	if _, err := s.analyticRepo.FindByID(ctx, req.AnalyticAccountID); err != nil {
		return nil, err
	}

	rule, err := autorule.NewRule(req.Name, autorule.MatchConditions{
		PartnerTagID:      req.PartnerTagID,
		PartnerID:         req.PartnerID,
		ProductCategoryID: req.ProductCategoryID,
		ProductID:         req.ProductID,
	}, req.AnalyticAccountID)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		rule.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return toRuleResponse(rule), nil
}

// GetByID gets a rule by ID
func (s *RuleService) GetByID(ctx context.Context, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRuleResponse(rule), nil
}

// List retrieves rules with pagination
func (s *RuleService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[RuleResponse], error) {
	rules, err := s.ruleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ruleRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]RuleResponse, 0, len(rules))
	for i := range rules {
		items = append(items, *toRuleResponse(&rules[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update merges the changes into a draft rule and recomputes its priority
func (s *RuleService) Update(ctx context.Context, id uuid.UUID, req UpdateRuleRequest) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AnalyticAccountID != nil {
		if _, err := s.analyticRepo.FindByID(ctx, *req.AnalyticAccountID); err != nil {
			return nil, err
		}
	}

	if err := rule.Update(autorule.RuleUpdate{
		Name:                 req.Name,
		AnalyticAccountID:    req.AnalyticAccountID,
		SetPartnerTagID:      req.SetPartnerTagID,
		PartnerTagID:         req.PartnerTagID,
		SetPartnerID:         req.SetPartnerID,
		PartnerID:            req.PartnerID,
		SetProductCategoryID: req.SetProductCategoryID,
		ProductCategoryID:    req.ProductCategoryID,
		SetProductID:         req.SetProductID,
		ProductID:            req.ProductID,
	}); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return toRuleResponse(rule), nil
}

// Confirm transitions a rule from DRAFT to CONFIRMED
func (s *RuleService) Confirm(ctx context.Context, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rule.Confirm(); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, rule)
	return toRuleResponse(rule), nil
}

// Archive transitions a rule from CONFIRMED to ARCHIVED
func (s *RuleService) Archive(ctx context.Context, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rule.Archive(); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, rule)
	return toRuleResponse(rule), nil
}

// Delete removes a draft rule
func (s *RuleService) Delete(ctx context.Context, id uuid.UUID) error {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !rule.CanModify() {
		return shared.NewInvalidStateError("delete", autorule.RuleStatusDraft.String(), rule.Status.String())
	}
	return s.ruleRepo.Delete(ctx, id)
}

// SelectAnalyticAccount picks the default analytic account for a transaction
// line context. Returns nil without error when no confirmed rule matches.
func (s *RuleService) SelectAnalyticAccount(ctx context.Context, lineCtx autorule.LineContext) (*uuid.UUID, error) {
	rules, err := s.ruleRepo.FindConfirmed(ctx)
	if err != nil {
		return nil, err
	}
	selected := autorule.SelectRule(rules, lineCtx)
	if selected == nil {
		return nil, nil
	}
	id := selected.AnalyticAccountID
	return &id, nil
}

func (s *RuleService) publishDomainEvents(ctx context.Context, rule *autorule.Rule) {
	if s.eventPublisher == nil {
		return
	}
	events := rule.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish rule events", zap.Error(err))
	}
	rule.ClearDomainEvents()
}
