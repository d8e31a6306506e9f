package ledger

import (
	"context"
	"time"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalyticAccountService provides application-level cost center operations
type AnalyticAccountService struct {
	analyticRepo   ledger.AnalyticAccountRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAnalyticAccountService creates a new AnalyticAccountService
func NewAnalyticAccountService(
	analyticRepo ledger.AnalyticAccountRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *AnalyticAccountService {
	return &AnalyticAccountService{
		analyticRepo:   analyticRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// AnalyticAccountResponse represents an analytic account in API responses
type AnalyticAccountResponse struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Version   int        `json:"version"`
}

// CreateAnalyticAccountRequest represents a request to create an analytic account
type CreateAnalyticAccountRequest struct {
	Code      string     `json:"code" binding:"required,max=20"`
	Name      string     `json:"name" binding:"required,max=200"`
	ParentID  *uuid.UUID `json:"parent_id"`
	CreatedBy *uuid.UUID `json:"-"`
}

// UpdateAnalyticAccountRequest represents a request to update a draft analytic account
type UpdateAnalyticAccountRequest struct {
	Name     string     `json:"name" binding:"required,max=200"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func toAnalyticAccountResponse(a *ledger.AnalyticAccount) *AnalyticAccountResponse {
	return &AnalyticAccountResponse{
		ID:        a.ID,
		Code:      a.Code,
		Name:      a.Name,
		ParentID:  a.ParentID,
		Status:    a.Status.String(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		Version:   a.Version,
	}
}

// Create creates a new analytic account in DRAFT status
func (s *AnalyticAccountService) Create(ctx context.Context, req CreateAnalyticAccountRequest) (*AnalyticAccountResponse, error) {
	exists, err := s.analyticRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewConflictError("code", req.Code)
	}

	if req.ParentID != nil {
		if _, err := s.analyticRepo.FindByID(ctx, *req.ParentID); err != nil {
			return nil, err
		}
	}

	account, err := ledger.NewAnalyticAccount(req.Code, req.Name, req.ParentID)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		account.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.analyticRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return toAnalyticAccountResponse(account), nil
}

// GetByID gets an analytic account by ID
func (s *AnalyticAccountService) GetByID(ctx context.Context, id uuid.UUID) (*AnalyticAccountResponse, error) {
	account, err := s.analyticRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAnalyticAccountResponse(account), nil
}

// List retrieves analytic accounts with pagination
func (s *AnalyticAccountService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[AnalyticAccountResponse], error) {
	accounts, err := s.analyticRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.analyticRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]AnalyticAccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, *toAnalyticAccountResponse(&accounts[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update edits a draft analytic account, including reparenting. Reparenting
// is rejected when the new parent chain would contain the account itself.
func (s *AnalyticAccountService) Update(ctx context.Context, id uuid.UUID, req UpdateAnalyticAccountRequest) (*AnalyticAccountResponse, error) {
	account, err := s.analyticRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := account.Update(req.Name); err != nil {
		return nil, err
	}

	if !equalParent(account.ParentID, req.ParentID) {
		if req.ParentID != nil {
			if err := s.ensureNoCycle(ctx, account.ID, *req.ParentID); err != nil {
				return nil, err
			}
		}
		if err := account.SetParent(req.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.analyticRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return toAnalyticAccountResponse(account), nil
}

// Confirm transitions an analytic account from DRAFT to CONFIRMED
func (s *AnalyticAccountService) Confirm(ctx context.Context, id uuid.UUID) (*AnalyticAccountResponse, error) {
	account, err := s.analyticRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := account.Confirm(); err != nil {
		return nil, err
	}
	if err := s.analyticRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, account)
	return toAnalyticAccountResponse(account), nil
}

// Archive transitions an analytic account from CONFIRMED to ARCHIVED
func (s *AnalyticAccountService) Archive(ctx context.Context, id uuid.UUID) (*AnalyticAccountResponse, error) {
	account, err := s.analyticRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := account.Archive(); err != nil {
		return nil, err
	}
	if err := s.analyticRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, account)
	return toAnalyticAccountResponse(account), nil
}

// ensureNoCycle walks the ancestor chain of the proposed parent and rejects
// the assignment when the account itself appears in it.
func (s *AnalyticAccountService) ensureNoCycle(ctx context.Context, accountID, parentID uuid.UUID) error {
	current := parentID
	for {
		if current == accountID {
			return shared.NewDomainError(shared.CodeValidation,
				"Reparenting would create a cycle in the analytic account tree")
		}
		parent, err := s.analyticRepo.FindByID(ctx, current)
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		current = *parent.ParentID
	}
}

func equalParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *AnalyticAccountService) publishDomainEvents(ctx context.Context, account *ledger.AnalyticAccount) {
	if s.eventPublisher == nil {
		return
	}
	events := account.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish analytic account events", zap.Error(err))
	}
	account.ClearDomainEvents()
}
