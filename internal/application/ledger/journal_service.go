package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// JournalService provides application-level journal entry operations
type JournalService struct {
	journalRepo    ledger.JournalEntryRepository
	accountRepo    ledger.AccountRepository
	clock          shared.Clock
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewJournalService creates a new JournalService
func NewJournalService(
	journalRepo ledger.JournalEntryRepository,
	accountRepo ledger.AccountRepository,
	clock shared.Clock,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *JournalService {
	return &JournalService{
		journalRepo:    journalRepo,
		accountRepo:    accountRepo,
		clock:          clock,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// JournalLineRequest represents one leg of a journal entry in requests
type JournalLineRequest struct {
	AccountID         uuid.UUID       `json:"account_id" binding:"required"`
	PartnerID         *uuid.UUID      `json:"partner_id"`
	AnalyticAccountID *uuid.UUID      `json:"analytic_account_id"`
	Label             string          `json:"label" binding:"max=500"`
	Debit             decimal.Decimal `json:"debit"`
	Credit            decimal.Decimal `json:"credit"`
}

// CreateJournalEntryRequest represents a request to create a journal entry
type CreateJournalEntryRequest struct {
	EntryDate time.Time            `json:"entry_date" binding:"required"`
	Reference string               `json:"reference" binding:"max=200"`
	Lines     []JournalLineRequest `json:"lines" binding:"required,min=1,dive"`
	CreatedBy *uuid.UUID           `json:"-"`
}

// JournalLineResponse represents one leg of a journal entry in API responses
type JournalLineResponse struct {
	ID                uuid.UUID       `json:"id"`
	AccountID         uuid.UUID       `json:"account_id"`
	PartnerID         *uuid.UUID      `json:"partner_id,omitempty"`
	AnalyticAccountID *uuid.UUID      `json:"analytic_account_id,omitempty"`
	Label             string          `json:"label"`
	Debit             decimal.Decimal `json:"debit"`
	Credit            decimal.Decimal `json:"credit"`
}

// JournalEntryResponse represents a journal entry in API responses
type JournalEntryResponse struct {
	ID          uuid.UUID             `json:"id"`
	Number      string                `json:"number"`
	Reference   string                `json:"reference,omitempty"`
	EntryDate   time.Time             `json:"entry_date"`
	Status      string                `json:"status"`
	DebitTotal  decimal.Decimal       `json:"debit_total"`
	CreditTotal decimal.Decimal       `json:"credit_total"`
	PostedAt    *time.Time            `json:"posted_at,omitempty"`
	Lines       []JournalLineResponse `json:"lines"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Version     int                   `json:"version"`
}

func toJournalEntryResponse(e *ledger.JournalEntry) *JournalEntryResponse {
	lines := make([]JournalLineResponse, 0, len(e.Lines))
	for _, line := range e.Lines {
		lines = append(lines, JournalLineResponse{
			ID:                line.ID,
			AccountID:         line.AccountID,
			PartnerID:         line.PartnerID,
			AnalyticAccountID: line.AnalyticAccountID,
			Label:             line.Label,
			Debit:             line.Debit,
			Credit:            line.Credit,
		})
	}
	return &JournalEntryResponse{
		ID:          e.ID,
		Number:      e.Number,
		Reference:   e.Reference,
		EntryDate:   e.EntryDate,
		Status:      e.Status.String(),
		DebitTotal:  e.DebitTotal(),
		CreditTotal: e.CreditTotal(),
		PostedAt:    e.PostedAt,
		Lines:       lines,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		Version:     e.Version,
	}
}

// buildLines validates the requested lines against the chart of accounts and
// converts them to domain lines
func (s *JournalService) buildLines(ctx context.Context, requests []JournalLineRequest) ([]ledger.JournalLine, error) {
	lines := make([]ledger.JournalLine, 0, len(requests))
	for _, req := range requests {
		if _, err := s.accountRepo.FindByID(ctx, req.AccountID); err != nil {
			return nil, err
		}
		line, err := ledger.NewJournalLine(req.AccountID, req.AnalyticAccountID, req.Label, req.Debit, req.Credit)
		if err != nil {
			return nil, err
		}
		line.PartnerID = req.PartnerID
		lines = append(lines, *line)
	}
	return lines, nil
}

// nextNumber generates the next entry number for the year of the injected
// clock, e.g. JRNL/2024/0042
func (s *JournalService) nextNumber(ctx context.Context) (string, error) {
	year := s.clock.Now().Year()
	seq, err := s.journalRepo.NextSequence(ctx, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("JRNL/%d/%04d", year, seq), nil
}

// Create validates the balance invariant and persists a draft entry with its
// lines atomically
func (s *JournalService) Create(ctx context.Context, req CreateJournalEntryRequest) (*JournalEntryResponse, error) {
	lines, err := s.buildLines(ctx, req.Lines)
	if err != nil {
		return nil, err
	}

	number, err := s.nextNumber(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := ledger.NewJournalEntry(number, req.Reference, req.EntryDate, lines)
	if err != nil {
		return nil, err
	}
	if !entry.IsBalanced() {
		return nil, &ledger.UnbalancedEntryError{
			DebitTotal:  entry.DebitTotal(),
			CreditTotal: entry.CreditTotal(),
		}
	}
	if req.CreatedBy != nil {
		entry.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.journalRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return toJournalEntryResponse(entry), nil
}

// GetByID gets a journal entry by ID
func (s *JournalService) GetByID(ctx context.Context, id uuid.UUID) (*JournalEntryResponse, error) {
	entry, err := s.journalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toJournalEntryResponse(entry), nil
}

// List retrieves journal entries with pagination
func (s *JournalService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[JournalEntryResponse], error) {
	entries, err := s.journalRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.journalRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]JournalEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, *toJournalEntryResponse(&entries[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Post transitions an entry from DRAFT to POSTED. Posting an already posted
// entry fails with AlreadyPosted; the optimistic update serializes concurrent
// calls so exactly one succeeds.
func (s *JournalService) Post(ctx context.Context, id uuid.UUID) (*JournalEntryResponse, error) {
	entry, err := s.journalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := entry.Post(s.clock); err != nil {
		return nil, err
	}

	if err := s.journalRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, entry)
	return toJournalEntryResponse(entry), nil
}

func (s *JournalService) publishDomainEvents(ctx context.Context, entry *ledger.JournalEntry) {
	if s.eventPublisher == nil {
		return
	}
	events := entry.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish journal entry events", zap.Error(err))
	}
	entry.ClearDomainEvents()
}
