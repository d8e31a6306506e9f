package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/domain/autorule"
	"github.com/finbooks/backend/internal/domain/billing"
	"github.com/finbooks/backend/internal/domain/budget"
	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerAccountCodes names the control and counter accounts used when a
// document is posted. The codes come from configuration; posting fails closed
// with MISSING_LEDGER_CONFIGURATION when a required code is unset or does not
// resolve to an account.
type LedgerAccountCodes struct {
	Receivable string
	Payable    string
	Revenue    string
	Expense    string
}

// AvailabilityChecker is the advisory budget check consumed on posting and
// confirmation. Shortfalls become warnings, never errors.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, analyticAccountID uuid.UUID, amount decimal.Decimal, date time.Time) (*budget.AvailabilityResult, error)
}

// AnalyticSelector supplies a default analytic account for a line from the
// confirmed auto-analytical rules
type AnalyticSelector interface {
	SelectAnalyticAccount(ctx context.Context, lineCtx autorule.LineContext) (*uuid.UUID, error)
}

// DocumentService provides application-level invoice and bill operations
type DocumentService struct {
	documentRepo billing.DocumentRepository
	accountRepo  ledger.AccountRepository
	checker      AvailabilityChecker
	selector     AnalyticSelector
	accountCodes LedgerAccountCodes
	clock        shared.Clock
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documentRepo billing.DocumentRepository,
	accountRepo ledger.AccountRepository,
	checker AvailabilityChecker,
	selector AnalyticSelector,
	accountCodes LedgerAccountCodes,
	clock shared.Clock,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		accountRepo:  accountRepo,
		checker:      checker,
		selector:     selector,
		accountCodes: accountCodes,
		clock:        clock,
		publisher:    publisher,
		logger:       logger,
	}
}

// DocumentLineRequest represents one position of a document in requests
type DocumentLineRequest struct {
	ProductID         *uuid.UUID      `json:"product_id"`
	ProductCategoryID *uuid.UUID      `json:"product_category_id"`
	Label             string          `json:"label" binding:"required,max=500"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required"`
	PriceUnit         decimal.Decimal `json:"price_unit"`
	AnalyticAccountID *uuid.UUID      `json:"analytic_account_id"`
}

// CreateDocumentRequest represents a request to create an invoice or bill
type CreateDocumentRequest struct {
	Kind          string                `json:"kind" binding:"required,oneof=OUT_INVOICE IN_INVOICE"`
	PartnerID     uuid.UUID             `json:"partner_id" binding:"required"`
	PartnerTagIDs []uuid.UUID           `json:"partner_tag_ids"`
	DocumentDate  time.Time             `json:"document_date" binding:"required"`
	DueDate       *time.Time            `json:"due_date"`
	Lines         []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
	CreatedBy     *uuid.UUID            `json:"-"`
}

// UpdateDocumentRequest represents a request to edit a draft document
type UpdateDocumentRequest struct {
	PartnerID     uuid.UUID             `json:"partner_id" binding:"required"`
	PartnerTagIDs []uuid.UUID           `json:"partner_tag_ids"`
	DocumentDate  time.Time             `json:"document_date" binding:"required"`
	DueDate       *time.Time            `json:"due_date"`
	Lines         []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// DocumentLineResponse represents one position of a document in API responses
type DocumentLineResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         *uuid.UUID      `json:"product_id,omitempty"`
	Label             string          `json:"label"`
	Quantity          decimal.Decimal `json:"quantity"`
	PriceUnit         decimal.Decimal `json:"price_unit"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	AnalyticAccountID *uuid.UUID      `json:"analytic_account_id,omitempty"`
}

// BudgetWarning is an advisory shortfall attached to a successful transition
type BudgetWarning struct {
	AnalyticAccountID uuid.UUID       `json:"analytic_account_id"`
	BudgetID          *uuid.UUID      `json:"budget_id,omitempty"`
	Remaining         decimal.Decimal `json:"remaining"`
	Requested         decimal.Decimal `json:"requested"`
	Message           string          `json:"message"`
}

// DocumentResponse represents an invoice or bill in API responses
type DocumentResponse struct {
	ID             uuid.UUID              `json:"id"`
	Number         string                 `json:"number"`
	Kind           string                 `json:"kind"`
	PartnerID      uuid.UUID              `json:"partner_id"`
	DocumentDate   time.Time              `json:"document_date"`
	DueDate        *time.Time             `json:"due_date,omitempty"`
	Status         string                 `json:"status"`
	TotalAmount    decimal.Decimal        `json:"total_amount"`
	TaxAmount      decimal.Decimal        `json:"tax_amount"`
	PaymentState   string                 `json:"payment_state"`
	AmountDue      decimal.Decimal        `json:"amount_due"`
	JournalEntryID *uuid.UUID             `json:"journal_entry_id,omitempty"`
	Lines          []DocumentLineResponse `json:"lines"`
	Warnings       []BudgetWarning        `json:"warnings,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Version        int                    `json:"version"`
}

func toDocumentResponse(d *billing.Document, warnings []BudgetWarning) *DocumentResponse {
	lines := make([]DocumentLineResponse, 0, len(d.Lines))
	for _, line := range d.Lines {
		lines = append(lines, DocumentLineResponse{
			ID:                line.ID,
			ProductID:         line.ProductID,
			Label:             line.Label,
			Quantity:          line.Quantity,
			PriceUnit:         line.PriceUnit,
			Subtotal:          line.Subtotal,
			AnalyticAccountID: line.AnalyticAccountID,
		})
	}
	return &DocumentResponse{
		ID:             d.ID,
		Number:         d.Number,
		Kind:           d.Kind.String(),
		PartnerID:      d.PartnerID,
		DocumentDate:   d.DocumentDate,
		DueDate:        d.DueDate,
		Status:         d.Status.String(),
		TotalAmount:    d.TotalAmount,
		TaxAmount:      d.TaxAmount,
		PaymentState:   d.PaymentState.String(),
		AmountDue:      d.AmountDue,
		JournalEntryID: d.JournalEntryID,
		Lines:          lines,
		Warnings:       warnings,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		Version:        d.Version,
	}
}

// buildLines converts line requests to domain lines, filling missing analytic
// tags from the confirmed auto-analytical rules
func (s *DocumentService) buildLines(ctx context.Context, partnerID uuid.UUID, partnerTagIDs []uuid.UUID, requests []DocumentLineRequest) ([]billing.DocumentLine, error) {
	lines := make([]billing.DocumentLine, 0, len(requests))
	for _, req := range requests {
		analyticID := req.AnalyticAccountID
		if analyticID == nil && s.selector != nil {
			selected, err := s.selector.SelectAnalyticAccount(ctx, autorule.LineContext{
				PartnerTagIDs:     partnerTagIDs,
				PartnerID:         &partnerID,
				ProductCategoryID: req.ProductCategoryID,
				ProductID:         req.ProductID,
			})
			if err != nil {
				return nil, err
			}
			analyticID = selected
		}

		line, err := billing.NewDocumentLine(req.ProductID, req.Label, req.Quantity, req.PriceUnit, analyticID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, *line)
	}
	return lines, nil
}

// nextNumber generates the next document number for the kind and the year of
// the injected clock, e.g. INV/2024/0042
func (s *DocumentService) nextNumber(ctx context.Context, kind billing.DocumentKind) (string, error) {
	year := s.clock.Now().Year()
	seq, err := s.documentRepo.NextSequence(ctx, kind, year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d/%04d", kind.NumberPrefix(), year, seq), nil
}

// Create creates a draft invoice or bill with a generated number
func (s *DocumentService) Create(ctx context.Context, req CreateDocumentRequest) (*DocumentResponse, error) {
	kind := billing.DocumentKind(req.Kind)
	lines, err := s.buildLines(ctx, req.PartnerID, req.PartnerTagIDs, req.Lines)
	if err != nil {
		return nil, err
	}

	number, err := s.nextNumber(ctx, kind)
	if err != nil {
		return nil, err
	}

	doc, err := billing.NewDocument(number, kind, req.PartnerID, req.DocumentDate, req.DueDate, lines)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		doc.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, nil), nil
}

// GetByID gets a document by ID
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, nil), nil
}

// List retrieves documents with pagination
func (s *DocumentService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[DocumentResponse], error) {
	docs, err := s.documentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.documentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		items = append(items, *toDocumentResponse(&docs[i], nil))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update edits a draft document's header and lines
func (s *DocumentService) Update(ctx context.Context, id uuid.UUID, req UpdateDocumentRequest) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := doc.UpdateHeader(req.PartnerID, req.DocumentDate, req.DueDate); err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, req.PartnerID, req.PartnerTagIDs, req.Lines)
	if err != nil {
		return nil, err
	}
	if err := doc.ReplaceLines(lines); err != nil {
		return nil, err
	}

	if err := s.documentRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return toDocumentResponse(doc, nil), nil
}

// Delete removes a draft document
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !doc.CanModify() {
		return shared.NewInvalidStateError("delete", billing.DocumentStatusDraft.String(), doc.Status.String())
	}
	return s.documentRepo.Delete(ctx, id)
}

// resolveControlAccounts returns the control account (receivable or payable)
// and counter account (revenue or expense) for the document kind. A missing
// configuration or unresolvable code fails closed: the document is never
// posted without its journal entry.
func (s *DocumentService) resolveControlAccounts(ctx context.Context, kind billing.DocumentKind) (control, counter *ledger.Account, err error) {
	controlCode, counterCode := s.accountCodes.Receivable, s.accountCodes.Revenue
	if kind == billing.DocumentKindVendorBill {
		controlCode, counterCode = s.accountCodes.Payable, s.accountCodes.Expense
	}
	if controlCode == "" || counterCode == "" {
		return nil, nil, shared.NewDomainError(shared.CodeMissingLedgerConfig,
			fmt.Sprintf("Ledger accounts for %s posting are not configured", kind))
	}

	control, err = s.accountRepo.FindByCode(ctx, controlCode)
	if err != nil {
		return nil, nil, shared.NewDomainError(shared.CodeMissingLedgerConfig,
			fmt.Sprintf("Configured ledger account %s does not exist", controlCode))
	}
	counter, err = s.accountRepo.FindByCode(ctx, counterCode)
	if err != nil {
		return nil, nil, shared.NewDomainError(shared.CodeMissingLedgerConfig,
			fmt.Sprintf("Configured ledger account %s does not exist", counterCode))
	}
	return control, counter, nil
}

// buildJournalEntry derives the balanced journal entry for a document: one
// control line for the full total and one counter line per document line
// carrying that line's analytic tag. Customer invoices debit the control
// account and credit the counter account; vendor bills mirror the direction.
func (s *DocumentService) buildJournalEntry(doc *billing.Document, number string, control, counter *ledger.Account) (*ledger.JournalEntry, error) {
	lines := make([]ledger.JournalLine, 0, len(doc.Lines)+1)

	controlDebit, controlCredit := doc.TotalAmount, decimal.Zero
	if doc.Kind == billing.DocumentKindVendorBill {
		controlDebit, controlCredit = decimal.Zero, doc.TotalAmount
	}
	controlLine, err := ledger.NewJournalLine(control.ID, nil, doc.Number, controlDebit, controlCredit)
	if err != nil {
		return nil, err
	}
	controlLine.PartnerID = &doc.PartnerID
	lines = append(lines, *controlLine)

	for _, docLine := range doc.Lines {
		debit, credit := decimal.Zero, docLine.Subtotal
		if doc.Kind == billing.DocumentKindVendorBill {
			debit, credit = docLine.Subtotal, decimal.Zero
		}
		line, err := ledger.NewJournalLine(counter.ID, docLine.AnalyticAccountID, docLine.Label, debit, credit)
		if err != nil {
			return nil, err
		}
		line.PartnerID = &doc.PartnerID
		lines = append(lines, *line)
	}

	return ledger.NewJournalEntry(number, doc.Number, doc.DocumentDate, lines)
}

// collectBudgetWarnings runs the advisory availability check for every line
// carrying an analytic tag. It must run before the document is persisted as
// POSTED: actuals sum over posted documents, so a committed document would
// count its own lines against the budget. Failures of the check itself are
// logged and swallowed so they never affect the transition.
func (s *DocumentService) collectBudgetWarnings(ctx context.Context, doc *billing.Document) []BudgetWarning {
	if s.checker == nil {
		return nil
	}
	var warnings []BudgetWarning
	for _, line := range doc.AnalyticLines() {
		result, err := s.checker.CheckAvailability(ctx, *line.AnalyticAccountID, line.Subtotal, doc.DocumentDate)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("budget availability check failed",
					zap.String("document", doc.Number), zap.Error(err))
			}
			continue
		}
		if !result.Available {
			warnings = append(warnings, BudgetWarning{
				AnalyticAccountID: *line.AnalyticAccountID,
				BudgetID:          result.BudgetID,
				Remaining:         result.Remaining,
				Requested:         line.Subtotal,
				Message:           result.Message,
			})
		}
	}
	return warnings
}

// Post transitions a draft invoice or bill to POSTED: it resolves the control
// accounts, builds and posts the journal entry, and writes both in a single
// transaction. For vendor bills budget warnings are collected per analytic
// line and returned alongside the result; they never block posting.
func (s *DocumentService) Post(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.IsPosted() {
		return nil, shared.ErrAlreadyPosted
	}

	control, counter, err := s.resolveControlAccounts(ctx, doc.Kind)
	if err != nil {
		return nil, err
	}

	entryNumber := fmt.Sprintf("JRNL/%s", doc.Number)
	entry, err := s.buildJournalEntry(doc, entryNumber, control, counter)
	if err != nil {
		return nil, err
	}
	if err := entry.Post(s.clock); err != nil {
		return nil, err
	}
	entry.CreatedBy = doc.CreatedBy

	if err := doc.MarkPosted(entry.ID, s.clock); err != nil {
		return nil, err
	}

	// Checked while the document is still DRAFT in the database so the
	// actuals sum excludes the spend being posted.
	var warnings []BudgetWarning
	if doc.Kind == billing.DocumentKindVendorBill {
		warnings = s.collectBudgetWarnings(ctx, doc)
	}

	if err := s.documentRepo.SaveWithJournalEntry(ctx, doc, entry); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, doc)

	return toDocumentResponse(doc, warnings), nil
}

func (s *DocumentService) publishDomainEvents(ctx context.Context, doc *billing.Document) {
	if s.publisher == nil {
		return
	}
	events := doc.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil && s.logger != nil {
		s.logger.Warn("failed to publish document events", zap.Error(err))
	}
	doc.ClearDomainEvents()
}
