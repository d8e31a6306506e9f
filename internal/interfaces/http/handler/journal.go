package handler

import (
	ledgerapp "github.com/finbooks/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JournalHandler handles journal entry API endpoints
type JournalHandler struct {
	BaseHandler
	journalService *ledgerapp.JournalService
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(journalService *ledgerapp.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// Create creates a new draft journal entry
func (h *JournalHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	entry, err := h.journalService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// GetByID retrieves a journal entry by ID
func (h *JournalHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid journal entry ID format")
		return
	}

	entry, err := h.journalService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// List retrieves a paginated list of journal entries
func (h *JournalHandler) List(c *gin.Context) {
	filter := parseListFilter(c)

	result, err := h.journalService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Post posts a draft journal entry, making it immutable
func (h *JournalHandler) Post(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid journal entry ID format")
		return
	}

	entry, err := h.journalService.Post(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}
