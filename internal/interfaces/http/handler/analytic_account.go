package handler

import (
	ledgerapp "github.com/finbooks/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalyticAccountHandler handles analytic account API endpoints
type AnalyticAccountHandler struct {
	BaseHandler
	analyticService *ledgerapp.AnalyticAccountService
}

// NewAnalyticAccountHandler creates a new AnalyticAccountHandler
func NewAnalyticAccountHandler(analyticService *ledgerapp.AnalyticAccountService) *AnalyticAccountHandler {
	return &AnalyticAccountHandler{analyticService: analyticService}
}

// Create creates a new analytic account in draft state
func (h *AnalyticAccountHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateAnalyticAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	account, err := h.analyticService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, account)
}

// GetByID retrieves an analytic account by ID
func (h *AnalyticAccountHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid analytic account ID format")
		return
	}

	account, err := h.analyticService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// List retrieves a paginated list of analytic accounts
func (h *AnalyticAccountHandler) List(c *gin.Context) {
	filter := parseListFilter(c)

	result, err := h.analyticService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update edits a draft analytic account
func (h *AnalyticAccountHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid analytic account ID format")
		return
	}

	var req ledgerapp.UpdateAnalyticAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.analyticService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// Confirm transitions an analytic account from draft to confirmed
func (h *AnalyticAccountHandler) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid analytic account ID format")
		return
	}

	account, err := h.analyticService.Confirm(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// Archive transitions an analytic account to archived
func (h *AnalyticAccountHandler) Archive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid analytic account ID format")
		return
	}

	account, err := h.analyticService.Archive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}
