package handler

import (
	"time"

	budgetapp "github.com/finbooks/backend/internal/application/budget"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetHandler handles budget API endpoints
type BudgetHandler struct {
	BaseHandler
	budgetService *budgetapp.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *budgetapp.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// Create creates a new draft budget
func (h *BudgetHandler) Create(c *gin.Context) {
	var req budgetapp.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	b, err := h.budgetService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, b)
}

// GetByID retrieves a budget by ID
func (h *BudgetHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	b, err := h.budgetService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, b)
}

// List retrieves a paginated list of budgets
func (h *BudgetHandler) List(c *gin.Context) {
	filter := parseListFilter(c)

	result, err := h.budgetService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update edits a draft budget
func (h *BudgetHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	var req budgetapp.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	b, err := h.budgetService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, b)
}

// Approve confirms a draft budget
func (h *BudgetHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	b, err := h.budgetService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, b)
}

// Archive archives a budget
func (h *BudgetHandler) Archive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	b, err := h.budgetService.Archive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, b)
}

// CreateRevision creates a draft revision of a confirmed budget
func (h *BudgetHandler) CreateRevision(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid budget ID format")
		return
	}

	var req budgetapp.BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	b, err := h.budgetService.CreateRevision(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, b)
}

// CheckAvailability reports remaining budget for an analytic account at a date
func (h *BudgetHandler) CheckAvailability(c *gin.Context) {
	analyticAccountID, err := uuid.Parse(c.Query("analytic_account_id"))
	if err != nil {
		h.BadRequest(c, "Invalid analytic account ID format")
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		h.BadRequest(c, "Invalid amount")
		return
	}

	date, err := time.Parse(time.RFC3339, c.Query("date"))
	if err != nil {
		h.BadRequest(c, "Invalid date, expected RFC 3339")
		return
	}

	result, err := h.budgetService.CheckAvailability(c.Request.Context(), analyticAccountID, amount, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
