package handler

import (
	autoruleapp "github.com/finbooks/backend/internal/application/autorule"
	"github.com/finbooks/backend/internal/domain/autorule"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RuleHandler handles auto-analytical rule API endpoints
type RuleHandler struct {
	BaseHandler
	ruleService *autoruleapp.RuleService
}

// NewRuleHandler creates a new RuleHandler
func NewRuleHandler(ruleService *autoruleapp.RuleService) *RuleHandler {
	return &RuleHandler{ruleService: ruleService}
}

// Create creates a new draft rule
func (h *RuleHandler) Create(c *gin.Context) {
	var req autoruleapp.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil && userID != uuid.Nil {
		req.CreatedBy = &userID
	}

	rule, err := h.ruleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, rule)
}

// GetByID retrieves a rule by ID
func (h *RuleHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	rule, err := h.ruleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// List retrieves a paginated list of rules
func (h *RuleHandler) List(c *gin.Context) {
	filter := parseListFilter(c)

	result, err := h.ruleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update edits a draft rule
func (h *RuleHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	var req autoruleapp.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rule, err := h.ruleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// Confirm activates a draft rule
func (h *RuleHandler) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	rule, err := h.ruleService.Confirm(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// Archive archives a rule so it no longer participates in selection
func (h *RuleHandler) Archive(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	rule, err := h.ruleService.Archive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// Delete removes a draft rule
func (h *RuleHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	if err := h.ruleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SelectRequest carries the line context for a rule selection dry run
type SelectRequest struct {
	PartnerID         *uuid.UUID  `json:"partner_id"`
	PartnerTagIDs     []uuid.UUID `json:"partner_tag_ids"`
	ProductID         *uuid.UUID  `json:"product_id"`
	ProductCategoryID *uuid.UUID  `json:"product_category_id"`
}

// SelectResponse reports the analytic account the rules would assign
type SelectResponse struct {
	AnalyticAccountID *uuid.UUID `json:"analytic_account_id"`
}

// Select runs rule selection against an ad-hoc line context without
// creating any document
func (h *RuleHandler) Select(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lineCtx := autorule.LineContext{
		PartnerID:         req.PartnerID,
		PartnerTagIDs:     req.PartnerTagIDs,
		ProductID:         req.ProductID,
		ProductCategoryID: req.ProductCategoryID,
	}

	accountID, err := h.ruleService.SelectAnalyticAccount(c.Request.Context(), lineCtx)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SelectResponse{AnalyticAccountID: accountID})
}
