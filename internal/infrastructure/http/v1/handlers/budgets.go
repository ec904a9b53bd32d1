package handlers

import (
	"github.com/gin-gonic/gin"

	"abacus/internal/domain/budget"
	"abacus/internal/infrastructure/http/v1/dto"
)

// BudgetHandler handles HTTP requests for fiscal-year budgets.
type BudgetHandler struct {
	*BaseHandler
	service *budget.Service
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(base *BaseHandler, service *budget.Service) *BudgetHandler {
	return &BudgetHandler{BaseHandler: base, service: service}
}

// Create handles POST /budgets.
func (h *BudgetHandler) Create(c *gin.Context) {
	var req dto.CreateBudgetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), b); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, b)
}

// Get handles GET /budgets/:id.
func (h *BudgetHandler) Get(c *gin.Context) {
	budgetID, ok := h.ParseID(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), budgetID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, b)
}

// List handles GET /budgets, optionally filtered by fiscalYear.
func (h *BudgetHandler) List(c *gin.Context) {
	fiscalYear := h.ParseIntQuery(c, "fiscalYear", 0)

	items, err := h.service.List(c.Request.Context(), fiscalYear)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(items))
}

// VsActual handles GET /budgets/:id/vs-actual: budgeted amounts against
// ledger activity for the fiscal year.
func (h *BudgetHandler) VsActual(c *gin.Context) {
	budgetID, ok := h.ParseID(c)
	if !ok {
		return
	}

	rows, err := h.service.VsActual(c.Request.Context(), budgetID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(rows))
}

// RegisterRoutes registers budget routes.
func (h *BudgetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/vs-actual", h.VsActual)
}
