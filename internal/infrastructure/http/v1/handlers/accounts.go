package handlers

import (
	"github.com/gin-gonic/gin"

	"abacus/internal/domain/accounts"
	"abacus/internal/infrastructure/http/v1/dto"
)

// AccountHandler handles HTTP requests for the chart of accounts.
type AccountHandler struct {
	*BaseHandler
	service *accounts.Service
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(base *BaseHandler, service *accounts.Service) *AccountHandler {
	return &AccountHandler{BaseHandler: base, service: service}
}

// Create handles POST /accounts.
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	acc := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), acc); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, acc)
}

// Get handles GET /accounts/:id.
func (h *AccountHandler) Get(c *gin.Context) {
	accountID, ok := h.ParseID(c)
	if !ok {
		return
	}

	acc, err := h.service.GetByID(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, acc)
}

// List handles GET /accounts with filtering.
func (h *AccountHandler) List(c *gin.Context) {
	filter := accounts.ListFilter{
		Type:       accounts.Type(c.Query("type")),
		ActiveOnly: c.Query("activeOnly") == "true",
		Search:     c.Query("search"),
		Limit:      h.ParseIntQuery(c, "limit", 0),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(items))
}

// Update handles PUT /accounts/:id.
func (h *AccountHandler) Update(c *gin.Context) {
	accountID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	acc, err := h.service.GetByID(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(acc)

	if err := h.service.Update(c.Request.Context(), acc); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, acc)
}

// Delete handles DELETE /accounts/:id.
// System accounts are refused; accounts with entries are deactivated.
func (h *AccountHandler) Delete(c *gin.Context) {
	accountID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), accountID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Balance handles GET /accounts/:id/balance.
// Optional asOf query parameter (RFC3339) limits the calculation date.
func (h *AccountHandler) Balance(c *gin.Context) {
	accountID, ok := h.ParseID(c)
	if !ok {
		return
	}

	asOf := h.ParseTimeQuery(c, "asOf")

	balance, err := h.service.GetBalance(c.Request.Context(), accountID, asOf)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"accountId": accountID,
		"asOf":      asOf,
		"balance":   balance,
	})
}

// RegisterRoutes registers chart of accounts routes.
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/balance", h.Balance)
}
