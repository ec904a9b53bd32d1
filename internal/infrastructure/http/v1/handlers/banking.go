package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"abacus/internal/domain/banking"
	"abacus/internal/infrastructure/http/v1/dto"
)

// BankingHandler handles HTTP requests for bank accounts and transfers.
type BankingHandler struct {
	*BaseHandler
	service *banking.Service
}

// NewBankingHandler creates a new banking handler.
func NewBankingHandler(base *BaseHandler, service *banking.Service) *BankingHandler {
	return &BankingHandler{BaseHandler: base, service: service}
}

// CreateAccount handles POST /bank-accounts.
func (h *BankingHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateBankAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a := req.ToEntity()
	if err := h.service.CreateAccount(c.Request.Context(), a); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, a)
}

// GetAccount handles GET /bank-accounts/:id.
func (h *BankingHandler) GetAccount(c *gin.Context) {
	accountID, ok := h.ParseID(c)
	if !ok {
		return
	}

	a, err := h.service.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, a)
}

// ListAccounts handles GET /bank-accounts.
func (h *BankingHandler) ListAccounts(c *gin.Context) {
	items, err := h.service.ListAccounts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(items))
}

// Deposit handles POST /bank-accounts/:id/deposit.
func (h *BankingHandler) Deposit(c *gin.Context) {
	accountID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.MovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Deposit(c.Request.Context(), req.ToInput(accountID)); err != nil {
		h.Error(c, err)
		return
	}

	a, err := h.service.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, a)
}

// Withdraw handles POST /bank-accounts/:id/withdraw. A withdrawal
// exceeding the balance fails with INSUFFICIENT_FUNDS and persists
// nothing.
func (h *BankingHandler) Withdraw(c *gin.Context) {
	accountID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.MovementRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Withdraw(c.Request.Context(), req.ToInput(accountID)); err != nil {
		h.Error(c, err)
		return
	}

	a, err := h.service.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, a)
}

// Reconcile handles POST /bank-accounts/:id/reconcile.
func (h *BankingHandler) Reconcile(c *gin.Context) {
	accountID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.ReconcileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	result, err := h.service.Reconcile(c.Request.Context(), accountID, req.StatementBalance, asOf)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// CreateTransfer handles POST /transfers.
func (h *BankingHandler) CreateTransfer(c *gin.Context) {
	var req dto.CreateTransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	t, err := h.service.CreateTransfer(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, t)
}

// ListTransfers handles GET /transfers, optionally scoped to one
// account via the accountId query parameter.
func (h *BankingHandler) ListTransfers(c *gin.Context) {
	accountID := h.ParseIDQuery(c, "accountId")

	items, err := h.service.ListTransfers(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(items))
}

// RegisterRoutes registers bank account and transfer routes.
func (h *BankingHandler) RegisterRoutes(accounts, transfers *gin.RouterGroup) {
	accounts.POST("", h.CreateAccount)
	accounts.GET("", h.ListAccounts)
	accounts.GET("/:id", h.GetAccount)
	accounts.POST("/:id/deposit", h.Deposit)
	accounts.POST("/:id/withdraw", h.Withdraw)
	accounts.POST("/:id/reconcile", h.Reconcile)

	transfers.POST("", h.CreateTransfer)
	transfers.GET("", h.ListTransfers)
}
