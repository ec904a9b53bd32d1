package handlers

import (
	"github.com/gin-gonic/gin"

	"abacus/internal/domain/documents/bill"
	"abacus/internal/infrastructure/http/v1/dto"
)

// BillHandler handles HTTP requests for purchase bills.
type BillHandler struct {
	*BaseHandler
	service *bill.Service
}

// NewBillHandler creates a new bill handler.
func NewBillHandler(base *BaseHandler, service *bill.Service) *BillHandler {
	return &BillHandler{BaseHandler: base, service: service}
}

// Create handles POST /bills. The bill posts immediately: inventory,
// VAT and payable entries plus the stock increment commit in one
// transaction.
func (h *BillHandler) Create(c *gin.Context) {
	var req dto.CreateBillRequest
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

// Get handles GET /bills/:id.
func (h *BillHandler) Get(c *gin.Context) {
	billID, ok := h.ParseID(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), billID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, b)
}

// List handles GET /bills with filtering.
func (h *BillHandler) List(c *gin.Context) {
	filter := bill.ListFilter{
		VendorID: h.ParseIDQuery(c, "vendorId"),
		Status:   bill.Status(c.Query("status")),
		From:     h.ParseTimeQuery(c, "from"),
		To:       h.ParseTimeQuery(c, "to"),
		Limit:    h.ParseIntQuery(c, "limit", 0),
		Offset:   h.ParseIntQuery(c, "offset", 0),
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(items))
}

// RecordPayment handles POST /bills/:id/payments.
func (h *BillHandler) RecordPayment(c *gin.Context) {
	billID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.RecordPayment(c.Request.Context(), bill.PaymentInput{
		BillID:           billID,
		Amount:           req.Amount,
		Date:             req.Date,
		PayFromAccountID: req.AccountID,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, b)
}

// CreateDebitNote handles POST /bills/:id/debit-notes.
func (h *BillHandler) CreateDebitNote(c *gin.Context) {
	billID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.CreateDebitNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	dn, err := h.service.CreateDebitNote(c.Request.Context(), req.ToInput(billID))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dn)
}

// RegisterRoutes registers purchase bill routes.
func (h *BillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/payments", h.RecordPayment)
	rg.POST("/:id/debit-notes", h.CreateDebitNote)
}
