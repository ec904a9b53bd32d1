package handlers

import (
	"github.com/gin-gonic/gin"

	"abacus/internal/domain/documents/invoice"
	"abacus/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler handles HTTP requests for sales invoices.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, service: service}
}

// Create handles POST /invoices. The invoice posts immediately:
// receivable, revenue and VAT entries plus the stock decrement commit
// in one transaction.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), inv); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, inv)
}

// Get handles GET /invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}

	inv, err := h.service.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, inv)
}

// List handles GET /invoices with filtering.
func (h *InvoiceHandler) List(c *gin.Context) {
	filter := invoice.ListFilter{
		CustomerID: h.ParseIDQuery(c, "customerId"),
		Status:     invoice.Status(c.Query("status")),
		From:       h.ParseTimeQuery(c, "from"),
		To:         h.ParseTimeQuery(c, "to"),
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

// RecordPayment handles POST /invoices/:id/payments.
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.RecordPayment(c.Request.Context(), invoice.PaymentInput{
		InvoiceID:        invoiceID,
		Amount:           req.Amount,
		Date:             req.Date,
		DepositAccountID: req.AccountID,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, inv)
}

// WriteOff handles POST /invoices/:id/write-off.
func (h *InvoiceHandler) WriteOff(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.WriteOffRequest
	if !h.BindJSON(c, &req) {
		return
	}

	inv, err := h.service.WriteOff(c.Request.Context(), invoiceID, req.Date)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, inv)
}

// CreateCreditNote handles POST /invoices/:id/credit-notes.
func (h *InvoiceHandler) CreateCreditNote(c *gin.Context) {
	invoiceID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.CreateCreditNoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cn, err := h.service.CreateCreditNote(c.Request.Context(), req.ToInput(invoiceID))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, cn)
}

// RegisterRoutes registers sales invoice routes.
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/payments", h.RecordPayment)
	rg.POST("/:id/write-off", h.WriteOff)
	rg.POST("/:id/credit-notes", h.CreateCreditNote)
}
