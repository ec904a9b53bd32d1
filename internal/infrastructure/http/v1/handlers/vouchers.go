package handlers

import (
	"github.com/gin-gonic/gin"

	"abacus/internal/domain/documents/voucher"
	"abacus/internal/infrastructure/http/v1/dto"
)

// VoucherHandler handles HTTP requests for journal vouchers.
type VoucherHandler struct {
	*BaseHandler
	service *voucher.Service
}

// NewVoucherHandler creates a new voucher handler.
func NewVoucherHandler(base *BaseHandler, service *voucher.Service) *VoucherHandler {
	return &VoucherHandler{BaseHandler: base, service: service}
}

// Create handles POST /vouchers. The voucher posts immediately; an
// unbalanced one is rejected before anything persists.
func (h *VoucherHandler) Create(c *gin.Context) {
	var req dto.CreateVoucherRequest
	if !h.BindJSON(c, &req) {
		return
	}

	v := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), v); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, v)
}

// Get handles GET /vouchers/:id.
func (h *VoucherHandler) Get(c *gin.Context) {
	voucherID, ok := h.ParseID(c)
	if !ok {
		return
	}

	v, err := h.service.GetByID(c.Request.Context(), voucherID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, v)
}

// List handles GET /vouchers with filtering.
func (h *VoucherHandler) List(c *gin.Context) {
	filter := voucher.ListFilter{
		From:   h.ParseTimeQuery(c, "from"),
		To:     h.ParseTimeQuery(c, "to"),
		Search: c.Query("search"),
		Limit:  h.ParseIntQuery(c, "limit", 0),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(items))
}

// RegisterRoutes registers journal voucher routes.
func (h *VoucherHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}
