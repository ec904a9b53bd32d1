package handlers

import (
	"github.com/gin-gonic/gin"

	"abacus/internal/domain/assets"
	"abacus/internal/infrastructure/http/v1/dto"
)

// AssetHandler handles HTTP requests for the fixed asset register.
type AssetHandler struct {
	*BaseHandler
	service *assets.Service
}

// NewAssetHandler creates a new asset handler.
func NewAssetHandler(base *BaseHandler, service *assets.Service) *AssetHandler {
	return &AssetHandler{BaseHandler: base, service: service}
}

// Create handles POST /assets.
func (h *AssetHandler) Create(c *gin.Context) {
	var req dto.CreateAssetRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), a); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, a)
}

// Get handles GET /assets/:id.
func (h *AssetHandler) Get(c *gin.Context) {
	assetID, ok := h.ParseID(c)
	if !ok {
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), assetID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, a)
}

// List handles GET /assets.
func (h *AssetHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(items))
}

// RecordDepreciation handles POST /assets/:id/depreciation.
// A zero amount applies one year of straight-line depreciation, capped
// at the remaining depreciable value.
func (h *AssetHandler) RecordDepreciation(c *gin.Context) {
	assetID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.DepreciationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a, err := h.service.RecordDepreciation(c.Request.Context(), assetID, req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, a)
}

// Delete handles DELETE /assets/:id (deletion mark).
func (h *AssetHandler) Delete(c *gin.Context) {
	assetID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), assetID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers fixed asset routes.
func (h *AssetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/depreciation", h.RecordDepreciation)
}
