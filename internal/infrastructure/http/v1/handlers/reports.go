package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"abacus/internal/core/apperror"
	"abacus/internal/domain/reports"
)

// ReportsHandler handles HTTP requests for financial reports.
// Every report is read-only: a fold over ledger entries and open
// documents.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// TrialBalance handles GET /reports/trial-balance?asOf=...
func (h *ReportsHandler) TrialBalance(c *gin.Context) {
	asOf := h.timeOrNow(c, "asOf")

	report, err := h.service.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// BalanceSheet handles GET /reports/balance-sheet?asOf=...
func (h *ReportsHandler) BalanceSheet(c *gin.Context) {
	asOf := h.timeOrNow(c, "asOf")

	report, err := h.service.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// IncomeStatement handles GET /reports/income-statement?start=...&end=...
// Both boundaries are required.
func (h *ReportsHandler) IncomeStatement(c *gin.Context) {
	start := h.ParseTimeQuery(c, "start")
	end := h.ParseTimeQuery(c, "end")
	if start == nil || end == nil {
		h.Error(c, apperror.NewValidation("start and end are required").
			WithDetail("format", time.RFC3339))
		return
	}

	report, err := h.service.IncomeStatement(c.Request.Context(), *start, *end)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// GeneralLedger handles GET /reports/general-ledger/:id?from=...&to=...
func (h *ReportsHandler) GeneralLedger(c *gin.Context) {
	accountID, ok := h.ParseID(c)
	if !ok {
		return
	}

	from := h.ParseTimeQuery(c, "from")
	to := h.ParseTimeQuery(c, "to")

	report, err := h.service.GeneralLedger(c.Request.Context(), accountID, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// AgingReceivables handles GET /reports/aging-receivables?asOf=...
func (h *ReportsHandler) AgingReceivables(c *gin.Context) {
	asOf := h.timeOrNow(c, "asOf")

	report, err := h.service.AgingReceivables(c.Request.Context(), asOf)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// AgingPayables handles GET /reports/aging-payables?asOf=...
func (h *ReportsHandler) AgingPayables(c *gin.Context) {
	asOf := h.timeOrNow(c, "asOf")

	report, err := h.service.AgingPayables(c.Request.Context(), asOf)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

func (h *ReportsHandler) timeOrNow(c *gin.Context, key string) time.Time {
	if t := h.ParseTimeQuery(c, key); t != nil {
		return *t
	}
	return time.Now().UTC()
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/trial-balance", h.TrialBalance)
	rg.GET("/balance-sheet", h.BalanceSheet)
	rg.GET("/income-statement", h.IncomeStatement)
	rg.GET("/general-ledger/:id", h.GeneralLedger)
	rg.GET("/aging-receivables", h.AgingReceivables)
	rg.GET("/aging-payables", h.AgingPayables)
}
