// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"abacus/internal/core/tenant"
	"abacus/internal/domain/accounts"
	"abacus/internal/domain/assets"
	"abacus/internal/domain/audit"
	"abacus/internal/domain/banking"
	"abacus/internal/domain/budget"
	"abacus/internal/domain/documents/bill"
	"abacus/internal/domain/documents/invoice"
	"abacus/internal/domain/documents/voucher"
	"abacus/internal/domain/inventory"
	"abacus/internal/domain/posting"
	"abacus/internal/domain/reports"
	"abacus/internal/infrastructure/http/v1/handlers"
	"abacus/internal/infrastructure/http/v1/middleware"
	"abacus/internal/infrastructure/storage/postgres"
	"abacus/internal/infrastructure/storage/postgres/banking_repo"
	"abacus/internal/infrastructure/storage/postgres/catalog_repo"
	"abacus/internal/infrastructure/storage/postgres/document_repo"
	"abacus/internal/infrastructure/storage/postgres/ledger_repo"
	"abacus/pkg/logger"
	"abacus/pkg/numerator"
)

// RouterConfig holds router configuration for multi-tenant architecture.
type RouterConfig struct {
	// TenantManager manages database connections for all tenants
	TenantManager *tenant.Manager

	// MetaPool is connection to meta-database (for health checks)
	MetaPool *pgxpool.Pool

	// Logger for request logging
	Logger *logger.Logger

	// Numerator for document number generation
	Numerator numerator.Generator

	// Audit records document actions; nil disables the trail
	Audit audit.Recorder

	// IdempotencyEnabled enables idempotency middleware
	IdempotencyEnabled bool

	// IdempotencyTTL is how long completed keys replay (default 10m)
	IdempotencyTTL time.Duration
}

// NewRouter creates and configures the Gin router for multi-tenant architecture.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no tenant required)
	healthHandler := handlers.NewHealthHandler(cfg.MetaPool, cfg.TenantManager)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
		health.GET("/tenants", healthHandler.TenantsStats)
	}

	// API v1 - every route below resolves the tenant database first
	v1 := router.Group("/api/v1")
	v1.Use(middleware.TenantDB(cfg.TenantManager))

	if cfg.IdempotencyEnabled {
		ttl := cfg.IdempotencyTTL
		if ttl == 0 {
			ttl = 10 * time.Minute
		}
		// The store reads the tenant TxManager from the request context,
		// so one instance serves all tenants.
		v1.Use(middleware.Idempotency(postgres.NewIdempotencyStore(ttl)))
	}

	registerRoutes(v1, cfg)

	return router
}

// registerRoutes wires repositories, services and handlers.
// Repos and services are created once; the TxManager is obtained from
// the request context per call (Database-per-Tenant).
func registerRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()

	// Shared repositories
	accountRepo := catalog_repo.NewAccountRepo()
	productRepo := catalog_repo.NewProductRepo()
	assetRepo := catalog_repo.NewFixedAssetRepo()
	ledgerRepo := ledger_repo.NewLedgerRepo()
	voucherRepo := document_repo.NewVoucherRepo()
	invoiceRepo := document_repo.NewInvoiceRepo()
	billRepo := document_repo.NewBillRepo()
	budgetRepo := document_repo.NewBudgetRepo()
	bankingRepo := banking_repo.NewBankingRepo()

	// Posting core shared by every document service
	engine := posting.NewEngine(ledgerRepo, nil)
	resolver := posting.NewResolver(accountRepo)

	// --- Chart of accounts ---
	{
		service := accounts.NewService(accountRepo, ledgerRepo, nil)
		handler := handlers.NewAccountHandler(base, service)
		handler.RegisterRoutes(rg.Group("/accounts"))
	}

	// --- Products ---
	{
		service := inventory.NewService(productRepo)
		handler := handlers.NewProductHandler(base, service)
		handler.RegisterRoutes(rg.Group("/products"))
	}

	// --- Journal vouchers ---
	{
		service := voucher.NewService(voucherRepo, engine, cfg.Numerator, cfg.Audit)
		handler := handlers.NewVoucherHandler(base, service)
		handler.RegisterRoutes(rg.Group("/vouchers"))
	}

	// --- Sales invoices ---
	{
		service := invoice.NewService(invoiceRepo, productRepo, resolver, engine, cfg.Numerator, nil, cfg.Audit)
		handler := handlers.NewInvoiceHandler(base, service)
		handler.RegisterRoutes(rg.Group("/invoices"))
	}

	// --- Purchase bills ---
	{
		service := bill.NewService(billRepo, productRepo, resolver, engine, cfg.Numerator, nil, cfg.Audit)
		handler := handlers.NewBillHandler(base, service)
		handler.RegisterRoutes(rg.Group("/bills"))
	}

	// --- Bank accounts and transfers ---
	{
		service := banking.NewService(bankingRepo, ledgerRepo, engine, cfg.Numerator, cfg.Audit)
		handler := handlers.NewBankingHandler(base, service)
		handler.RegisterRoutes(rg.Group("/bank-accounts"), rg.Group("/transfers"))
	}

	// --- Budgets ---
	{
		service := budget.NewService(budgetRepo, accountRepo, ledgerRepo)
		handler := handlers.NewBudgetHandler(base, service)
		handler.RegisterRoutes(rg.Group("/budgets"))
	}

	// --- Fixed assets ---
	{
		service := assets.NewService(assetRepo)
		handler := handlers.NewAssetHandler(base, service)
		handler.RegisterRoutes(rg.Group("/assets"))
	}

	// --- Reports ---
	{
		service := reports.NewService(accountRepo, ledgerRepo, invoiceRepo, billRepo)
		handler := handlers.NewReportsHandler(base, service)
		handler.RegisterRoutes(rg.Group("/reports"))
	}
}
