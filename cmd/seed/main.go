// Package main provides a CLI tool for seeding a tenant database with
// the default chart of accounts and optional demo data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"abacus/internal/core/id"
	"abacus/internal/core/tenant"
	"abacus/internal/domain/accounts"
	"abacus/internal/infrastructure/storage/postgres"
	"abacus/internal/infrastructure/storage/postgres/catalog_repo"
	"abacus/internal/infrastructure/storage/postgres/ledger_repo"
	"abacus/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to tenant database
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	// Repos resolve the TxManager from context, same as in request handling.
	txManager := postgres.NewTxManager(pool)
	ctx = tenant.WithTxManager(ctx, txManager)

	// Seed default chart of accounts
	accountService := accounts.NewService(
		catalog_repo.NewAccountRepo(),
		ledger_repo.NewLedgerRepo(),
		txManager,
	)
	if err := accountService.SeedDefaults(ctx); err != nil {
		log.Fatalw("failed to seed chart of accounts", "error", err)
	}

	// Seed demo data if requested
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedTenantRegistry(ctx, dbURL, log); err != nil {
			log.Warnw("failed to seed tenant registry", "error", err)
		}
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	// 1. Demo products
	products := []struct {
		code         string
		name         string
		price        string
		cost         string
		stock        string
		reorderLevel string
	}{
		{"PRD-00001", "Office Paper A4", "6.50", "4.00", "120", "20"},
		{"PRD-00002", "Ballpoint Pen Blue", "1.20", "0.60", "500", "100"},
		{"PRD-00003", "Desktop Stapler", "9.90", "5.50", "35", "10"},
		{"PRD-00004", "Paper Clips 28mm (100 pcs)", "2.10", "1.10", "80", "25"},
		{"PRD-00005", "Lever Arch Folder", "4.30", "2.40", "60", "15"},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO cat_products (id, code, name, price, cost, stock_quantity, reorder_level, version, deletion_mark)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 1, false)
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, id.New(), p.code, p.name, p.price, p.cost, p.stock, p.reorderLevel)
		if err != nil {
			log.Warnw("failed to seed product", "code", p.code, "error", err)
		}
	}

	// 2. Demo bank account, linked to the Cash chart account
	var cashAccountID id.ID
	err := pool.QueryRow(ctx, `
		SELECT id FROM cat_accounts WHERE code = '1000' AND deletion_mark = FALSE
	`).Scan(&cashAccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn("cash account 1000 not found, skipping demo bank account")
			return nil
		}
		return fmt.Errorf("lookup cash account: %w", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO cat_bank_accounts (
			id, code, name, bank_name, account_number, currency,
			current_balance, chart_account_id, version, deletion_mark
		)
		VALUES ($1, 'BNK-001', 'Operating Account', 'First National', '000123456789', 'USD', 0, $2, 1, false)
		ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
	`, id.New(), cashAccountID)
	if err != nil {
		log.Warnw("failed to seed bank account", "error", err)
	}

	log.Info("demo data seeded successfully")
	return nil
}

// seedTenantRegistry registers this database in the meta registry so the
// API server can route requests to it. Skipped when META_DATABASE_URL is
// not configured.
func seedTenantRegistry(ctx context.Context, dbURL string, log *logger.Logger) error {
	metaDSN := os.Getenv("META_DATABASE_URL")
	if metaDSN == "" {
		log.Warn("META_DATABASE_URL is not set; skipping tenant registry seed")
		return nil
	}

	metaPool, err := pgxpool.New(ctx, metaDSN)
	if err != nil {
		return fmt.Errorf("connect meta database: %w", err)
	}
	defer metaPool.Close()

	if err := metaPool.Ping(ctx); err != nil {
		return fmt.Errorf("ping meta database: %w", err)
	}

	tenantSlug := os.Getenv("TENANT_SLUG")
	if tenantSlug == "" {
		tenantSlug = "demo"
	}

	tenantName := os.Getenv("TENANT_NAME")
	if tenantName == "" {
		tenantName = "Demo Tenant"
	}

	dbConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return fmt.Errorf("parse tenant database url: %w", err)
	}

	dbHost := dbConfig.ConnConfig.Host
	if dbHost == "" {
		dbHost = "localhost"
	}

	dbPort := int(dbConfig.ConnConfig.Port)
	if dbPort == 0 {
		dbPort = 5432
	}

	dbName := dbConfig.ConnConfig.Database
	if dbName == "" {
		dbName = "abacus"
	}

	var existingID string
	err = metaPool.QueryRow(ctx, `SELECT id FROM tenants WHERE slug = $1`, tenantSlug).Scan(&existingID)
	if err == nil {
		log.Infow("tenant already exists in registry", "slug", tenantSlug, "tenant_id", existingID)
		return nil
	}
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check tenant exists: %w", err)
	}

	settings := map[string]any{}
	if vatRate := os.Getenv("TENANT_VAT_RATE"); vatRate != "" {
		settings["vat_rate"] = vatRate
	}

	registry := tenant.NewPostgresRegistry(metaPool)
	newTenant := &tenant.Tenant{
		Slug:        tenantSlug,
		DisplayName: tenantName,
		DBName:      dbName,
		DBHost:      dbHost,
		DBPort:      dbPort,
		Status:      tenant.StatusActive,
		Settings:    settings,
	}

	if err := registry.Create(ctx, newTenant); err != nil {
		return fmt.Errorf("create tenant: %w", err)
	}

	log.Infow("tenant seeded in registry", "slug", tenantSlug, "tenant_id", newTenant.ID)
	return nil
}
