package accounts

import (
	"context"
	"fmt"

	"abacus/internal/core/apperror"
	"abacus/pkg/logger"
)

// seedAccount describes one default chart entry.
type seedAccount struct {
	code    string
	name    string
	accType Type
}

// defaultChart is the minimal chart every tenant needs before documents
// can post. Codes follow the usual 4-digit convention: 1xxx assets,
// 2xxx liabilities, 3xxx equity, 4xxx revenue, 5xxx expenses.
var defaultChart = []seedAccount{
	{"1000", "Cash", TypeAsset},
	{"1100", "Accounts Receivable", TypeAsset},
	{"1200", "Inventory", TypeAsset},
	{"2000", "Accounts Payable", TypeLiability},
	{"2100", "VAT Payable", TypeLiability},
	{"3000", "Owner Equity", TypeEquity},
	{"4000", "Sales Revenue", TypeRevenue},
	{"5000", "Operating Expenses", TypeExpense},
}

// SeedDefaults creates the well-known system accounts for a new tenant.
// Existing codes are left untouched, so the operation is safe to re-run.
func (s *Service) SeedDefaults(ctx context.Context) error {
	txm, err := s.getTxManager(ctx)
	if err != nil {
		return apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}

	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		var created int
		for _, sa := range defaultChart {
			exists, err := s.repo.ExistsByCode(ctx, sa.code)
			if err != nil {
				return fmt.Errorf("check code %s: %w", sa.code, err)
			}
			if exists {
				continue
			}

			acc := New(sa.code, sa.name, sa.accType)
			acc.System = true
			if err := s.repo.Create(ctx, acc); err != nil {
				return fmt.Errorf("create account %s: %w", sa.code, err)
			}
			created++
		}

		logger.Info(ctx, "default chart seeded", "created", created)
		return nil
	})
}
