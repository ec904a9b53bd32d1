package budget

import (
	"context"
	"fmt"
	"time"

	"abacus/internal/core/id"
	"abacus/internal/domain/accounts"
	"abacus/internal/domain/ledger"
	"abacus/pkg/logger"
)

// Service provides business operations for budgets.
type Service struct {
	repo     Repository
	accounts accounts.Repository
	entries  ledger.Repository
}

// NewService creates a new budget service.
func NewService(repo Repository, accs accounts.Repository, entries ledger.Repository) *Service {
	return &Service{
		repo:     repo,
		accounts: accs,
		entries:  entries,
	}
}

// Create stores a budget with its items.
func (s *Service) Create(ctx context.Context, b *Budget) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	for i := range b.Items {
		b.Items[i].BudgetID = b.ID
		if id.IsNil(b.Items[i].ID) {
			b.Items[i].ID = id.New()
		}
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return err
	}
	if err := s.repo.SaveItems(ctx, b.ID, b.Items); err != nil {
		return fmt.Errorf("save items: %w", err)
	}

	logger.Info(ctx, "budget created", "id", b.ID, "year", b.FiscalYear)
	return nil
}

// GetByID retrieves a budget with items.
func (s *Service) GetByID(ctx context.Context, budgetID id.ID) (*Budget, error) {
	b, err := s.repo.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	b.Items = items

	return b, nil
}

// List retrieves budgets, optionally filtered by fiscal year (0 = all).
func (s *Service) List(ctx context.Context, fiscalYear int) ([]*Budget, error) {
	return s.repo.List(ctx, fiscalYear)
}

// VsActual compares each budgeted account against its ledger activity
// within the fiscal year. Actual is debits minus credits, with the sign
// flipped for credit-normal accounts so that revenue reads positive.
func (s *Service) VsActual(ctx context.Context, budgetID id.ID) ([]*VsActualRow, error) {
	b, err := s.GetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	start := time.Date(b.FiscalYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(b.FiscalYear, time.December, 31, 23, 59, 59, 0, time.UTC)

	rows := make([]*VsActualRow, 0, len(b.Items))
	for _, item := range b.Items {
		acc, err := s.accounts.GetByID(ctx, item.AccountID)
		if err != nil {
			return nil, err
		}

		sums, err := s.entries.SumByAccountPeriod(ctx, item.AccountID, start, end)
		if err != nil {
			return nil, fmt.Errorf("sum account %s: %w", acc.Code, err)
		}

		actual := sums.Net()
		if acc.Type.CreditNormal() {
			actual = actual.Neg()
		}

		rows = append(rows, &VsActualRow{
			AccountID:   acc.ID,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			Budgeted:    item.Amount,
			Actual:      actual,
			Variance:    item.Amount.Sub(actual),
		})
	}

	return rows, nil
}
