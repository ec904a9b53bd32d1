package accounts

import (
	"context"
	"fmt"
	"time"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/core/tenant"
	"abacus/internal/core/tx"
	"abacus/internal/core/types"
	"abacus/internal/domain/ledger"
	"abacus/pkg/logger"
)

// Service provides business operations for the chart of accounts.
// In Database-per-Tenant architecture, TxManager is obtained from context.
type Service struct {
	repo      Repository
	entries   ledger.Repository
	txManager tx.Manager // Optional. If nil, obtained from context (DB-per-tenant).
}

// NewService creates a new accounts service.
func NewService(repo Repository, entries ledger.Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		entries:   entries,
		txManager: txManager,
	}
}

func (s *Service) getTxManager(ctx context.Context) (tx.Manager, error) {
	if s.txManager != nil {
		return s.txManager, nil
	}
	return tenant.GetTxManager(ctx)
}

// Create adds a new account to the chart.
func (s *Service) Create(ctx context.Context, acc *Account) error {
	if err := acc.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByCode(ctx, acc.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("account", "code", acc.Code)
	}

	if err := s.repo.Create(ctx, acc); err != nil {
		return err
	}

	logger.Info(ctx, "account created", "id", acc.ID, "code", acc.Code)
	return nil
}

// Update modifies an existing account. The type of an account with ledger
// entries cannot change: that would silently flip the sign convention of
// every balance already reported for it.
func (s *Service) Update(ctx context.Context, acc *Account) error {
	if err := acc.Validate(ctx); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, acc.ID)
	if err != nil {
		return err
	}

	if current.Type != acc.Type {
		has, err := s.entries.HasEntries(ctx, acc.ID)
		if err != nil {
			return fmt.Errorf("check entries: %w", err)
		}
		if has {
			return apperror.NewBusinessRule(
				apperror.CodeBusinessRule,
				"Cannot change type of an account with ledger entries",
			).WithDetail("account_id", acc.ID.String())
		}
	}

	return s.repo.Update(ctx, acc)
}

// GetByID retrieves an account.
func (s *Service) GetByID(ctx context.Context, accountID id.ID) (*Account, error) {
	return s.repo.GetByID(ctx, accountID)
}

// GetByCode retrieves an account by its chart code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Account, error) {
	return s.repo.GetByCode(ctx, code)
}

// List retrieves accounts with filtering.
func (s *Service) List(ctx context.Context, f ListFilter) ([]*Account, error) {
	return s.repo.List(ctx, f)
}

// GetBalance returns the signed balance of an account as of the given
// date (nil = all time). The raw balance is total debits minus total
// credits; for credit-normal accounts (liability, equity, revenue) the
// sign is flipped so that a normal balance reads positive.
func (s *Service) GetBalance(ctx context.Context, accountID id.ID, asOf *time.Time) (types.Money, error) {
	acc, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return types.ZeroMoney(), err
	}

	sums, err := s.entries.SumByAccount(ctx, accountID, asOf)
	if err != nil {
		return types.ZeroMoney(), fmt.Errorf("sum entries: %w", err)
	}

	balance := sums.Net()
	if acc.Type.CreditNormal() {
		balance = balance.Neg()
	}
	return balance, nil
}

// Delete removes an account from the chart:
//   - system accounts are never deleted;
//   - accounts with ledger entries are deactivated (history must survive);
//   - unused accounts are physically removed.
func (s *Service) Delete(ctx context.Context, accountID id.ID) error {
	acc, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	if acc.System {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"System accounts cannot be deleted",
		).WithDetail("account_id", accountID.String()).
			WithDetail("code", acc.Code)
	}

	has, err := s.entries.HasEntries(ctx, accountID)
	if err != nil {
		return fmt.Errorf("check entries: %w", err)
	}

	txm, err := s.getTxManager(ctx)
	if err != nil {
		return apperror.NewInternal(err).WithDetail("missing", "tx_manager")
	}
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if has {
			acc.Active = false
			acc.MarkDeleted()
			if err := s.repo.Update(ctx, acc); err != nil {
				return err
			}
			logger.Info(ctx, "account deactivated", "id", accountID, "code", acc.Code)
			return nil
		}

		if err := s.repo.HardDelete(ctx, accountID); err != nil {
			return err
		}
		logger.Info(ctx, "account deleted", "id", accountID, "code", acc.Code)
		return nil
	})
}
