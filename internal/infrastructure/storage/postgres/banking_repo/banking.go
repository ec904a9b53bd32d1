// Package banking_repo provides the PostgreSQL implementation for bank
// accounts and fund transfers.
// In Database-per-Tenant architecture, TxManager is obtained from context.
package banking_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/banking"
	"abacus/internal/infrastructure/storage/postgres"
)

const (
	bankAccountsTable = "cat_bank_accounts"
	transfersTable    = "doc_transfers"
)

// BankingRepo implements banking.Repository.
type BankingRepo struct {
	builder squirrel.StatementBuilderType
}

// NewBankingRepo creates a new banking repository.
func NewBankingRepo() *BankingRepo {
	return &BankingRepo{
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// getTxManager retrieves TxManager from context.
func (r *BankingRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

// Create inserts a new bank account.
func (r *BankingRepo) Create(ctx context.Context, a *banking.BankAccount) error {
	data := postgres.StructToMap(a)

	q := r.builder.Insert(bankAccountsTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert bank account: %w", err)
	}

	return nil
}

// Update modifies a bank account with optimistic locking.
// CurrentBalance is excluded from the SET: the cache only moves through
// AdjustBalance inside posting transactions.
func (r *BankingRepo) Update(ctx context.Context, a *banking.BankAccount) error {
	data := postgres.StructToMap(a)

	delete(data, "id")
	delete(data, "version")
	delete(data, "current_balance")

	q := r.builder.Update(bankAccountsTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": a.ID}).
		Where(squirrel.Eq{"version": a.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update bank account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(bankAccountsTable, a.ID)
	}

	return nil
}

// GetByID retrieves a bank account.
func (r *BankingRepo) GetByID(ctx context.Context, accountID id.ID) (*banking.BankAccount, error) {
	q := r.builder.Select(postgres.ExtractDBColumns[banking.BankAccount]()...).
		From(bankAccountsTable).
		Where(squirrel.Eq{"id": accountID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var account banking.BankAccount
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &account, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(bankAccountsTable, accountID.String())
		}
		return nil, fmt.Errorf("get bank account: %w", err)
	}

	return &account, nil
}

// List retrieves all non-deleted bank accounts ordered by code.
func (r *BankingRepo) List(ctx context.Context) ([]*banking.BankAccount, error) {
	q := r.builder.Select(postgres.ExtractDBColumns[banking.BankAccount]()...).
		From(bankAccountsTable).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("code ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var accounts []*banking.BankAccount
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &accounts, sql, args...); err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}

	return accounts, nil
}

// AdjustBalance atomically moves current_balance by delta. The guard in
// the WHERE clause keeps the cached balance from going negative under
// concurrency; a zero row count then distinguishes a missing account
// from insufficient funds.
func (r *BankingRepo) AdjustBalance(ctx context.Context, accountID id.ID, delta types.Money) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	result, err := querier.Exec(ctx, `
		UPDATE cat_bank_accounts
		SET current_balance = current_balance + $1,
		    version = version + 1
		WHERE id = $2 AND current_balance + $1 >= 0
	`, delta, accountID)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}

	if result.RowsAffected() > 0 {
		return nil
	}

	var available types.Money
	err = querier.QueryRow(ctx, `
		SELECT current_balance FROM cat_bank_accounts WHERE id = $1
	`, accountID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFound(bankAccountsTable, accountID.String())
		}
		return fmt.Errorf("check balance: %w", err)
	}

	return apperror.NewInsufficientFunds(
		accountID.String(),
		delta.Neg().String(),
		available.String(),
	)
}

// CreateTransfer inserts a fund transfer document.
func (r *BankingRepo) CreateTransfer(ctx context.Context, t *banking.Transfer) error {
	data := postgres.StructToMap(t)

	q := r.builder.Insert(transfersTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}

	return nil
}

// GetTransfer retrieves a transfer by ID.
func (r *BankingRepo) GetTransfer(ctx context.Context, transferID id.ID) (*banking.Transfer, error) {
	q := r.builder.Select(postgres.ExtractDBColumns[banking.Transfer]()...).
		From(transfersTable).
		Where(squirrel.Eq{"id": transferID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var transfer banking.Transfer
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &transfer, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(transfersTable, transferID.String())
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}

	return &transfer, nil
}

// ListTransfers retrieves transfers, optionally scoped to one account
// (as source or destination), newest first.
func (r *BankingRepo) ListTransfers(ctx context.Context, accountID *id.ID) ([]*banking.Transfer, error) {
	q := r.builder.Select(postgres.ExtractDBColumns[banking.Transfer]()...).
		From(transfersTable).
		Where(squirrel.Eq{"deletion_mark": false})

	if accountID != nil {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"from_account_id": *accountID},
			squirrel.Eq{"to_account_id": *accountID},
		})
	}

	q = q.OrderBy("date DESC", "number DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var transfers []*banking.Transfer
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &transfers, sql, args...); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}

	return transfers, nil
}

var _ banking.Repository = (*BankingRepo)(nil)
