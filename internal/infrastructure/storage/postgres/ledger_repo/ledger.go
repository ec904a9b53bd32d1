// Package ledger_repo provides the PostgreSQL implementation of the
// append-only general ledger. Entries are only ever inserted; there is
// no update or delete path.
package ledger_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/ledger"
	"abacus/internal/infrastructure/storage/postgres"
)

const entriesTable = "ledger_entries"

var entryColumns = []string{
	"id", "transaction_date", "description", "account_id",
	"debit", "credit",
	"voucher_id", "invoice_id", "bill_id", "transfer_id",
	"customer_id", "vendor_id", "branch_id",
	"created_at",
}

// LedgerRepo implements ledger.Repository.
// In Database-per-Tenant architecture, TxManager is obtained from context.
type LedgerRepo struct {
	builder squirrel.StatementBuilderType
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo() *LedgerRepo {
	return &LedgerRepo{
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// getTxManager retrieves TxManager from context.
func (r *LedgerRepo) getTxManager(ctx context.Context) *postgres.TxManager {
	return postgres.MustGetTxManager(ctx)
}

// CreateEntries batch inserts ledger entries.
func (r *LedgerRepo) CreateEntries(ctx context.Context, entries []*ledger.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction. Postings always run in
	// one, so this is the common case.
	txm := r.getTxManager(ctx)
	if tx := txm.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(txm)
		rows := make([][]any, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []any{
				e.ID, e.TransactionDate, e.Description, e.AccountID,
				e.Debit, e.Credit,
				e.VoucherID, e.InvoiceID, e.BillID, e.TransferID,
				e.CustomerID, e.VendorID, e.BranchID,
				e.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, entriesTable, entryColumns, rows); err != nil {
			return fmt.Errorf("copy entries: %w", err)
		}
		return nil
	}

	// Fallback: non-transactional insert. Prefer calling CreateEntries within tx.
	q := r.builder.Insert(entriesTable).Columns(entryColumns...)

	for _, e := range entries {
		q = q.Values(
			e.ID, e.TransactionDate, e.Description, e.AccountID,
			e.Debit, e.Credit,
			e.VoucherID, e.InvoiceID, e.BillID, e.TransferID,
			e.CustomerID, e.VendorID, e.BranchID,
			e.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert entries: %w", err)
	}

	return nil
}

// ListByAccount retrieves entries for an account in (transaction_date, id)
// order. IDs are UUIDv7, so the secondary sort reflects insertion order
// within a date.
func (r *LedgerRepo) ListByAccount(ctx context.Context, accountID id.ID, from, to *time.Time) ([]*ledger.Entry, error) {
	q := r.builder.Select(entryColumns...).
		From(entriesTable).
		Where(squirrel.Eq{"account_id": accountID})

	if from != nil {
		q = q.Where(squirrel.GtOrEq{"transaction_date": *from})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{"transaction_date": *to})
	}

	q = q.OrderBy("transaction_date ASC", "id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*ledger.Entry
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	return entries, nil
}

// SumByAccount totals debits and credits for an account, optionally up
// to and including asOf.
func (r *LedgerRepo) SumByAccount(ctx context.Context, accountID id.ID, asOf *time.Time) (ledger.Sums, error) {
	q := r.builder.Select(
		"COALESCE(SUM(debit), 0) AS debit",
		"COALESCE(SUM(credit), 0) AS credit",
	).
		From(entriesTable).
		Where(squirrel.Eq{"account_id": accountID})

	if asOf != nil {
		q = q.Where(squirrel.LtOrEq{"transaction_date": *asOf})
	}

	return r.scanSums(ctx, q)
}

// SumByAccountPeriod totals debits and credits within [start, end].
func (r *LedgerRepo) SumByAccountPeriod(ctx context.Context, accountID id.ID, start, end time.Time) (ledger.Sums, error) {
	q := r.builder.Select(
		"COALESCE(SUM(debit), 0) AS debit",
		"COALESCE(SUM(credit), 0) AS credit",
	).
		From(entriesTable).
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.GtOrEq{"transaction_date": start}).
		Where(squirrel.LtOrEq{"transaction_date": end})

	return r.scanSums(ctx, q)
}

func (r *LedgerRepo) scanSums(ctx context.Context, q squirrel.SelectBuilder) (ledger.Sums, error) {
	sums := ledger.Sums{Debit: types.ZeroMoney(), Credit: types.ZeroMoney()}

	sql, args, err := q.ToSql()
	if err != nil {
		return sums, fmt.Errorf("build query: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, args...).Scan(&sums.Debit, &sums.Credit); err != nil {
		return sums, fmt.Errorf("sum entries: %w", err)
	}

	return sums, nil
}

// HasEntries reports whether any entry references the account.
func (r *LedgerRepo) HasEntries(ctx context.Context, accountID id.ID) (bool, error) {
	q := r.builder.Select("1").
		From(entriesTable).
		Where(squirrel.Eq{"account_id": accountID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	err = querier.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("has entries: %w", err)
	}

	return true, nil
}

var _ ledger.Repository = (*LedgerRepo)(nil)
