package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"abacus/internal/core/id"
	"abacus/internal/domain/documents/voucher"
	"abacus/internal/infrastructure/storage/postgres"
)

const (
	vouchersTable     = "doc_journal_vouchers"
	voucherLinesTable = "doc_journal_voucher_lines"
)

// VoucherRepo implements voucher.Repository.
type VoucherRepo struct {
	*BaseDocumentRepo[*voucher.JournalVoucher]
}

// NewVoucherRepo creates a new journal voucher repository.
func NewVoucherRepo() *VoucherRepo {
	return &VoucherRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*voucher.JournalVoucher](
			vouchersTable,
			postgres.ExtractDBColumns[voucher.JournalVoucher](),
			func() *voucher.JournalVoucher { return &voucher.JournalVoucher{} },
		),
	}
}

// List retrieves vouchers with filtering, newest first.
func (r *VoucherRepo) List(ctx context.Context, f voucher.ListFilter) ([]*voucher.JournalVoucher, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false})

	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"date": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"date": *f.To})
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"description": pattern},
		})
	}

	q = q.OrderBy("date DESC", "number DESC")

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*voucher.JournalVoucher
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}

	return items, nil
}

// GetLines retrieves lines for a voucher.
func (r *VoucherRepo) GetLines(ctx context.Context, voucherID id.ID) ([]*voucher.Line, error) {
	q := r.Builder().
		Select("id", "voucher_id", "account_id", "debit", "credit", "description").
		From(voucherLinesTable).
		Where(squirrel.Eq{"voucher_id": voucherID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []*voucher.Line
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines saves lines for a voucher (delete existing + insert new).
func (r *VoucherRepo) SaveLines(ctx context.Context, voucherID id.ID, lines []*voucher.Line) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + voucherLinesTable + " WHERE voucher_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, voucherID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(voucherLinesTable).
		Columns("id", "voucher_id", "account_id", "debit", "credit", "description")

	for _, line := range lines {
		q = q.Values(line.ID, voucherID, line.AccountID, line.Debit, line.Credit, line.Description)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

var _ voucher.Repository = (*VoucherRepo)(nil)
