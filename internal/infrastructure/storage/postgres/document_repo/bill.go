package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"abacus/internal/core/id"
	"abacus/internal/domain/documents/bill"
	"abacus/internal/infrastructure/storage/postgres"
)

const (
	billsTable          = "doc_bills"
	billItemsTable      = "doc_bill_items"
	debitNotesTable     = "doc_debit_notes"
	debitNoteItemsTable = "doc_debit_note_items"
)

// BillRepo implements bill.Repository.
type BillRepo struct {
	*BaseDocumentRepo[*bill.Bill]
}

// NewBillRepo creates a new purchase bill repository.
func NewBillRepo() *BillRepo {
	return &BillRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*bill.Bill](
			billsTable,
			postgres.ExtractDBColumns[bill.Bill](),
			func() *bill.Bill { return &bill.Bill{} },
		),
	}
}

// List retrieves bills with filtering, newest first.
func (r *BillRepo) List(ctx context.Context, f bill.ListFilter) ([]*bill.Bill, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false})

	if f.VendorID != nil {
		q = q.Where(squirrel.Eq{"vendor_id": *f.VendorID})
	}
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"date": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"date": *f.To})
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

	var items []*bill.Bill
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}

	return items, nil
}

// ListOutstanding returns bills with a positive outstanding amount.
func (r *BillRepo) ListOutstanding(ctx context.Context) ([]*bill.Bill, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"status": []bill.Status{bill.StatusUnpaid, bill.StatusPartial}}).
		OrderBy("due_date ASC NULLS LAST", "date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*bill.Bill
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list outstanding bills: %w", err)
	}

	return items, nil
}

// GetItems retrieves items for a bill.
func (r *BillRepo) GetItems(ctx context.Context, billID id.ID) ([]*bill.Item, error) {
	q := r.Builder().
		Select(
			"id", "bill_id", "product_id", "description",
			"quantity", "unit_cost", "line_total", "returned_quantity",
		).
		From(billItemsTable).
		Where(squirrel.Eq{"bill_id": billID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*bill.Item
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

// SaveItems saves items for a bill (delete existing + insert new).
func (r *BillRepo) SaveItems(ctx context.Context, billID id.ID, items []*bill.Item) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + billItemsTable + " WHERE bill_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, billID); err != nil {
		return fmt.Errorf("delete existing items: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(billItemsTable).
		Columns(
			"id", "bill_id", "product_id", "description",
			"quantity", "unit_cost", "line_total", "returned_quantity",
		)

	for _, item := range items {
		q = q.Values(
			item.ID, billID, item.ProductID, item.Description,
			item.Quantity, item.UnitCost, item.LineTotal, item.ReturnedQuantity,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}

	return nil
}

// CreateDebitNote inserts a debit note header.
func (r *BillRepo) CreateDebitNote(ctx context.Context, dn *bill.DebitNote) error {
	data := postgres.StructToMap(dn)

	q := r.Builder().
		Insert(debitNotesTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert debit note: %w", err)
	}

	return nil
}

// SaveDebitNoteItems inserts debit note items.
func (r *BillRepo) SaveDebitNoteItems(ctx context.Context, debitNoteID id.ID, items []*bill.DebitNoteItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(debitNoteItemsTable).
		Columns("id", "debit_note_id", "product_id", "quantity", "unit_cost", "line_total")

	for _, item := range items {
		q = q.Values(item.ID, debitNoteID, item.ProductID, item.Quantity, item.UnitCost, item.LineTotal)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert debit note items: %w", err)
	}

	return nil
}

// GetDebitNotes retrieves debit notes raised against a bill.
func (r *BillRepo) GetDebitNotes(ctx context.Context, billID id.ID) ([]*bill.DebitNote, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[bill.DebitNote]()...).
		From(debitNotesTable).
		Where(squirrel.Eq{"bill_id": billID}).
		OrderBy("date ASC", "number ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var notes []*bill.DebitNote
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &notes, sql, args...); err != nil {
		return nil, fmt.Errorf("get debit notes: %w", err)
	}

	return notes, nil
}

var _ bill.Repository = (*BillRepo)(nil)
