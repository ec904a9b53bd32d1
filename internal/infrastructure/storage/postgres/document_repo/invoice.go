package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"abacus/internal/core/id"
	"abacus/internal/domain/documents/invoice"
	"abacus/internal/infrastructure/storage/postgres"
)

const (
	invoicesTable        = "doc_invoices"
	invoiceItemsTable    = "doc_invoice_items"
	creditNotesTable     = "doc_credit_notes"
	creditNoteItemsTable = "doc_credit_note_items"
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
}

// NewInvoiceRepo creates a new sales invoice repository.
func NewInvoiceRepo() *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*invoice.Invoice](
			invoicesTable,
			postgres.ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
	}
}

// List retrieves invoices with filtering, newest first.
func (r *InvoiceRepo) List(ctx context.Context, f invoice.ListFilter) ([]*invoice.Invoice, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false})

	if f.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *f.CustomerID})
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

	var items []*invoice.Invoice
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	return items, nil
}

// ListOutstanding returns invoices with a positive outstanding amount.
func (r *InvoiceRepo) ListOutstanding(ctx context.Context) ([]*invoice.Invoice, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"status": []invoice.Status{invoice.StatusUnpaid, invoice.StatusPartial}}).
		OrderBy("due_date ASC NULLS LAST", "date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*invoice.Invoice
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list outstanding invoices: %w", err)
	}

	return items, nil
}

// GetItems retrieves items for an invoice.
func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID id.ID) ([]*invoice.Item, error) {
	q := r.Builder().
		Select(
			"id", "invoice_id", "product_id", "description",
			"quantity", "unit_price", "line_total", "returned_quantity",
		).
		From(invoiceItemsTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*invoice.Item
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

// SaveItems saves items for an invoice (delete existing + insert new).
func (r *InvoiceRepo) SaveItems(ctx context.Context, invoiceID id.ID, items []*invoice.Item) error {
	querier := r.getTxManager(ctx).GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + invoiceItemsTable + " WHERE invoice_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, invoiceID); err != nil {
		return fmt.Errorf("delete existing items: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(invoiceItemsTable).
		Columns(
			"id", "invoice_id", "product_id", "description",
			"quantity", "unit_price", "line_total", "returned_quantity",
		)

	for _, item := range items {
		q = q.Values(
			item.ID, invoiceID, item.ProductID, item.Description,
			item.Quantity, item.UnitPrice, item.LineTotal, item.ReturnedQuantity,
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

// CreateCreditNote inserts a credit note header.
func (r *InvoiceRepo) CreateCreditNote(ctx context.Context, cn *invoice.CreditNote) error {
	data := postgres.StructToMap(cn)

	q := r.Builder().
		Insert(creditNotesTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert credit note: %w", err)
	}

	return nil
}

// SaveCreditNoteItems inserts credit note items.
func (r *InvoiceRepo) SaveCreditNoteItems(ctx context.Context, creditNoteID id.ID, items []*invoice.CreditNoteItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(creditNoteItemsTable).
		Columns("id", "credit_note_id", "product_id", "quantity", "unit_price", "line_total")

	for _, item := range items {
		q = q.Values(item.ID, creditNoteID, item.ProductID, item.Quantity, item.UnitPrice, item.LineTotal)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert credit note items: %w", err)
	}

	return nil
}

// GetCreditNotes retrieves credit notes raised against an invoice.
func (r *InvoiceRepo) GetCreditNotes(ctx context.Context, invoiceID id.ID) ([]*invoice.CreditNote, error) {
	q := r.Builder().
		Select(postgres.ExtractDBColumns[invoice.CreditNote]()...).
		From(creditNotesTable).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("date ASC", "number ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var notes []*invoice.CreditNote
	querier := r.getTxManager(ctx).GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &notes, sql, args...); err != nil {
		return nil, fmt.Errorf("get credit notes: %w", err)
	}

	return notes, nil
}

var _ invoice.Repository = (*InvoiceRepo)(nil)
