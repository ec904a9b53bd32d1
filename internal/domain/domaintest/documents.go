package domaintest

import (
	"context"
	"sync"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/domain/documents/bill"
	"abacus/internal/domain/documents/invoice"
	"abacus/internal/domain/documents/voucher"
)

// --- Vouchers ---

// FakeVouchers is an in-memory voucher.Repository.
type FakeVouchers struct {
	mu       sync.Mutex
	Vouchers map[id.ID]*voucher.JournalVoucher
	Lines    map[id.ID][]*voucher.Line
}

// NewFakeVouchers creates an empty fake voucher store.
func NewFakeVouchers() *FakeVouchers {
	return &FakeVouchers{
		Vouchers: make(map[id.ID]*voucher.JournalVoucher),
		Lines:    make(map[id.ID][]*voucher.Line),
	}
}

func (f *FakeVouchers) Create(ctx context.Context, v *voucher.JournalVoucher) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Vouchers[v.ID] = v
	return nil
}

func (f *FakeVouchers) Update(ctx context.Context, v *voucher.JournalVoucher) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Vouchers[v.ID]; !ok {
		return apperror.NewNotFound("voucher", v.ID.String())
	}
	f.Vouchers[v.ID] = v
	return nil
}

func (f *FakeVouchers) GetByID(ctx context.Context, voucherID id.ID) (*voucher.JournalVoucher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.Vouchers[voucherID]
	if !ok {
		return nil, apperror.NewNotFound("voucher", voucherID.String())
	}
	return v, nil
}

func (f *FakeVouchers) List(ctx context.Context, filter voucher.ListFilter) ([]*voucher.JournalVoucher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*voucher.JournalVoucher
	for _, v := range f.Vouchers {
		out = append(out, v)
	}
	return out, nil
}

func (f *FakeVouchers) SaveLines(ctx context.Context, voucherID id.ID, lines []*voucher.Line) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Lines[voucherID] = lines
	return nil
}

func (f *FakeVouchers) GetLines(ctx context.Context, voucherID id.ID) ([]*voucher.Line, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Lines[voucherID], nil
}

var _ voucher.Repository = (*FakeVouchers)(nil)

// --- Invoices ---

// FakeInvoices is an in-memory invoice.Repository.
type FakeInvoices struct {
	mu          sync.Mutex
	Invoices    map[id.ID]*invoice.Invoice
	Items       map[id.ID][]*invoice.Item
	CreditNotes map[id.ID]*invoice.CreditNote
	CNItems     map[id.ID][]*invoice.CreditNoteItem
}

// NewFakeInvoices creates an empty fake invoice store.
func NewFakeInvoices() *FakeInvoices {
	return &FakeInvoices{
		Invoices:    make(map[id.ID]*invoice.Invoice),
		Items:       make(map[id.ID][]*invoice.Item),
		CreditNotes: make(map[id.ID]*invoice.CreditNote),
		CNItems:     make(map[id.ID][]*invoice.CreditNoteItem),
	}
}

func (f *FakeInvoices) Create(ctx context.Context, inv *invoice.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Invoices[inv.ID] = inv
	return nil
}

func (f *FakeInvoices) Update(ctx context.Context, inv *invoice.Invoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Invoices[inv.ID]; !ok {
		return apperror.NewNotFound("invoice", inv.ID.String())
	}
	f.Invoices[inv.ID] = inv
	return nil
}

func (f *FakeInvoices) GetByID(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.Invoices[invoiceID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", invoiceID.String())
	}
	return inv, nil
}

func (f *FakeInvoices) List(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*invoice.Invoice
	for _, inv := range f.Invoices {
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.CustomerID != nil && inv.CustomerID != *filter.CustomerID {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (f *FakeInvoices) SaveItems(ctx context.Context, invoiceID id.ID, items []*invoice.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Items[invoiceID] = items
	return nil
}

func (f *FakeInvoices) GetItems(ctx context.Context, invoiceID id.ID) ([]*invoice.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Items[invoiceID], nil
}

func (f *FakeInvoices) ListOutstanding(ctx context.Context) ([]*invoice.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*invoice.Invoice
	for _, inv := range f.Invoices {
		if inv.Status == invoice.StatusUnpaid || inv.Status == invoice.StatusPartial {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *FakeInvoices) CreateCreditNote(ctx context.Context, cn *invoice.CreditNote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreditNotes[cn.ID] = cn
	return nil
}

func (f *FakeInvoices) SaveCreditNoteItems(ctx context.Context, creditNoteID id.ID, items []*invoice.CreditNoteItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CNItems[creditNoteID] = items
	return nil
}

func (f *FakeInvoices) GetCreditNotes(ctx context.Context, invoiceID id.ID) ([]*invoice.CreditNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*invoice.CreditNote
	for _, cn := range f.CreditNotes {
		if cn.InvoiceID == invoiceID {
			out = append(out, cn)
		}
	}
	return out, nil
}

var _ invoice.Repository = (*FakeInvoices)(nil)

// --- Bills ---

// FakeBills is an in-memory bill.Repository.
type FakeBills struct {
	mu         sync.Mutex
	Bills      map[id.ID]*bill.Bill
	Items      map[id.ID][]*bill.Item
	DebitNotes map[id.ID]*bill.DebitNote
	DNItems    map[id.ID][]*bill.DebitNoteItem
}

// NewFakeBills creates an empty fake bill store.
func NewFakeBills() *FakeBills {
	return &FakeBills{
		Bills:      make(map[id.ID]*bill.Bill),
		Items:      make(map[id.ID][]*bill.Item),
		DebitNotes: make(map[id.ID]*bill.DebitNote),
		DNItems:    make(map[id.ID][]*bill.DebitNoteItem),
	}
}

func (f *FakeBills) Create(ctx context.Context, b *bill.Bill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Bills[b.ID] = b
	return nil
}

func (f *FakeBills) Update(ctx context.Context, b *bill.Bill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Bills[b.ID]; !ok {
		return apperror.NewNotFound("bill", b.ID.String())
	}
	f.Bills[b.ID] = b
	return nil
}

func (f *FakeBills) GetByID(ctx context.Context, billID id.ID) (*bill.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.Bills[billID]
	if !ok {
		return nil, apperror.NewNotFound("bill", billID.String())
	}
	return b, nil
}

func (f *FakeBills) List(ctx context.Context, filter bill.ListFilter) ([]*bill.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*bill.Bill
	for _, b := range f.Bills {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.VendorID != nil && b.VendorID != *filter.VendorID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *FakeBills) SaveItems(ctx context.Context, billID id.ID, items []*bill.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Items[billID] = items
	return nil
}

func (f *FakeBills) GetItems(ctx context.Context, billID id.ID) ([]*bill.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Items[billID], nil
}

func (f *FakeBills) ListOutstanding(ctx context.Context) ([]*bill.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*bill.Bill
	for _, b := range f.Bills {
		if b.Status == bill.StatusUnpaid || b.Status == bill.StatusPartial {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *FakeBills) CreateDebitNote(ctx context.Context, dn *bill.DebitNote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DebitNotes[dn.ID] = dn
	return nil
}

func (f *FakeBills) SaveDebitNoteItems(ctx context.Context, debitNoteID id.ID, items []*bill.DebitNoteItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DNItems[debitNoteID] = items
	return nil
}

func (f *FakeBills) GetDebitNotes(ctx context.Context, billID id.ID) ([]*bill.DebitNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*bill.DebitNote
	for _, dn := range f.DebitNotes {
		if dn.BillID == billID {
			out = append(out, dn)
		}
	}
	return out, nil
}

var _ bill.Repository = (*FakeBills)(nil)
