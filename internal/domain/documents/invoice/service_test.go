package invoice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/core/tx"
	"abacus/internal/core/types"
	"abacus/internal/domain"
	"abacus/internal/domain/accounts"
	"abacus/internal/domain/audit"
	"abacus/internal/domain/documents/invoice"
	"abacus/internal/domain/domaintest"
	"abacus/internal/domain/inventory"
	"abacus/internal/domain/posting"
)

type fixture struct {
	repo     *domaintest.FakeInvoices
	products *domaintest.FakeProducts
	accounts *domaintest.FakeAccounts
	store    *domaintest.FakeLedger
	audit    *domaintest.FakeAudit
	chart    map[string]*accounts.Account
	svc      *invoice.Service
}

// newFixture wires the invoice service over in-memory fakes with the
// default chart and a 10% VAT rate.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:     domaintest.NewFakeInvoices(),
		products: domaintest.NewFakeProducts(),
		accounts: domaintest.NewFakeAccounts(),
		store:    domaintest.NewFakeLedger(),
		audit:    domaintest.NewFakeAudit(),
		chart:    make(map[string]*accounts.Account),
	}

	chart := []struct {
		code    string
		name    string
		accType accounts.Type
	}{
		{"1000", "Cash", accounts.TypeAsset},
		{"1100", "Accounts Receivable", accounts.TypeAsset},
		{"2100", "VAT Payable", accounts.TypeLiability},
		{"4000", "Sales Revenue", accounts.TypeRevenue},
		{"5000", "Operating Expenses", accounts.TypeExpense},
	}
	for _, c := range chart {
		acc := accounts.New(c.code, c.name, c.accType)
		require.NoError(t, f.accounts.Create(context.Background(), acc))
		f.chart[c.code] = acc
	}

	engine := posting.NewEngine(f.store, tx.Passthrough{})
	resolver := posting.NewResolver(f.accounts)
	f.svc = invoice.NewService(
		f.repo, f.products, resolver, engine,
		domaintest.NewSeqNumerator(),
		domain.FixedVATRate(types.NewMoneyFromInt(10)),
		f.audit,
	)
	return f
}

func (f *fixture) product(t *testing.T, code, price string, stock int64) *inventory.Product {
	t.Helper()
	p := inventory.New(code, "Product "+code, types.MustMoney(price))
	p.StockQuantity = types.NewQuantityFromInt(stock)
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f *fixture) invoiceFor(t *testing.T, p *inventory.Product, qty int64, price string) *invoice.Invoice {
	t.Helper()
	inv := invoice.New(id.New())
	inv.Date = domaintest.Date(2026, 5, 1)
	inv.Items = []*invoice.Item{{
		ID:        id.New(),
		ProductID: p.ID,
		Quantity:  types.NewQuantityFromInt(qty),
		UnitPrice: types.MustMoney(price),
	}}
	require.NoError(t, f.svc.Create(context.Background(), inv))
	return inv
}

func TestCreate_TotalsAndLedgerLegs(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)

	inv := f.invoiceFor(t, p, 2, "50.00")

	assert.Equal(t, "INV-00001", inv.Number)
	assert.True(t, inv.Posted)
	assert.Equal(t, invoice.StatusUnpaid, inv.Status)
	assert.True(t, inv.SubTotal.Equal(types.MustMoney("100.00")), "sub = %s", inv.SubTotal)
	assert.True(t, inv.VATAmount.Equal(types.MustMoney("10.00")), "vat = %s", inv.VATAmount)
	assert.True(t, inv.TotalAmount.Equal(types.MustMoney("110.00")), "total = %s", inv.TotalAmount)

	// Dr AR 110 / Cr Revenue 100 / Cr VAT 10
	ar := f.store.ByAccount(f.chart["1100"].ID)
	require.Len(t, ar, 1)
	assert.True(t, ar[0].Debit.Equal(types.MustMoney("110.00")))
	require.NotNil(t, ar[0].InvoiceID)
	assert.Equal(t, inv.ID, *ar[0].InvoiceID)

	rev := f.store.ByAccount(f.chart["4000"].ID)
	require.Len(t, rev, 1)
	assert.True(t, rev[0].Credit.Equal(types.MustMoney("100.00")))

	vat := f.store.ByAccount(f.chart["2100"].ID)
	require.Len(t, vat, 1)
	assert.True(t, vat[0].Credit.Equal(types.MustMoney("10.00")))

	// Stock moved 10 -> 8 in the same posting.
	got, err := f.products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQuantity.Equal(types.NewQuantityFromInt(8)),
		"stock = %s", got.StockQuantity)
}

func TestCreate_DefaultsPriceFromCatalog(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "19.90", 5)

	inv := invoice.New(id.New())
	inv.Date = domaintest.Date(2026, 5, 1)
	inv.Items = []*invoice.Item{{
		ID:        id.New(),
		ProductID: p.ID,
		Quantity:  types.NewQuantityFromInt(3),
		// UnitPrice left zero: catalog price applies
	}}
	require.NoError(t, f.svc.Create(context.Background(), inv))

	assert.True(t, inv.Items[0].UnitPrice.Equal(types.MustMoney("19.90")))
	assert.True(t, inv.SubTotal.Equal(types.MustMoney("59.70")), "sub = %s", inv.SubTotal)
}

func TestCreate_MissingPostingAccountPersistsNothing(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)

	// Break the configuration: no receivables account.
	require.NoError(t, f.accounts.HardDelete(context.Background(), f.chart["1100"].ID))

	inv := invoice.New(id.New())
	inv.Date = domaintest.Date(2026, 5, 1)
	inv.Items = []*invoice.Item{{
		ID:        id.New(),
		ProductID: p.ID,
		Quantity:  types.NewQuantityFromInt(2),
		UnitPrice: types.MustMoney("50.00"),
	}}

	err := f.svc.Create(context.Background(), inv)
	require.Error(t, err)
	assert.True(t, apperror.IsConfiguration(err), "got %v", err)

	assert.Empty(t, f.store.Entries)
	assert.Empty(t, f.repo.Invoices)

	got, err := f.products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQuantity.Equal(types.NewQuantityFromInt(10)),
		"stock must not move when posting fails")
}

func TestRecordPayment_StatusTransitions(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)
	inv := f.invoiceFor(t, p, 2, "50.00") // total 110

	ctx := context.Background()

	got, err := f.svc.RecordPayment(ctx, invoice.PaymentInput{
		InvoiceID: inv.ID,
		Amount:    types.MustMoney("60.00"),
		Date:      domaintest.Date(2026, 5, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPartial, got.Status)
	assert.True(t, got.Outstanding().Equal(types.MustMoney("50.00")))

	got, err = f.svc.RecordPayment(ctx, invoice.PaymentInput{
		InvoiceID: inv.ID,
		Amount:    types.MustMoney("50.00"),
		Date:      domaintest.Date(2026, 5, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPaid, got.Status)
	assert.True(t, got.Outstanding().IsZero())

	// Each payment: Dr Cash / Cr AR.
	cash := f.store.ByAccount(f.chart["1000"].ID)
	require.Len(t, cash, 2)
	assert.True(t, cash[0].Debit.Equal(types.MustMoney("60.00")))
	assert.True(t, cash[1].Debit.Equal(types.MustMoney("50.00")))

	ar := f.store.ByAccount(f.chart["1100"].ID)
	require.Len(t, ar, 3) // invoice debit + two payment credits
}

func TestRecordPayment_ExplicitDepositAccount(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)
	inv := f.invoiceFor(t, p, 1, "50.00")

	bank := accounts.New("1010", "Bank", accounts.TypeAsset)
	require.NoError(t, f.accounts.Create(context.Background(), bank))

	_, err := f.svc.RecordPayment(context.Background(), invoice.PaymentInput{
		InvoiceID:        inv.ID,
		Amount:           types.MustMoney("55.00"),
		Date:             domaintest.Date(2026, 5, 10),
		DepositAccountID: &bank.ID,
	})
	require.NoError(t, err)

	deposits := f.store.ByAccount(bank.ID)
	require.Len(t, deposits, 1)
	assert.True(t, deposits[0].Debit.Equal(types.MustMoney("55.00")))
	assert.Empty(t, f.store.ByAccount(f.chart["1000"].ID), "cash must not be touched")
}

func TestRecordPayment_NonPositiveAmountRejected(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)
	inv := f.invoiceFor(t, p, 1, "50.00")

	_, err := f.svc.RecordPayment(context.Background(), invoice.PaymentInput{
		InvoiceID: inv.ID,
		Amount:    types.ZeroMoney(),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestWriteOff_ExpensesOutstanding(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)
	inv := f.invoiceFor(t, p, 2, "50.00") // total 110

	_, err := f.svc.RecordPayment(context.Background(), invoice.PaymentInput{
		InvoiceID: inv.ID,
		Amount:    types.MustMoney("30.00"),
		Date:      domaintest.Date(2026, 5, 10),
	})
	require.NoError(t, err)

	got, err := f.svc.WriteOff(context.Background(), inv.ID, domaintest.Date(2026, 6, 1))
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusWrittenOff, got.Status)

	// Dr OpEx 80 / Cr AR 80 for the unpaid remainder.
	opex := f.store.ByAccount(f.chart["5000"].ID)
	require.Len(t, opex, 1)
	assert.True(t, opex[0].Debit.Equal(types.MustMoney("80.00")), "opex = %s", opex[0].Debit)
}

func TestWriteOff_PaidInvoiceRejected(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)
	inv := f.invoiceFor(t, p, 1, "50.00") // total 55

	_, err := f.svc.RecordPayment(context.Background(), invoice.PaymentInput{
		InvoiceID: inv.ID,
		Amount:    types.MustMoney("55.00"),
		Date:      domaintest.Date(2026, 5, 10),
	})
	require.NoError(t, err)

	_, err = f.svc.WriteOff(context.Background(), inv.ID, domaintest.Date(2026, 6, 1))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestRecordPayment_WrittenOffInvoiceRejected(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)
	inv := f.invoiceFor(t, p, 1, "50.00")

	_, err := f.svc.WriteOff(context.Background(), inv.ID, domaintest.Date(2026, 6, 1))
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(context.Background(), invoice.PaymentInput{
		InvoiceID: inv.ID,
		Amount:    types.MustMoney("10.00"),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestCreateCreditNote_ReversesAndRestocks(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)
	inv := f.invoiceFor(t, p, 4, "50.00") // sub 200, vat 20, total 220, stock 10 -> 6

	cn, err := f.svc.CreateCreditNote(context.Background(), invoice.CreditNoteInput{
		InvoiceID: inv.ID,
		Date:      domaintest.Date(2026, 5, 15),
		Reason:    "damaged in transit",
		Items: []invoice.CreditNoteItemInput{
			{ItemID: inv.Items[0].ID, Quantity: types.NewQuantityFromInt(1)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "CN-00001", cn.Number)
	assert.True(t, cn.SubTotal.Equal(types.MustMoney("50.00")), "sub = %s", cn.SubTotal)
	// VAT reverses proportionally: 50/200 of 20.
	assert.True(t, cn.VATAmount.Equal(types.MustMoney("5.00")), "vat = %s", cn.VATAmount)
	assert.True(t, cn.TotalAmount.Equal(types.MustMoney("55.00")))

	// Dr Revenue 50 + Dr VAT 5 / Cr AR 55 on top of the invoice legs.
	rev := f.store.ByAccount(f.chart["4000"].ID)
	require.Len(t, rev, 2)
	assert.True(t, rev[1].Debit.Equal(types.MustMoney("50.00")))

	// Returned unit is back on hand: 6 -> 7.
	got, err := f.products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQuantity.Equal(types.NewQuantityFromInt(7)),
		"stock = %s", got.StockQuantity)

	// Credited amount reduces what the customer owes.
	updated, err := f.svc.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.True(t, updated.CreditedAmount.Equal(types.MustMoney("55.00")))
	assert.True(t, updated.Outstanding().Equal(types.MustMoney("165.00")))
	assert.True(t, updated.Items[0].ReturnedQuantity.Equal(types.NewQuantityFromInt(1)))
}

func TestCreateCreditNote_ReturnCapAccumulates(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)
	inv := f.invoiceFor(t, p, 3, "50.00")

	ctx := context.Background()

	_, err := f.svc.CreateCreditNote(ctx, invoice.CreditNoteInput{
		InvoiceID: inv.ID,
		Items: []invoice.CreditNoteItemInput{
			{ItemID: inv.Items[0].ID, Quantity: types.NewQuantityFromInt(2)},
		},
	})
	require.NoError(t, err)

	// Only one unit is still returnable.
	_, err = f.svc.CreateCreditNote(ctx, invoice.CreditNoteInput{
		InvoiceID: inv.ID,
		Items: []invoice.CreditNoteItemInput{
			{ItemID: inv.Items[0].ID, Quantity: types.NewQuantityFromInt(2)},
		},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestCreateCreditNote_FullReturnSettlesInvoice(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)
	inv := f.invoiceFor(t, p, 2, "50.00")

	_, err := f.svc.CreateCreditNote(context.Background(), invoice.CreditNoteInput{
		InvoiceID: inv.ID,
		Items: []invoice.CreditNoteItemInput{
			{ItemID: inv.Items[0].ID, Quantity: types.NewQuantityFromInt(2)},
		},
	})
	require.NoError(t, err)

	updated, err := f.svc.GetByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.True(t, updated.EffectiveTotal().IsZero())
	assert.Equal(t, invoice.StatusPaid, updated.Status)
}

func TestAuditTrail_RecordsInvoiceLifecycle(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)
	inv := f.invoiceFor(t, p, 2, "50.00")

	_, err := f.svc.RecordPayment(context.Background(), invoice.PaymentInput{
		InvoiceID: inv.ID,
		Amount:    types.MustMoney("30.00"),
		Date:      domaintest.Date(2026, 5, 10),
	})
	require.NoError(t, err)

	_, err = f.svc.WriteOff(context.Background(), inv.ID, domaintest.Date(2026, 5, 20))
	require.NoError(t, err)

	records := f.audit.ByEntity("invoice", inv.ID)
	require.Len(t, records, 3)
	assert.Equal(t, audit.ActionCreate, records[0].Action)
	assert.Equal(t, "INV-00001", records[0].Changes["number"])
	assert.Equal(t, audit.ActionPayment, records[1].Action)
	assert.Equal(t, "30.00", records[1].Changes["amount"])
	assert.Equal(t, audit.ActionWriteOff, records[2].Action)
	assert.Equal(t, "80.00", records[2].Changes["amount"])
}

func TestAuditTrail_RecordsCreditNote(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)
	inv := f.invoiceFor(t, p, 4, "50.00")

	cn, err := f.svc.CreateCreditNote(context.Background(), invoice.CreditNoteInput{
		InvoiceID: inv.ID,
		Date:      domaintest.Date(2026, 5, 15),
		Items: []invoice.CreditNoteItemInput{
			{ItemID: inv.Items[0].ID, Quantity: types.NewQuantityFromInt(1)},
		},
	})
	require.NoError(t, err)

	records := f.audit.ByEntity("credit_note", cn.ID)
	require.Len(t, records, 1)
	assert.Equal(t, audit.ActionCreate, records[0].Action)
	assert.Equal(t, cn.Number, records[0].Changes["number"])
	assert.Equal(t, inv.Number, records[0].Changes["invoice"])
}

func TestCreateCreditNote_ForeignItemRejected(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "50.00", 10)
	inv := f.invoiceFor(t, p, 2, "50.00")

	_, err := f.svc.CreateCreditNote(context.Background(), invoice.CreditNoteInput{
		InvoiceID: inv.ID,
		Items: []invoice.CreditNoteItemInput{
			{ItemID: id.New(), Quantity: types.NewQuantityFromInt(1)},
		},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
