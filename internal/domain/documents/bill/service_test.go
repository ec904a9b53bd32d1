package bill_test

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
	"abacus/internal/domain/documents/bill"
	"abacus/internal/domain/domaintest"
	"abacus/internal/domain/inventory"
	"abacus/internal/domain/posting"
)

type fixture struct {
	repo     *domaintest.FakeBills
	products *domaintest.FakeProducts
	accounts *domaintest.FakeAccounts
	store    *domaintest.FakeLedger
	audit    *domaintest.FakeAudit
	chart    map[string]*accounts.Account
	svc      *bill.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:     domaintest.NewFakeBills(),
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
		{"1200", "Inventory", accounts.TypeAsset},
		{"2000", "Accounts Payable", accounts.TypeLiability},
		{"2100", "VAT Payable", accounts.TypeLiability},
	}
	for _, c := range chart {
		acc := accounts.New(c.code, c.name, c.accType)
		require.NoError(t, f.accounts.Create(context.Background(), acc))
		f.chart[c.code] = acc
	}

	engine := posting.NewEngine(f.store, tx.Passthrough{})
	resolver := posting.NewResolver(f.accounts)
	f.svc = bill.NewService(
		f.repo, f.products, resolver, engine,
		domaintest.NewSeqNumerator(),
		domain.FixedVATRate(types.NewMoneyFromInt(10)),
		f.audit,
	)
	return f
}

func (f *fixture) product(t *testing.T, code, cost string, stock int64) *inventory.Product {
	t.Helper()
	p := inventory.New(code, "Product "+code, types.MustMoney(cost))
	p.Cost = types.MustMoney(cost)
	p.StockQuantity = types.NewQuantityFromInt(stock)
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func TestCreate_TotalsLegsAndStock(t *testing.T) {
	f := newFixture(t)
	paper := f.product(t, "PRD-001", "10.00", 0)
	pens := f.product(t, "PRD-002", "5.00", 3)

	b := bill.New(id.New())
	b.Date = domaintest.Date(2026, 5, 1)
	b.Items = []*bill.Item{
		{ID: id.New(), ProductID: paper.ID, Quantity: types.NewQuantityFromInt(2), UnitCost: types.MustMoney("10.00")},
		{ID: id.New(), ProductID: pens.ID, Quantity: types.NewQuantityFromInt(1), UnitCost: types.MustMoney("5.00")},
	}
	require.NoError(t, f.svc.Create(context.Background(), b))

	assert.Equal(t, "PO-00001", b.Number)
	assert.True(t, b.Posted)
	assert.Equal(t, bill.StatusUnpaid, b.Status)
	assert.True(t, b.SubTotal.Equal(types.MustMoney("25.00")), "sub = %s", b.SubTotal)
	assert.True(t, b.VATAmount.Equal(types.MustMoney("2.50")), "vat = %s", b.VATAmount)
	assert.True(t, b.TotalAmount.Equal(types.MustMoney("27.50")), "total = %s", b.TotalAmount)

	// Dr Inventory 25 + Dr VAT 2.50 / Cr AP 27.50
	inv := f.store.ByAccount(f.chart["1200"].ID)
	require.Len(t, inv, 1)
	assert.True(t, inv[0].Debit.Equal(types.MustMoney("25.00")))

	vat := f.store.ByAccount(f.chart["2100"].ID)
	require.Len(t, vat, 1)
	assert.True(t, vat[0].Debit.Equal(types.MustMoney("2.50")))

	ap := f.store.ByAccount(f.chart["2000"].ID)
	require.Len(t, ap, 1)
	assert.True(t, ap[0].Credit.Equal(types.MustMoney("27.50")))
	require.NotNil(t, ap[0].BillID)
	assert.Equal(t, b.ID, *ap[0].BillID)

	// Goods received into stock.
	gotPaper, err := f.products.GetByID(context.Background(), paper.ID)
	require.NoError(t, err)
	assert.True(t, gotPaper.StockQuantity.Equal(types.NewQuantityFromInt(2)))

	gotPens, err := f.products.GetByID(context.Background(), pens.ID)
	require.NoError(t, err)
	assert.True(t, gotPens.StockQuantity.Equal(types.NewQuantityFromInt(4)))
}

func TestCreate_DefaultsCostFromCatalog(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "4.40", 0)

	b := bill.New(id.New())
	b.Date = domaintest.Date(2026, 5, 1)
	b.Items = []*bill.Item{
		{ID: id.New(), ProductID: p.ID, Quantity: types.NewQuantityFromInt(5)},
	}
	require.NoError(t, f.svc.Create(context.Background(), b))

	assert.True(t, b.Items[0].UnitCost.Equal(types.MustMoney("4.40")))
	assert.True(t, b.SubTotal.Equal(types.MustMoney("22.00")), "sub = %s", b.SubTotal)
}

func TestCreate_NoVendorRejected(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "10.00", 0)

	b := bill.New(id.Nil())
	b.Date = domaintest.Date(2026, 5, 1)
	b.Items = []*bill.Item{
		{ID: id.New(), ProductID: p.ID, Quantity: types.NewQuantityFromInt(1), UnitCost: types.MustMoney("10.00")},
	}

	err := f.svc.Create(context.Background(), b)
	require.Error(t, err)
	assert.Empty(t, f.repo.Bills)
}

func billFor(t *testing.T, f *fixture, p *inventory.Product, qty int64, cost string) *bill.Bill {
	t.Helper()
	b := bill.New(id.New())
	b.Date = domaintest.Date(2026, 5, 1)
	b.Items = []*bill.Item{
		{ID: id.New(), ProductID: p.ID, Quantity: types.NewQuantityFromInt(qty), UnitCost: types.MustMoney(cost)},
	}
	require.NoError(t, f.svc.Create(context.Background(), b))
	return b
}

func TestRecordPayment_StatusTransitions(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "10.00", 0)
	b := billFor(t, f, p, 10, "10.00") // sub 100, vat 10, total 110

	ctx := context.Background()

	got, err := f.svc.RecordPayment(ctx, bill.PaymentInput{
		BillID: b.ID,
		Amount: types.MustMoney("60.00"),
		Date:   domaintest.Date(2026, 5, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPartial, got.Status)

	got, err = f.svc.RecordPayment(ctx, bill.PaymentInput{
		BillID: b.ID,
		Amount: types.MustMoney("50.00"),
		Date:   domaintest.Date(2026, 5, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, bill.StatusPaid, got.Status)
	assert.True(t, got.Outstanding().IsZero())

	// Each payment: Dr AP / Cr Cash.
	cash := f.store.ByAccount(f.chart["1000"].ID)
	require.Len(t, cash, 2)
	assert.True(t, cash[0].Credit.Equal(types.MustMoney("60.00")))
	assert.True(t, cash[1].Credit.Equal(types.MustMoney("50.00")))
}

func TestRecordPayment_ExplicitSourceAccount(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "10.00", 0)
	b := billFor(t, f, p, 1, "10.00")

	bank := accounts.New("1010", "Bank", accounts.TypeAsset)
	require.NoError(t, f.accounts.Create(context.Background(), bank))

	_, err := f.svc.RecordPayment(context.Background(), bill.PaymentInput{
		BillID:           b.ID,
		Amount:           types.MustMoney("11.00"),
		Date:             domaintest.Date(2026, 5, 10),
		PayFromAccountID: &bank.ID,
	})
	require.NoError(t, err)

	payments := f.store.ByAccount(bank.ID)
	require.Len(t, payments, 1)
	assert.True(t, payments[0].Credit.Equal(types.MustMoney("11.00")))
	assert.Empty(t, f.store.ByAccount(f.chart["1000"].ID))
}

func TestCreateDebitNote_ReversesAndReturnsStock(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "10.00", 0)
	b := billFor(t, f, p, 4, "10.00") // sub 40, vat 4, total 44, stock 0 -> 4

	dn, err := f.svc.CreateDebitNote(context.Background(), bill.DebitNoteInput{
		BillID: b.ID,
		Date:   domaintest.Date(2026, 5, 15),
		Reason: "wrong items delivered",
		Items: []bill.DebitNoteItemInput{
			{ItemID: b.Items[0].ID, Quantity: types.NewQuantityFromInt(1)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "DN-00001", dn.Number)
	assert.True(t, dn.SubTotal.Equal(types.MustMoney("10.00")))
	assert.True(t, dn.VATAmount.Equal(types.MustMoney("1.00")))
	assert.True(t, dn.TotalAmount.Equal(types.MustMoney("11.00")))

	// Dr AP 11 / Cr Inventory 10 + Cr VAT 1 on top of the bill legs.
	ap := f.store.ByAccount(f.chart["2000"].ID)
	require.Len(t, ap, 2)
	assert.True(t, ap[1].Debit.Equal(types.MustMoney("11.00")))

	// Returned goods left stock: 4 -> 3.
	got, err := f.products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, got.StockQuantity.Equal(types.NewQuantityFromInt(3)))

	updated, err := f.svc.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, updated.DebitedAmount.Equal(types.MustMoney("11.00")))
	assert.True(t, updated.Outstanding().Equal(types.MustMoney("33.00")))
}

func TestAuditTrail_RecordsBillAndPayment(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "10.00", 0)

	b := bill.New(id.New())
	b.Date = domaintest.Date(2026, 4, 1)
	b.Items = []*bill.Item{{
		ID:        id.New(),
		ProductID: p.ID,
		Quantity:  types.NewQuantityFromInt(2),
		UnitCost:  types.MustMoney("10.00"),
	}}
	require.NoError(t, f.svc.Create(context.Background(), b))

	_, err := f.svc.RecordPayment(context.Background(), bill.PaymentInput{
		BillID: b.ID,
		Amount: types.MustMoney("22.00"),
		Date:   domaintest.Date(2026, 4, 10),
	})
	require.NoError(t, err)

	records := f.audit.ByEntity("bill", b.ID)
	require.Len(t, records, 2)
	assert.Equal(t, audit.ActionCreate, records[0].Action)
	assert.Equal(t, "PO-00001", records[0].Changes["number"])
	assert.Equal(t, audit.ActionPayment, records[1].Action)
	assert.Equal(t, "22.00", records[1].Changes["amount"])
}

func TestCreateDebitNote_ReturnExceedingStockFails(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "10.00", 0)
	b := billFor(t, f, p, 4, "10.00") // stock 0 -> 4

	// Sell off most of the received stock out of band.
	require.NoError(t, f.products.AdjustStock(context.Background(), p.ID, types.NewQuantityFromInt(-3)))

	_, err := f.svc.CreateDebitNote(context.Background(), bill.DebitNoteInput{
		BillID: b.ID,
		Items: []bill.DebitNoteItemInput{
			{ItemID: b.Items[0].ID, Quantity: types.NewQuantityFromInt(2)},
		},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
}

func TestCreateDebitNote_ReturnCapEnforced(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "PRD-001", "10.00", 0)
	b := billFor(t, f, p, 2, "10.00")

	_, err := f.svc.CreateDebitNote(context.Background(), bill.DebitNoteInput{
		BillID: b.ID,
		Items: []bill.DebitNoteItemInput{
			{ItemID: b.Items[0].ID, Quantity: types.NewQuantityFromInt(3)},
		},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}
