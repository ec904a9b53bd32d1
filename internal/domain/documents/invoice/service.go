package invoice

import (
	"context"
	"fmt"
	"time"

	"abacus/internal/core/apperror"
	"abacus/internal/core/entity"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain"
	"abacus/internal/domain/audit"
	"abacus/internal/domain/inventory"
	"abacus/internal/domain/posting"
	"abacus/pkg/logger"
	"abacus/pkg/numerator"
)

// Document number prefixes.
const (
	NumberPrefix           = "INV"
	CreditNoteNumberPrefix = "CN"
)

// Service provides business operations for sales invoices.
type Service struct {
	repo      Repository
	products  inventory.Repository
	resolver  *posting.Resolver
	engine    *posting.Engine
	numerator numerator.Generator
	vatRate   domain.VATRateFunc
	audit     audit.Recorder
}

// NewService creates a new invoice service. A nil vatRate defaults to
// the tenant settings rate; a nil recorder disables the audit trail.
func NewService(
	repo Repository,
	products inventory.Repository,
	resolver *posting.Resolver,
	engine *posting.Engine,
	gen numerator.Generator,
	vatRate domain.VATRateFunc,
	rec audit.Recorder,
) *Service {
	if vatRate == nil {
		vatRate = domain.TenantVATRate
	}
	return &Service{
		repo:      repo,
		products:  products,
		resolver:  resolver,
		engine:    engine,
		numerator: gen,
		vatRate:   vatRate,
		audit:     rec,
	}
}

// Create computes totals, numbers the invoice and posts it: accounts
// receivable is debited for the total, sales revenue credited for the
// net amount, VAT payable credited for the tax, and stock is decremented
// per item. Everything commits in one transaction.
func (s *Service) Create(ctx context.Context, inv *Invoice) error {
	if err := inv.Validate(ctx); err != nil {
		return err
	}

	// Default missing prices from the product catalog, then total up.
	sub := types.ZeroMoney()
	for _, item := range inv.Items {
		if item.UnitPrice.IsZero() {
			p, err := s.products.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			item.UnitPrice = p.Price
		}
		item.LineTotal = types.Round2(item.Quantity.Mul(item.UnitPrice))
		sub = sub.Add(item.LineTotal)
	}
	inv.SubTotal = types.Round2(sub)
	inv.VATAmount = domain.VATOf(inv.SubTotal, s.vatRate(ctx))
	inv.TotalAmount = inv.SubTotal.Add(inv.VATAmount)

	if inv.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(NumberPrefix), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		inv.Number = number
	}

	roles := []posting.WellKnown{posting.AccountsReceivable, posting.SalesRevenue}
	if inv.VATAmount.IsPositive() {
		roles = append(roles, posting.VATPayable)
	}
	set, err := s.resolver.Resolve(ctx, roles...)
	if err != nil {
		return err
	}

	entries := posting.NewEntrySet(inv.Date, "Invoice "+inv.Number).
		WithLink(posting.Link{InvoiceID: &inv.ID, CustomerID: &inv.CustomerID, BranchID: inv.BranchID}).
		Debit(set[posting.AccountsReceivable], inv.TotalAmount).
		Credit(set[posting.SalesRevenue], inv.SubTotal)
	if inv.VATAmount.IsPositive() {
		entries.Credit(set[posting.VATPayable], inv.VATAmount)
	}

	persist := func(ctx context.Context) error {
		inv.RecalcStatus()
		inv.MarkPosted()
		if err := s.repo.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		return s.repo.SaveItems(ctx, inv.ID, inv.Items)
	}

	reduceStock := func(ctx context.Context) error {
		for _, item := range inv.Items {
			if err := s.products.AdjustStock(ctx, item.ProductID, item.Quantity.Neg()); err != nil {
				return err
			}
		}
		return nil
	}

	record := func(ctx context.Context) error {
		if s.audit == nil {
			return nil
		}
		return s.audit.Record(ctx, "invoice", inv.ID, audit.ActionCreate, map[string]any{
			"number": inv.Number,
			"total":  inv.TotalAmount.String(),
		})
	}

	if err := s.engine.Post(ctx, entries, persist, reduceStock, record); err != nil {
		return err
	}

	logger.Info(ctx, "invoice posted",
		"id", inv.ID,
		"number", inv.Number,
		"total", inv.TotalAmount.String(),
	)
	return nil
}

// PaymentInput describes a payment against an invoice.
type PaymentInput struct {
	InvoiceID id.ID
	Amount    types.Money
	Date      time.Time

	// DepositAccountID is the chart account receiving the money.
	// Nil means the well-known cash account.
	DepositAccountID *id.ID
}

// RecordPayment applies a customer payment: the cash (or chosen deposit)
// account is debited and accounts receivable credited. The invoice's
// paid amount and status update in the same transaction.
func (s *Service) RecordPayment(ctx context.Context, in PaymentInput) (*Invoice, error) {
	if !in.Amount.IsPositive() {
		return nil, apperror.NewValidation("payment amount must be positive")
	}

	inv, err := s.repo.GetByID(ctx, in.InvoiceID)
	if err != nil {
		return nil, err
	}

	if inv.Status == StatusWrittenOff {
		return nil, apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Cannot record payment against a written-off invoice",
		).WithDetail("invoice_id", inv.ID.String())
	}

	debitAccount, err := s.paymentAccount(ctx, in.DepositAccountID)
	if err != nil {
		return nil, err
	}
	set, err := s.resolver.Resolve(ctx, posting.AccountsReceivable)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	amount := types.Round2(in.Amount)
	entries := posting.NewEntrySet(date, "Payment for "+inv.Number).
		WithLink(posting.Link{InvoiceID: &inv.ID, CustomerID: &inv.CustomerID, BranchID: inv.BranchID}).
		Debit(debitAccount, amount).
		Credit(set[posting.AccountsReceivable], amount)

	applyPayment := func(ctx context.Context) error {
		inv.PaidAmount = inv.PaidAmount.Add(amount)
		inv.RecalcStatus()
		return s.repo.Update(ctx, inv)
	}

	record := func(ctx context.Context) error {
		if s.audit == nil {
			return nil
		}
		return s.audit.Record(ctx, "invoice", inv.ID, audit.ActionPayment, map[string]any{
			"amount": amount.String(),
			"paid":   inv.PaidAmount.String(),
			"status": inv.Status,
		})
	}

	if err := s.engine.Post(ctx, entries, applyPayment, record); err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice payment recorded",
		"invoice", inv.Number,
		"amount", amount.String(),
		"status", inv.Status,
	)
	return inv, nil
}

// WriteOff expenses the outstanding balance of an invoice: operating
// expenses is debited and accounts receivable credited for the amount
// still owed. Only invoices with a positive outstanding can be written off.
func (s *Service) WriteOff(ctx context.Context, invoiceID id.ID, date time.Time) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	outstanding := inv.Outstanding()
	if !outstanding.IsPositive() {
		return nil, apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Invoice has no outstanding balance to write off",
		).WithDetail("invoice_id", inv.ID.String()).
			WithDetail("outstanding", outstanding.String())
	}

	set, err := s.resolver.Resolve(ctx, posting.OperatingExpenses, posting.AccountsReceivable)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = time.Now().UTC()
	}

	entries := posting.NewEntrySet(date, "Write-off "+inv.Number).
		WithLink(posting.Link{InvoiceID: &inv.ID, CustomerID: &inv.CustomerID, BranchID: inv.BranchID}).
		Debit(set[posting.OperatingExpenses], outstanding).
		Credit(set[posting.AccountsReceivable], outstanding)

	markWrittenOff := func(ctx context.Context) error {
		inv.Status = StatusWrittenOff
		return s.repo.Update(ctx, inv)
	}

	record := func(ctx context.Context) error {
		if s.audit == nil {
			return nil
		}
		return s.audit.Record(ctx, "invoice", inv.ID, audit.ActionWriteOff, map[string]any{
			"amount": outstanding.String(),
		})
	}

	if err := s.engine.Post(ctx, entries, markWrittenOff, record); err != nil {
		return nil, err
	}

	logger.Info(ctx, "invoice written off",
		"invoice", inv.Number,
		"amount", outstanding.String(),
	)
	return inv, nil
}

// CreditNoteItemInput selects an invoice line and return quantity.
type CreditNoteItemInput struct {
	ItemID   id.ID
	Quantity types.Quantity
}

// CreditNoteInput describes a sales return against an invoice.
type CreditNoteInput struct {
	InvoiceID id.ID
	Date      time.Time
	Reason    string
	Items     []CreditNoteItemInput
}

// CreateCreditNote reverses part of an invoice: sales revenue and VAT
// payable are debited back, accounts receivable credited, and the
// returned items restocked. Returned quantities accumulate per line and
// can never exceed the invoiced quantity.
func (s *Service) CreateCreditNote(ctx context.Context, in CreditNoteInput) (*CreditNote, error) {
	if len(in.Items) == 0 {
		return nil, apperror.NewValidation("credit note requires at least one item")
	}

	inv, err := s.GetByID(ctx, in.InvoiceID)
	if err != nil {
		return nil, err
	}

	byID := make(map[id.ID]*Item, len(inv.Items))
	for _, item := range inv.Items {
		byID[item.ID] = item
	}

	cn := &CreditNote{
		Document:  entity.NewDocument(),
		InvoiceID: inv.ID,
		Reason:    in.Reason,
	}
	if !in.Date.IsZero() {
		cn.Date = in.Date
	}

	sub := types.ZeroMoney()
	for i, ret := range in.Items {
		item, ok := byID[ret.ItemID]
		if !ok {
			return nil, apperror.NewValidation("item does not belong to invoice").
				WithDetail("item", i)
		}
		if !ret.Quantity.IsPositive() {
			return nil, apperror.NewValidation("return quantity must be positive").
				WithDetail("item", i)
		}
		returnable := item.Quantity.Sub(item.ReturnedQuantity)
		if ret.Quantity.GreaterThan(returnable) {
			return nil, apperror.NewBusinessRule(
				apperror.CodeBusinessRule,
				"Return quantity exceeds invoiced quantity",
			).WithDetail("item_id", item.ID.String()).
				WithDetail("returnable", returnable.String()).
				WithDetail("requested", ret.Quantity.String())
		}

		lineTotal := types.Round2(ret.Quantity.Mul(item.UnitPrice))
		cn.Items = append(cn.Items, &CreditNoteItem{
			ID:           id.New(),
			CreditNoteID: cn.ID,
			ProductID:    item.ProductID,
			Quantity:     ret.Quantity,
			UnitPrice:    item.UnitPrice,
			LineTotal:    lineTotal,
		})
		sub = sub.Add(lineTotal)

		item.ReturnedQuantity = item.ReturnedQuantity.Add(ret.Quantity)
	}

	cn.SubTotal = types.Round2(sub)
	// VAT reverses proportionally to the invoiced VAT.
	if inv.SubTotal.IsPositive() && inv.VATAmount.IsPositive() {
		cn.VATAmount = types.Round2(cn.SubTotal.Mul(inv.VATAmount).Div(inv.SubTotal))
	}
	cn.TotalAmount = cn.SubTotal.Add(cn.VATAmount)

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(CreditNoteNumberPrefix), nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	cn.Number = number

	roles := []posting.WellKnown{posting.AccountsReceivable, posting.SalesRevenue}
	if cn.VATAmount.IsPositive() {
		roles = append(roles, posting.VATPayable)
	}
	set, err := s.resolver.Resolve(ctx, roles...)
	if err != nil {
		return nil, err
	}

	entries := posting.NewEntrySet(cn.Date, "Credit note "+cn.Number+" for "+inv.Number).
		WithLink(posting.Link{InvoiceID: &inv.ID, CustomerID: &inv.CustomerID, BranchID: inv.BranchID}).
		Debit(set[posting.SalesRevenue], cn.SubTotal)
	if cn.VATAmount.IsPositive() {
		entries.Debit(set[posting.VATPayable], cn.VATAmount)
	}
	entries.Credit(set[posting.AccountsReceivable], cn.TotalAmount)

	persist := func(ctx context.Context) error {
		cn.MarkPosted()
		if err := s.repo.CreateCreditNote(ctx, cn); err != nil {
			return fmt.Errorf("create credit note: %w", err)
		}
		if err := s.repo.SaveCreditNoteItems(ctx, cn.ID, cn.Items); err != nil {
			return fmt.Errorf("save credit note items: %w", err)
		}

		inv.CreditedAmount = inv.CreditedAmount.Add(cn.TotalAmount)
		inv.RecalcStatus()
		if err := s.repo.Update(ctx, inv); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		return s.repo.SaveItems(ctx, inv.ID, inv.Items)
	}

	restock := func(ctx context.Context) error {
		for _, item := range cn.Items {
			if err := s.products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	}

	record := func(ctx context.Context) error {
		if s.audit == nil {
			return nil
		}
		return s.audit.Record(ctx, "credit_note", cn.ID, audit.ActionCreate, map[string]any{
			"number":  cn.Number,
			"invoice": inv.Number,
			"total":   cn.TotalAmount.String(),
		})
	}

	if err := s.engine.Post(ctx, entries, persist, restock, record); err != nil {
		return nil, err
	}

	logger.Info(ctx, "credit note posted",
		"number", cn.Number,
		"invoice", inv.Number,
		"total", cn.TotalAmount.String(),
	)
	return cn, nil
}

// GetByID retrieves an invoice with items.
func (s *Service) GetByID(ctx context.Context, invoiceID id.ID) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	inv.Items = items

	return inv, nil
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, f ListFilter) ([]*Invoice, error) {
	return s.repo.List(ctx, f)
}

// paymentAccount picks the debit side of a payment: an explicit deposit
// account or the well-known cash account.
func (s *Service) paymentAccount(ctx context.Context, explicit *id.ID) (id.ID, error) {
	if explicit != nil && !id.IsNil(*explicit) {
		return *explicit, nil
	}
	set, err := s.resolver.Resolve(ctx, posting.Cash)
	if err != nil {
		return id.Nil(), err
	}
	return set[posting.Cash], nil
}
