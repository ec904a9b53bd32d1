package bill

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
	NumberPrefix          = "PO"
	DebitNoteNumberPrefix = "DN"
)

// Service provides business operations for purchase bills.
type Service struct {
	repo      Repository
	products  inventory.Repository
	resolver  *posting.Resolver
	engine    *posting.Engine
	numerator numerator.Generator
	vatRate   domain.VATRateFunc
	audit     audit.Recorder
}

// NewService creates a new bill service. A nil vatRate defaults to the
// tenant settings rate; a nil recorder disables the audit trail.
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

// Create computes totals, numbers the bill and posts it: inventory is
// debited for the net amount, VAT payable debited for the tax (the net
// VAT position shares one account with sales VAT), and accounts payable
// credited for the total. Stock is incremented per item in the same
// transaction.
func (s *Service) Create(ctx context.Context, b *Bill) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	sub := types.ZeroMoney()
	for _, item := range b.Items {
		if item.UnitCost.IsZero() {
			p, err := s.products.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			item.UnitCost = p.Cost
		}
		item.LineTotal = types.Round2(item.Quantity.Mul(item.UnitCost))
		sub = sub.Add(item.LineTotal)
	}
	b.SubTotal = types.Round2(sub)
	b.VATAmount = domain.VATOf(b.SubTotal, s.vatRate(ctx))
	b.TotalAmount = b.SubTotal.Add(b.VATAmount)

	if b.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(NumberPrefix), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		b.Number = number
	}

	roles := []posting.WellKnown{posting.Inventory, posting.AccountsPayable}
	if b.VATAmount.IsPositive() {
		roles = append(roles, posting.VATPayable)
	}
	set, err := s.resolver.Resolve(ctx, roles...)
	if err != nil {
		return err
	}

	entries := posting.NewEntrySet(b.Date, "Bill "+b.Number).
		WithLink(posting.Link{BillID: &b.ID, VendorID: &b.VendorID, BranchID: b.BranchID}).
		Debit(set[posting.Inventory], b.SubTotal)
	if b.VATAmount.IsPositive() {
		entries.Debit(set[posting.VATPayable], b.VATAmount)
	}
	entries.Credit(set[posting.AccountsPayable], b.TotalAmount)

	persist := func(ctx context.Context) error {
		b.RecalcStatus()
		b.MarkPosted()
		if err := s.repo.Create(ctx, b); err != nil {
			return fmt.Errorf("create bill: %w", err)
		}
		return s.repo.SaveItems(ctx, b.ID, b.Items)
	}

	receiveStock := func(ctx context.Context) error {
		for _, item := range b.Items {
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
		return s.audit.Record(ctx, "bill", b.ID, audit.ActionCreate, map[string]any{
			"number": b.Number,
			"total":  b.TotalAmount.String(),
		})
	}

	if err := s.engine.Post(ctx, entries, persist, receiveStock, record); err != nil {
		return err
	}

	logger.Info(ctx, "bill posted",
		"id", b.ID,
		"number", b.Number,
		"total", b.TotalAmount.String(),
	)
	return nil
}

// PaymentInput describes a payment against a bill.
type PaymentInput struct {
	BillID id.ID
	Amount types.Money
	Date   time.Time

	// PayFromAccountID is the chart account the money leaves.
	// Nil means the well-known cash account.
	PayFromAccountID *id.ID
}

// RecordPayment applies a vendor payment: accounts payable is debited
// and the cash (or chosen) account credited. The bill's paid amount and
// status update in the same transaction.
func (s *Service) RecordPayment(ctx context.Context, in PaymentInput) (*Bill, error) {
	if !in.Amount.IsPositive() {
		return nil, apperror.NewValidation("payment amount must be positive")
	}

	b, err := s.repo.GetByID(ctx, in.BillID)
	if err != nil {
		return nil, err
	}

	creditAccount, err := s.paymentAccount(ctx, in.PayFromAccountID)
	if err != nil {
		return nil, err
	}
	set, err := s.resolver.Resolve(ctx, posting.AccountsPayable)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	amount := types.Round2(in.Amount)
	entries := posting.NewEntrySet(date, "Payment for "+b.Number).
		WithLink(posting.Link{BillID: &b.ID, VendorID: &b.VendorID, BranchID: b.BranchID}).
		Debit(set[posting.AccountsPayable], amount).
		Credit(creditAccount, amount)

	applyPayment := func(ctx context.Context) error {
		b.PaidAmount = b.PaidAmount.Add(amount)
		b.RecalcStatus()
		return s.repo.Update(ctx, b)
	}

	record := func(ctx context.Context) error {
		if s.audit == nil {
			return nil
		}
		return s.audit.Record(ctx, "bill", b.ID, audit.ActionPayment, map[string]any{
			"amount": amount.String(),
			"paid":   b.PaidAmount.String(),
			"status": b.Status,
		})
	}

	if err := s.engine.Post(ctx, entries, applyPayment, record); err != nil {
		return nil, err
	}

	logger.Info(ctx, "bill payment recorded",
		"bill", b.Number,
		"amount", amount.String(),
		"status", b.Status,
	)
	return b, nil
}

// DebitNoteItemInput selects a bill line and return quantity.
type DebitNoteItemInput struct {
	ItemID   id.ID
	Quantity types.Quantity
}

// DebitNoteInput describes a purchase return against a bill.
type DebitNoteInput struct {
	BillID id.ID
	Date   time.Time
	Reason string
	Items  []DebitNoteItemInput
}

// CreateDebitNote reverses part of a bill: accounts payable is debited
// back and inventory and VAT payable credited. The returned items leave
// stock; a return exceeding on-hand stock fails and rolls everything back.
func (s *Service) CreateDebitNote(ctx context.Context, in DebitNoteInput) (*DebitNote, error) {
	if len(in.Items) == 0 {
		return nil, apperror.NewValidation("debit note requires at least one item")
	}

	b, err := s.GetByID(ctx, in.BillID)
	if err != nil {
		return nil, err
	}

	byID := make(map[id.ID]*Item, len(b.Items))
	for _, item := range b.Items {
		byID[item.ID] = item
	}

	dn := &DebitNote{
		Document: entity.NewDocument(),
		BillID:   b.ID,
		Reason:   in.Reason,
	}
	if !in.Date.IsZero() {
		dn.Date = in.Date
	}

	sub := types.ZeroMoney()
	for i, ret := range in.Items {
		item, ok := byID[ret.ItemID]
		if !ok {
			return nil, apperror.NewValidation("item does not belong to bill").
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
				"Return quantity exceeds billed quantity",
			).WithDetail("item_id", item.ID.String()).
				WithDetail("returnable", returnable.String()).
				WithDetail("requested", ret.Quantity.String())
		}

		lineTotal := types.Round2(ret.Quantity.Mul(item.UnitCost))
		dn.Items = append(dn.Items, &DebitNoteItem{
			ID:          id.New(),
			DebitNoteID: dn.ID,
			ProductID:   item.ProductID,
			Quantity:    ret.Quantity,
			UnitCost:    item.UnitCost,
			LineTotal:   lineTotal,
		})
		sub = sub.Add(lineTotal)

		item.ReturnedQuantity = item.ReturnedQuantity.Add(ret.Quantity)
	}

	dn.SubTotal = types.Round2(sub)
	if b.SubTotal.IsPositive() && b.VATAmount.IsPositive() {
		dn.VATAmount = types.Round2(dn.SubTotal.Mul(b.VATAmount).Div(b.SubTotal))
	}
	dn.TotalAmount = dn.SubTotal.Add(dn.VATAmount)

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(DebitNoteNumberPrefix), nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	dn.Number = number

	roles := []posting.WellKnown{posting.AccountsPayable, posting.Inventory}
	if dn.VATAmount.IsPositive() {
		roles = append(roles, posting.VATPayable)
	}
	set, err := s.resolver.Resolve(ctx, roles...)
	if err != nil {
		return nil, err
	}

	entries := posting.NewEntrySet(dn.Date, "Debit note "+dn.Number+" for "+b.Number).
		WithLink(posting.Link{BillID: &b.ID, VendorID: &b.VendorID, BranchID: b.BranchID}).
		Debit(set[posting.AccountsPayable], dn.TotalAmount).
		Credit(set[posting.Inventory], dn.SubTotal)
	if dn.VATAmount.IsPositive() {
		entries.Credit(set[posting.VATPayable], dn.VATAmount)
	}

	persist := func(ctx context.Context) error {
		dn.MarkPosted()
		if err := s.repo.CreateDebitNote(ctx, dn); err != nil {
			return fmt.Errorf("create debit note: %w", err)
		}
		if err := s.repo.SaveDebitNoteItems(ctx, dn.ID, dn.Items); err != nil {
			return fmt.Errorf("save debit note items: %w", err)
		}

		b.DebitedAmount = b.DebitedAmount.Add(dn.TotalAmount)
		b.RecalcStatus()
		if err := s.repo.Update(ctx, b); err != nil {
			return fmt.Errorf("update bill: %w", err)
		}
		return s.repo.SaveItems(ctx, b.ID, b.Items)
	}

	returnStock := func(ctx context.Context) error {
		for _, item := range dn.Items {
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
		return s.audit.Record(ctx, "debit_note", dn.ID, audit.ActionCreate, map[string]any{
			"number": dn.Number,
			"bill":   b.Number,
			"total":  dn.TotalAmount.String(),
		})
	}

	if err := s.engine.Post(ctx, entries, persist, returnStock, record); err != nil {
		return nil, err
	}

	logger.Info(ctx, "debit note posted",
		"number", dn.Number,
		"bill", b.Number,
		"total", dn.TotalAmount.String(),
	)
	return dn, nil
}

// GetByID retrieves a bill with items.
func (s *Service) GetByID(ctx context.Context, billID id.ID) (*Bill, error) {
	b, err := s.repo.GetByID(ctx, billID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	b.Items = items

	return b, nil
}

// List retrieves bills with filtering.
func (s *Service) List(ctx context.Context, f ListFilter) ([]*Bill, error) {
	return s.repo.List(ctx, f)
}

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
