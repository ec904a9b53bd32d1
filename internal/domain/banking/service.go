package banking

import (
	"context"
	"fmt"
	"time"

	"abacus/internal/core/apperror"
	"abacus/internal/core/entity"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/audit"
	"abacus/internal/domain/ledger"
	"abacus/internal/domain/posting"
	"abacus/pkg/logger"
	"abacus/pkg/numerator"
)

// TransferNumberPrefix for fund transfer documents.
const TransferNumberPrefix = "FT"

// Service provides business operations for bank accounts.
type Service struct {
	repo      Repository
	entries   ledger.Repository
	engine    *posting.Engine
	numerator numerator.Generator
	audit     audit.Recorder
}

// NewService creates a new banking service. A nil recorder disables
// the audit trail.
func NewService(repo Repository, entries ledger.Repository, engine *posting.Engine, gen numerator.Generator, rec audit.Recorder) *Service {
	return &Service{
		repo:      repo,
		entries:   entries,
		engine:    engine,
		numerator: gen,
		audit:     rec,
	}
}

// CreateAccount adds a bank account.
func (s *Service) CreateAccount(ctx context.Context, a *BankAccount) error {
	if err := a.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	logger.Info(ctx, "bank account created", "id", a.ID, "name", a.Name)
	return nil
}

// GetAccount retrieves a bank account.
func (s *Service) GetAccount(ctx context.Context, accountID id.ID) (*BankAccount, error) {
	return s.repo.GetByID(ctx, accountID)
}

// ListAccounts returns all bank accounts.
func (s *Service) ListAccounts(ctx context.Context) ([]*BankAccount, error) {
	return s.repo.List(ctx)
}

// MovementInput describes a deposit or withdrawal.
type MovementInput struct {
	BankAccountID id.ID
	Amount        types.Money
	Date          time.Time
	Description   string

	// CounterAccountID is the other leg of the double entry
	// (e.g. owner equity for a capital deposit, an expense account for
	// a cash withdrawal).
	CounterAccountID id.ID
}

// Deposit posts money into a bank account: the linked chart account is
// debited, the counter account credited, and the denormalized balance
// moves in the same transaction.
func (s *Service) Deposit(ctx context.Context, in MovementInput) error {
	return s.move(ctx, in, true)
}

// Withdraw posts money out of a bank account. A withdrawal exceeding
// the current balance fails with INSUFFICIENT_FUNDS and persists nothing.
func (s *Service) Withdraw(ctx context.Context, in MovementInput) error {
	return s.move(ctx, in, false)
}

func (s *Service) move(ctx context.Context, in MovementInput, deposit bool) error {
	if !in.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive")
	}
	if id.IsNil(in.CounterAccountID) {
		return apperror.NewValidation("counter account is required").
			WithDetail("field", "counterAccountId")
	}

	acc, err := s.repo.GetByID(ctx, in.BankAccountID)
	if err != nil {
		return err
	}

	chartAccount, err := acc.ChartAccount()
	if err != nil {
		return err
	}

	amount := types.Round2(in.Amount)
	if !deposit && acc.CurrentBalance.LessThan(amount) {
		return apperror.NewInsufficientFunds(
			acc.ID.String(),
			amount.String(),
			acc.CurrentBalance.String(),
		)
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	description := in.Description
	if description == "" {
		if deposit {
			description = "Deposit to " + acc.Name
		} else {
			description = "Withdrawal from " + acc.Name
		}
	}

	entries := posting.NewEntrySet(date, description)
	delta := amount
	if deposit {
		entries.Debit(chartAccount, amount).Credit(in.CounterAccountID, amount)
	} else {
		entries.Debit(in.CounterAccountID, amount).Credit(chartAccount, amount)
		delta = amount.Neg()
	}

	moveBalance := func(ctx context.Context) error {
		return s.repo.AdjustBalance(ctx, acc.ID, delta)
	}

	record := func(ctx context.Context) error {
		if s.audit == nil {
			return nil
		}
		return s.audit.Record(ctx, "bank_account", acc.ID, audit.ActionPost, map[string]any{
			"amount":      delta.String(),
			"description": description,
		})
	}

	if err := s.engine.Post(ctx, entries, moveBalance, record); err != nil {
		return err
	}

	logger.Info(ctx, "bank movement posted",
		"account", acc.Name,
		"amount", delta.String(),
	)
	return nil
}

// TransferInput describes a fund transfer between two bank accounts.
type TransferInput struct {
	FromAccountID id.ID
	ToAccountID   id.ID
	Amount        types.Money
	Date          time.Time
	Description   string
}

// CreateTransfer moves funds between two bank accounts: the source
// chart account is credited, the destination debited, both cached
// balances move, and the FT document persists — all in one transaction.
// A transfer exceeding the source balance fails with no mutation; a
// missing chart link on either side is a configuration error.
func (s *Service) CreateTransfer(ctx context.Context, in TransferInput) (*Transfer, error) {
	if !in.Amount.IsPositive() {
		return nil, apperror.NewValidation("amount must be positive")
	}
	if in.FromAccountID == in.ToAccountID {
		return nil, apperror.NewValidation("cannot transfer to the same account")
	}

	from, err := s.repo.GetByID(ctx, in.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.repo.GetByID(ctx, in.ToAccountID)
	if err != nil {
		return nil, err
	}

	fromChart, err := from.ChartAccount()
	if err != nil {
		return nil, err
	}
	toChart, err := to.ChartAccount()
	if err != nil {
		return nil, err
	}

	amount := types.Round2(in.Amount)
	if from.CurrentBalance.LessThan(amount) {
		return nil, apperror.NewInsufficientFunds(
			from.ID.String(),
			amount.String(),
			from.CurrentBalance.String(),
		)
	}

	t := &Transfer{
		Document:      entity.NewDocument(),
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		Amount:        amount,
		Description:   in.Description,
	}
	if !in.Date.IsZero() {
		t.Date = in.Date
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(TransferNumberPrefix), nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate number: %w", err)
	}
	t.Number = number

	description := t.Description
	if description == "" {
		description = fmt.Sprintf("Transfer %s: %s -> %s", t.Number, from.Name, to.Name)
	}

	entries := posting.NewEntrySet(t.Date, description).
		WithLink(posting.Link{TransferID: &t.ID}).
		Debit(toChart, amount).
		Credit(fromChart, amount)

	persist := func(ctx context.Context) error {
		t.MarkPosted()
		return s.repo.CreateTransfer(ctx, t)
	}

	moveBalances := func(ctx context.Context) error {
		if err := s.repo.AdjustBalance(ctx, from.ID, amount.Neg()); err != nil {
			return err
		}
		return s.repo.AdjustBalance(ctx, to.ID, amount)
	}

	record := func(ctx context.Context) error {
		if s.audit == nil {
			return nil
		}
		return s.audit.Record(ctx, "fund_transfer", t.ID, audit.ActionCreate, map[string]any{
			"number": t.Number,
			"amount": amount.String(),
		})
	}

	if err := s.engine.Post(ctx, entries, persist, moveBalances, record); err != nil {
		return nil, err
	}

	logger.Info(ctx, "transfer posted",
		"number", t.Number,
		"from", from.Name,
		"to", to.Name,
		"amount", amount.String(),
	)
	return t, nil
}

// ListTransfers returns transfers, optionally filtered by account.
func (s *Service) ListTransfers(ctx context.Context, accountID *id.ID) ([]*Transfer, error) {
	return s.repo.ListTransfers(ctx, accountID)
}

// Reconcile compares the cached balance against both the ledger balance
// of the linked chart account and a bank statement balance, and records
// the reconciliation on the account.
func (s *Service) Reconcile(ctx context.Context, accountID id.ID, statementBalance types.Money, asOf time.Time) (*ReconcileResult, error) {
	acc, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	chartAccount, err := acc.ChartAccount()
	if err != nil {
		return nil, err
	}

	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	sums, err := s.entries.SumByAccount(ctx, chartAccount, &asOf)
	if err != nil {
		return nil, fmt.Errorf("sum ledger: %w", err)
	}
	// The chart account of a bank account is an asset: debit-normal,
	// so the raw net is the balance.
	ledgerBalance := sums.Net()

	result := &ReconcileResult{
		BankAccountID:       acc.ID,
		CurrentBalance:      acc.CurrentBalance,
		LedgerBalance:       ledgerBalance,
		StatementBalance:    statementBalance,
		CacheConsistent:     acc.CurrentBalance.Equal(ledgerBalance),
		MatchesStatement:    acc.CurrentBalance.Equal(statementBalance),
		StatementDifference: acc.CurrentBalance.Sub(statementBalance),
	}

	acc.LastReconciledAt = &asOf
	acc.LastStatementBalance = &statementBalance
	if err := s.repo.Update(ctx, acc); err != nil {
		return nil, err
	}

	if !result.CacheConsistent {
		logger.Warn(ctx, "bank balance cache drifted from ledger",
			"account", acc.Name,
			"cached", acc.CurrentBalance.String(),
			"ledger", ledgerBalance.String(),
		)
	}

	return result, nil
}
