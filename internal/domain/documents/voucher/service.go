package voucher

import (
	"context"
	"fmt"
	"time"

	"abacus/internal/core/id"
	"abacus/internal/domain/audit"
	"abacus/internal/domain/posting"
	"abacus/pkg/logger"
	"abacus/pkg/numerator"
)

// NumberPrefix for journal vouchers.
const NumberPrefix = "JV"

// Service provides business operations for journal vouchers.
type Service struct {
	repo      Repository
	engine    *posting.Engine
	numerator numerator.Generator
	audit     audit.Recorder
}

// NewService creates a new voucher service. A nil recorder disables
// the audit trail.
func NewService(repo Repository, engine *posting.Engine, gen numerator.Generator, rec audit.Recorder) *Service {
	return &Service{
		repo:      repo,
		engine:    engine,
		numerator: gen,
		audit:     rec,
	}
}

// Create validates, numbers and posts a voucher in one operation.
// An unbalanced voucher is rejected before anything persists.
func (s *Service) Create(ctx context.Context, v *JournalVoucher) error {
	if err := v.Validate(ctx); err != nil {
		return err
	}

	if v.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(NumberPrefix), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		v.Number = number
	}

	set := posting.NewEntrySet(v.Date, s.describe(v)).
		WithLink(posting.Link{VoucherID: &v.ID, BranchID: v.BranchID})
	for _, l := range v.Lines {
		if l.Debit.IsPositive() {
			set.DebitWith(l.AccountID, l.Debit, l.Description)
		} else {
			set.CreditWith(l.AccountID, l.Credit, l.Description)
		}
	}

	persist := func(ctx context.Context) error {
		v.MarkPosted()
		if err := s.repo.Create(ctx, v); err != nil {
			return fmt.Errorf("create voucher: %w", err)
		}
		return s.repo.SaveLines(ctx, v.ID, v.Lines)
	}

	record := func(ctx context.Context) error {
		if s.audit == nil {
			return nil
		}
		return s.audit.Record(ctx, "journal_voucher", v.ID, audit.ActionPost, map[string]any{
			"number": v.Number,
			"total":  v.TotalDebits().String(),
		})
	}

	if err := s.engine.Post(ctx, set, persist, record); err != nil {
		return err
	}

	logger.Info(ctx, "journal voucher posted",
		"id", v.ID,
		"number", v.Number,
		"total", v.TotalDebits().String(),
	)
	return nil
}

// GetByID retrieves a voucher with lines.
func (s *Service) GetByID(ctx context.Context, voucherID id.ID) (*JournalVoucher, error) {
	v, err := s.repo.GetByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	v.Lines = lines

	return v, nil
}

// List retrieves vouchers with filtering.
func (s *Service) List(ctx context.Context, f ListFilter) ([]*JournalVoucher, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) describe(v *JournalVoucher) string {
	if v.Description != "" {
		return v.Description
	}
	return "Journal voucher " + v.Number
}
