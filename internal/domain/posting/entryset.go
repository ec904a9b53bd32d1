package posting

import (
	"context"
	"time"

	"abacus/internal/core/apperror"
	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/ledger"
)

// Link attaches source document and counterparty references to the
// entries of a set.
type Link struct {
	VoucherID  *id.ID
	InvoiceID  *id.ID
	BillID     *id.ID
	TransferID *id.ID
	CustomerID *id.ID
	VendorID   *id.ID
	BranchID   *id.ID
}

// EntrySet accumulates the ledger lines for one business event.
// Build it with Debit and Credit, then hand it to Engine.Post.
type EntrySet struct {
	date        time.Time
	description string
	link        Link
	entries     []*ledger.Entry
}

// NewEntrySet starts an empty set dated at the given business date.
func NewEntrySet(date time.Time, description string) *EntrySet {
	return &EntrySet{
		date:        date,
		description: description,
	}
}

// WithLink sets the source document references stamped on every entry.
func (s *EntrySet) WithLink(link Link) *EntrySet {
	s.link = link
	return s
}

// Debit adds a debit line for the account.
func (s *EntrySet) Debit(accountID id.ID, amount types.Money) *EntrySet {
	return s.add(accountID, amount, types.ZeroMoney(), "")
}

// Credit adds a credit line for the account.
func (s *EntrySet) Credit(accountID id.ID, amount types.Money) *EntrySet {
	return s.add(accountID, types.ZeroMoney(), amount, "")
}

// DebitWith adds a debit line with its own description.
func (s *EntrySet) DebitWith(accountID id.ID, amount types.Money, description string) *EntrySet {
	return s.add(accountID, amount, types.ZeroMoney(), description)
}

// CreditWith adds a credit line with its own description.
func (s *EntrySet) CreditWith(accountID id.ID, amount types.Money, description string) *EntrySet {
	return s.add(accountID, types.ZeroMoney(), amount, description)
}

func (s *EntrySet) add(accountID id.ID, debit, credit types.Money, description string) *EntrySet {
	if description == "" {
		description = s.description
	}
	e := ledger.NewEntry(s.date, accountID, types.Round2(debit), types.Round2(credit), description)
	e.VoucherID = s.link.VoucherID
	e.InvoiceID = s.link.InvoiceID
	e.BillID = s.link.BillID
	e.TransferID = s.link.TransferID
	e.CustomerID = s.link.CustomerID
	e.VendorID = s.link.VendorID
	e.BranchID = s.link.BranchID
	s.entries = append(s.entries, e)
	return s
}

// Entries returns the accumulated lines.
func (s *EntrySet) Entries() []*ledger.Entry {
	return s.entries
}

// TotalDebits sums the debit side.
func (s *EntrySet) TotalDebits() types.Money {
	total := types.ZeroMoney()
	for _, e := range s.entries {
		total = total.Add(e.Debit)
	}
	return total
}

// TotalCredits sums the credit side.
func (s *EntrySet) TotalCredits() types.Money {
	total := types.ZeroMoney()
	for _, e := range s.entries {
		total = total.Add(e.Credit)
	}
	return total
}

// Balanced reports whether total debits equal total credits.
func (s *EntrySet) Balanced() bool {
	return s.TotalDebits().Equal(s.TotalCredits())
}

// Validate checks the whole set before anything persists: at least one
// line, every line valid, no negative amounts, and debits equal credits.
func (s *EntrySet) Validate(ctx context.Context) error {
	if len(s.entries) == 0 {
		return apperror.NewValidation("entry set is empty")
	}

	for _, e := range s.entries {
		if err := e.Validate(ctx); err != nil {
			return err
		}
	}

	if !s.Balanced() {
		return apperror.NewUnbalanced(
			s.TotalDebits().String(),
			s.TotalCredits().String(),
		)
	}

	return nil
}
