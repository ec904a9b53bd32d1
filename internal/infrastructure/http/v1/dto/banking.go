package dto

import (
	"time"

	"abacus/internal/core/id"
	"abacus/internal/core/types"
	"abacus/internal/domain/banking"
)

// CreateBankAccountRequest for adding a bank account.
type CreateBankAccountRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	Currency      string `json:"currency"`

	// ChartAccountID links the account to the ledger. Required before
	// any posting can touch this account.
	ChartAccountID *id.ID `json:"chartAccountId"`
}

// ToEntity converts the request to a domain bank account.
func (r CreateBankAccountRequest) ToEntity() *banking.BankAccount {
	a := banking.New(r.Code, r.Name)
	a.BankName = r.BankName
	a.AccountNumber = r.AccountNumber
	if r.Currency != "" {
		a.Currency = r.Currency
	}
	a.ChartAccountID = r.ChartAccountID
	return a
}

// MovementRequest describes a deposit or withdrawal.
type MovementRequest struct {
	Amount      types.Money `json:"amount" binding:"required"`
	Date        time.Time   `json:"date"`
	Description string      `json:"description"`

	// CounterAccountID is the other leg of the double entry.
	CounterAccountID id.ID `json:"counterAccountId" binding:"required"`
}

// ToInput converts the request to a movement input.
func (r MovementRequest) ToInput(bankAccountID id.ID) banking.MovementInput {
	return banking.MovementInput{
		BankAccountID:    bankAccountID,
		Amount:           r.Amount,
		Date:             r.Date,
		Description:      r.Description,
		CounterAccountID: r.CounterAccountID,
	}
}

// CreateTransferRequest moves funds between two bank accounts.
type CreateTransferRequest struct {
	FromAccountID id.ID       `json:"fromAccountId" binding:"required"`
	ToAccountID   id.ID       `json:"toAccountId" binding:"required"`
	Amount        types.Money `json:"amount" binding:"required"`
	Date          time.Time   `json:"date"`
	Description   string      `json:"description"`
}

// ToInput converts the request to a transfer input.
func (r CreateTransferRequest) ToInput() banking.TransferInput {
	return banking.TransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		Date:          r.Date,
		Description:   r.Description,
	}
}

// ReconcileRequest compares the cached balance against the ledger and a
// bank statement.
type ReconcileRequest struct {
	StatementBalance types.Money `json:"statementBalance" binding:"required"`
	AsOf             time.Time   `json:"asOf"`
}
