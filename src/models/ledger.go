package models

import "github.com/shopspring/decimal"

// TransactionLine is one normalized general ledger entry. Lines are created
// once during normalization and are immutable afterwards; they live only for
// the duration of one request.
type TransactionLine struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Type           string          `json:"type"`
	DocNumber      string          `json:"doc_number,omitempty"`
	Name           string          `json:"name,omitempty"`
	Memo           string          `json:"memo,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// LedgerSummary aggregates a sequence of transaction lines.
// NetChange = TotalDebits - TotalCredits.
type LedgerSummary struct {
	TotalDebits  decimal.Decimal `json:"total_debits"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	NetChange    decimal.Decimal `json:"net_change"`
}

// Account is the metadata QuickBooks returns for a chart-of-accounts entry.
// CurrentBalance is the balance as of now, independent of any report range.
type Account struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	AccountType    string          `json:"account_type"`
	AccountSubType string          `json:"account_sub_type,omitempty"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CurrencyCode   string          `json:"currency_code,omitempty"`
}

// AccountTransactionsResult is the response envelope for one
// "get account transactions" operation.
type AccountTransactionsResult struct {
	AccountID      string            `json:"account_id"`
	AccountName    string            `json:"account_name"`
	AccountType    string            `json:"account_type"`
	CurrentBalance decimal.Decimal   `json:"current_balance"`
	StartDate      string            `json:"start_date"`
	EndDate        string            `json:"end_date"`
	Transactions   []TransactionLine `json:"transactions"`
	Summary        LedgerSummary     `json:"summary"`
}
