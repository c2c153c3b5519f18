package services

import (
	"context"
	"errors"

	"github.com/username/brokercrm/backend/src/models"
	"golang.org/x/oauth2"
)

// Classified failures for the account transactions flow. Handlers map these
// onto HTTP statuses, and callers can tell a revoked connection apart from a
// rate limit without parsing messages.
var (
	ErrMissingAccountID    = errors.New("account id is required")
	ErrUpstreamAuth        = errors.New("accounting api rejected the credential")
	ErrUpstreamPermission  = errors.New("accounting api denied permission")
	ErrUpstreamRateLimited = errors.New("accounting api rate limit exceeded")
	ErrUpstreamFailure     = errors.New("accounting api request failed")
)

// Credential is a valid, pre-authorized access credential for the accounting
// API, together with the company realm it belongs to.
type Credential struct {
	Token   *oauth2.Token
	RealmID string
}

// CredentialSource yields a usable credential, refreshing it first when it
// is about to expire. The accounting service never manages credentials
// itself; it only requires that the calls it makes are pre-authorized.
type CredentialSource interface {
	EnsureValidCredential(ctx context.Context) (*Credential, error)
}

// AccountingAPI is the read-only surface of the external accounting system
// the assembler depends on. Both calls are independent reads; neither
// performs writes or retries.
type AccountingAPI interface {
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	GetGeneralLedger(ctx context.Context, accountID, startDate, endDate string) (*models.GeneralLedgerReport, error)
}

// AccountTransactionsQuery carries the caller-supplied inputs of one
// "get account transactions" operation.
type AccountTransactionsQuery struct {
	AccountID   string
	AccountName string // optional display-name override
	StartDate   string // inclusive, "2006-01-02"; defaults to Jan 1 of the current year
	EndDate     string // inclusive, "2006-01-02"; defaults to today (UTC)
}

// AccountingService assembles account metadata, the normalized ledger, and
// its summary into one response.
type AccountingService interface {
	GetAccountTransactions(ctx context.Context, query AccountTransactionsQuery) (*models.AccountTransactionsResult, error)
}
