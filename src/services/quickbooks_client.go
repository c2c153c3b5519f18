package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/brokercrm/backend/src/logger"
	"github.com/username/brokercrm/backend/src/models"
	"golang.org/x/net/publicsuffix"
)

const (
	quickBooksSandboxBaseURL    = "https://sandbox-quickbooks.api.intuit.com"
	quickBooksProductionBaseURL = "https://quickbooks.api.intuit.com"
)

// --- API Response Structs ---

type accountResponse struct {
	Account struct {
		ID             string          `json:"Id"`
		Name           string          `json:"Name"`
		AccountType    string          `json:"AccountType"`
		AccountSubType string          `json:"AccountSubType"`
		CurrentBalance decimal.Decimal `json:"CurrentBalance"`
		CurrencyRef    struct {
			Value string `json:"value"`
		} `json:"CurrencyRef"`
	} `json:"Account"`
}

// --- Client Implementation ---

// QuickBooksClient is a read-only client for the QuickBooks Online
// accounting API. It implements AccountingAPI. Credentials come from the
// injected CredentialSource; the client itself never refreshes tokens and
// never retries.
type QuickBooksClient struct {
	httpClient   http.Client
	credentials  CredentialSource
	baseURL      string
	minorVersion string
}

func NewQuickBooksClient(credentials CredentialSource, environment, minorVersion string) *QuickBooksClient {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	baseURL := quickBooksSandboxBaseURL
	if environment == "production" {
		baseURL = quickBooksProductionBaseURL
	}

	return &QuickBooksClient{
		httpClient: http.Client{
			Jar:     jar,
			Timeout: 20 * time.Second,
		},
		credentials:  credentials,
		baseURL:      baseURL,
		minorVersion: minorVersion,
	}
}

// GetAccount fetches metadata and the current balance for one
// chart-of-accounts entry.
func (c *QuickBooksClient) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	var resp accountResponse
	if err := c.doGet(ctx, "account/"+url.PathEscape(accountID), nil, &resp); err != nil {
		return nil, err
	}

	return &models.Account{
		ID:             resp.Account.ID,
		Name:           resp.Account.Name,
		AccountType:    resp.Account.AccountType,
		AccountSubType: resp.Account.AccountSubType,
		CurrentBalance: resp.Account.CurrentBalance,
		CurrencyCode:   resp.Account.CurrencyRef.Value,
	}, nil
}

// GetGeneralLedger fetches the GeneralLedger report for one account over an
// inclusive date range. The raw row tree is returned untouched; flattening
// is the normalizer's job.
func (c *QuickBooksClient) GetGeneralLedger(ctx context.Context, accountID, startDate, endDate string) (*models.GeneralLedgerReport, error) {
	query := url.Values{}
	query.Set("account", accountID)
	query.Set("start_date", startDate)
	query.Set("end_date", endDate)
	query.Set("columns", "tx_date,txn_type,doc_num,name,memo,debt_amt,credit_amt,rbal_amt")

	var report models.GeneralLedgerReport
	if err := c.doGet(ctx, "reports/GeneralLedger", query, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *QuickBooksClient) doGet(ctx context.Context, path string, query url.Values, out any) error {
	credential, err := c.credentials.EnsureValidCredential(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamAuth, err)
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("minorversion", c.minorVersion)

	requestURL := fmt.Sprintf("%s/v3/company/%s/%s?%s", c.baseURL, url.PathEscape(credential.RealmID), path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrUpstreamFailure, err)
	}
	req.Header.Set("Authorization", "Bearer "+credential.Token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		logger.L.Warn("QuickBooks API returned non-OK status", "path", path, "status", resp.StatusCode)
		return classifyStatus(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUpstreamFailure, err)
	}
	return nil
}

// classifyStatus maps a non-2xx QuickBooks response onto the error taxonomy
// so callers can render a specific message instead of a generic failure.
func classifyStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", ErrUpstreamAuth, status)
	case http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUpstreamPermission, status)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrUpstreamRateLimited, status)
	default:
		return fmt.Errorf("%w: status %d", ErrUpstreamFailure, status)
	}
}
