package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/username/brokercrm/backend/src/logger"
	"github.com/username/brokercrm/backend/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// mockAccountingAPI is a mock of the external accounting system.
type mockAccountingAPI struct {
	account    *models.Account
	report     *models.GeneralLedgerReport
	accountErr error
	reportErr  error

	accountCalls int
	ledgerCalls  int
	lastStart    string
	lastEnd      string
}

func (m *mockAccountingAPI) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	m.accountCalls++
	if m.accountErr != nil {
		return nil, m.accountErr
	}
	return m.account, nil
}

func (m *mockAccountingAPI) GetGeneralLedger(ctx context.Context, accountID, startDate, endDate string) (*models.GeneralLedgerReport, error) {
	m.ledgerCalls++
	m.lastStart = startDate
	m.lastEnd = endDate
	if m.reportErr != nil {
		return nil, m.reportErr
	}
	return m.report, nil
}

func testAccount() *models.Account {
	return &models.Account{
		ID:             "33",
		Name:           "Trust Account",
		AccountType:    "Bank",
		CurrentBalance: decimal.RequireFromString("1234.56"),
	}
}

func testReport() *models.GeneralLedgerReport {
	return &models.GeneralLedgerReport{
		Rows: models.ReportRows{Row: []models.RawReportNode{
			{ColData: []models.ReportCell{
				{Value: "2025-01-10"}, {Value: "Deposit"}, {Value: "101"}, {Value: "Summit Escrow"}, {Value: ""}, {Value: "100"}, {Value: ""},
			}},
			{ColData: []models.ReportCell{
				{Value: "2025-01-12"}, {Value: "Check"}, {Value: "102"}, {Value: "Office Depot"}, {Value: ""}, {Value: ""}, {Value: "40"},
			}},
		}},
	}
}

func TestGetAccountTransactions_MissingAccountID(t *testing.T) {
	api := &mockAccountingAPI{}
	service := NewAccountingService(api, nil)

	_, err := service.GetAccountTransactions(context.Background(), AccountTransactionsQuery{AccountID: "  "})
	if !errors.Is(err, ErrMissingAccountID) {
		t.Fatalf("err = %v, want ErrMissingAccountID", err)
	}
	if api.accountCalls != 0 || api.ledgerCalls != 0 {
		t.Errorf("external API was called despite invalid input (account=%d, ledger=%d)", api.accountCalls, api.ledgerCalls)
	}
}

func TestGetAccountTransactions_AssemblesResult(t *testing.T) {
	api := &mockAccountingAPI{account: testAccount(), report: testReport()}
	service := NewAccountingService(api, nil)

	result, err := service.GetAccountTransactions(context.Background(), AccountTransactionsQuery{
		AccountID: "33",
		StartDate: "2025-01-01",
		EndDate:   "2025-01-31",
	})
	if err != nil {
		t.Fatalf("GetAccountTransactions failed: %v", err)
	}

	if result.AccountID != "33" || result.AccountName != "Trust Account" || result.AccountType != "Bank" {
		t.Errorf("account fields not assembled: %+v", result)
	}
	if !result.CurrentBalance.Equal(decimal.RequireFromString("1234.56")) {
		t.Errorf("current balance = %s, want 1234.56", result.CurrentBalance)
	}
	if result.StartDate != "2025-01-01" || result.EndDate != "2025-01-31" {
		t.Errorf("date range = %s..%s, want 2025-01-01..2025-01-31", result.StartDate, result.EndDate)
	}
	if len(result.Transactions) != 2 {
		t.Fatalf("got %d transactions, want 2", len(result.Transactions))
	}
	if !result.Transactions[1].RunningBalance.Equal(decimal.RequireFromString("60")) {
		t.Errorf("final running balance = %s, want 60", result.Transactions[1].RunningBalance)
	}
	if !result.Summary.NetChange.Equal(decimal.RequireFromString("60")) {
		t.Errorf("net change = %s, want 60", result.Summary.NetChange)
	}
}

func TestGetAccountTransactions_NameOverrideSanitized(t *testing.T) {
	api := &mockAccountingAPI{account: testAccount(), report: testReport()}
	service := NewAccountingService(api, nil)

	result, err := service.GetAccountTransactions(context.Background(), AccountTransactionsQuery{
		AccountID:   "33",
		AccountName: "<b>Operating</b> Account",
	})
	if err != nil {
		t.Fatalf("GetAccountTransactions failed: %v", err)
	}
	if result.AccountName != "Operating Account" {
		t.Errorf("account name = %q, want sanitized override %q", result.AccountName, "Operating Account")
	}
}

func TestGetAccountTransactions_DefaultDates(t *testing.T) {
	api := &mockAccountingAPI{account: testAccount(), report: testReport()}
	service := NewAccountingService(api, nil)

	if _, err := service.GetAccountTransactions(context.Background(), AccountTransactionsQuery{AccountID: "33"}); err != nil {
		t.Fatalf("GetAccountTransactions failed: %v", err)
	}

	now := time.Now().UTC()
	wantStart := fmt.Sprintf("%d-01-01", now.Year())
	wantEnd := now.Format("2006-01-02")
	if api.lastStart != wantStart {
		t.Errorf("start date = %s, want %s", api.lastStart, wantStart)
	}
	if api.lastEnd != wantEnd {
		t.Errorf("end date = %s, want %s", api.lastEnd, wantEnd)
	}
}

func TestResolveDateRange(t *testing.T) {
	now := time.Date(2025, time.August, 29, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
	}{
		{"both omitted", "", "", "2025-01-01", "2025-08-29"},
		{"start given", "2025-03-15", "", "2025-03-15", "2025-08-29"},
		{"end given", "", "2025-06-30", "2025-01-01", "2025-06-30"},
		{"both given", "2024-01-01", "2024-12-31", "2024-01-01", "2024-12-31"},
		{"whitespace treated as omitted", "  ", " ", "2025-01-01", "2025-08-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStart, gotEnd := resolveDateRange(tt.start, tt.end, now)
			if gotStart != tt.wantStart || gotEnd != tt.wantEnd {
				t.Errorf("resolveDateRange(%q, %q) = (%s, %s), want (%s, %s)",
					tt.start, tt.end, gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestGetAccountTransactions_UpstreamErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name    string
		api     *mockAccountingAPI
		wantErr error
	}{
		{
			name:    "auth failure on account lookup",
			api:     &mockAccountingAPI{accountErr: fmt.Errorf("%w: status 401", ErrUpstreamAuth)},
			wantErr: ErrUpstreamAuth,
		},
		{
			name:    "permission failure on report fetch",
			api:     &mockAccountingAPI{account: testAccount(), reportErr: fmt.Errorf("%w: status 403", ErrUpstreamPermission)},
			wantErr: ErrUpstreamPermission,
		},
		{
			name:    "rate limited",
			api:     &mockAccountingAPI{account: testAccount(), reportErr: fmt.Errorf("%w: status 429", ErrUpstreamRateLimited)},
			wantErr: ErrUpstreamRateLimited,
		},
		{
			name:    "generic upstream failure",
			api:     &mockAccountingAPI{account: testAccount(), reportErr: fmt.Errorf("%w: status 500", ErrUpstreamFailure)},
			wantErr: ErrUpstreamFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewAccountingService(tt.api, nil)
			_, err := service.GetAccountTransactions(context.Background(), AccountTransactionsQuery{AccountID: "33"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetAccountTransactions_CachesResult(t *testing.T) {
	api := &mockAccountingAPI{account: testAccount(), report: testReport()}
	reportCache := cache.New(time.Minute, time.Minute)
	service := NewAccountingService(api, reportCache)

	query := AccountTransactionsQuery{AccountID: "33", StartDate: "2025-01-01", EndDate: "2025-01-31"}

	first, err := service.GetAccountTransactions(context.Background(), query)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := service.GetAccountTransactions(context.Background(), query)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if api.accountCalls != 1 || api.ledgerCalls != 1 {
		t.Errorf("upstream called %d/%d times, want 1/1 (second call should hit the cache)", api.accountCalls, api.ledgerCalls)
	}
	if first != second {
		t.Errorf("cached call returned a different result instance")
	}
}
