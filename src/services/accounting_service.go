package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/brokercrm/backend/src/logger"
	"github.com/username/brokercrm/backend/src/models"
	"github.com/username/brokercrm/backend/src/processors"
	"github.com/username/brokercrm/backend/src/security/validation"
)

const (
	DefaultCacheExpiration = 5 * time.Minute
	CacheCleanupInterval   = 10 * time.Minute
)

type accountingServiceImpl struct {
	api         AccountingAPI
	normalizer  *processors.LedgerNormalizer
	reportCache *cache.Cache
}

// NewAccountingService builds the assembler for the account transactions
// operation. The report cache may be nil; results are then computed on every
// call.
func NewAccountingService(api AccountingAPI, reportCache *cache.Cache) AccountingService {
	return &accountingServiceImpl{
		api:         api,
		normalizer:  processors.NewLedgerNormalizer(),
		reportCache: reportCache,
	}
}

// GetAccountTransactions orchestrates one complete request: validate input,
// resolve the date range, fetch account metadata and the raw ledger report,
// normalize, summarize, and assemble the envelope. Both upstream calls are
// read-only; failures are surfaced classified and never retried here.
func (s *accountingServiceImpl) GetAccountTransactions(ctx context.Context, query AccountTransactionsQuery) (*models.AccountTransactionsResult, error) {
	accountID := strings.TrimSpace(query.AccountID)
	if accountID == "" {
		return nil, ErrMissingAccountID
	}

	startDate, endDate := resolveDateRange(query.StartDate, query.EndDate, time.Now().UTC())

	cacheKey := fmt.Sprintf("account-transactions:%s:%s:%s", accountID, startDate, endDate)
	if s.reportCache != nil && strings.TrimSpace(query.AccountName) == "" {
		if cached, found := s.reportCache.Get(cacheKey); found {
			logger.L.Debug("Serving account transactions from cache", "accountID", accountID)
			return cached.(*models.AccountTransactionsResult), nil
		}
	}

	account, err := s.api.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	report, err := s.api.GetGeneralLedger(ctx, accountID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	lines := s.normalizer.Normalize(report)
	summary := processors.SummarizeLedger(lines)

	accountName := account.Name
	if override := validation.SanitizeText(strings.TrimSpace(query.AccountName)); override != "" {
		accountName = override
	}

	result := &models.AccountTransactionsResult{
		AccountID:      accountID,
		AccountName:    accountName,
		AccountType:    account.AccountType,
		CurrentBalance: account.CurrentBalance,
		StartDate:      startDate,
		EndDate:        endDate,
		Transactions:   lines,
		Summary:        summary,
	}

	if s.reportCache != nil && strings.TrimSpace(query.AccountName) == "" {
		s.reportCache.Set(cacheKey, result, cache.DefaultExpiration)
	}

	logger.L.Info("Assembled account transactions",
		"accountID", accountID, "startDate", startDate, "endDate", endDate, "lines", len(lines))
	return result, nil
}

// resolveDateRange fills in the default inclusive range: January 1 of the
// current year through today, formatted as calendar dates in UTC.
func resolveDateRange(startDate, endDate string, now time.Time) (string, string) {
	startDate = strings.TrimSpace(startDate)
	endDate = strings.TrimSpace(endDate)
	if startDate == "" {
		startDate = fmt.Sprintf("%d-01-01", now.Year())
	}
	if endDate == "" {
		endDate = now.Format("2006-01-02")
	}
	return startDate, endDate
}
