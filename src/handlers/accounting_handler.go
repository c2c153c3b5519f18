package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/username/brokercrm/backend/src/logger"
	"github.com/username/brokercrm/backend/src/services"
)

type AccountingHandler struct {
	accountingService services.AccountingService
}

func NewAccountingHandler(accountingService services.AccountingService) *AccountingHandler {
	return &AccountingHandler{accountingService: accountingService}
}

// HandleGetAccountTransactions serves the normalized general ledger for one
// account over an optional date range.
func (h *AccountingHandler) HandleGetAccountTransactions(w http.ResponseWriter, r *http.Request) {
	_, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	startDate := q.Get("startDate")
	endDate := q.Get("endDate")
	for _, date := range []string{startDate, endDate} {
		if date == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			sendJSONError(w, "Dates must be in YYYY-MM-DD format", http.StatusBadRequest)
			return
		}
	}

	query := services.AccountTransactionsQuery{
		AccountID:   chi.URLParam(r, "accountID"),
		AccountName: q.Get("accountName"),
		StartDate:   startDate,
		EndDate:     endDate,
	}

	result, err := h.accountingService.GetAccountTransactions(r.Context(), query)
	if err != nil {
		writeAccountingError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.FromContext(r.Context()).Error("Failed to encode account transactions response", "error", err)
	}
}

// writeAccountingError maps the service error taxonomy onto HTTP statuses so
// the front end can render a specific message for each failure mode.
func writeAccountingError(w http.ResponseWriter, r *http.Request, err error) {
	ctxLogger := logger.FromContext(r.Context())
	switch {
	case errors.Is(err, services.ErrMissingAccountID):
		sendJSONError(w, "account id is required", http.StatusBadRequest)
	case errors.Is(err, services.ErrUpstreamAuth):
		ctxLogger.Warn("Accounting credential rejected", "error", err)
		sendJSONError(w, "Accounting connection is invalid or expired. Please reconnect QuickBooks.", http.StatusUnauthorized)
	case errors.Is(err, services.ErrUpstreamPermission):
		ctxLogger.Warn("Accounting permission denied", "error", err)
		sendJSONError(w, "The accounting connection lacks permission for this account.", http.StatusForbidden)
	case errors.Is(err, services.ErrUpstreamRateLimited):
		ctxLogger.Warn("Accounting API rate limited", "error", err)
		sendJSONError(w, "Accounting provider rate limit reached. Try again shortly.", http.StatusTooManyRequests)
	default:
		ctxLogger.Error("Accounting request failed", "error", err)
		sendJSONError(w, "Failed to retrieve account transactions.", http.StatusBadGateway)
	}
}
