package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/brokercrm/backend/src/models"
)

// SummarizeLedger reduces a normalized line sequence to its aggregate
// totals. Order-independent; zero-valued for an empty sequence.
func SummarizeLedger(lines []models.TransactionLine) models.LedgerSummary {
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero

	for _, line := range lines {
		totalDebits = totalDebits.Add(line.Debit)
		totalCredits = totalCredits.Add(line.Credit)
	}

	return models.LedgerSummary{
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		NetChange:    totalDebits.Sub(totalCredits),
	}
}
