package processors

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/brokercrm/backend/src/models"
)

// LedgerNormalizer flattens the irregular row tree of a QuickBooks
// GeneralLedger report into an ordered, running-balance-annotated sequence
// of transaction lines.
type LedgerNormalizer struct{}

func NewLedgerNormalizer() *LedgerNormalizer { return &LedgerNormalizer{} }

// Normalize walks the report tree depth-first, in the order the rows were
// given, and emits one transaction line per data row. A beginning-balance
// row reseeds the running balance without emitting a line; sections recurse;
// subtotal and malformed rows are skipped without touching the balance.
// The result is a pure function of the input: an empty or nil report yields
// an empty (non-nil) slice, never an error.
func (n *LedgerNormalizer) Normalize(report *models.GeneralLedgerReport) []models.TransactionLine {
	lines := []models.TransactionLine{}
	if report == nil {
		return lines
	}

	running := decimal.Zero
	n.walk(report.Rows.Row, &running, &lines)
	return lines
}

func (n *LedgerNormalizer) walk(rows []models.RawReportNode, running *decimal.Decimal, out *[]models.TransactionLine) {
	for i := range rows {
		node := &rows[i]
		switch classifyRow(node) {
		case rowSection:
			// The section itself contributes no line; its children are
			// visited before any sibling rows.
			n.walk(node.Rows.Row, running, out)
		case rowBeginningBalance:
			*running = parseAmount(cellValue(node, colBalance))
		case rowSubtotal:
			// Subtotals and spacer rows never reach the output.
		case rowData:
			*out = append(*out, n.buildLine(node, running, len(*out)))
		}
	}
}

// buildLine converts one data row into a transaction line, advancing the
// running balance by debit minus credit.
func (n *LedgerNormalizer) buildLine(node *models.RawReportNode, running *decimal.Decimal, ordinal int) models.TransactionLine {
	debit := parseAmount(cellValue(node, colDebit))
	credit := parseAmount(cellValue(node, colCredit))
	*running = running.Add(debit).Sub(credit)

	date := strings.TrimSpace(cellValue(node, colDate))
	docNumber := strings.TrimSpace(cellValue(node, colDocNum))

	return models.TransactionLine{
		ID:             lineID(date, docNumber, ordinal),
		Date:           date,
		Type:           strings.TrimSpace(cellValue(node, colTxnType)),
		DocNumber:      docNumber,
		Name:           strings.TrimSpace(cellValue(node, colName)),
		Memo:           strings.TrimSpace(cellValue(node, colMemo)),
		Debit:          debit,
		Credit:         credit,
		RunningBalance: *running,
	}
}

// lineID derives a deterministic identifier for a line. Rows without a
// document number get a stable ordinal suffix so that repeated rows on the
// same date do not collide and re-normalizing the same report reproduces the
// same identifiers.
func lineID(date, docNumber string, ordinal int) string {
	if docNumber != "" {
		return date + "-" + docNumber
	}
	return fmt.Sprintf("%s-line-%d", date, ordinal)
}
