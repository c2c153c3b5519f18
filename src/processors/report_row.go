package processors

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/username/brokercrm/backend/src/models"
)

// Positional column layout of GeneralLedger report rows. QuickBooks omits
// trailing cells, so rows may be shorter than the full layout.
const (
	colDate = iota
	colTxnType
	colDocNum
	colName
	colMemo
	colDebit
	colCredit
	colBalance
)

// beginningBalanceLabel is the sentinel QuickBooks places in the transaction
// type column of the synthetic opening row of a ledger section.
const beginningBalanceLabel = "Beginning Balance"

type rowKind int

const (
	rowSection rowKind = iota
	rowBeginningBalance
	rowSubtotal
	rowData
)

// classifyRow gives a total classification to one raw report node. Every
// node falls into exactly one kind; nodes that match no useful shape are
// classified as subtotal/empty rows and dropped during normalization.
func classifyRow(node *models.RawReportNode) rowKind {
	if node.HasChildRows() {
		return rowSection
	}
	if strings.EqualFold(strings.TrimSpace(cellValue(node, colTxnType)), beginningBalanceLabel) {
		return rowBeginningBalance
	}
	if strings.TrimSpace(cellValue(node, colDate)) == "" {
		return rowSubtotal
	}
	return rowData
}

// cellValue returns the value at a column position, or "" when the row has
// fewer cells than requested.
func cellValue(node *models.RawReportNode, idx int) string {
	if idx < 0 || idx >= len(node.ColData) {
		return ""
	}
	return node.ColData[idx].Value
}

// parseAmount converts a report cell into a decimal amount. The report is
// allowed to omit or garble numeric cells, so anything unparseable counts as
// zero, never as an error. Tolerates currency symbols, thousands separators,
// and parenthesized negatives as seen in QuickBooks exports.
func parseAmount(raw string) decimal.Decimal {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimSpace(cleaned)

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return amount.Neg()
	}
	return amount
}
