package processors

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/username/brokercrm/backend/src/models"
)

func TestSummarizeLedger(t *testing.T) {
	tests := []struct {
		name        string
		lines       []models.TransactionLine
		wantDebits  string
		wantCredits string
		wantNet     string
	}{
		{
			name:        "empty sequence is zero valued",
			lines:       nil,
			wantDebits:  "0",
			wantCredits: "0",
			wantNet:     "0",
		},
		{
			name: "mixed debits and credits",
			lines: []models.TransactionLine{
				{Debit: decimal.RequireFromString("100.25")},
				{Credit: decimal.RequireFromString("30.25")},
				{Debit: decimal.RequireFromString("19.75"), Credit: decimal.RequireFromString("5.00")},
			},
			wantDebits:  "120",
			wantCredits: "35.25",
			wantNet:     "84.75",
		},
		{
			name: "credits exceed debits",
			lines: []models.TransactionLine{
				{Credit: decimal.RequireFromString("500")},
			},
			wantDebits:  "0",
			wantCredits: "500",
			wantNet:     "-500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeLedger(tt.lines)
			if !got.TotalDebits.Equal(decimal.RequireFromString(tt.wantDebits)) {
				t.Errorf("TotalDebits = %s, want %s", got.TotalDebits, tt.wantDebits)
			}
			if !got.TotalCredits.Equal(decimal.RequireFromString(tt.wantCredits)) {
				t.Errorf("TotalCredits = %s, want %s", got.TotalCredits, tt.wantCredits)
			}
			if !got.NetChange.Equal(decimal.RequireFromString(tt.wantNet)) {
				t.Errorf("NetChange = %s, want %s", got.NetChange, tt.wantNet)
			}
		})
	}
}

func TestSummarizeLedger_OrderIndependent(t *testing.T) {
	lines := []models.TransactionLine{
		{Debit: decimal.RequireFromString("10")},
		{Credit: decimal.RequireFromString("4")},
		{Debit: decimal.RequireFromString("6")},
	}
	reversed := []models.TransactionLine{lines[2], lines[1], lines[0]}

	a := SummarizeLedger(lines)
	b := SummarizeLedger(reversed)

	if !a.TotalDebits.Equal(b.TotalDebits) || !a.TotalCredits.Equal(b.TotalCredits) || !a.NetChange.Equal(b.NetChange) {
		t.Errorf("summary depends on line order: %+v vs %+v", a, b)
	}
}
