package models

// ReportCell is one positional column value within a report row. QuickBooks
// leaves cells empty (or omits them) when a row has no value for a column.
type ReportCell struct {
	Value string `json:"value"`
	ID    string `json:"id,omitempty"`
}

// ReportRows wraps the nested row list of a report section.
type ReportRows struct {
	Row []RawReportNode `json:"Row"`
}

// RawReportNode is a single element of the GeneralLedger report tree as
// returned by the QuickBooks reports API. A section carries nested rows and
// produces no ledger line itself; a leaf row carries positional column data.
// The same logical report is sometimes returned flat and sometimes wrapped
// in one or more section levels, so consumers must not assume a fixed depth.
type RawReportNode struct {
	ColData []ReportCell `json:"ColData,omitempty"`
	Rows    *ReportRows  `json:"Rows,omitempty"`
	Type    string       `json:"type,omitempty"`
	Group   string       `json:"group,omitempty"`
}

// HasChildRows reports whether the node is a section with nested rows.
func (n *RawReportNode) HasChildRows() bool {
	return n.Rows != nil && len(n.Rows.Row) > 0
}

// ReportHeader carries the report-level metadata QuickBooks attaches to
// every generated report.
type ReportHeader struct {
	Time        string `json:"Time,omitempty"`
	ReportName  string `json:"ReportName,omitempty"`
	StartPeriod string `json:"StartPeriod,omitempty"`
	EndPeriod   string `json:"EndPeriod,omitempty"`
	Currency    string `json:"Currency,omitempty"`
}

type ReportColumn struct {
	ColTitle string `json:"ColTitle"`
	ColType  string `json:"ColType"`
}

type ReportColumns struct {
	Column []ReportColumn `json:"Column"`
}

// GeneralLedgerReport is the top-level payload of the
// reports/GeneralLedger endpoint.
type GeneralLedgerReport struct {
	Header  ReportHeader  `json:"Header"`
	Columns ReportColumns `json:"Columns"`
	Rows    ReportRows    `json:"Rows"`
}
