package orderbookv1

import "github.com/shopspring/decimal"

// ReportType is the kind of an execution report.
type ReportType string

const (
	// ReportNew acknowledges a limit order that came to rest.
	ReportNew ReportType = "NEW"
	// ReportFill is sent to both traders of a fill.
	ReportFill ReportType = "FILL"
	// ReportCanceled acknowledges a single cancel.
	ReportCanceled ReportType = "CANCELED"
	// ReportCanceledAll summarises a cancel-all.
	ReportCanceledAll ReportType = "CANCELED_ALL"
)

// ExecutionReport is a notification delivered to one trader.
type ExecutionReport struct {
	Report         ReportType
	OrderID        OrderID
	MatchID        string
	Side           Side
	Price          decimal.Decimal
	Quantity       int64
	LeavesQuantity int64
	Counterparty   string
	BidCount       int
	AskCount       int
}
