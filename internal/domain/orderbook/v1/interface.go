package orderbookv1

// Trader receives notifications about its own orders.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderbookv1_mock
type Trader interface {
	// ID returns the identity of the trader. It keys the trader view of the book.
	ID() string
	// NotifyError delivers a fixed error text for a rejected request.
	NotifyError(text string)
	// NotifyExecution delivers an execution report.
	NotifyExecution(report ExecutionReport)
}

// Client receives price level updates.
type Client interface {
	ID() string
	NotifyPriceLevel(level PriceLevel)
}

// PriceLevelPublisher fans out the price levels touched by one operation.
type PriceLevelPublisher interface {
	PublishPriceLevels(levels []PriceLevel)
}
