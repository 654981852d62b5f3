package orderbookv1

import (
	"encoding/json"

	"github.com/krewshul/pyxchange/pkg/errors"
	"github.com/shopspring/decimal"
)

// MessageType is the type key of an inbound request.
type MessageType string

const (
	MessageCreateOrder     MessageType = "createOrder"
	MessageMarketOrder     MessageType = "marketOrder"
	MessageCancelOrder     MessageType = "cancelOrder"
	MessageCancelAllOrders MessageType = "cancelAllOrders"
)

// MaxQuantity is the largest order quantity accepted. Larger quantities are
// rejected with TextWrongQuantity.
const MaxQuantity int64 = 1_000_000_000_000_000

// Trader-facing error texts, one per failure kind.
const (
	TextWrongSide      = "wrong side"
	TextWrongOrderID   = "order already exists"
	TextWrongPrice     = "wrong price"
	TextWrongQuantity  = "wrong quantity"
	TextOrderNotFound  = "order does not exists"
	TextMalformed      = "malformed message"
	TextUnknownMessage = "unknown message"
)

// Request is a decoded inbound envelope. Fields stay raw so that a missing value
// can be told apart from a malformed one.
type Request struct {
	Message  MessageType     `json:"message"`
	Side     json.RawMessage `json:"side,omitempty"`
	OrderID  json.RawMessage `json:"orderId,omitempty"`
	Price    json.RawMessage `json:"price,omitempty"`
	Quantity json.RawMessage `json:"quantity,omitempty"`
}

// ParseOrderID decodes the order id of the request.
func (r *Request) ParseOrderID() (OrderID, error) {
	var id uint64
	if !present(r.OrderID) || json.Unmarshal(r.OrderID, &id) != nil {
		return 0, errors.NewErrorDetails(TextWrongOrderID, string(errors.WrongOrderIDError), "orderId")
	}
	return OrderID(id), nil
}

// NewOrder validates req and builds an Order owned by trader.
//
// Checks run in order: side, order id (limit only), price (limit only), quantity.
// The returned error is an *errors.ErrorDetails carrying the trader-facing text.
// idTaken reports whether an id is already resting on either side.
func NewOrder(trader Trader, req *Request, market bool, sequence uint64, idTaken func(OrderID) bool) (*Order, error) {
	var token string
	if !present(req.Side) || json.Unmarshal(req.Side, &token) != nil {
		return nil, errors.NewErrorDetails(TextWrongSide, string(errors.WrongSideError), "side")
	}
	side, ok := ParseSide(token)
	if !ok {
		return nil, errors.NewErrorDetails(TextWrongSide, string(errors.WrongSideError), "side")
	}

	order := &Order{
		Trader:   trader,
		Side:     side,
		Market:   market,
		Sequence: sequence,
	}

	if market {
		// optional, echoed back in reports
		if id, err := req.ParseOrderID(); err == nil {
			order.ID = id
		}
	} else {
		id, err := req.ParseOrderID()
		if err != nil {
			return nil, err
		}
		if idTaken != nil && idTaken(id) {
			return nil, errors.NewErrorDetails(TextWrongOrderID, string(errors.WrongOrderIDError), "orderId")
		}
		order.ID = id

		price, err := parsePrice(req.Price)
		if err != nil {
			return nil, err
		}
		order.Price = price
	}

	var quantity int64
	if !present(req.Quantity) || json.Unmarshal(req.Quantity, &quantity) != nil || quantity <= 0 || quantity > MaxQuantity {
		return nil, errors.NewErrorDetails(TextWrongQuantity, string(errors.WrongQuantityError), "quantity")
	}
	order.Quantity = quantity
	order.OriginalQuantity = quantity

	return order, nil
}

func parsePrice(raw json.RawMessage) (decimal.Decimal, error) {
	var price decimal.Decimal
	if !present(raw) || price.UnmarshalJSON(raw) != nil || !price.IsPositive() {
		return decimal.Zero, errors.NewErrorDetails(TextWrongPrice, string(errors.WrongPriceError), "price")
	}
	return price, nil
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
