// Package codec translates between the JSON wire format and the order book types.
// It holds no state.
package codec

import (
	"encoding/json"

	orderbookv1 "github.com/krewshul/pyxchange/internal/domain/orderbook/v1"
	"github.com/krewshul/pyxchange/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	messageError           = "error"
	messageExecutionReport = "executionReport"
	messageOrderBook       = "orderBook"
)

type envelope struct {
	orderbookv1.Request
	Type orderbookv1.MessageType `json:"type,omitempty"`
}

// DecodeRequest parses an inbound envelope. The type is read from "message",
// falling back to "type".
func DecodeRequest(data []byte) (*orderbookv1.Request, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.NewErrorDetails(orderbookv1.TextMalformed, string(errors.MalformedMessageError), "message")
	}

	req := env.Request
	if req.Message == "" {
		req.Message = env.Type
	}

	switch req.Message {
	case orderbookv1.MessageCreateOrder,
		orderbookv1.MessageMarketOrder,
		orderbookv1.MessageCancelOrder,
		orderbookv1.MessageCancelAllOrders:
		return &req, nil
	default:
		return nil, errors.NewErrorDetailsWithObject(orderbookv1.TextUnknownMessage, string(errors.UnknownMessageError), "message", req.Message)
	}
}

type errorMessage struct {
	Message string `json:"message"`
	Text    string `json:"text"`
}

// EncodeError encodes a trader error notification.
func EncodeError(text string) []byte {
	return mustMarshal(errorMessage{Message: messageError, Text: text})
}

type executionReport struct {
	Message        string       `json:"message"`
	Report         string       `json:"report"`
	OrderID        *uint64      `json:"orderId,omitempty"`
	MatchID        string       `json:"matchId,omitempty"`
	Side           string       `json:"side,omitempty"`
	Price          *json.Number `json:"price,omitempty"`
	Quantity       *int64       `json:"quantity,omitempty"`
	LeavesQuantity *int64       `json:"leavesQuantity,omitempty"`
	Counterparty   string       `json:"counterparty,omitempty"`
	BidCount       *int         `json:"bidCount,omitempty"`
	AskCount       *int         `json:"askCount,omitempty"`
}

// EncodeExecution encodes an execution report. Only the fields that belong to
// the report type are written.
func EncodeExecution(report orderbookv1.ExecutionReport) []byte {
	msg := executionReport{
		Message: messageExecutionReport,
		Report:  string(report.Report),
	}

	switch report.Report {
	case orderbookv1.ReportCanceledAll:
		msg.BidCount = &report.BidCount
		msg.AskCount = &report.AskCount
	case orderbookv1.ReportFill:
		id := uint64(report.OrderID)
		msg.OrderID = &id
		msg.MatchID = report.MatchID
		msg.Side = report.Side.String()
		msg.Price = number(report.Price)
		msg.Quantity = &report.Quantity
		msg.LeavesQuantity = &report.LeavesQuantity
		msg.Counterparty = report.Counterparty
	default:
		id := uint64(report.OrderID)
		msg.OrderID = &id
		msg.Quantity = &report.Quantity
	}

	return mustMarshal(msg)
}

type priceLevel struct {
	Message  string      `json:"message"`
	Side     string      `json:"side"`
	Price    json.Number `json:"price"`
	Quantity int64       `json:"quantity"`
}

// EncodePriceLevel encodes a price level broadcast.
func EncodePriceLevel(level orderbookv1.PriceLevel) []byte {
	return mustMarshal(priceLevel{
		Message:  messageOrderBook,
		Side:     level.Side.String(),
		Price:    *number(level.Price),
		Quantity: level.Quantity,
	})
}

type orderRequest struct {
	Message  orderbookv1.MessageType `json:"message"`
	OrderID  *uint64                 `json:"orderId,omitempty"`
	Side     string                  `json:"side,omitempty"`
	Price    *json.Number            `json:"price,omitempty"`
	Quantity int64                   `json:"quantity,omitempty"`
}

// EncodeCreateOrder encodes a limit order request.
func EncodeCreateOrder(id orderbookv1.OrderID, side orderbookv1.Side, price decimal.Decimal, quantity int64) []byte {
	raw := uint64(id)
	return mustMarshal(orderRequest{
		Message:  orderbookv1.MessageCreateOrder,
		OrderID:  &raw,
		Side:     side.String(),
		Price:    number(price),
		Quantity: quantity,
	})
}

// EncodeMarketOrder encodes a market order request.
func EncodeMarketOrder(side orderbookv1.Side, quantity int64) []byte {
	return mustMarshal(orderRequest{
		Message:  orderbookv1.MessageMarketOrder,
		Side:     side.String(),
		Quantity: quantity,
	})
}

// EncodeCancelOrder encodes a single cancel request.
func EncodeCancelOrder(id orderbookv1.OrderID) []byte {
	raw := uint64(id)
	return mustMarshal(orderRequest{
		Message: orderbookv1.MessageCancelOrder,
		OrderID: &raw,
	})
}

// EncodeCancelAllOrders encodes a cancel-all request.
func EncodeCancelAllOrders() []byte {
	return mustMarshal(orderRequest{Message: orderbookv1.MessageCancelAllOrders})
}

func number(d decimal.Decimal) *json.Number {
	n := json.Number(d.String())
	return &n
}

// mustMarshal panics on failure; every encoded type is a plain struct.
func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
