package schemas

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// BuyRequest is the body of POST /api/holdings/buy.
type BuyRequest struct {
	AssetID  int         `json:"asset_id"`
	Quantity json.Number `json:"quantity"`
}

// SellRequest is the body of POST /api/holdings/sell.
type SellRequest struct {
	HoldingID int         `json:"holding_id"`
	Quantity  json.Number `json:"quantity"`
}

// OrderResponse is what the backend answers to a buy or sell.
type OrderResponse struct {
	Message string `json:"message"`
}

// ParseOrderResponse reads the body of a 2xx order response. The backend may answer
// an object, a bare JSON string or plain text; only the object and string forms carry
// a message and anything else yields an empty one.
func ParseOrderResponse(body []byte) OrderResponse {
	body = bytes.TrimSpace(body)
	var resp OrderResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		return resp
	}
	var message string
	if err := json.Unmarshal(body, &message); err == nil {
		return OrderResponse{Message: message}
	}
	return OrderResponse{}
}

// Quantity renders a decimal as a bare JSON number.
func Quantity(q decimal.Decimal) json.Number {
	return json.Number(q.String())
}

// Requests accepted by the orders API.

type OpenOrderRequest struct {
	Side      string `json:"side"`
	AssetID   int    `json:"asset_id,omitempty"`
	HoldingID int    `json:"holding_id,omitempty"`
}

type QuantityRequest struct {
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Step     string           `json:"step,omitempty"`
}

type PINRequest struct {
	PIN string `json:"pin"`
}
