package pionex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"silktrader/pkg/exchanges/common"
)

// PlaceOrder submits a fully-validated order. It performs no business
// checks: a request that reaches this method has already passed the
// pre-trade validator.
func (c *Client) PlaceOrder(ctx context.Context, req common.OrderRequest) (common.OrderResult, error) {
	body := map[string]string{
		"symbol": req.Symbol,
		"side":   strings.ToUpper(string(req.Side)),
		"type":   strings.ToUpper(string(req.Type)),
		"size":   formatFloat(req.Qty),
	}
	if req.Type == common.OrderTypeLimit {
		body["price"] = formatFloat(req.Price)
	}
	if req.ClientID != "" {
		body["clientOrderId"] = req.ClientID
	}

	data, err := c.doSigned(ctx, http.MethodPost, "/api/v1/trade/order", url.Values{}, body)
	if err != nil {
		return common.OrderResult{}, err
	}
	var payload placeOrderPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return common.OrderResult{}, fmt.Errorf("decode order ack: %w", err)
	}
	return common.OrderResult{
		ExchangeOrderID: strconv.FormatInt(payload.OrderID, 10),
		Status:          common.StatusNew,
		ClientID:        req.ClientID,
	}, nil
}

// GetOrder fetches the current state of one order.
func (c *Client) GetOrder(ctx context.Context, symbol, orderID string) (common.OrderState, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", orderID)
	data, err := c.doSigned(ctx, http.MethodGet, "/api/v1/trade/order", params, nil)
	if err != nil {
		return common.OrderState{}, err
	}
	var payload orderPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return common.OrderState{}, fmt.Errorf("decode order: %w", err)
	}
	return mapOrder(payload), nil
}

// GetOpenOrders returns open orders, optionally filtered by symbol.
func (c *Client) GetOpenOrders(ctx context.Context, symbol string) ([]common.OrderState, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", symbol)
	}
	data, err := c.doSigned(ctx, http.MethodGet, "/api/v1/trade/openOrders", params, nil)
	if err != nil {
		return nil, err
	}
	return decodeOrders(data)
}

// GetOrderHistory returns historical orders for a symbol.
func (c *Client) GetOrderHistory(ctx context.Context, symbol string, limit int) ([]common.OrderState, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	data, err := c.doSigned(ctx, http.MethodGet, "/api/v1/trade/allOrders", params, nil)
	if err != nil {
		return nil, err
	}
	return decodeOrders(data)
}

// GetFills returns trade fills for a symbol.
func (c *Client) GetFills(ctx context.Context, symbol string, limit int) ([]common.Fill, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	data, err := c.doSigned(ctx, http.MethodGet, "/api/v1/trade/fills", params, nil)
	if err != nil {
		return nil, err
	}
	var payload fillsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode fills: %w", err)
	}
	out := make([]common.Fill, 0, len(payload.Fills))
	for _, f := range payload.Fills {
		out = append(out, common.Fill{
			TradeID: strconv.FormatInt(f.ID, 10),
			OrderID: strconv.FormatInt(f.OrderID, 10),
			Symbol:  f.Symbol,
			Side:    common.Side(strings.ToUpper(f.Side)),
			Price:   parseFloat(f.Price),
			Qty:     parseFloat(f.Size),
			Fee:     parseFloat(f.Fee),
			FeeCoin: f.FeeCoin,
			Time:    f.Timestamp,
		})
	}
	return out, nil
}

// CancelOrder cancels one order.
func (c *Client) CancelOrder(ctx context.Context, symbol, orderID string) error {
	body := map[string]string{
		"symbol":  symbol,
		"orderId": orderID,
	}
	_, err := c.doSigned(ctx, http.MethodDelete, "/api/v1/trade/order", url.Values{}, body)
	return err
}

// CancelAllOrders cancels every open order for a symbol.
func (c *Client) CancelAllOrders(ctx context.Context, symbol string) error {
	body := map[string]string{"symbol": symbol}
	_, err := c.doSigned(ctx, http.MethodDelete, "/api/v1/trade/allOrders", url.Values{}, body)
	return err
}

// WaitForFill polls order status every interval until the order reaches a
// terminal state or timeout elapses. On timeout the last observed state is
// returned with a nil error — a partial fill is the caller's decision, not
// a transport failure.
func (c *Client) WaitForFill(ctx context.Context, symbol, orderID string, timeout, interval time.Duration) (common.OrderState, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	deadline := c.now().Add(timeout)

	var last common.OrderState
	seen := false
	for {
		state, err := c.GetOrder(ctx, symbol, orderID)
		if err == nil {
			last = state
			seen = true
			if state.Status.Terminal() {
				return state, nil
			}
		} else if !seen {
			// Keep the first error around in case we never observe the order.
			last = common.OrderState{OrderID: orderID, Symbol: symbol, Status: common.StatusUnknown}
		}

		if !c.now().Add(interval).Before(deadline) {
			return last, nil
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(interval):
		}
	}
}

func decodeOrders(data []byte) ([]common.OrderState, error) {
	var payload ordersPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	out := make([]common.OrderState, 0, len(payload.Orders))
	for _, o := range payload.Orders {
		out = append(out, mapOrder(o))
	}
	return out, nil
}

func mapOrder(o orderPayload) common.OrderState {
	filledQty := parseFloat(o.FilledSize)
	avg := 0.0
	if filledQty > 0 {
		avg = parseFloat(o.FilledAmount) / filledQty
	}
	return common.OrderState{
		OrderID:   strconv.FormatInt(o.OrderID, 10),
		Symbol:    o.Symbol,
		Side:      common.Side(strings.ToUpper(o.Side)),
		Type:      common.OrderType(strings.ToUpper(o.Type)),
		Price:     parseFloat(o.Price),
		Qty:       parseFloat(o.Size),
		FilledQty: filledQty,
		AvgPrice:  avg,
		Status:    mapStatus(o.Status),
		UpdatedAt: o.UpdateTime,
	}
}

func mapStatus(s string) common.OrderStatus {
	switch strings.ToUpper(s) {
	case "NEW", "OPEN":
		return common.StatusNew
	case "PARTIALLY_FILLED":
		return common.StatusPartial
	case "FILLED", "CLOSED":
		return common.StatusFilled
	case "CANCELED", "CANCELLED":
		return common.StatusCanceled
	case "REJECTED":
		return common.StatusRejected
	case "EXPIRED":
		return common.StatusExpired
	default:
		return common.StatusUnknown
	}
}
