package pionex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"silktrader/pkg/exchanges/common"
)

// GetSymbols returns the names of tradeable pairs quoted in quote
// (e.g. "USDT"). Pass an empty quote for all pairs.
func (c *Client) GetSymbols(ctx context.Context, quote string) ([]string, error) {
	data, err := c.doSigned(ctx, http.MethodGet, "/api/v1/common/symbols", url.Values{}, nil)
	if err != nil {
		return nil, err
	}
	var payload symbolsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode symbols: %w", err)
	}

	var out []string
	for _, s := range payload.Symbols {
		if quote != "" && !strings.HasSuffix(s.Symbol, "_"+quote) {
			continue
		}
		if s.Enable != nil && !*s.Enable {
			continue
		}
		out = append(out, s.Symbol)
	}
	return out, nil
}

// GetKlines returns up to limit OHLCV candles for symbol.
// Intervals: 1M, 5M, 15M, 30M, 60M, 4H, 8H, 12H, 1D.
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]common.Kline, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", strings.ToUpper(interval))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	data, err := c.doSigned(ctx, http.MethodGet, "/api/v1/market/klines", params, nil)
	if err != nil {
		return nil, err
	}
	var payload klinesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}

	out := make([]common.Kline, 0, len(payload.Klines))
	for _, k := range payload.Klines {
		out = append(out, common.Kline{
			OpenTime: k.Time,
			Open:     parseFloat(k.Open),
			High:     parseFloat(k.High),
			Low:      parseFloat(k.Low),
			Close:    parseFloat(k.Close),
			Volume:   parseFloat(k.Volume),
		})
	}
	return out, nil
}

// GetTicker returns the 24h ticker for symbol.
func (c *Client) GetTicker(ctx context.Context, symbol string) (common.Ticker, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	data, err := c.doSigned(ctx, http.MethodGet, "/api/v1/market/tickers", params, nil)
	if err != nil {
		return common.Ticker{}, err
	}
	var payload tickersPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return common.Ticker{}, fmt.Errorf("decode tickers: %w", err)
	}
	for _, t := range payload.Tickers {
		if t.Symbol == symbol {
			return common.Ticker{
				Symbol:      t.Symbol,
				Last:        parseFloat(t.Close),
				High:        parseFloat(t.High),
				Low:         parseFloat(t.Low),
				Volume:      parseFloat(t.Volume),
				PriceChange: parseFloat(t.PriceChange),
			}, nil
		}
	}
	return common.Ticker{}, fmt.Errorf("pionex: no ticker for %s", symbol)
}
