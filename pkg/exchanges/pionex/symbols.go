package pionex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"silktrader/pkg/exchanges/common"
)

type symbolCacheEntry struct {
	info      common.SymbolInfo
	fetchedAt time.Time
}

// GetSymbolInfo returns trading constraints for symbol. Results are cached
// per pair with a 24h TTL; an expired entry is refreshed wholesale with a
// single fetch, never patched field by field.
func (c *Client) GetSymbolInfo(ctx context.Context, symbol string) (common.SymbolInfo, error) {
	c.mu.Lock()
	entry, ok := c.symbols[symbol]
	c.mu.Unlock()
	if ok && c.now().Sub(entry.fetchedAt) < c.symbolTTL {
		return entry.info, nil
	}

	params := url.Values{}
	params.Set("symbols", symbol)
	data, err := c.doSigned(ctx, http.MethodGet, "/api/v1/common/symbols", params, nil)
	if err != nil {
		return common.SymbolInfo{}, err
	}
	var payload symbolsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return common.SymbolInfo{}, fmt.Errorf("decode symbol info: %w", err)
	}

	for _, s := range payload.Symbols {
		if s.Symbol != symbol {
			continue
		}
		info := common.SymbolInfo{
			Symbol:        s.Symbol,
			BaseCurrency:  s.BaseCurrency,
			QuoteCurrency: s.QuoteCurrency,
			MinAmount:     parseFloat(s.MinAmount),
			MinTradeSize:  parseFloat(s.MinTradeSize),
			MaxTradeSize:  parseFloat(s.MaxTradeSize),
			QtyStep:       precisionStep(s.BasePrecision),
			// Absent enable means tradeable; only an explicit false
			// disables the pair.
			Enabled: s.Enable == nil || *s.Enable,
		}
		c.mu.Lock()
		c.symbols[symbol] = symbolCacheEntry{info: info, fetchedAt: c.now()}
		c.mu.Unlock()
		return info, nil
	}
	return common.SymbolInfo{}, fmt.Errorf("pionex: unknown symbol %s", symbol)
}

// IsTradeable answers from the symbol cache, refreshing first when the entry
// is missing or past TTL — a stale answer is never returned silently.
func (c *Client) IsTradeable(ctx context.Context, symbol string) (bool, error) {
	info, err := c.GetSymbolInfo(ctx, symbol)
	if err != nil {
		return false, err
	}
	return info.Enabled, nil
}

// InvalidateSymbolCache drops every cached entry.
func (c *Client) InvalidateSymbolCache() {
	c.mu.Lock()
	c.symbols = make(map[string]symbolCacheEntry)
	c.mu.Unlock()
}

func precisionStep(precision int) float64 {
	step := 1.0
	for i := 0; i < precision; i++ {
		step /= 10
	}
	return step
}
