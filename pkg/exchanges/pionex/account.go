package pionex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"silktrader/pkg/exchanges/common"
)

// GetBalances returns balances for every currency with activity.
func (c *Client) GetBalances(ctx context.Context) ([]common.Balance, error) {
	data, err := c.doSigned(ctx, http.MethodGet, "/api/v1/account/balances", url.Values{}, nil)
	if err != nil {
		return nil, err
	}
	var payload balancesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode balances: %w", err)
	}

	out := make([]common.Balance, 0, len(payload.Balances))
	for _, b := range payload.Balances {
		free := parseFloat(b.Free)
		frozen := parseFloat(b.Frozen)
		out = append(out, common.Balance{
			Currency: b.Coin,
			Free:     free,
			Frozen:   frozen,
			Total:    free + frozen,
		})
	}
	return out, nil
}

// GetBalance returns the exchange-authoritative balance for one currency.
// Every call hits the exchange; balances are deliberately never cached
// between calls.
func (c *Client) GetBalance(ctx context.Context, currency string) (common.Balance, error) {
	balances, err := c.GetBalances(ctx)
	if err != nil {
		return common.Balance{}, err
	}
	for _, b := range balances {
		if b.Currency == currency {
			return b, nil
		}
	}
	// An account that never held the currency reports nothing; zero is the
	// correct answer, not an error.
	return common.Balance{Currency: currency}, nil
}
