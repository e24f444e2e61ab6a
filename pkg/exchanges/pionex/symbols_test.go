package pionex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const symbolsResponse = `{"result":true,"data":{"symbols":[
	{"symbol":"BTC_USDT","baseCurrency":"BTC","quoteCurrency":"USDT",
	 "basePrecision":4,"minAmount":"10","minTradeSize":"0.0001","maxTradeSize":"1000"},
	{"symbol":"ETH_USDT","baseCurrency":"ETH","quoteCurrency":"USDT",
	 "basePrecision":3,"minAmount":"10","minTradeSize":"0.001","maxTradeSize":"5000","enable":true},
	{"symbol":"DOGE_USDT","baseCurrency":"DOGE","quoteCurrency":"USDT",
	 "basePrecision":0,"minAmount":"10","minTradeSize":"1","maxTradeSize":"100000","enable":false},
	{"symbol":"BTC_BUSD","baseCurrency":"BTC","quoteCurrency":"BUSD",
	 "basePrecision":4,"minAmount":"10","minTradeSize":"0.0001","maxTradeSize":"1000"}]}}`

func symbolsServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(symbolsResponse))
	}))
}

// An omitted enable field means the pair trades. Only an explicit false
// disables it.
func TestIsTradeableFieldPresence(t *testing.T) {
	var calls atomic.Int32
	srv := symbolsServer(t, &calls)
	defer srv.Close()
	c := testClient(t, srv.URL)

	cases := []struct {
		symbol string
		want   bool
	}{
		{"BTC_USDT", true}, // enable omitted
		{"ETH_USDT", true}, // enable: true
		{"DOGE_USDT", false},
	}
	for _, tc := range cases {
		got, err := c.IsTradeable(context.Background(), tc.symbol)
		if err != nil {
			t.Fatalf("IsTradeable(%s): %v", tc.symbol, err)
		}
		if got != tc.want {
			t.Errorf("IsTradeable(%s) = %v, want %v", tc.symbol, got, tc.want)
		}
	}
}

func TestSymbolInfoCacheTTL(t *testing.T) {
	var calls atomic.Int32
	srv := symbolsServer(t, &calls)
	defer srv.Close()
	c := testClient(t, srv.URL)

	clock := time.UnixMilli(1700000000000)
	c.now = func() time.Time { return clock }

	info, err := c.GetSymbolInfo(context.Background(), "BTC_USDT")
	if err != nil {
		t.Fatalf("GetSymbolInfo: %v", err)
	}
	if info.MinTradeSize != 0.0001 || info.QtyStep != 0.0001 || info.MinAmount != 10 {
		t.Fatalf("info = %+v", info)
	}
	if calls.Load() != 1 {
		t.Fatalf("fetches = %d, want 1", calls.Load())
	}

	// Within TTL: served from cache.
	clock = clock.Add(23 * time.Hour)
	if _, err := c.GetSymbolInfo(context.Background(), "BTC_USDT"); err != nil {
		t.Fatalf("GetSymbolInfo (cached): %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("fetches = %d, want 1 (cache hit expected)", calls.Load())
	}

	// Past TTL: the entry is refetched.
	clock = clock.Add(2 * time.Hour)
	if _, err := c.GetSymbolInfo(context.Background(), "BTC_USDT"); err != nil {
		t.Fatalf("GetSymbolInfo (expired): %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("fetches = %d, want 2 after TTL expiry", calls.Load())
	}
}

func TestInvalidateSymbolCacheForcesRefetch(t *testing.T) {
	var calls atomic.Int32
	srv := symbolsServer(t, &calls)
	defer srv.Close()
	c := testClient(t, srv.URL)

	if _, err := c.GetSymbolInfo(context.Background(), "ETH_USDT"); err != nil {
		t.Fatalf("GetSymbolInfo: %v", err)
	}
	c.InvalidateSymbolCache()
	if _, err := c.GetSymbolInfo(context.Background(), "ETH_USDT"); err != nil {
		t.Fatalf("GetSymbolInfo after invalidate: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("fetches = %d, want 2", calls.Load())
	}
}

func TestGetSymbolsFiltersQuoteAndDisabled(t *testing.T) {
	var calls atomic.Int32
	srv := symbolsServer(t, &calls)
	defer srv.Close()
	c := testClient(t, srv.URL)

	got, err := c.GetSymbols(context.Background(), "USDT")
	if err != nil {
		t.Fatalf("GetSymbols: %v", err)
	}
	want := []string{"BTC_USDT", "ETH_USDT"}
	if len(got) != len(want) {
		t.Fatalf("symbols = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("symbols = %v, want %v", got, want)
		}
	}
}

func TestGetBalanceUnknownCurrencyIsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":true,"data":{"balances":[
			{"coin":"USDT","free":"950.5","frozen":"49.5"}]}}`))
	}))
	defer srv.Close()
	c := testClient(t, srv.URL)

	bal, err := c.GetBalance(context.Background(), "USDT")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if bal.Free != 950.5 || bal.Frozen != 49.5 || bal.Total != 1000 {
		t.Fatalf("balance = %+v", bal)
	}

	empty, err := c.GetBalance(context.Background(), "BTC")
	if err != nil {
		t.Fatalf("GetBalance unknown: %v", err)
	}
	if empty.Currency != "BTC" || empty.Total != 0 {
		t.Fatalf("unknown currency balance = %+v, want zero", empty)
	}
}
