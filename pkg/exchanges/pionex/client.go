package pionex

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.pionex.com"

// Request pacing and retry policy. The exchange allows roughly 20 req/s;
// a 50ms floor between sends keeps every caller under that ceiling.
const (
	defaultMinInterval = 50 * time.Millisecond
	defaultMaxAttempts = 3
	backoffBase        = 2 * time.Second
)

// Credentials hold the API key pair. They are owned by the Client for the
// process lifetime and never appear in logs or errors.
type Credentials struct {
	Key    string
	Secret string
}

// Config holds Pionex client settings.
type Config struct {
	Credentials Credentials
	BaseURL     string
	MinInterval time.Duration
	MaxAttempts int
	HTTPTimeout time.Duration
	SymbolTTL   time.Duration
}

// Client is a signed, rate-limited Pionex REST client. It is safe for
// concurrent use: the limiter serializes send timing across all callers
// sharing one instance.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu        sync.Mutex
	symbols   map[string]symbolCacheEntry
	symbolTTL time.Duration

	// test seams
	now   func() time.Time
	sleep func(time.Duration)
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = defaultMinInterval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}
	if cfg.SymbolTTL <= 0 {
		cfg.SymbolTTL = 24 * time.Hour
	}
	return &Client{
		cfg:        cfg,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		limiter:    rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		symbols:    make(map[string]symbolCacheEntry),
		symbolTTL:  cfg.SymbolTTL,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// canonical builds the string the exchange signs: the timestamp is already
// part of params, and url.Values.Encode sorts keys lexicographically, which
// the signature scheme requires.
func canonical(method, path string, params url.Values, body []byte) string {
	return method + path + "?" + params.Encode() + string(body)
}

func (c *Client) sign(payload string) string {
	h := hmac.New(sha256.New, []byte(c.cfg.Credentials.Secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// doSigned sends one authenticated request with pacing, signing and bounded
// retry. The timestamp is recomputed on every attempt; stale timestamps are
// rejected by the exchange.
func (c *Client) doSigned(ctx context.Context, method, path string, params url.Values, reqBody any) ([]byte, error) {
	var body []byte
	if reqBody != nil {
		var err error
		body, err = json.Marshal(reqBody)
		if err != nil {
			return nil, &TransportError{Op: method + " " + path, Err: err}
		}
	}

	var lastErr error
	lastStatus := 0
	attempts := 0

	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			c.sleep(backoff(attempt - 1))
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Op: method + " " + path, Attempts: attempts, Err: err}
		}
		attempts++

		q := cloneValues(params)
		q.Set("timestamp", strconv.FormatInt(c.now().UnixMilli(), 10))
		payload := canonical(method, path, q, body)

		u := c.baseURL + path + "?" + q.Encode()
		req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(body))
		if err != nil {
			return nil, &TransportError{Op: method + " " + path, Attempts: attempts, Err: err}
		}
		req.Header.Set("PIONEX-KEY", c.cfg.Credentials.Key)
		req.Header.Set("PIONEX-SIGNATURE", c.sign(payload))
		req.Header.Set("PIONEX-TIMESTAMP", q.Get("timestamp"))
		req.Header.Set("Content-Type", "application/json")

		res, err := c.httpClient.Do(req)
		if err != nil {
			// Network failure: retryable.
			lastErr = err
			lastStatus = 0
			continue
		}

		respBody, readErr := io.ReadAll(res.Body)
		res.Body.Close()
		if readErr != nil {
			lastErr = readErr
			lastStatus = res.StatusCode
			continue
		}

		if res.StatusCode == http.StatusOK {
			return unwrapEnvelope(method+" "+path, respBody)
		}

		lastStatus = res.StatusCode
		lastErr = nil
		if !retryableStatus(res.StatusCode) {
			return nil, &TransportError{
				Op:       method + " " + path,
				Status:   res.StatusCode,
				Attempts: attempts,
				Body:     truncate(respBody),
			}
		}
	}

	return nil, &TransportError{
		Op:       method + " " + path,
		Status:   lastStatus,
		Attempts: attempts,
		Err:      lastErr,
	}
}

// retryableStatus reports whether an HTTP status is worth another attempt.
// 429 and 5xx are transient; other 4xx are definitive client errors.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// backoff returns the delay before retry n (0-indexed): base doubled per
// retry, capped so a pathological attempt count cannot overflow.
func backoff(n int) time.Duration {
	if n < 0 {
		return backoffBase
	}
	if n > 10 {
		n = 10
	}
	return backoffBase * time.Duration(1<<n)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+1)
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func truncate(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max])
	}
	return string(b)
}
