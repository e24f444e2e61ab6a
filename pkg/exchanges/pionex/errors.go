package pionex

import (
	"encoding/json"
	"fmt"
)

// TransportError is the terminal failure of a signed request after the retry
// budget is spent (or a definitive client error). It keeps the last observed
// status and cause so nothing is lost on the way up.
type TransportError struct {
	Op       string // "METHOD /path"
	Status   int    // last HTTP status, 0 when the request never completed
	Attempts int
	Body     string // truncated response body, useful for reconciliation
	Err      error  // last network-level error, if any
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("pionex: %s failed after %d attempt(s): %v", e.Op, e.Attempts, e.Err)
	case e.Body != "":
		return fmt.Sprintf("pionex: %s status %d after %d attempt(s): %s", e.Op, e.Status, e.Attempts, e.Body)
	default:
		return fmt.Sprintf("pionex: %s status %d after %d attempt(s)", e.Op, e.Status, e.Attempts)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a well-formed exchange response with result=false.
type APIError struct {
	Op      string
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pionex: %s rejected: %s (%s)", e.Op, e.Message, e.Code)
}

// envelope is the common Pionex response wrapper.
type envelope struct {
	Result  bool            `json:"result"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// unwrapEnvelope validates the response wrapper and returns the data payload.
func unwrapEnvelope(op string, body []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &TransportError{Op: op, Attempts: 1, Err: fmt.Errorf("decode response: %w", err)}
	}
	if !env.Result {
		return nil, &APIError{Op: op, Code: env.Code, Message: env.Message}
	}
	return env.Data, nil
}
