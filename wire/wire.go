// Package wire defines the frame shapes exchanged with a remote command
// endpoint. A Request carries a correlation id, a qualified method name,
// and a params object keyed by the protocol's external field names. A
// Reply carries the matching id and exactly one of a result object or an
// error detail.
package wire

import "fmt"

// Request is the outbound command frame. ID is assigned by the correlator
// immediately before dispatch; callers leave it zero.
type Request struct {
	ID     uint64         `json:"id"`
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

// Reply is the inbound frame for a single request. Exactly one of Result
// or Error is set by a well-behaved endpoint.
type Reply struct {
	ID     uint64         `json:"id"`
	Result map[string]any `json:"result,omitempty"`
	Error  *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail is the error object carried by a failure Reply.
type ErrorDetail struct {
	Code    int64  `json:"code,omitempty"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *ErrorDetail) String() string {
	if e == nil {
		return ""
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
	}
	return e.Message
}
