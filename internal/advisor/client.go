// Package advisor drives the external inference service: spending
// suggestion generation and receipt-to-transaction extraction, with the
// retry and error policy those calls need. The service is treated as an
// untrusted, latency-variable, sometimes-overloaded dependency.
package advisor

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sunay4826/AI-finance-platform/internal/core"
)

// Distinguishable upstream failure classes. Overloaded wraps
// core.ErrUnavailable so it lands in the transient class; quota maps to
// core.ErrQuotaExceeded and is never retried.
var (
	ErrOverloaded         = fmt.Errorf("%w: inference service overloaded", core.ErrUnavailable)
	ErrInvalidCredentials = errors.New("inference credentials rejected")
	ErrModelNotFound      = errors.New("inference model not found")

	// ErrBadResponse marks a successful call whose payload could not be
	// used: unparseable JSON or a receipt missing required fields. It is
	// terminal, never retried.
	ErrBadResponse = errors.New("inference service returned an invalid response")
)

// Request is one inference call: a text prompt, optionally with an
// attached image for multimodal extraction.
type Request struct {
	Prompt      string
	Image       []byte // optional
	ImageMIME   string // required when Image is set
	Temperature float64
}

// Client sends one request to the inference service and returns its raw
// text content. Implementations must bound each call in time and
// classify failures into the error classes above.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}
