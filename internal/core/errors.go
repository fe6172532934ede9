package core

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every error leaving a service belongs to exactly one of
// these classes; callers classify with errors.Is and must not parse
// messages.
var (
	// ErrUnauthorized means no authenticated principal was presented.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound covers both a genuinely absent entity and an entity
	// owned by another user. The two are deliberately indistinguishable
	// so that lookups never leak existence.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a uniqueness violation on insert; callers
	// treat it as "someone else already created it" and re-read.
	ErrConflict = errors.New("already exists")

	// ErrUnavailable marks a transient upstream failure (store or
	// inference service); the receipt-extraction path retries it,
	// everything else propagates it immediately.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrQuotaExceeded is a non-retryable upstream limit; it always
	// propagates immediately so callers can surface billing guidance
	// instead of "try again".
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrAdvisorDisabled is returned by the advisory pipeline when no
	// inference API key is configured.
	ErrAdvisorDisabled = errors.New("advisor disabled: no inference API key configured")
)

// ErrValidation is the base of every rejected-input error; the specific
// sentinels below wrap it so errors.Is(err, ErrValidation) classifies
// the whole family.
var ErrValidation = errors.New("validation failed")

var (
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrInvalidType        = fmt.Errorf("%w: unknown transaction type", ErrValidation)
	ErrInvalidInterval    = fmt.Errorf("%w: unknown recurring interval", ErrValidation)
	ErrInvalidDate        = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrEmptyName          = fmt.Errorf("%w: empty name", ErrValidation)
	ErrEmptyCategory      = fmt.Errorf("%w: empty category", ErrValidation)
	ErrInvalidAccountType = fmt.Errorf("%w: unknown account type", ErrValidation)
	ErrBudgetTooLarge     = fmt.Errorf("%w: budget amount exceeds the configured ceiling", ErrValidation)
)
