package service

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the action boundary. Handlers match these with
// errors.Is and render them as user-facing messages; anything else is a
// process-level fault. A rejected action performs zero ledger mutation.
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrNoActiveSession      = errors.New("no active session")
	ErrSessionAlreadyActive = errors.New("session already active")
)

// RateLimitedError rejects a cooldown-gated action and carries the time
// remaining until it can be retried.
type RateLimitedError struct {
	Remaining time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: retry in %s", e.Remaining)
}
