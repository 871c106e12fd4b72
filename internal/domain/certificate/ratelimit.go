package certificate

import "context"

// RecipientRateLimiter defines the contract for per-recipient delivery
// throttling. Implementations live in infra/ratelimit.
type RecipientRateLimiter interface {
	// Allow checks whether a certificate may be sent to the given recipient.
	// Returns true if the delivery is allowed, false if throttled.
	Allow(ctx context.Context, recipient string) (bool, error)
}
