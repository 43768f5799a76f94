// Package cache provides a small read-through cache for derived balance
// views. Cached values are always recomputable from storage, so every
// cache failure degrades to a recompute rather than an error.
package cache

import (
	"context"
	"fmt"
)

// Cache stores JSON-serializable view values under string keys.
// Implementations must treat all failures as misses: Get returns false,
// Set and Delete log and move on.
type Cache interface {
	// Get unmarshals the cached value for key into dest and reports
	// whether a usable value was found.
	Get(ctx context.Context, key string, dest any) bool

	// Set stores value under key. Write failures are non-fatal.
	Set(ctx context.Context, key string, value any)

	// Delete removes key. Used for invalidation after writes.
	Delete(ctx context.Context, key string)
}

// UserBalanceKey is the cache key for one user's personal balance view.
func UserBalanceKey(userID string) string {
	return fmt.Sprintf("balance:user:%s", userID)
}

// GroupLedgerKey is the cache key for one group's ledger view.
func GroupLedgerKey(groupID string) string {
	return fmt.Sprintf("balance:group:%s", groupID)
}
