// Package kv provides the key → JSON blob stores that back the photo journal.
// Every variant satisfies Store; callers never know which backend is in use.
// No business logic lives here — only byte storage.
package kv

import (
	"context"
	"fmt"
	"strings"

	"github.com/flyride/journal/internal/domain"
)

// Store is a flat namespace of JSON documents addressed by key.
// Implementations must treat each Put as a whole-value replacement.
type Store interface {
	// Get returns the stored value for key.
	// Returns domain.ErrNotFound if the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error
}

// validateKey rejects keys that cannot be used safely as file names or SQL
// primary keys.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key is required", domain.ErrValidation)
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: invalid key %q", domain.ErrValidation, key)
	}
	return nil
}
