package testutil

import (
	"context"
	"time"

	"github.com/flyride/journal/internal/kv"
)

// slowStore pauses after every Get, widening the window between a read and
// the write that follows it.
type slowStore struct {
	kv.Store
	delay time.Duration
}

// NewSlowStore wraps store so each Get returns only after delay. Tests use it
// to make lost updates between concurrent read-modify-write cycles visible.
func NewSlowStore(store kv.Store, delay time.Duration) kv.Store {
	return &slowStore{Store: store, delay: delay}
}

func (s *slowStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.Store.Get(ctx, key)
	time.Sleep(s.delay)
	return v, err
}
