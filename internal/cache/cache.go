package cache

import (
	"context"
	"time"
)

// QueryCache stores JSON-encoded query results. Keys have the form
// "<resource>:<userID>[:<params>]" so a resource prefix drops every user's
// copy at once.
type QueryCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context, prefixes ...string) error
}

type Noop struct{}

func (Noop) Get(_ context.Context, _ string, _ any) (bool, error) {
	return false, nil
}

func (Noop) Set(_ context.Context, _ string, _ any, _ time.Duration) error {
	return nil
}

func (Noop) Invalidate(_ context.Context, _ ...string) error {
	return nil
}

// Key joins parts with ':'.
func Key(resource string, parts ...string) string {
	key := resource
	for _, part := range parts {
		key += ":" + part
	}
	return key
}
