// Package storage publishes the canonical census table to a relational
// database. It holds the backend-agnostic contracts (Repository, the factory
// registry, DDL bootstrappers) and the batched loader; concrete backends live
// in subpackages and register themselves at init time (see storage/all).
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is the minimal surface a backend exposes to the publisher.
type Repository interface {
	// CopyFrom inserts rows, each aligned to columns, into the configured
	// table and returns the number of rows inserted.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	// Exec runs a single statement, typically DDL.
	Exec(ctx context.Context, sql string) error
	// Reset deletes every row of the configured table.
	Reset(ctx context.Context) error
	// Close releases the connection pool.
	Close()
}

// Config selects and configures a backend.
type Config struct {
	Kind  string // registered backend name, e.g. "sqlite"
	DSN   string // driver connection string
	Table string // destination table, optionally schema-qualified
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under kind. Registering the same kind
// twice replaces the earlier factory.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported kind %q (registered: %v)", cfg.Kind, ListKinds())
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered backend names, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
