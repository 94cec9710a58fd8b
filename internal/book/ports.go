package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=book

// Store loads and persists the whole collection as a single unit.
type Store interface {
	// Load returns every book in insertion order.
	Load(ctx context.Context) ([]Book, error)
	// Save replaces the persisted collection with books.
	Save(ctx context.Context, books []Book) error
}
