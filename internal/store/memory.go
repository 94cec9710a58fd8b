package store

import (
	"context"
	"slices"
	"sync"

	"bookshelf/internal/book"
)

// MemoryStore keeps the collection in process memory. Load and Save copy the
// slice so callers never share backing arrays with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	books []book.Book
}

// NewMemoryStore constructs a MemoryStore seeded with the provided books.
func NewMemoryStore(seed []book.Book) *MemoryStore {
	return &MemoryStore{books: slices.Clone(seed)}
}

func (s *MemoryStore) Load(_ context.Context) ([]book.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.books == nil {
		return []book.Book{}, nil
	}
	return slices.Clone(s.books), nil
}

func (s *MemoryStore) Save(_ context.Context, books []book.Book) error {
	if err := checkCollection(books); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = slices.Clone(books)
	return nil
}
