// Package store persists the book collection as one JSON document.
package store

import (
	"errors"
	"fmt"

	"bookshelf/internal/book"
)

var (
	// ErrIO is returned when the backing storage is missing or cannot be read
	// or written.
	ErrIO = errors.New("store i/o failure")

	// ErrFormat is returned when persisted content is not a valid collection.
	ErrFormat = errors.New("store content malformed")
)

// checkCollection enforces the only cross-record invariant: ids are positive
// and unique.
func checkCollection(books []book.Book) error {
	seen := make(map[int]struct{}, len(books))
	for i, b := range books {
		if b.ID < 1 {
			return fmt.Errorf("%w: record %d has invalid id %d", ErrFormat, i, b.ID)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrFormat, b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}
