package book

import (
	"context"
	"fmt"
	"math"
	"sync"
)

// Service provides book-related business logic on top of a Store.
//
// Every operation is one load, mutate, save cycle over the full collection.
// The mutex serializes those cycles within the process so that two writes can
// never interleave; writers in other processes are not coordinated.
type Service struct {
	mu    sync.Mutex
	store Store
}

// NewService creates a new book service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns the requested page of books. Pages below 1 are treated as 1 and
// pages past the end come back with no items.
func (s *Service) List(ctx context.Context, page int) (Page, error) {
	if page < 1 {
		page = 1
	}

	books, err := s.load(ctx)
	if err != nil {
		return Page{}, err
	}

	items := []Book{}
	if page <= pageCount(len(books)) {
		start := (page - 1) * PageSize
		end := min(start+PageSize, len(books))
		items = books[start:end]
	}

	return Page{
		Items:    items,
		Total:    len(books),
		Page:     page,
		PageSize: PageSize,
	}, nil
}

// Get returns the book with the given id.
func (s *Service) Get(ctx context.Context, id int) (Book, error) {
	books, err := s.load(ctx)
	if err != nil {
		return Book{}, err
	}
	for _, b := range books {
		if b.ID == id {
			return b, nil
		}
	}
	return Book{}, ErrNotFound
}

// Create validates the candidate and appends it with the next free id.
func (s *Service) Create(ctx context.Context, c Candidate) (Book, error) {
	b, err := Validate(c)
	if err != nil {
		return Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.store.Load(ctx)
	if err != nil {
		return Book{}, fmt.Errorf("load books: %w", err)
	}

	b.ID = nextID(books)
	books = append(books, b)
	if err := s.store.Save(ctx, books); err != nil {
		return Book{}, fmt.Errorf("save books: %w", err)
	}
	return b, nil
}

// Update replaces title, author and year of the book with the given id.
// Validation runs before the lookup, so an invalid candidate is reported even
// when the id does not exist.
func (s *Service) Update(ctx context.Context, id int, c Candidate) (Book, error) {
	b, err := Validate(c)
	if err != nil {
		return Book{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.store.Load(ctx)
	if err != nil {
		return Book{}, fmt.Errorf("load books: %w", err)
	}

	for i := range books {
		if books[i].ID != id {
			continue
		}
		books[i].Title = b.Title
		books[i].Author = b.Author
		books[i].Year = b.Year
		if err := s.store.Save(ctx, books); err != nil {
			return Book{}, fmt.Errorf("save books: %w", err)
		}
		return books[i], nil
	}
	return Book{}, ErrNotFound
}

// Delete removes the book with the given id.
func (s *Service) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load books: %w", err)
	}

	kept := make([]Book, 0, len(books))
	for _, b := range books {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	if len(kept) == len(books) {
		return ErrNotFound
	}

	if err := s.store.Save(ctx, kept); err != nil {
		return fmt.Errorf("save books: %w", err)
	}
	return nil
}

// Stats returns the collection size and the mean publication year, rounded
// half to even (2000.5 becomes 2000). An empty collection averages to 0.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	books, err := s.load(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(books)}
	if stats.Total == 0 {
		return stats, nil
	}

	var sum int64
	for _, b := range books {
		sum += int64(b.Year)
	}
	stats.AveragePublicationYear = int(math.RoundToEven(float64(sum) / float64(stats.Total)))
	return stats, nil
}

// Ping reports whether the store can currently be read.
func (s *Service) Ping(ctx context.Context) error {
	_, err := s.load(ctx)
	return err
}

func (s *Service) load(ctx context.Context) ([]Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	return books, nil
}

// pageCount is the number of non-empty pages for n books. Comparing the page
// against it before multiplying keeps huge page numbers from overflowing.
func pageCount(n int) int {
	return (n + PageSize - 1) / PageSize
}

func nextID(books []Book) int {
	maxID := 0
	for _, b := range books {
		maxID = max(maxID, b.ID)
	}
	return maxID + 1
}
