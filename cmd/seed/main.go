package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/platform/openlibrary"
	"bookshelf/internal/store"
)

const (
	sourceGenerated   = "generated"
	sourceOpenLibrary = "openlibrary"
)

func main() {
	var (
		source  = flag.String("source", sourceGenerated, "Where books come from: generated, openlibrary")
		count   = flag.Int("count", 25, "Number of books to generate or fetch")
		subject = flag.String("subject", "programming", "Open Library subject for -source=openlibrary")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.StoreDriver == config.DriverMemory {
		log.Fatal("seeding the memory store has no effect; use STORE_DRIVER=file or postgres")
	}

	ctx := context.Background()
	bookStore, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("cannot open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	var candidates []book.Candidate
	switch *source {
	case sourceGenerated:
		candidates = generateCandidates(*count)
	case sourceOpenLibrary:
		client := openlibrary.NewClient("bookshelf-seed/1.0", 2, 3)
		candidates, err = fetchCandidates(ctx, client, *subject, *count)
		if err != nil {
			log.Fatalf("Failed to fetch books from Open Library: %v", err)
		}
	default:
		log.Fatalf("Unknown source: %s. Use: %s, %s", *source, sourceGenerated, sourceOpenLibrary)
	}

	created, skipped, err := seed(ctx, book.NewService(bookStore), candidates)
	if err != nil {
		log.Fatalf("Failed to seed books: %v", err)
	}
	log.Printf("Seed finished: created=%d skipped=%d", created, skipped)
}

// seed creates every candidate through the service so ids and validation are
// exactly what the API would produce. Invalid candidates are skipped.
func seed(ctx context.Context, svc *book.Service, candidates []book.Candidate) (created, skipped int, err error) {
	for i, c := range candidates {
		if _, err := svc.Create(ctx, c); err != nil {
			var verr *book.ValidationError
			if errors.As(err, &verr) {
				log.Printf("skip candidate=%d reason=%q", i, verr.Message)
				skipped++
				continue
			}
			return created, skipped, err
		}
		created++
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		return created, skipped, err
	}
	log.Printf("Total books in store: %d", stats.Total)
	return created, skipped, nil
}

func fetchCandidates(ctx context.Context, client *openlibrary.Client, subject string, limit int) ([]book.Candidate, error) {
	res, err := client.SearchBooks(ctx, subject, limit)
	if err != nil {
		return nil, err
	}

	candidates := make([]book.Candidate, 0, len(res.Docs))
	for _, doc := range res.Docs {
		c := book.Candidate{Title: doc.Title, Author: doc.FirstAuthor()}
		if doc.FirstPublishYear != nil {
			c.Year = *doc.FirstPublishYear
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func generateCandidates(count int) []book.Candidate {
	authors := []string{"Ada Lovelace", "Alan Turing", "Grace Hopper", "Edsger Dijkstra", "Barbara Liskov", "Donald Knuth", "Margaret Hamilton", "Ken Thompson"}

	candidates := make([]book.Candidate, count)
	for i := range candidates {
		candidates[i] = book.Candidate{
			Title:  fmt.Sprintf("%s of %s", getRandomWord(), getRandomWord()),
			Author: authors[rand.Intn(len(authors))],
			Year:   1950 + rand.Intn(75),
		}
	}
	return candidates
}

func getRandomWord() string {
	words := []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	return words[rand.Intn(len(words))]
}
