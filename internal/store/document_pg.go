package store

import (
	"context"
	"errors"
	"fmt"

	"bookshelf/internal/book"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentPG keeps the collection as one jsonb row in book_collections.
// It is still read-all/write-all: a Save replaces the whole document.
type DocumentPG struct {
	db   *pgxpool.Pool
	name string
}

func NewDocumentPG(db *pgxpool.Pool, name string) *DocumentPG {
	return &DocumentPG{db: db, name: name}
}

// Init inserts an empty collection row unless one already exists.
func (r *DocumentPG) Init(ctx context.Context) error {
	query := `
	INSERT INTO book_collections (name, body)
	VALUES ($1, '[]'::jsonb)
	ON CONFLICT (name) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, r.name); err != nil {
		return fmt.Errorf("%w: init collection %q: %w", ErrIO, r.name, err)
	}
	return nil
}

func (r *DocumentPG) Load(ctx context.Context) ([]book.Book, error) {
	query := `SELECT body FROM book_collections WHERE name = $1`

	var body []byte
	if err := r.db.QueryRow(ctx, query, r.name).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: collection %q does not exist", ErrIO, r.name)
		}
		return nil, fmt.Errorf("%w: load collection %q: %w", ErrIO, r.name, err)
	}
	return decodeCollection(body)
}

func (r *DocumentPG) Save(ctx context.Context, books []book.Book) error {
	body, err := encodeCollection(books)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO book_collections (name, body, updated_at)
	VALUES ($1, $2::jsonb, now())
	ON CONFLICT (name) DO UPDATE
	SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.Exec(ctx, query, r.name, string(body)); err != nil {
		return fmt.Errorf("%w: save collection %q: %w", ErrIO, r.name, err)
	}
	return nil
}
