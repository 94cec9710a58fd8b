package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"bookshelf/internal/book"
)

// FileStore keeps the collection in a single pretty-printed JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Init creates the backing file holding an empty collection when it does not
// exist yet. An existing file is left untouched.
func (s *FileStore) Init(ctx context.Context) error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %w", ErrIO, s.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create dir for %s: %w", ErrIO, s.path, err)
	}
	return s.Save(ctx, nil)
}

func (s *FileStore) Load(_ context.Context) ([]book.Book, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIO, s.path, err)
	}
	return decodeCollection(data)
}

// Save writes the collection to a temporary file next to the target and
// renames it into place, so readers see either the old or the new document.
func (s *FileStore) Save(_ context.Context, books []book.Book) error {
	data, err := encodeCollection(books)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrIO, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %w", ErrIO, tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync %s: %w", ErrIO, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("%w: replace %s: %w", ErrIO, s.path, err)
	}
	return nil
}

func decodeCollection(data []byte) ([]book.Book, error) {
	var books []book.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if books == nil {
		books = []book.Book{}
	}
	if err := checkCollection(books); err != nil {
		return nil, err
	}
	return books, nil
}

func encodeCollection(books []book.Book) ([]byte, error) {
	if books == nil {
		books = []book.Book{}
	}
	data, err := json.MarshalIndent(books, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode collection: %w", ErrFormat, err)
	}
	return append(data, '\n'), nil
}
