package book

import (
	"errors"
)

// PageSize is the fixed number of books returned per page by List.
const PageSize = 10

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book represents a book entity.
type Book struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
}

// Candidate is an unvalidated book as decoded from a request body.
// Fields hold raw JSON values (string, json.Number, bool, nil, ...) until
// Validate normalizes them.
type Candidate struct {
	Title  any `json:"title"`
	Author any `json:"author"`
	Year   any `json:"year"`
}

// Candidate returns the book's writable fields as a Candidate.
func (b Book) Candidate() Candidate {
	return Candidate{Title: b.Title, Author: b.Author, Year: b.Year}
}

// Page is one fixed-size slice of the collection.
type Page struct {
	Items    []Book `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// Stats holds aggregate figures over the whole collection.
type Stats struct {
	Total                  int `json:"total"`
	AveragePublicationYear int `json:"averagePublicationYear"`
}

// ValidationError reports why a candidate was rejected. Message is meant to be
// shown to the client as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
