package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"bookshelf/internal/book"
)

// SampleBooks returns a small collection with contiguous ids starting at 1.
func SampleBooks() []book.Book {
	return []book.Book{
		{ID: 1, Title: "The Go Programming Language", Author: "Alan A. A. Donovan", Year: 2015},
		{ID: 2, Title: "Introducing Go", Author: "Caleb Doxsey", Year: 2016},
		{ID: 3, Title: "Concurrency in Go", Author: "Katherine Cox-Buday", Year: 2017},
	}
}

// NumberedBooks returns n books with ids 1..n and distinct titles.
func NumberedBooks(n int) []book.Book {
	books := make([]book.Book, n)
	for i := range books {
		books[i] = book.Book{
			ID:     i + 1,
			Title:  "Book " + string(rune('A'+i%26)),
			Author: "Author",
			Year:   1950 + i,
		}
	}
	return books
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRawRequest creates a request whose body is sent exactly as given.
func NewRawRequest(method, path, body string) *http.Request {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}

// DecodeJSON decodes the recorder body into v.
func DecodeJSON(w *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}
