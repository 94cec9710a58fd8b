package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"bookshelf/internal/httpx"
)

const (
	msgNotFound     = "Book not found."
	msgInvalidJSON  = "Invalid JSON."
	msgInvalidID    = "Invalid id."
	msgBodyTooLarge = "Request body too large."
	msgInternal     = "Internal server error."
)

var errInvalidJSON = errors.New("invalid json body")

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Register mounts the book routes on mux. Methods are dispatched per path so
// that unsupported ones get a JSON 405 instead of the ServeMux default.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.Handle("/api/books", httpx.MethodMux(map[string]http.HandlerFunc{
		http.MethodGet:  h.List,
		http.MethodPost: h.Create,
	}))
	mux.Handle("/api/books/{id}", httpx.MethodMux(map[string]http.HandlerFunc{
		http.MethodGet:    h.Get,
		http.MethodPut:    h.Update,
		http.MethodDelete: h.Delete,
	}))
	mux.Handle("/api/stats", httpx.MethodMux(map[string]http.HandlerFunc{
		http.MethodGet: h.Stats,
	}))
}

// List handles GET /api/books?page=N. Unparseable pages fall back to 1;
// numbers too large for an int are clamped to math.MaxInt.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	page, err := strconv.Atoi(raw)
	switch {
	case err == nil:
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-"):
		page = math.MaxInt
	default:
		page = 1
	}

	result, err := h.service.List(r.Context(), page)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

// Get handles GET /api/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Create handles POST /api/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCandidate(w, r)
	if !ok {
		return
	}

	b, err := h.service.Create(r.Context(), c)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

// Update handles PUT /api/books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, ok := decodeCandidate(w, r)
	if !ok {
		return
	}

	b, err := h.service.Update(r.Context(), id, c)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Delete handles DELETE /api/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSONOK(w)
}

// Stats handles GET /api/stats
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stats)
}

func (h *HTTPHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSONError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, msgNotFound)
	default:
		log.Printf("book handler error: request_id=%s method=%s path=%s error=%v",
			httpx.RequestIDFrom(r), r.Method, r.URL.Path, err)
		httpx.JSONError(w, http.StatusInternalServerError, msgInternal)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return id, true
}

// decodeCandidate reads the request body. An empty body counts as an empty
// object; anything that is not a single JSON object is rejected.
func decodeCandidate(w http.ResponseWriter, r *http.Request) (Candidate, bool) {
	var c Candidate
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return c, false
		}
		httpx.JSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return c, false
	}

	if err := unmarshalCandidate(body, &c); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return c, false
	}
	return c, true
}

func unmarshalCandidate(body []byte, c *Candidate) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(c); err != nil {
		return errors.Join(errInvalidJSON, err)
	}
	if dec.More() {
		return errInvalidJSON
	}
	return nil
}
