// Package mockserver is a chi-based stand-in for the remote bookstore API,
// used for local development and integration tests. It serves the same wire
// contract the client consumes: GET /api/books, GET /api/books/{id} and
// POST /api/books/{id}/purchase, with stock enforcement.
package mockserver

import (
	"net/http"
	"strconv"
	"sync"

	"circlepos/internal/domain"
	"circlepos/pkg/apierror"
	"circlepos/pkg/uid"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Handler serves the bookstore API over a seeded in-memory catalog.
type Handler struct {
	mu    sync.Mutex
	books map[int]*domain.Book
	order []int
}

// NewHandler creates a handler serving the given catalog.
func NewHandler(seed []domain.Book) *Handler {
	h := &Handler{books: make(map[int]*domain.Book, len(seed))}
	for _, b := range seed {
		book := b
		h.books[b.ID] = &book
		h.order = append(h.order, b.ID)
	}
	return h
}

// ListBooks handles GET /api/books.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	books := make([]domain.Book, 0, len(h.order))
	for _, id := range h.order {
		books = append(books, *h.books[id])
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, domain.BooksResponse{Books: books})
}

// GetBook handles GET /api/books/{id}.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, apierror.BadRequest("invalid book id"))
		return
	}

	h.mu.Lock()
	book, found := h.books[id]
	var copied domain.Book
	if found {
		copied = *book
	}
	h.mu.Unlock()

	if !found {
		writeError(w, http.StatusNotFound, apierror.NotFound("book not found"))
		return
	}

	writeJSON(w, http.StatusOK, domain.BookDetailResponse{Book: copied})
}

// Purchase handles POST /api/books/{id}/purchase. A sold-out book yields a
// 400 with a declined purchase envelope.
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, apierror.BadRequest("invalid book id"))
		return
	}

	h.mu.Lock()
	book, found := h.books[id]
	if !found {
		h.mu.Unlock()
		writeError(w, http.StatusNotFound, apierror.NotFound("book not found"))
		return
	}
	if book.AvailableStock <= 0 {
		h.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, domain.PurchaseResponse{
			Success: false,
			Message: "This book is out of stock",
		})
		return
	}
	book.AvailableStock--
	copied := *book
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, domain.PurchaseResponse{
		Success:       true,
		Message:       "Purchase completed successfully",
		Book:          &copied,
		TransactionID: uid.New(),
		OrderID:       uid.New(),
	})
}

// SetStock overwrites a book's stock, for test setup.
func (h *Handler) SetStock(id, stock int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if book, ok := h.books[id]; ok {
		book.AvailableStock = stock
	}
}

func bookID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body, err := json.Marshal(v)
	if err != nil {
		return
	}
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, apiErr *apierror.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(apiErr.ToJSON())
}

// DefaultCatalog seeds the mock server with a small, real-looking catalog.
func DefaultCatalog() []domain.Book {
	return []domain.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", Price: 9.99, AvailableStock: 12},
		{ID: 2, Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", ISBN: "9780441478125", Price: 8.49, AvailableStock: 4},
		{ID: 3, Title: "Neuromancer", Author: "William Gibson", ISBN: "9780441569595", Price: 10.99, AvailableStock: 0},
		{ID: 4, Title: "A Fire Upon the Deep", Author: "Vernor Vinge", ISBN: "0812515285", Price: 7.99, AvailableStock: 25},
		{ID: 5, Title: "Hyperion", Author: "Dan Simmons", ISBN: "9780553283686", Price: 9.49, AvailableStock: 2},
	}
}
