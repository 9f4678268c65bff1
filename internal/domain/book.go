package domain

import (
	"fmt"
	"time"
)

// Book is a single catalog entry as served by the bookstore API.
type Book struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	Author         string  `json:"author"`
	ISBN           string  `json:"isbn"`
	Price          float64 `json:"price"`
	AvailableStock int     `json:"availableStock"`
}

// BooksResponse is the envelope returned by GET /books.
type BooksResponse struct {
	Books []Book `json:"books"`
}

// BookDetailResponse is the envelope returned by GET /books/{id}.
type BookDetailResponse struct {
	Book Book `json:"book"`
}

// PurchaseResponse is the envelope returned by POST /books/{id}/purchase.
// Only Success and Message are guaranteed to be set; the remaining fields
// are included when the server sends them.
type PurchaseResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	Book          *Book  `json:"book,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	OrderID       string `json:"orderId,omitempty"`
}

// PurchaseStatus is the final outcome of a purchase attempt.
type PurchaseStatus string

const (
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseFailed    PurchaseStatus = "failed"
)

// PurchaseRecord is one entry in the append-only purchase history. Title and
// price are snapshots taken at the moment of the attempt, so later catalog
// updates do not rewrite history.
type PurchaseRecord struct {
	ID          string         `json:"id"`
	BookID      int            `json:"book_id"`
	BookTitle   string         `json:"book_title"`
	Price       float64        `json:"price"`
	PurchasedAt time.Time      `json:"purchased_at"`
	Status      PurchaseStatus `json:"status"`
}

// CoverSize selects an Open Library cover image size.
type CoverSize string

const (
	CoverSmall  CoverSize = "S"
	CoverMedium CoverSize = "M"
	CoverLarge  CoverSize = "L"
)

// CoverURL returns the Open Library cover image URL for an ISBN.
func CoverURL(isbn string, size CoverSize) string {
	if size == "" {
		size = CoverLarge
	}
	return fmt.Sprintf("https://covers.openlibrary.org/b/isbn/%s-%s.jpg", isbn, size)
}
