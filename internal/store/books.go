// Package store holds the process-local catalog state and the purchase
// transaction manager. Both are explicitly constructed and injected; all
// mutation goes through exported methods, and no caller reaches the internal
// maps directly.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"circlepos/internal/domain"
	"circlepos/internal/notify"
	"circlepos/pkg/apierror"
)

// Books with 0 < stock < lowStockThreshold count as low stock.
const lowStockThreshold = 5

// BookService is the slice of the API client the store depends on.
type BookService interface {
	GetBooks(ctx context.Context) ([]domain.Book, error)
	GetBook(ctx context.Context, id int) (domain.Book, error)
	PurchaseBook(ctx context.Context, id int) (domain.PurchaseResponse, error)
}

// Catalog is the process-wide view of the book catalog: the last fetched
// collection, a loading flag and the last fetch error. The catalog is
// replaced wholesale on a successful fetch and never partially invalidated.
type Catalog struct {
	mu      sync.RWMutex
	books   map[int]domain.Book
	loading bool
	lastErr string

	service  BookService
	notifier notify.Notifier
}

// NewCatalog creates an empty catalog backed by the given service.
// The notifier may be nil, in which case fetch failures are only recorded.
func NewCatalog(service BookService, notifier notify.Notifier) *Catalog {
	return &Catalog{
		books:    make(map[int]domain.Book),
		service:  service,
		notifier: notifier,
	}
}

// FetchAll refreshes the catalog from the service. The fetch is
// single-flight: a call made while another is outstanding is a no-op.
func (c *Catalog) FetchAll(ctx context.Context) {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.lastErr = ""
	c.mu.Unlock()

	books, err := c.service.GetBooks(ctx)

	c.mu.Lock()
	c.loading = false
	if err != nil {
		c.lastErr = err.Error()
		c.mu.Unlock()
		c.notifyFetchError(ctx, err)
		return
	}
	replacement := make(map[int]domain.Book, len(books))
	for _, b := range books {
		replacement[b.ID] = b
	}
	c.books = replacement
	c.mu.Unlock()
}

func (c *Catalog) notifyFetchError(ctx context.Context, err error) {
	if c.notifier == nil {
		return
	}

	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierror.Unknown(err.Error())
	}

	n := notify.Notification{
		Type:       notify.TypeError,
		Title:      "Failed to Load Books",
		Message:    apiErr.Message,
		Persistent: true,
	}
	if apiErr.Retryable {
		n.Actions = []notify.Action{{
			Label:   "Try Again",
			Run:     func() { c.FetchAll(ctx) },
			Primary: true,
		}}
	}
	c.notifier.Publish(n)
}

// GetByID looks up a book by identifier.
func (c *Catalog) GetByID(id int) (domain.Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.books[id]
	return b, ok
}

// Books returns all books ordered by identifier.
func (c *Catalog) Books() []domain.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collect(func(domain.Book) bool { return true })
}

// Available returns books with stock remaining.
func (c *Catalog) Available() []domain.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collect(func(b domain.Book) bool { return b.AvailableStock > 0 })
}

// LowStock returns books with fewer than five copies remaining but not sold
// out.
func (c *Catalog) LowStock() []domain.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collect(func(b domain.Book) bool {
		return b.AvailableStock > 0 && b.AvailableStock < lowStockThreshold
	})
}

// OutOfStock returns sold-out books.
func (c *Catalog) OutOfStock() []domain.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.collect(func(b domain.Book) bool { return b.AvailableStock == 0 })
}

// collect filters the catalog into a sorted slice. Callers must hold the
// lock.
func (c *Catalog) collect(keep func(domain.Book) bool) []domain.Book {
	out := make([]domain.Book, 0, len(c.books))
	for _, b := range c.books {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DecrementStock decreases a book's stock by one. Absent books and books
// already at zero are a no-op.
func (c *Catalog) DecrementStock(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.books[id]
	if !ok || b.AvailableStock <= 0 {
		return
	}
	b.AvailableStock--
	c.books[id] = b
}

// SetStock overwrites a book's stock unconditionally, for authoritative
// corrections. Absent books are a no-op.
func (c *Catalog) SetStock(id, stock int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.books[id]
	if !ok {
		return
	}
	b.AvailableStock = stock
	c.books[id] = b
}

// Loading reports whether a fetch is currently outstanding.
func (c *Catalog) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// LastError returns the message of the most recent failed fetch, or "".
func (c *Catalog) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// ResetError clears the recorded fetch error.
func (c *Catalog) ResetError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = ""
}
