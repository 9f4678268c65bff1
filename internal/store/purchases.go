package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"circlepos/internal/domain"
	"circlepos/internal/metrics"
	"circlepos/internal/notify"
	"circlepos/pkg/apierror"
	"circlepos/pkg/uid"
)

// recentLimit caps the Recent view.
const recentLimit = 10

// Purchases executes purchase transactions and keeps the append-only
// history. At most one purchase per book may be in flight at a time; the
// in-flight marker is released on every exit path.
type Purchases struct {
	mu       sync.Mutex
	history  []domain.PurchaseRecord
	inFlight map[int]struct{}

	service  BookService
	catalog  *Catalog
	notifier notify.Notifier
}

// NewPurchases creates a purchase manager over the given catalog.
// The notifier may be nil, in which case outcomes are only recorded.
func NewPurchases(service BookService, catalog *Catalog, notifier notify.Notifier) *Purchases {
	return &Purchases{
		inFlight: make(map[int]struct{}),
		service:  service,
		catalog:  catalog,
		notifier: notifier,
	}
}

// Purchase runs one purchase transaction for a book and reports whether it
// completed. A second call for the same book while the first is still in
// flight returns false without side effects. Precondition failures (unknown
// book, sold out) are reported through the notifier and never reach the
// network. On success the local stock is decremented optimistically, without
// waiting for a catalog re-fetch.
func (p *Purchases) Purchase(ctx context.Context, bookID int) bool {
	if p.IsPurchasing(bookID) {
		return false
	}

	book, ok := p.catalog.GetByID(bookID)
	if !ok {
		p.notifyFailure(ctx, bookID, apierror.NotFound("Book not found"))
		return false
	}
	if book.AvailableStock <= 0 {
		p.notifyFailure(ctx, bookID, apierror.BadRequest("This book is out of stock"))
		return false
	}

	if !p.acquire(bookID) {
		return false
	}
	defer p.release(bookID)

	resp, err := p.service.PurchaseBook(ctx, bookID)
	if err == nil && !resp.Success {
		// The service answered but declined the purchase. Its message wins;
		// the structured code, if any, is not preserved.
		msg := resp.Message
		if msg == "" {
			msg = "Purchase failed"
		}
		err = &apierror.APIError{Message: msg, Code: apierror.CodeUnknown, Retryable: false}
	}

	if err != nil {
		p.append(book, domain.PurchaseFailed)
		metrics.Purchases.WithLabelValues(string(domain.PurchaseFailed)).Inc()
		p.notifyFailure(ctx, bookID, err)
		return false
	}

	p.catalog.DecrementStock(bookID)
	p.append(book, domain.PurchaseCompleted)
	metrics.Purchases.WithLabelValues(string(domain.PurchaseCompleted)).Inc()
	p.notifySuccess(book)
	return true
}

// acquire marks a book as having a purchase in flight. It reports false when
// the marker is already held.
func (p *Purchases) acquire(bookID int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, held := p.inFlight[bookID]; held {
		return false
	}
	p.inFlight[bookID] = struct{}{}
	return true
}

func (p *Purchases) release(bookID int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, bookID)
}

// IsPurchasing reports whether a purchase for the book is in flight.
func (p *Purchases) IsPurchasing(bookID int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, held := p.inFlight[bookID]
	return held
}

// append records an outcome with a snapshot of the book's title and price at
// the moment of the attempt.
func (p *Purchases) append(book domain.Book, status domain.PurchaseStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history = append(p.history, domain.PurchaseRecord{
		ID:          uid.New(),
		BookID:      book.ID,
		BookTitle:   book.Title,
		Price:       book.Price,
		PurchasedAt: time.Now(),
		Status:      status,
	})
}

func (p *Purchases) notifySuccess(book domain.Book) {
	if p.notifier == nil {
		return
	}
	p.notifier.Publish(notify.Notification{
		Type:    notify.TypeSuccess,
		Title:   "Purchase Successful!",
		Message: "Thank you for your purchase of \"" + book.Title + "\"",
	})
}

// notifyFailure publishes exactly one failure notification. Retryable
// failures carry a retry action that re-runs the purchase, plus a cancel
// action that does nothing.
func (p *Purchases) notifyFailure(ctx context.Context, bookID int, err error) {
	if p.notifier == nil {
		return
	}

	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierror.Unknown(err.Error())
	}

	n := notify.Notification{
		Type:       notify.TypeError,
		Title:      "Purchase Failed",
		Message:    apiErr.Message,
		Persistent: true,
	}
	if apiErr.Retryable {
		n.Actions = []notify.Action{
			{Label: "Try Again", Run: func() { p.Purchase(ctx, bookID) }, Primary: true},
			{Label: "Cancel", Run: func() {}},
		}
	}
	p.notifier.Publish(n)
}

// History returns a copy of the purchase history in insertion order.
func (p *Purchases) History() []domain.PurchaseRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.PurchaseRecord, len(p.history))
	copy(out, p.history)
	return out
}

// Recent returns up to ten completed purchases, newest first.
func (p *Purchases) Recent() []domain.PurchaseRecord {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]domain.PurchaseRecord, 0, len(p.history))
	for _, r := range p.history {
		if r.Status == domain.PurchaseCompleted {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchasedAt.After(out[j].PurchasedAt) })
	if len(out) > recentLimit {
		out = out[:recentLimit]
	}
	return out
}
