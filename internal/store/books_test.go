package store

import (
	"context"
	"testing"
	"time"

	"circlepos/internal/domain"
	"circlepos/pkg/apierror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAllReplacesCatalogWholesale(t *testing.T) {
	svc := &fakeService{books: []domain.Book{dune(2), {ID: 2, Title: "Hyperion", AvailableStock: 1}}}
	catalog := NewCatalog(svc, nil)

	catalog.FetchAll(context.Background())
	require.Len(t, catalog.Books(), 2)

	svc.mu.Lock()
	svc.books = []domain.Book{{ID: 3, Title: "Neuromancer", AvailableStock: 5}}
	svc.mu.Unlock()

	catalog.FetchAll(context.Background())

	books := catalog.Books()
	require.Len(t, books, 1)
	assert.Equal(t, 3, books[0].ID)

	_, ok := catalog.GetByID(1)
	assert.False(t, ok, "old entries must not survive a refresh")
}

func TestFetchAllSingleFlight(t *testing.T) {
	block := make(chan struct{})
	svc := &fakeService{books: []domain.Book{dune(2)}, blockBooks: block}
	catalog := NewCatalog(svc, nil)

	done := make(chan struct{})
	go func() {
		catalog.FetchAll(context.Background())
		close(done)
	}()

	require.Eventually(t, catalog.Loading, time.Second, time.Millisecond)

	// A second call while the first is outstanding must be a no-op.
	catalog.FetchAll(context.Background())

	getBooks, _ := svc.calls()
	assert.Equal(t, 1, getBooks)

	close(block)
	<-done
	assert.False(t, catalog.Loading())
	assert.Len(t, catalog.Books(), 1)
}

func TestFetchAllErrorRecordedAndNotified(t *testing.T) {
	svc := &fakeService{booksErr: apierror.Server("Server error occurred. Please try again in a moment.")}
	notifier := &fakeNotifier{}
	catalog := NewCatalog(svc, notifier)

	catalog.FetchAll(context.Background())

	assert.False(t, catalog.Loading())
	assert.Contains(t, catalog.LastError(), "Server error occurred")
	assert.Empty(t, catalog.Books())

	n := notifier.last(t)
	assert.Equal(t, "Failed to Load Books", n.Title)
	require.Len(t, n.Actions, 1, "retryable failures offer a retry action")
	assert.Equal(t, "Try Again", n.Actions[0].Label)
}

func TestFetchAllNonRetryableErrorHasNoRetryAction(t *testing.T) {
	svc := &fakeService{booksErr: apierror.NotFound("The requested item was not found.")}
	notifier := &fakeNotifier{}
	catalog := NewCatalog(svc, notifier)

	catalog.FetchAll(context.Background())

	n := notifier.last(t)
	assert.Empty(t, n.Actions)
}

func TestFetchAllRetryActionRefetches(t *testing.T) {
	svc := &fakeService{booksErr: apierror.Network("no connection")}
	notifier := &fakeNotifier{}
	catalog := NewCatalog(svc, notifier)

	catalog.FetchAll(context.Background())

	svc.mu.Lock()
	svc.booksErr = nil
	svc.books = []domain.Book{dune(2)}
	svc.mu.Unlock()

	notifier.last(t).Actions[0].Run()

	assert.Len(t, catalog.Books(), 1)
	assert.Empty(t, catalog.LastError())
}

func TestDecrementStock(t *testing.T) {
	svc := &fakeService{books: []domain.Book{dune(2)}}
	catalog := NewCatalog(svc, nil)
	catalog.FetchAll(context.Background())

	catalog.DecrementStock(1)
	book, _ := catalog.GetByID(1)
	assert.Equal(t, 1, book.AvailableStock)

	catalog.DecrementStock(1)
	catalog.DecrementStock(1) // already at zero, no-op
	book, _ = catalog.GetByID(1)
	assert.Equal(t, 0, book.AvailableStock)

	catalog.DecrementStock(42) // absent, no-op
}

func TestSetStock(t *testing.T) {
	svc := &fakeService{books: []domain.Book{dune(2)}}
	catalog := NewCatalog(svc, nil)
	catalog.FetchAll(context.Background())

	catalog.SetStock(1, 17)
	book, _ := catalog.GetByID(1)
	assert.Equal(t, 17, book.AvailableStock)

	catalog.SetStock(42, 5) // absent, no-op
	_, ok := catalog.GetByID(42)
	assert.False(t, ok)
}

func TestDerivedViews(t *testing.T) {
	svc := &fakeService{books: []domain.Book{
		{ID: 1, Title: "sold out", AvailableStock: 0},
		{ID: 2, Title: "low", AvailableStock: 3},
		{ID: 3, Title: "plenty", AvailableStock: 10},
		{ID: 4, Title: "edge", AvailableStock: 5},
	}}
	catalog := NewCatalog(svc, nil)
	catalog.FetchAll(context.Background())

	available := catalog.Available()
	require.Len(t, available, 3)
	assert.Equal(t, []int{2, 3, 4}, []int{available[0].ID, available[1].ID, available[2].ID})

	low := catalog.LowStock()
	require.Len(t, low, 1, "stock of exactly 5 is not low")
	assert.Equal(t, 2, low[0].ID)

	out := catalog.OutOfStock()
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].ID)
}
