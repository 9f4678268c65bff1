package store

import (
	"context"
	"errors"
	"sync"

	"circlepos/internal/domain"
	"circlepos/internal/notify"

	"github.com/stretchr/testify/require"
)

// fakeService is a controllable BookService. Setting a block channel makes
// the corresponding call wait until the channel is closed, so tests can hold
// an operation in flight.
type fakeService struct {
	mu sync.Mutex

	books         []domain.Book
	booksErr      error
	getBooksCalls int
	blockBooks    chan struct{}

	purchaseResp  domain.PurchaseResponse
	purchaseErr   error
	purchaseCalls int
	blockPurchase chan struct{}
}

func (f *fakeService) GetBooks(ctx context.Context) ([]domain.Book, error) {
	f.mu.Lock()
	f.getBooksCalls++
	block := f.blockBooks
	books, err := f.books, f.booksErr
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return books, err
}

func (f *fakeService) GetBook(ctx context.Context, id int) (domain.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Book{}, errors.New("book not found")
}

func (f *fakeService) PurchaseBook(ctx context.Context, id int) (domain.PurchaseResponse, error) {
	f.mu.Lock()
	f.purchaseCalls++
	block := f.blockPurchase
	resp, err := f.purchaseResp, f.purchaseErr
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return resp, err
}

func (f *fakeService) calls() (getBooks, purchases int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getBooksCalls, f.purchaseCalls
}

// fakeNotifier records published notifications.
type fakeNotifier struct {
	mu        sync.Mutex
	published []notify.Notification
}

func (f *fakeNotifier) Publish(n notify.Notification) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, n)
	return n.ID
}

func (f *fakeNotifier) all() []notify.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Notification, len(f.published))
	copy(out, f.published)
	return out
}

func (f *fakeNotifier) last(t require.TestingT) notify.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.published)
	return f.published[len(f.published)-1]
}

func dune(stock int) domain.Book {
	return domain.Book{
		ID:             1,
		Title:          "Dune",
		Author:         "Herbert",
		ISBN:           "9780441013593",
		Price:          9.99,
		AvailableStock: stock,
	}
}
