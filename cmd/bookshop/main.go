package main

import (
	"context"
	"flag"
	"log"

	"circlepos/internal/api"
	"circlepos/internal/config"
	"circlepos/internal/domain"
	"circlepos/internal/notify"
	"circlepos/internal/store"
)

// consoleNotifier renders core notifications to the log. The core only
// produces payloads; this is the simplest possible surface.
type consoleNotifier struct {
	center *notify.Center
}

func (n *consoleNotifier) Publish(notification notify.Notification) string {
	log.Printf("[%s] %s: %s", notification.Type, notification.Title, notification.Message)
	for _, action := range notification.Actions {
		log.Printf("  action available: %s", action.Label)
	}
	return n.center.Publish(notification)
}

func main() {
	buyID := flag.Int("buy", 0, "purchase the book with this ID after loading the catalog")
	flag.Parse()

	cfg := config.MustLoad()

	log.Printf("Starting %s in %s mode against %s", cfg.App.Name, cfg.App.Environment, cfg.API.BaseURL)

	client := api.New(api.Options{
		BaseURL:        cfg.API.BaseURL,
		RequestTimeout: cfg.API.RequestTimeout,
		MaxRetries:     cfg.API.MaxRetries,
		BaseDelay:      cfg.API.RetryBaseDelay,
		MaxJitter:      cfg.API.RetryMaxJitter,
		Debug:          cfg.App.Debug,
	})

	notifier := &consoleNotifier{center: notify.NewCenter()}
	catalog := store.NewCatalog(client, notifier)
	purchases := store.NewPurchases(client, catalog, notifier)

	ctx := context.Background()
	catalog.FetchAll(ctx)

	if err := catalog.LastError(); err != "" {
		log.Fatalf("Catalog fetch failed: %s", err)
	}

	books := catalog.Books()
	log.Printf("Catalog loaded: %d books (%d available, %d low stock, %d out of stock)",
		len(books), len(catalog.Available()), len(catalog.LowStock()), len(catalog.OutOfStock()))
	for _, b := range books {
		log.Printf("  #%d %q by %s: $%.2f, %d in stock (cover: %s)",
			b.ID, b.Title, b.Author, b.Price, b.AvailableStock, domain.CoverURL(b.ISBN, domain.CoverMedium))
	}

	if *buyID != 0 {
		if purchases.Purchase(ctx, *buyID) {
			if book, ok := catalog.GetByID(*buyID); ok {
				log.Printf("Purchased %q, %d left in stock", book.Title, book.AvailableStock)
			}
		}
		for _, r := range purchases.History() {
			log.Printf("  history: %s book=%d %q $%.2f at %s",
				r.Status, r.BookID, r.BookTitle, r.Price, r.PurchasedAt.Format("15:04:05"))
		}
	}
}

// init sets up logging format
func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
}
