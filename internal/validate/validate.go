// Package validate checks untyped API payloads against the catalog contract.
//
// All functions are pure: they either produce a typed value or fail with an
// *Error locating the exact offending field. Validation stops at the first
// failing field per record; it does not accumulate errors.
package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"

	"circlepos/internal/domain"
)

// Field rules for a Book.
const (
	minBookID  = 1
	minTextLen = 1
	maxTextLen = 255
	minPrice   = 0.01
	minStock   = 0
)

const defaultPurchaseMessage = "Purchase completed successfully"

var isbnPattern = regexp.MustCompile(`^\d{10}$|^\d{13}$`)

// Error reports a single contract violation. Field is a dotted path into the
// source payload (e.g. "books[3].isbn"), Expected describes the required
// shape, and Received carries the raw offending value for diagnostics.
type Error struct {
	Message  string
	Field    string
	Expected string
	Received any
}

func (e *Error) Error() string {
	return e.Message
}

func newError(field, expected string, received any, format string, args ...any) *Error {
	return &Error{
		Message:  fmt.Sprintf(format, args...),
		Field:    field,
		Expected: expected,
		Received: received,
	}
}

// asNumber accepts JSON numbers. Decoders hand them over as float64, or as
// json.Number when configured with UseNumber.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	case json.Number:
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

func fieldPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// Book validates a single book record located at path within the source
// payload.
func Book(data any, path string) (domain.Book, error) {
	obj, ok := asObject(data)
	if !ok {
		return domain.Book{}, newError(path, "object", data, "expected object at %s", path)
	}

	id, ok := asNumber(obj["id"])
	if !ok || id < minBookID || id != math.Trunc(id) {
		return domain.Book{}, newError(fieldPath(path, "id"),
			fmt.Sprintf("number >= %d", minBookID), obj["id"],
			"invalid book ID at %s", fieldPath(path, "id"))
	}

	title, ok := asString(obj["title"])
	if !ok || len(title) < minTextLen || len(title) > maxTextLen {
		return domain.Book{}, newError(fieldPath(path, "title"),
			fmt.Sprintf("string (%d-%d chars)", minTextLen, maxTextLen), obj["title"],
			"invalid book title at %s", fieldPath(path, "title"))
	}

	author, ok := asString(obj["author"])
	if !ok || len(author) < minTextLen || len(author) > maxTextLen {
		return domain.Book{}, newError(fieldPath(path, "author"),
			fmt.Sprintf("string (%d-%d chars)", minTextLen, maxTextLen), obj["author"],
			"invalid book author at %s", fieldPath(path, "author"))
	}

	isbn, ok := asString(obj["isbn"])
	if !ok || !isbnPattern.MatchString(isbn) {
		return domain.Book{}, newError(fieldPath(path, "isbn"),
			"10 or 13 digit string", obj["isbn"],
			"invalid book ISBN at %s", fieldPath(path, "isbn"))
	}

	price, ok := asNumber(obj["price"])
	if !ok || price < minPrice {
		return domain.Book{}, newError(fieldPath(path, "price"),
			fmt.Sprintf("number >= %v", minPrice), obj["price"],
			"invalid book price at %s", fieldPath(path, "price"))
	}

	stock, ok := asNumber(obj["availableStock"])
	if !ok || stock < minStock || stock != math.Trunc(stock) {
		return domain.Book{}, newError(fieldPath(path, "availableStock"),
			fmt.Sprintf("number >= %d", minStock), obj["availableStock"],
			"invalid book stock at %s", fieldPath(path, "availableStock"))
	}

	return domain.Book{
		ID:             int(id),
		Title:          title,
		Author:         author,
		ISBN:           isbn,
		Price:          price,
		AvailableStock: int(stock),
	}, nil
}

// BooksResponse validates the GET /books envelope. Each element is validated
// independently with its index in the field path, so a failure is traceable
// to the exact offending entry.
func BooksResponse(data any) (domain.BooksResponse, error) {
	obj, ok := asObject(data)
	if !ok {
		return domain.BooksResponse{}, newError("", "object", data,
			"expected object for books response")
	}

	rawBooks, ok := asArray(obj["books"])
	if !ok {
		return domain.BooksResponse{}, newError("books", "array", obj["books"],
			"expected books array")
	}

	books := make([]domain.Book, 0, len(rawBooks))
	for i, raw := range rawBooks {
		book, err := Book(raw, fmt.Sprintf("books[%d]", i))
		if err != nil {
			return domain.BooksResponse{}, err
		}
		books = append(books, book)
	}

	return domain.BooksResponse{Books: books}, nil
}

// BookDetailResponse validates the GET /books/{id} envelope.
func BookDetailResponse(data any) (domain.BookDetailResponse, error) {
	obj, ok := asObject(data)
	if !ok {
		return domain.BookDetailResponse{}, newError("", "object", data,
			"expected object for book detail response")
	}

	book, err := Book(obj["book"], "book")
	if err != nil {
		return domain.BookDetailResponse{}, err
	}

	return domain.BookDetailResponse{Book: book}, nil
}

// PurchaseResponse validates the POST /books/{id}/purchase envelope. Optional
// fields are permissive: success defaults to true when absent, message to a
// canned success string, and book/transactionId/orderId are only carried over
// when present and well-typed.
func PurchaseResponse(data any) (domain.PurchaseResponse, error) {
	obj, ok := asObject(data)
	if !ok {
		return domain.PurchaseResponse{}, newError("", "object", data,
			"expected object for purchase response")
	}

	resp := domain.PurchaseResponse{
		Success: true,
		Message: defaultPurchaseMessage,
	}

	if raw, present := obj["success"]; present {
		resp.Success = truthy(raw)
	}
	if msg, ok := asString(obj["message"]); ok {
		resp.Message = msg
	}

	if raw, present := obj["book"]; present {
		book, err := Book(raw, "book")
		if err != nil {
			return domain.PurchaseResponse{}, err
		}
		resp.Book = &book
	}

	if id, ok := asString(obj["transactionId"]); ok {
		resp.TransactionID = id
	}
	if id, ok := asString(obj["orderId"]); ok {
		resp.OrderID = id
	}

	return resp, nil
}

// truthy mirrors loose boolean coercion of JSON values: false, 0, "" and
// null are false, everything else is true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}
