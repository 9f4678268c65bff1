package api

import (
	"log"

	"circlepos/internal/validate"
)

// Diagnostic logging for classified failures. Field paths, expected shapes
// and raw payloads are recorded here and never put into user-facing
// messages.

func (c *Client) logValidationError(err *validate.Error, endpoint string) {
	if !c.debug {
		return
	}
	log.Printf("[api] validation error: endpoint=%s field=%s expected=%q received=%v: %s",
		endpoint, err.Field, err.Expected, err.Received, err.Message)
}

func (c *Client) logNetworkError(msg, endpoint string) {
	if !c.debug {
		return
	}
	log.Printf("[api] network error: endpoint=%s: %s", endpoint, msg)
}

func (c *Client) logServerError(msg, endpoint string, status int) {
	if !c.debug {
		return
	}
	log.Printf("[api] server error: endpoint=%s status=%d: %s", endpoint, status, msg)
}

func logPurchaseResponse(endpoint string, raw any) {
	log.Printf("[api] purchase response: endpoint=%s data=%v", endpoint, raw)
}
