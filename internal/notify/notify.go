// Package notify carries outcome notifications from the core to whatever
// surface renders them. The core only produces payloads; rendering is an
// external concern.
package notify

import (
	"sync"
	"time"

	"circlepos/pkg/uid"
)

// Type is the notification severity.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Default display timeouts per type. Errors are persistent and have none.
const (
	defaultTimeout        = 5 * time.Second
	defaultWarningTimeout = 7 * time.Second
)

// Action is an affordance attached to a notification, e.g. a retry.
type Action struct {
	Label   string
	Run     func()
	Primary bool
}

// Notification is one outcome message produced by the core.
type Notification struct {
	ID         string
	Type       Type
	Title      string
	Message    string
	Actions    []Action
	Persistent bool
	Timeout    time.Duration
}

// Notifier receives notifications produced by the core and returns the
// assigned notification ID.
type Notifier interface {
	Publish(n Notification) string
}

// Center is an in-memory Notifier that assigns IDs, applies per-type default
// timeouts and expires non-persistent entries automatically.
type Center struct {
	mu      sync.Mutex
	entries []Notification
}

// NewCenter creates an empty notification center.
func NewCenter() *Center {
	return &Center{}
}

// Publish stores a notification and schedules its expiry unless it is
// persistent.
func (c *Center) Publish(n Notification) string {
	if n.ID == "" {
		n.ID = uid.New()
	}
	if n.Timeout == 0 && !n.Persistent {
		if n.Type == TypeWarning {
			n.Timeout = defaultWarningTimeout
		} else {
			n.Timeout = defaultTimeout
		}
	}

	c.mu.Lock()
	c.entries = append(c.entries, n)
	c.mu.Unlock()

	if !n.Persistent && n.Timeout > 0 {
		id := n.ID
		time.AfterFunc(n.Timeout, func() { c.Dismiss(id) })
	}

	return n.ID
}

// Dismiss removes a notification by ID. Unknown IDs are a no-op.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.entries {
		if n.ID == id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// Clear removes all notifications.
func (c *Center) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// Notifications returns a copy of the currently visible notifications.
func (c *Center) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.entries))
	copy(out, c.entries)
	return out
}

// Success publishes a success notification with the default timeout.
func (c *Center) Success(title, message string) string {
	return c.Publish(Notification{Type: TypeSuccess, Title: title, Message: message})
}

// Error publishes a persistent error notification with optional actions.
func (c *Center) Error(title, message string, actions ...Action) string {
	return c.Publish(Notification{
		Type:       TypeError,
		Title:      title,
		Message:    message,
		Actions:    actions,
		Persistent: true,
	})
}

// Warning publishes a warning notification.
func (c *Center) Warning(title, message string) string {
	return c.Publish(Notification{Type: TypeWarning, Title: title, Message: message})
}

// Info publishes an info notification.
func (c *Center) Info(title, message string) string {
	return c.Publish(Notification{Type: TypeInfo, Title: title, Message: message})
}
