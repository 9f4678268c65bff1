package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishAssignsIDAndDefaults(t *testing.T) {
	center := NewCenter()

	id := center.Success("Done", "all good")
	require.NotEmpty(t, id)

	entries := center.Notifications()
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, TypeSuccess, entries[0].Type)
	assert.Equal(t, 5*time.Second, entries[0].Timeout)
	assert.False(t, entries[0].Persistent)
}

func TestWarningHasLongerTimeout(t *testing.T) {
	center := NewCenter()
	center.Warning("Heads up", "low stock")

	entries := center.Notifications()
	require.Len(t, entries, 1)
	assert.Equal(t, 7*time.Second, entries[0].Timeout)
}

func TestErrorIsPersistent(t *testing.T) {
	center := NewCenter()
	center.Error("Purchase Failed", "boom", Action{Label: "Try Again", Run: func() {}, Primary: true})

	entries := center.Notifications()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Persistent)
	assert.Zero(t, entries[0].Timeout)
	require.Len(t, entries[0].Actions, 1)

	// Persistent notifications stay until dismissed.
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, center.Notifications(), 1)
}

func TestNonPersistentAutoExpires(t *testing.T) {
	center := NewCenter()
	center.Publish(Notification{Type: TypeInfo, Title: "hi", Message: "there", Timeout: 10 * time.Millisecond})

	require.Eventually(t, func() bool {
		return len(center.Notifications()) == 0
	}, time.Second, time.Millisecond)
}

func TestDismissAndClear(t *testing.T) {
	center := NewCenter()
	id := center.Error("a", "b")
	center.Error("c", "d")

	center.Dismiss(id)
	entries := center.Notifications()
	require.Len(t, entries, 1)
	assert.Equal(t, "c", entries[0].Title)

	center.Dismiss("no-such-id") // no-op
	assert.Len(t, center.Notifications(), 1)

	center.Clear()
	assert.Empty(t, center.Notifications())
}
