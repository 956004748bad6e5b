// Package notifier publishes item lifecycle events to interested parties.
package notifier

import (
	"context"
)

// Routing keys of the published events.
const (
	ItemPosted  = "item.posted"
	ItemClaimed = "item.claimed"
	ItemDeleted = "item.deleted"
)

type (
	// A Notifier publishes item events.
	Notifier interface {
		// Publish sends the given event.
		Publish(ctx context.Context, event Event) error
		// Close releases the underlying resources.
		Close() error
	}

	// An Event describes something that happened to an item.
	Event struct {
		Kind      string `json:"kind"`
		ItemID    string `json:"item_id"`
		Status    string `json:"status"`
		Title     string `json:"title"`
		PostedID  string `json:"posted_id"`
		ActorID   string `json:"actor_id"`
		Timestamp int64  `json:"timestamp"`
	}

	nop struct{}
)

// Nop returns a Notifier that discards all the events.
func Nop() Notifier {
	return nop{}
}

func (nop) Publish(context.Context, Event) error {
	return nil
}

func (nop) Close() error {
	return nil
}
