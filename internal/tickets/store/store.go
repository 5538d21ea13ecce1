// Package store provides the ticket entities and the key-value storage layer.
// Exactly one store is authoritative per deployment; stores are never merged.
package store

import "context"

// DefaultKey is the collection key under which the ticket list lives.
const DefaultKey = "tickets"

// Store is a key-value ticket collection: whole lists in, whole lists out.
// Writes are last-write-wins with no conflict detection.
type Store interface {
	// Get returns the ticket list stored under key. A missing key yields an
	// empty list, not an error.
	Get(ctx context.Context, key string) ([]Ticket, error)
	// Set replaces the ticket list stored under key.
	Set(ctx context.Context, key string, list []Ticket) error
}
