// Package backend mirrors local mutations out to the remote table-like
// API. Propagation is one-way (client to remote): the service never
// mutates the local store, and a failed call never rolls local state back.
package backend

import (
	"context"

	"github.com/memexlabs/memex/store"
)

// Service has one method per entity/relationship mutation. Callers may
// await a call when the user expects confirmation, or hand it to a
// Dispatcher for fire-and-forget delivery.
type Service interface {
	CreateItem(ctx context.Context, item store.Item) error
	UpdateItem(ctx context.Context, item store.Item) error
	DeleteItem(ctx context.Context, itemID string) error

	CreateSpace(ctx context.Context, space store.Space) error
	UpdateSpace(ctx context.Context, space store.Space) error
	DeleteSpace(ctx context.Context, spaceID string) error

	AddItemToSpace(ctx context.Context, itemID, spaceID string) error
	RemoveItemFromSpace(ctx context.Context, itemID, spaceID string) error

	SaveConversation(ctx context.Context, conv store.Conversation) error

	// CurrentUserID returns the authenticated user id, or "" when there
	// is no session.
	CurrentUserID() string
}
