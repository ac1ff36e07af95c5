package backend

import (
	"context"

	"github.com/memexlabs/memex/store"
)

// Noop accepts every call and does nothing. Used when no remote backend
// is configured and in tests.
type Noop struct {
	UserID string
}

func NewNoop(userID string) *Noop { return &Noop{UserID: userID} }

func (n *Noop) CreateItem(context.Context, store.Item) error   { return nil }
func (n *Noop) UpdateItem(context.Context, store.Item) error   { return nil }
func (n *Noop) DeleteItem(context.Context, string) error       { return nil }
func (n *Noop) CreateSpace(context.Context, store.Space) error { return nil }
func (n *Noop) UpdateSpace(context.Context, store.Space) error { return nil }
func (n *Noop) DeleteSpace(context.Context, string) error      { return nil }

func (n *Noop) AddItemToSpace(context.Context, string, string) error      { return nil }
func (n *Noop) RemoveItemFromSpace(context.Context, string, string) error { return nil }

func (n *Noop) SaveConversation(context.Context, store.Conversation) error { return nil }

func (n *Noop) CurrentUserID() string { return n.UserID }
