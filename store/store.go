// Package store holds the canonical in-memory state for every entity
// collection (items, spaces, item-space links, conversations, theme) and
// mirrors each mutation to durable key/value storage. In-memory state is
// the source of truth for the running session: persistence failures are
// logged and swallowed, never surfaced to the caller.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/memexlabs/memex/kv"
)

const (
	keyItems         = "items"
	keySpaces        = "spaces"
	keyLinks         = "item_spaces"
	keyConversations = "conversations"
	keyTheme         = "theme"
)

var ErrNotFound = errors.New("not found")

type Option func(*Store)

func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Store is constructed once at process start and injected into consumers.
// All reads and writes go through one mutex; actions replace-and-persist
// the full collection in a single step.
type Store struct {
	persist kv.Store
	log     *slog.Logger
	now     func() int64 // unix millis

	mu     sync.Mutex
	items  []Item
	spaces []Space
	links  []ItemSpace
	convs  []Conversation
	theme  Theme

	lmu       sync.Mutex
	listeners []func(Event)
}

func New(persist kv.Store, opts ...Option) *Store {
	s := &Store{
		persist: persist,
		log:     slog.Default(),
		now:     func() int64 { return time.Now().UnixMilli() },
		theme:   Theme{Mode: ThemeSystem},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load hydrates every collection from durable storage. Read errors leave
// the affected collection empty; they are logged, not returned, so callers
// can treat hydration as fire-and-forget.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadCollection(ctx, keyItems, &s.items)
	s.loadCollection(ctx, keySpaces, &s.spaces)
	s.loadCollection(ctx, keyLinks, &s.links)
	s.loadCollection(ctx, keyConversations, &s.convs)

	var theme Theme
	if ok := s.loadValue(ctx, keyTheme, &theme); ok && theme.Mode != "" {
		s.theme = theme
	}
}

func (s *Store) loadCollection(ctx context.Context, key string, dst any) {
	s.loadValue(ctx, key, dst)
}

func (s *Store) loadValue(ctx context.Context, key string, dst any) bool {
	if s.persist == nil {
		return false
	}
	data, ok, err := s.persist.Get(ctx, key)
	if err != nil {
		s.log.Warn("hydrate failed, starting empty", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Warn("hydrate decode failed, starting empty", "key", key, "error", err)
		return false
	}
	return true
}

// persistLocked writes the full collection for key. Must be called with
// s.mu held. Failures are logged and swallowed.
func (s *Store) persistLocked(key string, v any) {
	if s.persist == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("persist encode failed", "key", key, "error", err)
		return
	}
	if err := s.persist.Put(context.Background(), key, data); err != nil {
		s.log.Warn("persist write failed", "key", key, "error", err)
	}
}

// --- items ---

func (s *Store) SetItems(items []Item) {
	s.mu.Lock()
	s.items = append([]Item(nil), items...)
	s.persistLocked(keyItems, s.items)
	s.mu.Unlock()
	s.emit(Event{Entity: EntityItem, Action: ActionSet})
}

func (s *Store) AddItem(item Item) {
	s.mu.Lock()
	s.items = append(s.items, item)
	s.persistLocked(keyItems, s.items)
	s.mu.Unlock()
	s.emit(Event{Entity: EntityItem, Action: ActionAdd, ID: item.ID})
}

func (s *Store) UpdateItem(item Item) error {
	s.mu.Lock()
	idx := -1
	for i := range s.items {
		if s.items[i].ID == item.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	item.UpdatedAt = s.now()
	s.items[idx] = item
	s.persistLocked(keyItems, s.items)
	s.mu.Unlock()
	s.emit(Event{Entity: EntityItem, Action: ActionUpdate, ID: item.ID})
	return nil
}

// RemoveItem deletes the item only. Link cleanup is the caller's
// responsibility; see RemoveItemLinks.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	out := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	s.items = out
	s.persistLocked(keyItems, s.items)
	s.mu.Unlock()
	s.emit(Event{Entity: EntityItem, Action: ActionRemove, ID: id})
}

// --- spaces ---

func (s *Store) SetSpaces(spaces []Space) {
	s.mu.Lock()
	s.spaces = append([]Space(nil), spaces...)
	s.persistLocked(keySpaces, s.spaces)
	s.mu.Unlock()
	s.emit(Event{Entity: EntitySpace, Action: ActionSet})
}

func (s *Store) AddSpace(space Space) {
	s.mu.Lock()
	s.spaces = append(s.spaces, space)
	s.persistLocked(keySpaces, s.spaces)
	s.mu.Unlock()
	s.emit(Event{Entity: EntitySpace, Action: ActionAdd, ID: space.ID})
}

func (s *Store) UpdateSpace(space Space) error {
	s.mu.Lock()
	idx := -1
	for i := range s.spaces {
		if s.spaces[i].ID == space.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	space.UpdatedAt = s.now()
	space.ItemCount = s.countLinksLocked(space.ID)
	s.spaces[idx] = space
	s.persistLocked(keySpaces, s.spaces)
	s.mu.Unlock()
	s.emit(Event{Entity: EntitySpace, Action: ActionUpdate, ID: space.ID})
	return nil
}

// RemoveSpace deletes the space only; it does not cascade to links.
// Callers that want cleanup call RemoveSpaceLinks first.
func (s *Store) RemoveSpace(id string) {
	s.mu.Lock()
	out := s.spaces[:0]
	for _, sp := range s.spaces {
		if sp.ID != id {
			out = append(out, sp)
		}
	}
	s.spaces = out
	s.persistLocked(keySpaces, s.spaces)
	s.mu.Unlock()
	s.emit(Event{Entity: EntitySpace, Action: ActionRemove, ID: id})
}

// --- item-space links ---

// AddItemToSpace is idempotent: a second add of the same pair is a no-op
// and leaves the space's cached item count unchanged.
func (s *Store) AddItemToSpace(itemID, spaceID string) {
	s.mu.Lock()
	for _, l := range s.links {
		if l.ItemID == itemID && l.SpaceID == spaceID {
			s.mu.Unlock()
			return
		}
	}
	s.links = append(s.links, ItemSpace{ItemID: itemID, SpaceID: spaceID, CreatedAt: s.now()})
	s.refreshCountLocked(spaceID)
	s.persistLocked(keyLinks, s.links)
	s.persistLocked(keySpaces, s.spaces)
	s.mu.Unlock()
	s.emit(Event{Entity: EntityLink, Action: ActionAdd, ID: itemID + ":" + spaceID})
}

func (s *Store) RemoveItemFromSpace(itemID, spaceID string) {
	s.mu.Lock()
	out := s.links[:0]
	removed := false
	for _, l := range s.links {
		if l.ItemID == itemID && l.SpaceID == spaceID {
			removed = true
			continue
		}
		out = append(out, l)
	}
	s.links = out
	if !removed {
		s.mu.Unlock()
		return
	}
	s.refreshCountLocked(spaceID)
	s.persistLocked(keyLinks, s.links)
	s.persistLocked(keySpaces, s.spaces)
	s.mu.Unlock()
	s.emit(Event{Entity: EntityLink, Action: ActionRemove, ID: itemID + ":" + spaceID})
}

// RemoveItemLinks drops every link referencing the item. Companion to
// RemoveItem for callers that want full cleanup.
func (s *Store) RemoveItemLinks(itemID string) {
	s.removeLinksWhere(func(l ItemSpace) bool { return l.ItemID == itemID })
}

// RemoveSpaceLinks drops every link referencing the space.
func (s *Store) RemoveSpaceLinks(spaceID string) {
	s.removeLinksWhere(func(l ItemSpace) bool { return l.SpaceID == spaceID })
}

func (s *Store) removeLinksWhere(match func(ItemSpace) bool) {
	s.mu.Lock()
	touched := map[string]bool{}
	out := s.links[:0]
	for _, l := range s.links {
		if match(l) {
			touched[l.SpaceID] = true
			continue
		}
		out = append(out, l)
	}
	s.links = out
	if len(touched) == 0 {
		s.mu.Unlock()
		return
	}
	for spaceID := range touched {
		s.refreshCountLocked(spaceID)
	}
	s.persistLocked(keyLinks, s.links)
	s.persistLocked(keySpaces, s.spaces)
	s.mu.Unlock()
	s.emit(Event{Entity: EntityLink, Action: ActionRemove})
}

func (s *Store) countLinksLocked(spaceID string) int {
	n := 0
	for _, l := range s.links {
		if l.SpaceID == spaceID {
			n++
		}
	}
	return n
}

func (s *Store) refreshCountLocked(spaceID string) {
	for i := range s.spaces {
		if s.spaces[i].ID == spaceID {
			s.spaces[i].ItemCount = s.countLinksLocked(spaceID)
			s.spaces[i].UpdatedAt = s.now()
			return
		}
	}
}

// --- conversations ---

// EnsureConversation returns the conversation with the given id, creating
// it if needed. An empty id creates a conversation with a fresh uuid.
func (s *Store) EnsureConversation(id string) Conversation {
	s.mu.Lock()
	if id != "" {
		for _, c := range s.convs {
			if c.ID == id {
				cp := cloneConversation(c)
				s.mu.Unlock()
				return cp
			}
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	now := s.now()
	conv := Conversation{ID: id, CreatedAt: now, UpdatedAt: now}
	s.convs = append(s.convs, conv)
	s.persistLocked(keyConversations, s.convs)
	s.mu.Unlock()
	s.emit(Event{Entity: EntityConversation, Action: ActionAdd, ID: id})
	return conv
}

// AppendMessage appends msg to the conversation in one atomic step under
// the store lock, so two rapid sends cannot lose an update. Messages stay
// strictly ordered: the assigned timestamp always advances past the last
// message and the conversation's updated_at.
func (s *Store) AppendMessage(convID string, msg Message) (Message, error) {
	if convID == "" {
		return Message{}, ErrNotFound
	}
	s.mu.Lock()
	idx := -1
	for i := range s.convs {
		if s.convs[i].ID == convID {
			idx = i
			break
		}
	}
	if idx < 0 {
		now := s.now()
		s.convs = append(s.convs, Conversation{ID: convID, CreatedAt: now, UpdatedAt: now})
		idx = len(s.convs) - 1
	}
	conv := &s.convs[idx]

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	ts := s.now()
	if n := len(conv.Messages); n > 0 && ts <= conv.Messages[n-1].CreatedAt {
		ts = conv.Messages[n-1].CreatedAt + 1
	}
	if ts <= conv.UpdatedAt {
		ts = conv.UpdatedAt + 1
	}
	msg.CreatedAt = ts
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = ts

	s.persistLocked(keyConversations, s.convs)
	s.mu.Unlock()
	s.emit(Event{Entity: EntityConversation, Action: ActionUpdate, ID: convID})
	return msg, nil
}

func (s *Store) SetConversationTitle(convID, title string) error {
	s.mu.Lock()
	for i := range s.convs {
		if s.convs[i].ID == convID {
			s.convs[i].Title = title
			s.convs[i].UpdatedAt = s.now()
			s.persistLocked(keyConversations, s.convs)
			s.mu.Unlock()
			s.emit(Event{Entity: EntityConversation, Action: ActionUpdate, ID: convID})
			return nil
		}
	}
	s.mu.Unlock()
	return ErrNotFound
}

func (s *Store) RemoveConversation(id string) {
	s.mu.Lock()
	out := s.convs[:0]
	for _, c := range s.convs {
		if c.ID != id {
			out = append(out, c)
		}
	}
	s.convs = out
	s.persistLocked(keyConversations, s.convs)
	s.mu.Unlock()
	s.emit(Event{Entity: EntityConversation, Action: ActionRemove, ID: id})
}

// --- theme ---

func (s *Store) SetTheme(theme Theme) {
	s.mu.Lock()
	s.theme = theme
	s.persistLocked(keyTheme, s.theme)
	s.mu.Unlock()
	s.emit(Event{Entity: EntityTheme, Action: ActionSet})
}

func cloneConversation(c Conversation) Conversation {
	cp := c
	cp.Messages = append([]Message(nil), c.Messages...)
	return cp
}
