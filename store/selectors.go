package store

import (
	"sort"
	"strings"
)

// Selectors are pure reads over current state: they take the lock, copy,
// and never mutate, so they are safe to call on every render.

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

func (s *Store) ItemByID(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func (s *Store) Spaces() []Space {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Space(nil), s.spaces...)
}

func (s *Store) SpaceByID(id string) (Space, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sp := range s.spaces {
		if sp.ID == id {
			return sp, true
		}
	}
	return Space{}, false
}

// ActiveSpaces excludes archived spaces. Archived spaces stay retrievable
// through SpaceByID.
func (s *Store) ActiveSpaces() []Space {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Space, 0, len(s.spaces))
	for _, sp := range s.spaces {
		if !sp.Archived {
			out = append(out, sp)
		}
	}
	return out
}

func (s *Store) Links() []ItemSpace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ItemSpace(nil), s.links...)
}

// ItemCount recomputes the link count for a space; it always agrees with
// the cached Space.ItemCount.
func (s *Store) ItemCount(spaceID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLinksLocked(spaceID)
}

func (s *Store) ItemsInSpace(spaceID string) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	member := make(map[string]bool)
	for _, l := range s.links {
		if l.SpaceID == spaceID {
			member[l.ItemID] = true
		}
	}
	out := make([]Item, 0, len(member))
	for _, it := range s.items {
		if member[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

// SearchItems is a case-insensitive substring match over title, url and
// enrichment description. Archived items are excluded.
func (s *Store) SearchItems(query string, limit int) []Item {
	query = strings.ToLower(strings.TrimSpace(query))
	if limit <= 0 {
		limit = 20
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, 0, limit)
	for _, it := range s.items {
		if it.Archived {
			continue
		}
		if query != "" && !itemMatches(it, query) {
			continue
		}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}

func itemMatches(it Item, query string) bool {
	if strings.Contains(strings.ToLower(it.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(it.URL), query) {
		return true
	}
	if it.Meta != nil && strings.Contains(strings.ToLower(it.Meta.Description), query) {
		return true
	}
	return false
}

func (s *Store) Conversations() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Conversation, 0, len(s.convs))
	for _, c := range s.convs {
		out = append(out, cloneConversation(c))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt > out[j].UpdatedAt })
	return out
}

func (s *Store) ConversationByID(id string) (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.convs {
		if c.ID == id {
			return cloneConversation(c), true
		}
	}
	return Conversation{}, false
}

func (s *Store) Messages(convID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.convs {
		if c.ID == convID {
			return append([]Message(nil), c.Messages...)
		}
	}
	return nil
}

// VisibleMessages returns the conversation's messages with system and tool
// roles filtered out, the shape rendering and export consume.
func (s *Store) VisibleMessages(convID string) []Message {
	all := s.Messages(convID)
	out := make([]Message, 0, len(all))
	for _, m := range all {
		if m.Role == RoleSystem || m.Role == RoleTool {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (s *Store) Theme() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// Counts reports collection sizes, used by the architect-mode tools.
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		"items":         len(s.items),
		"spaces":        len(s.spaces),
		"item_spaces":   len(s.links),
		"conversations": len(s.convs),
	}
}
