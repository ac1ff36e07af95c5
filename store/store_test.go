package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/memexlabs/memex/kv"
)

func newTestStore(t *testing.T) (*Store, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemoryStore()
	return New(mem), mem
}

func TestAddItemToSpace_Idempotent(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddSpace(Space{ID: "s1", Name: "Reading"})
	s.AddItem(Item{ID: "i1", Title: "a"})

	s.AddItemToSpace("i1", "s1")
	s.AddItemToSpace("i1", "s1")

	if got := len(s.Links()); got != 1 {
		t.Fatalf("expected exactly 1 link, got %d", got)
	}
	sp, _ := s.SpaceByID("s1")
	if sp.ItemCount != 1 {
		t.Fatalf("expected item count 1, got %d", sp.ItemCount)
	}
}

func TestItemCount_ConsistentWithLinks(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddSpace(Space{ID: "s1", Name: "Reading"})
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("i%d", i)
		s.AddItem(Item{ID: id})
		s.AddItemToSpace(id, "s1")
	}
	s.RemoveItemFromSpace("i1", "s1")
	s.RemoveItemFromSpace("i3", "s1")
	s.RemoveItemFromSpace("i3", "s1") // second remove is a no-op
	s.AddItemToSpace("i1", "s1")

	want := 0
	for _, l := range s.Links() {
		if l.SpaceID == "s1" {
			want++
		}
	}
	sp, _ := s.SpaceByID("s1")
	if sp.ItemCount != want {
		t.Fatalf("cached count %d != link count %d", sp.ItemCount, want)
	}
	if s.ItemCount("s1") != want {
		t.Fatalf("ItemCount() %d != link count %d", s.ItemCount("s1"), want)
	}
}

func TestRemoveSpace_DoesNotCascadeLinks(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddSpace(Space{ID: "s1"})
	s.AddItem(Item{ID: "i1"})
	s.AddItemToSpace("i1", "s1")

	s.RemoveSpace("s1")
	if got := len(s.Links()); got != 1 {
		t.Fatalf("RemoveSpace must not cascade; expected 1 link, got %d", got)
	}

	s.RemoveSpaceLinks("s1")
	if got := len(s.Links()); got != 0 {
		t.Fatalf("RemoveSpaceLinks should drop links, got %d", got)
	}
}

func TestActiveSpaces_ExcludesArchived(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddSpace(Space{ID: "s1", Name: "Active"})
	s.AddSpace(Space{ID: "s2", Name: "Old", Archived: true})

	active := s.ActiveSpaces()
	if len(active) != 1 || active[0].ID != "s1" {
		t.Fatalf("expected only s1 active, got %+v", active)
	}
	// Archived spaces stay retrievable by id.
	if _, ok := s.SpaceByID("s2"); !ok {
		t.Fatal("archived space should be retrievable by id")
	}
}

func TestAppendMessage_OrderingAndUpdatedAt(t *testing.T) {
	s, _ := newTestStore(t)
	// Freeze the clock so ordering depends on the monotonic bump, not on
	// wall time advancing between appends.
	s.now = func() int64 { return 1000 }

	conv := s.EnsureConversation("")
	m1, err := s.AppendMessage(conv.ID, Message{Role: RoleUser, Content: "Hello"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	m2, err := s.AppendMessage(conv.ID, Message{Role: RoleUser, Content: "How are you?"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if m1.CreatedAt >= m2.CreatedAt {
		t.Fatalf("expected strict ordering, got %d then %d", m1.CreatedAt, m2.CreatedAt)
	}
	msgs := s.Messages(conv.ID)
	if len(msgs) != 2 || msgs[0].Content != "Hello" || msgs[1].Content != "How are you?" {
		t.Fatalf("unexpected message order: %+v", msgs)
	}
	got, _ := s.ConversationByID(conv.ID)
	if got.UpdatedAt != m2.CreatedAt {
		t.Fatalf("conversation updated_at %d should equal last message ts %d", got.UpdatedAt, m2.CreatedAt)
	}
}

func TestAppendMessage_AutoCreatesConversation(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.AppendMessage("c1", Message{Role: RoleUser, Content: "hi"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, ok := s.ConversationByID("c1"); !ok {
		t.Fatal("expected conversation to be created on first append")
	}
	if _, err := s.AppendMessage("", Message{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty conversation id, got %v", err)
	}
}

func TestVisibleMessages_ExcludesSystemAndTool(t *testing.T) {
	s, _ := newTestStore(t)
	s.AppendMessage("c1", Message{Role: RoleSystem, Content: "sys"})
	s.AppendMessage("c1", Message{Role: RoleUser, Content: "hi"})
	s.AppendMessage("c1", Message{Role: RoleTool, Content: "{}"})
	s.AppendMessage("c1", Message{Role: RoleAssistant, Content: "hello"})

	visible := s.VisibleMessages("c1")
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible messages, got %d", len(visible))
	}
	if visible[0].Role != RoleUser || visible[1].Role != RoleAssistant {
		t.Fatalf("unexpected roles: %+v", visible)
	}
}

func TestPersistence_RoundTrip(t *testing.T) {
	mem := kv.NewMemoryStore()
	s1 := New(mem)
	s1.AddSpace(Space{ID: "s1", Name: "Reading", Color: "#ff0000", OwnerID: "u1", CreatedAt: 1, UpdatedAt: 1})
	s1.AddSpace(Space{ID: "s2", Name: "Work", Archived: true, CreatedAt: 2, UpdatedAt: 2})
	s1.AddItem(Item{ID: "i1", Title: "a", URL: "https://example.com", Type: ContentTypeBookmark,
		Meta: &ItemMeta{SiteName: "Example", Description: "desc"}})
	s1.AddItemToSpace("i1", "s1")
	s1.SetTheme(Theme{Mode: ThemeDark, AccentColor: "#00ff00"})

	s2 := New(mem)
	s2.Load(context.Background())

	if !reflect.DeepEqual(s1.Spaces(), s2.Spaces()) {
		t.Fatalf("spaces did not round trip:\n%+v\n%+v", s1.Spaces(), s2.Spaces())
	}
	if !reflect.DeepEqual(s1.Items(), s2.Items()) {
		t.Fatalf("items did not round trip:\n%+v\n%+v", s1.Items(), s2.Items())
	}
	if !reflect.DeepEqual(s1.Links(), s2.Links()) {
		t.Fatalf("links did not round trip")
	}
	if s2.Theme().Mode != ThemeDark {
		t.Fatalf("theme did not round trip: %+v", s2.Theme())
	}
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("disk gone")
}
func (failingKV) Put(context.Context, string, []byte) error { return errors.New("disk gone") }
func (failingKV) Delete(context.Context, string) error      { return errors.New("disk gone") }

func TestPersistErrors_SwallowedInMemoryAuthoritative(t *testing.T) {
	s := New(failingKV{})
	s.Load(context.Background()) // read errors default to empty, no panic

	s.AddItem(Item{ID: "i1", Title: "kept"})
	if _, ok := s.ItemByID("i1"); !ok {
		t.Fatal("in-memory state must survive persistence failure")
	}
}

func TestSubscribe_ReceivesEventPerAction(t *testing.T) {
	s, _ := newTestStore(t)
	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })
	// A panicking listener must not break the others.
	s.Subscribe(func(Event) { panic("listener bug") })

	s.AddSpace(Space{ID: "s1"})
	s.AddItem(Item{ID: "i1"})
	s.AddItemToSpace("i1", "s1")

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}
	if events[0].Entity != EntitySpace || events[0].Action != ActionAdd {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[2].Entity != EntityLink {
		t.Fatalf("unexpected third event: %+v", events[2])
	}
}

func TestSearchItems(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddItem(Item{ID: "i1", Title: "Go generics deep dive", URL: "https://blog.example.com/go"})
	s.AddItem(Item{ID: "i2", Title: "Rust book", URL: "https://rust.example.com"})
	s.AddItem(Item{ID: "i3", Title: "archived go post", Archived: true})
	s.AddItem(Item{ID: "i4", Title: "untitled", Meta: &ItemMeta{Description: "all about Go channels"}})

	got := s.SearchItems("go", 10)
	ids := map[string]bool{}
	for _, it := range got {
		ids[it.ID] = true
	}
	if !ids["i1"] || !ids["i4"] || ids["i2"] || ids["i3"] {
		t.Fatalf("unexpected search results: %+v", got)
	}

	if n := len(s.SearchItems("", 2)); n != 2 {
		t.Fatalf("limit not applied, got %d results", n)
	}
}
