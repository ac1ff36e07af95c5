package store

type Entity string

const (
	EntityItem         Entity = "item"
	EntitySpace        Entity = "space"
	EntityLink         Entity = "item_space"
	EntityConversation Entity = "conversation"
	EntityTheme        Entity = "theme"
)

type Action string

const (
	ActionSet    Action = "set"
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionRemove Action = "remove"
)

// Event describes one completed store mutation.
type Event struct {
	Entity Entity
	Action Action
	ID     string
}

// Subscribe registers a listener invoked synchronously after each mutation.
// A panicking listener is contained and does not affect the store or its
// other listeners.
func (s *Store) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	s.lmu.Lock()
	s.listeners = append(s.listeners, fn)
	s.lmu.Unlock()
}

func (s *Store) emit(ev Event) {
	s.lmu.Lock()
	listeners := append([]func(Event){}, s.listeners...)
	s.lmu.Unlock()
	for _, fn := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					s.log.Warn("store listener panicked", "entity", ev.Entity, "action", ev.Action, "panic", r)
				}
			}()
			fn(ev)
		}()
	}
}
