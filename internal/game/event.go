// FILE: internal/game/event.go
package game

import (
	"fmt"

	"draughts/internal/core"
)

type EventKind uint8

const (
	EventPlayerChanged EventKind = iota + 1
	EventGameReset
	EventPiecesChanged
	EventCanUndoChanged
	EventGameEnded
)

var eventNames = map[EventKind]string{
	EventPlayerChanged:  "playerChanged",
	EventGameReset:      "gameReset",
	EventPiecesChanged:  "piecesChanged",
	EventCanUndoChanged: "canUndoChanged",
	EventGameEnded:      "gameEnded",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", k)
}

func (k EventKind) MarshalText() ([]byte, error) {
	if _, ok := eventNames[k]; !ok {
		return nil, fmt.Errorf("unknown event kind %d", k)
	}
	return []byte(k.String()), nil
}

// Event is one notification. Side is set for PlayerChanged (the side now to
// move) and GameEnded (the winner); CanUndo for CanUndoChanged.
type Event struct {
	Kind    EventKind `json:"type"`
	Side    core.Side `json:"side,omitempty"`
	CanUndo bool      `json:"canUndo,omitempty"`
}

func (e Event) String() string {
	switch e.Kind {
	case EventPlayerChanged, EventGameEnded:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Side)
	case EventCanUndoChanged:
		return fmt.Sprintf("%s(%t)", e.Kind, e.CanUndo)
	default:
		return e.Kind.String()
	}
}

// Handler receives events synchronously, after the command that raised them
// has finished mutating the game
type Handler func(Event)

type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// subject keeps handlers in registration order
type subject struct {
	next     SubscriptionID
	handlers []subscription
}

func (s *subject) subscribe(h Handler) SubscriptionID {
	s.next++
	s.handlers = append(s.handlers, subscription{id: s.next, handler: h})
	return s.next
}

func (s *subject) unsubscribe(id SubscriptionID) bool {
	for i, sub := range s.handlers {
		if sub.id == id {
			s.handlers = append(s.handlers[:i:i], s.handlers[i+1:]...)
			return true
		}
	}
	return false
}

func (s *subject) notify(events ...Event) {
	// handlers may unsubscribe while being notified
	handlers := append([]subscription(nil), s.handlers...)
	for _, e := range events {
		for _, sub := range handlers {
			sub.handler(e)
		}
	}
}
