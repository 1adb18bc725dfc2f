// Package input queues pointer events from the UI until the next tick.
package input

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

type Kind int

const (
	Down Kind = iota
	Move
	Up
	// Cancel reports lost pointer capture.
	Cancel
	// Hover carries pointer position without any button state.
	Hover
)

var kindNames = map[Kind]string{
	Down:   "down",
	Move:   "move",
	Up:     "up",
	Cancel: "cancel",
	Hover:  "hover",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("input: unknown event kind %q", s)
}

// Event is one pointer event. Hit is the world-space point the rendering
// layer found under the pointer, valid when HasHit is set.
type Event struct {
	Kind      Kind
	PointerID int
	NDC       mgl64.Vec2
	Hit       mgl64.Vec3
	HasHit    bool
}

// Queue is safe for a UI goroutine to push into while the tick loop drains.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

func (q *Queue) Push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// Drain returns the queued events in arrival order and empties the queue.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
