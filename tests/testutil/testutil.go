// Package testutil provides the fixtures TMS tests share: an in-memory
// database with real repositories, seed helpers, a full HTTP test server and
// a recorder for published events.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tms/backend/internal/domain/shared"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// AssertEventually polls condition on the test goroutine until it holds,
// failing the test once timeout passes
func AssertEventually(t testing.TB, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for !condition() {
		select {
		case <-deadline.C:
			t.Fatalf("condition not met within %v %v", timeout, msgAndArgs)
			return
		case <-tick.C:
		}
	}
}

// EventRecorder subscribes to the bus and keeps what it receives, in order
type EventRecorder struct {
	types  []string
	mu     sync.Mutex
	events []shared.DomainEvent
}

// RecordEvents returns a recorder for the given event types; none means all
func RecordEvents(types ...string) *EventRecorder {
	return &EventRecorder{types: types}
}

func (r *EventRecorder) EventTypes() []string { return r.types }

func (r *EventRecorder) Handle(_ context.Context, e shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of the recorded events
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shared.DomainEvent(nil), r.events...)
}

// Types returns the recorded event types in arrival order
func (r *EventRecorder) Types() []string {
	events := r.Events()
	types := make([]string, len(events))
	for i, e := range events {
		types[i] = e.EventType()
	}
	return types
}
