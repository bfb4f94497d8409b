// Package telemetry defines the auth event emitted after state transitions
// (auth started, confirmed, signed out) and the emitter interface handlers use.
package telemetry

import (
	"context"
	"log"
	"time"
)

// Event is one auth lifecycle event. Emission is best-effort and never
// carries tokens or poll ids.
type Event struct {
	UserID    string
	RequestID string
	EventType string // e.g. "auth_started", "auth_confirmed", "signout"
	Mode      string // signin/signup, empty for session events
	Source    string // emitting component, e.g. "http_handler"
	CreatedAt time.Time
}

// EventEmitter sends auth events to the telemetry backend.
type EventEmitter interface {
	Emit(ctx context.Context, event *Event) error
}

// EmitAsync runs Emit in a goroutine with a short timeout so the request is
// not blocked. Errors are logged.
func EmitAsync(emitter EventEmitter, event *Event) {
	if emitter == nil || event == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := emitter.Emit(ctx, event); err != nil {
			log.Printf("telemetry: async emit failed: %v", err)
		}
	}()
}
