// Package debug traces one render call at a time as a stream of events.
//
// Tracing is off until SetEnabled(true) or TEXART_DEBUG=1. While it is off
// NewSession returns nil, and every method of a nil *Session does nothing,
// so call sites never need a guard. Each render opens its own Session and
// tags its events with a fresh ID. Events go to a Sink as JSON Lines, or to
// the pretty sink for reading in a terminal.
package debug

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Environment switches read by InitFromEnv and PrettyFromEnv.
const (
	EnvDebug  = "TEXART_DEBUG"
	EnvPretty = "TEXART_DEBUG_PRETTY"
)

// traceVersion is stamped on every session start so trace readers can
// detect format changes.
const traceVersion = "1.0"

var enabled atomic.Bool

// SetEnabled turns tracing on or off for the process.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// Enabled reports whether tracing is on.
func Enabled() bool {
	return enabled.Load()
}

// InitFromEnv turns tracing on when TEXART_DEBUG=1. It never turns it off.
func InitFromEnv() {
	if os.Getenv(EnvDebug) == "1" {
		SetEnabled(true)
	}
}

// PrettyFromEnv reports whether TEXART_DEBUG_PRETTY=1 asks for the pretty sink.
func PrettyFromEnv() bool {
	return os.Getenv(EnvPretty) == "1"
}

// Session collects the events of a single render call. It is not safe for
// concurrent use; document mode emits its segment events after the fan-in.
type Session struct {
	id      string
	sink    Sink
	started time.Time
}

// NewSession opens a session writing to sink, or returns nil when tracing
// is off or sink is nil.
func NewSession(sink Sink) *Session {
	if !Enabled() || sink == nil {
		return nil
	}

	s := &Session{id: uuid.NewString(), sink: sink, started: time.Now()}
	s.Emit("session", "Start", SessionData{Version: traceVersion})
	return s
}

// SessionID returns the session's UUID, or "" for a nil session.
func (s *Session) SessionID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Emit records one event. Sink write errors are dropped; a broken trace
// must not fail the render it describes.
func (s *Session) Emit(phase, event string, data interface{}) {
	if s == nil {
		return
	}
	_ = s.sink.Write(Event{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		SessionID: s.id,
		Phase:     phase,
		Event:     event,
		Data:      data,
	})
}

// Close emits the end event with the session's duration and closes the sink.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.Emit("session", "End", SessionData{ElapsedMs: time.Since(s.started).Milliseconds()})
	return s.sink.Close()
}

// Event is the envelope every sink receives.
type Event struct {
	Timestamp string      `json:"ts"`
	SessionID string      `json:"session_id"`
	Phase     string      `json:"phase"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
}
