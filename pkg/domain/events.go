package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventEncode      EventType = "encode"
	EventInteraction EventType = "interaction"
	EventCommit      EventType = "commit"
	EventOverride    EventType = "override"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// WidgetEvent describes something that happened to one widget instance.
type WidgetEvent struct {
	EventBase
	WidgetID  string    `json:"widget_id"`
	ClickMode ClickMode `json:"click_mode"`
	Value     []uint32  `json:"value,omitempty"`
	FormID    string    `json:"form_id,omitempty"`
}

// LifecycleHooks defines callbacks for protocol observability. All hooks are
// optional; nil hooks are skipped.
type LifecycleHooks struct {
	// OnEncode fires when the encoder produces a descriptor.
	OnEncode func(context.Context, *WidgetEvent)
	// OnInteraction fires when the reconciler accepts a click.
	OnInteraction func(context.Context, *WidgetEvent)
	// OnCommit fires when a value update is emitted (immediate or flushed).
	OnCommit func(context.Context, *WidgetEvent)
	// OnOverride fires when a server-pushed value overwrites local selection.
	OnOverride func(context.Context, *WidgetEvent)
}
