package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrWidgetNotFound is returned when a widget ID has no registered interest
// or reconciler state.
var ErrWidgetNotFound = errors.New("widget not found")

// ErrValueNotFound is returned when no committed value exists for a widget.
var ErrValueNotFound = errors.New("value not found")

// ErrIndexOutOfRange is returned when an option index falls outside the
// widget's option range.
var ErrIndexOutOfRange = errors.New("option index out of range")
