package domain

// ValueUpdate is the outbound message the reconciler emits when a selection
// commits. Delivery is fire-and-forget; the transport guarantees in-order
// delivery per connection.
type ValueUpdate struct {
	// ID identifies the widget instance the value belongs to.
	ID string `json:"id"`

	// Value is the committed selection as option indices.
	Value []uint32 `json:"value"`
}

// SessionState holds the committed widget values for one session. It survives
// across script reruns and is evicted explicitly when the owning session ends.
type SessionState struct {
	// Values maps widget ID to the last committed selection.
	Values map[string][]uint32 `json:"values"`
}

// NewSessionState creates an empty session state.
func NewSessionState() *SessionState {
	return &SessionState{
		Values: make(map[string][]uint32),
	}
}

// Clone returns a deep copy so callers cannot mutate shared state by pointer.
func (s *SessionState) Clone() *SessionState {
	copied := NewSessionState()
	for id, value := range s.Values {
		copied.Values[id] = append([]uint32(nil), value...)
	}
	return copied
}
