/*
Package domain contains the core domain models for the Picket widget
synchronization protocol.

It defines the wire-level entities exchanged between the server-side encoder
and the client-side reconciler, plus the session state the server persists
between script reruns. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - WidgetDescriptor: The immutable per-rerun description of one widget.
  - Option: A single selectable entry (label + selected-state label).
  - ValueUpdate: The outbound message carrying a committed selection.
  - SessionState: Committed widget values for one session, keyed by widget ID.
*/
package domain
