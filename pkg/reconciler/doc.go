/*
Package reconciler implements the client side of the widget synchronization
protocol.

It receives widget descriptors, tracks in-browser selection state across
re-renders of the same widget instance, enforces selection-mode and
form-deferral rules, and emits value-update messages through a ports.UpdateSink
only at the correct moments: immediately for formless widgets, batched on form
submission otherwise.

The Reconciler is designed for a single-threaded UI event loop: each click
handler runs to completion before the next is processed. It is not safe for
concurrent use.
*/
package reconciler
