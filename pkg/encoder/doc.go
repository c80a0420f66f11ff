/*
Package encoder implements the server side of the widget synchronization
protocol.

Given a script call (options, defaults, selection mode, form association), it
produces an immutable WidgetDescriptor for the current rerun pass and resolves
the value the script sees: an explicitly pushed value wins, then the last
committed value from session state, then the declared defaults. Incoming
value-update messages are merged into session state so the next rerun observes
them.
*/
package encoder
