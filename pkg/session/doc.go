/*
Package session implements session management and persistence orchestration
for committed widget values.

The Manager serializes access to each session's state, so that concurrent
reruns and incoming value updates for the same session never interleave their
read-modify-write cycles. Session state is created on first use and evicted
explicitly when the owning session ends.
*/
package session
