/*
Package ports defines the driven ports (interfaces) for the Picket protocol.

These interfaces decouple the encoder and reconciler from external
implementations, allowing the protocol to work with various storage backends
and transports.

# Key Interfaces

  - StateStore: Responsible for persisting and loading committed session values.
  - UpdateSink: Receives the value-update messages the reconciler emits.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
