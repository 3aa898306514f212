// Package board provides the shared connection and access-serialization
// layer for a microcontroller reachable over a serial transport.
//
// This package handles:
//   - Lazy establishment of the single physical link (Registry)
//   - Connection state management (UNINITIALIZED/CONNECTING/READY/FAILED)
//   - Pin capability resolution from "kind:number:mode" specs
//   - Serialization of every wire-touching operation
//
// # Layering
//
//	┌────────────────────────────────┐
//	│   Device facades (pkg/devices) │
//	├────────────────────────────────┤
//	│   Pin handles + serializer     │
//	├────────────────────────────────┤
//	│   ProtocolClient (firmware     │
//	│   protocol, external)          │
//	├────────────────────────────────┤
//	│   Serial port (pkg/transport)  │
//	└────────────────────────────────┘
//
// The firmware protocol itself (byte framing, command IDs) is not part of
// this package; it is consumed through the ProtocolClient interface. The
// package guarantees that no two pin operations from different goroutines
// ever interleave on the wire: every configure, read and write holds the
// connection's exclusion domain for exactly one protocol exchange.
//
// # Sharing model
//
// At most one live transport exists per Registry. Device facades borrow the
// shared *Connection from a Registry and hold exactly one *Pin each; the
// pin handles reference the single transport and never duplicate ownership.
package board
