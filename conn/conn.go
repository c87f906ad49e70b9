// Package conn defines the connection contract the runtime sends commands
// through. Each backend implementation (channel, nats, ...) lives in its
// own sub-package and registers itself with the connection registry.
package conn

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/drblury/schemarpc/wire"
)

// Connection transmits framed requests and delivers replies. For a given
// id the connection must invoke onReply exactly once with the reply whose
// id matches, or never invoke it at all, in which case the caller blocks
// forever. Demultiplexing inbound frames by id is the connection's job;
// the correlator only rendezvouses on the callback.
type Connection interface {
	// SendCommand transmits req and arranges for onReply to run when the
	// matching reply arrives. onReply may run before SendCommand returns.
	SendCommand(req *wire.Request, id uint64, onReply func(*wire.Reply)) error

	// Close releases the connection. Calls still blocked on a reply stay
	// blocked; there is no cancellation in this runtime.
	Close() error
}

// Builder is the function signature for creating a connection from config.
// Each backend package should provide a Builder function that can be
// registered.
type Builder func(ctx context.Context, cfg Config, logger watermill.LoggerAdapter) (Connection, error)

// Config provides the configuration values needed by connection backends.
// The interface keeps backends decoupled from the full config package.
type Config interface {
	// GetConnectionKind returns the backend name.
	GetConnectionKind() string

	// NATS
	GetNATSURL() string
	GetNATSSubject() string
}
