package conn

// Capabilities describes the features supported by a connection backend.
// Use this to introspect what a backend can do at runtime.
type Capabilities struct {
	// InMemory indicates the backend runs in-process with no broker.
	InMemory bool

	// RequiresBroker indicates the backend needs an external broker or
	// endpoint to be reachable before Build succeeds.
	RequiresBroker bool

	// SupportsConcurrentCalls indicates the backend can carry any number
	// of outstanding requests on one connection.
	SupportsConcurrentCalls bool

	// OrderedDelivery indicates replies arrive in request order. Most
	// backends do not guarantee this; the correlator never relies on it.
	OrderedDelivery bool

	// MaxFrameSize is the maximum frame size in bytes (0 = unlimited/unknown).
	MaxFrameSize int64

	// Name is the human-readable name of the backend.
	Name string

	// Version is the backend/driver version.
	Version string
}

// Predefined capability sets for the built-in backends.
var (
	// ChannelCapabilities for the in-memory Watermill gochannel backend.
	ChannelCapabilities = Capabilities{
		Name:                    "channel",
		InMemory:                true,
		RequiresBroker:          false,
		SupportsConcurrentCalls: true,
		OrderedDelivery:         false,
	}

	// NATSCapabilities for the NATS core backend.
	NATSCapabilities = Capabilities{
		Name:                    "nats",
		InMemory:                false,
		RequiresBroker:          true,
		SupportsConcurrentCalls: true,
		OrderedDelivery:         false,
	}
)
