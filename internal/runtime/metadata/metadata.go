// Package metadata holds the string headers carried by transport-level
// messages on pub/sub backed connections. Wire frames themselves never
// carry metadata; these headers exist so brokers and debugging tools can
// see the correlation id without parsing the payload.
package metadata

// Metadata represents the headers carried alongside a transport message.
type Metadata map[string]string

// Standard header keys set by the channel connection backend.
const (
	KeyCommandID = "schemarpc_command_id"
	KeyMethod    = "schemarpc_method"
)

func (m Metadata) cloneWithExtra(extra int) Metadata {
	size := len(m) + extra
	if size <= 0 {
		return Metadata{}
	}

	cloned := make(Metadata, size)
	for k, v := range m {
		cloned[k] = v
	}
	return cloned
}

// Clone returns a shallow copy of the metadata map.
func (m Metadata) Clone() Metadata {
	return m.cloneWithExtra(0)
}

// With returns a cloned metadata map containing the provided key/value pair.
func (m Metadata) With(key, value string) Metadata {
	cloned := m.cloneWithExtra(1)
	cloned[key] = value
	return cloned
}

// New constructs a Metadata map from alternating key/value pairs.
func New(pairs ...string) Metadata {
	md := make(Metadata, len(pairs)/2)
	for i := 0; i < len(pairs)-1; i += 2 {
		md[pairs[i]] = pairs[i+1]
	}
	return md
}
