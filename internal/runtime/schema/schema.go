// Package schema defines the descriptor structs the generators consume.
// Descriptors are the only representation of schema-derived names in the
// runtime; nothing is interned or reflected at call time.
//
// How a catalog is parsed from disk or fetched from an endpoint is out of
// scope here. The Catalog interface is the seam: loaders live elsewhere
// and hand the runtime ready-made descriptors.
package schema

// Kinds a TypeDescriptor may declare. Anything else is a schema coverage
// gap and produces an always-failing validator.
const (
	KindEnum   = "enum"
	KindObject = "object"

	// Primitive kinds, also usable as ParameterDescriptor.Type.
	KindString  = "string"
	KindNumber  = "number"
	KindInteger = "integer"
	KindBoolean = "boolean"
)

// ParameterDescriptor describes one named field of a command's parameter
// list, a command's return shape, or an object type's property. Name is
// the protocol's external spelling. Exactly one of Type (a primitive
// kind) or Ref (a declared type id, optionally domain-qualified) is set.
type ParameterDescriptor struct {
	Name        string
	Type        string
	Ref         string
	Optional    bool
	Description string
}

// ReturnFieldDescriptor has the same shape as a parameter descriptor.
type ReturnFieldDescriptor = ParameterDescriptor

// CommandDescriptor describes a single request/response operation.
type CommandDescriptor struct {
	Domain      string
	Name        string
	Parameters  []ParameterDescriptor
	Returns     []ReturnFieldDescriptor
	Description string
}

// TypeDescriptor describes a type declared by a domain. ID is the bare
// identifier; references from other domains qualify it as "Domain.ID".
type TypeDescriptor struct {
	ID          string
	Kind        string
	Enum        []string
	Properties  []ParameterDescriptor
	Description string
}

// Catalog supplies ordered descriptors per domain. Implementations must
// have all descriptors for a domain available before generation runs for
// that domain.
type Catalog interface {
	Domains() []string
	CommandsForDomain(domain string) []CommandDescriptor
	TypesForDomain(domain string) []TypeDescriptor
}

// DomainDescriptor groups one domain's commands and types for the static
// catalog.
type DomainDescriptor struct {
	Domain   string
	Commands []CommandDescriptor
	Types    []TypeDescriptor
}

// StaticCatalog is an in-memory Catalog built from descriptor slices.
// It preserves declaration order and is immutable after construction.
type StaticCatalog struct {
	order    []string
	commands map[string][]CommandDescriptor
	types    map[string][]TypeDescriptor
}

// NewStaticCatalog builds a catalog from the supplied domains. Command
// descriptors inherit the domain name when theirs is empty.
func NewStaticCatalog(domains ...DomainDescriptor) *StaticCatalog {
	c := &StaticCatalog{
		commands: make(map[string][]CommandDescriptor, len(domains)),
		types:    make(map[string][]TypeDescriptor, len(domains)),
	}
	for _, d := range domains {
		commands := make([]CommandDescriptor, len(d.Commands))
		copy(commands, d.Commands)
		for i := range commands {
			if commands[i].Domain == "" {
				commands[i].Domain = d.Domain
			}
		}
		c.order = append(c.order, d.Domain)
		c.commands[d.Domain] = commands
		c.types[d.Domain] = append([]TypeDescriptor(nil), d.Types...)
	}
	return c
}

func (c *StaticCatalog) Domains() []string {
	return append([]string(nil), c.order...)
}

func (c *StaticCatalog) CommandsForDomain(domain string) []CommandDescriptor {
	return c.commands[domain]
}

func (c *StaticCatalog) TypesForDomain(domain string) []TypeDescriptor {
	return c.types[domain]
}
