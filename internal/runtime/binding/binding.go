// Package binding turns command descriptors into callable invocation
// bindings. Generation is an explicit pass over the schema catalog, run
// once at setup: it populates a lookup table from qualified command name
// to a constructed Binding and registers shape validators alongside.
package binding

import (
	"context"

	"github.com/drblury/schemarpc/conn"
	"github.com/drblury/schemarpc/internal/runtime/correlate"
	errspkg "github.com/drblury/schemarpc/internal/runtime/errors"
	"github.com/drblury/schemarpc/internal/runtime/names"
	"github.com/drblury/schemarpc/internal/runtime/schema"
	"github.com/drblury/schemarpc/internal/runtime/validate"
	"github.com/drblury/schemarpc/wire"
)

// Params maps internal parameter names to values. Keys the schema never
// declared are renamed and sent anyway (open-world policy).
type Params map[string]any

// CallFunc is the 3-argument call shape every invocation converges to.
type CallFunc func(ctx context.Context, cn conn.Connection, req *wire.Request) (map[string]any, error)

// Middleware wraps the call path. Middlewares see the request after the
// method and params are set but before the correlator assigns an id.
type Middleware func(next CallFunc) CallFunc

// ConnectionSource supplies the ambient connection used by the 0- and
// 1-argument call shapes.
type ConnectionSource interface {
	CurrentConnection() conn.Connection
}

// Param describes one parameter of a binding. The binding's parameter
// list orders required parameters before optional ones.
type Param struct {
	Internal string
	External string
	Optional bool
}

// Binding is one generated callable for a single command.
type Binding struct {
	domain      string
	command     string
	method      string
	description string

	params           []Param
	paramsValidator  validate.Validator
	returnsValidator validate.Validator

	source ConnectionSource
	invoke CallFunc
}

// Method returns the qualified "<Domain>.<command>" name.
func (b *Binding) Method() string { return b.method }

// Domain returns the owning domain name.
func (b *Binding) Domain() string { return b.domain }

// Command returns the bare command name.
func (b *Binding) Command() string { return b.command }

// Description returns the schema's human-readable description.
func (b *Binding) Description() string { return b.description }

// Parameters returns the binding's parameter list, required first.
func (b *Binding) Parameters() []Param {
	return append([]Param(nil), b.params...)
}

// ParamsValidator returns the generated parameter-shape validator. The
// call path does not enforce it; it exists for contract-checking tooling.
func (b *Binding) ParamsValidator() validate.Validator { return b.paramsValidator }

// ReturnsValidator returns the generated return-shape validator.
func (b *Binding) ReturnsValidator() validate.Validator { return b.returnsValidator }

// Call invokes the command on the ambient connection with no parameters.
func (b *Binding) Call(ctx context.Context) (map[string]any, error) {
	return b.CallParams(ctx, nil)
}

// CallParams invokes the command on the ambient connection.
func (b *Binding) CallParams(ctx context.Context, params Params) (map[string]any, error) {
	if b.source == nil {
		return nil, errspkg.ErrConnectionRequired
	}
	return b.CallOn(ctx, b.source.CurrentConnection(), params)
}

// CallOn invokes the command on an explicit connection. Parameter keys
// are renamed to protocol form, the request payload is built fresh, and
// the correlator blocks until the matching reply arrives. The context is
// observed by middlewares (tracing, logging) only; it does not cancel a
// dispatched call.
func (b *Binding) CallOn(ctx context.Context, cn conn.Connection, params Params) (map[string]any, error) {
	req := &wire.Request{
		Method: b.method,
		Params: names.RenameToExternal(params),
	}
	return b.invoke(ctx, cn, req)
}

// GeneratorOptions configures a Generator. Correlator and Validators are
// required; Source may be nil when callers always pass explicit
// connections; Middlewares wrap every generated binding's call path in
// the order given.
type GeneratorOptions struct {
	Correlator  *correlate.Correlator
	Source      ConnectionSource
	Validators  *validate.Registry
	Middlewares []Middleware
}

// Generator builds bindings from command descriptors.
type Generator struct {
	correlator  *correlate.Correlator
	source      ConnectionSource
	validators  *validate.Registry
	middlewares []Middleware
}

// NewGenerator validates the options and returns a Generator.
func NewGenerator(opts GeneratorOptions) (*Generator, error) {
	if opts.Correlator == nil {
		return nil, errspkg.ErrCorrelatorRequired
	}
	validators := opts.Validators
	if validators == nil {
		validators = validate.NewRegistry()
	}
	return &Generator{
		correlator:  opts.Correlator,
		source:      opts.Source,
		validators:  validators,
		middlewares: opts.Middlewares,
	}, nil
}

// Generate runs the full generation pass: for every domain in the catalog
// it registers the domain's type validators, then binds each command into
// the returned table.
func (g *Generator) Generate(catalog schema.Catalog) (*Table, error) {
	if catalog == nil {
		return nil, errspkg.ErrCatalogRequired
	}

	table := NewTable()
	for _, domain := range catalog.Domains() {
		validate.Generate(domain, catalog.TypesForDomain(domain), g.validators)

		for _, cmd := range catalog.CommandsForDomain(domain) {
			b, err := g.Bind(cmd)
			if err != nil {
				return nil, err
			}
			if err := table.Add(b); err != nil {
				return nil, err
			}
		}
	}
	return table, nil
}

// Bind builds one binding from a command descriptor. The parameter-shape
// and return-shape validators are registered under "<method>#params" and
// "<method>#result" so external tooling can look them up by name.
func (g *Generator) Bind(cmd schema.CommandDescriptor) (*Binding, error) {
	if cmd.Domain == "" {
		return nil, errspkg.ErrDomainRequired
	}
	if cmd.Name == "" {
		return nil, errspkg.ErrCommandNameRequired
	}

	method := names.Qualify(cmd.Domain, cmd.Name)

	paramsValidator := validate.NewObject(
		method+"#params",
		validate.FieldsFromDescriptors(cmd.Domain, cmd.Parameters),
		g.validators,
	)
	returnsValidator := validate.NewObject(
		method+"#result",
		validate.FieldsFromDescriptors(cmd.Domain, cmd.Returns),
		g.validators,
	)
	g.validators.Register(method+"#params", paramsValidator)
	g.validators.Register(method+"#result", returnsValidator)

	b := &Binding{
		domain:           cmd.Domain,
		command:          cmd.Name,
		method:           method,
		description:      cmd.Description,
		params:           orderedParams(cmd.Parameters),
		paramsValidator:  paramsValidator,
		returnsValidator: returnsValidator,
		source:           g.source,
		invoke:           g.buildCallFunc(),
	}
	return b, nil
}

func (g *Generator) buildCallFunc() CallFunc {
	call := func(_ context.Context, cn conn.Connection, req *wire.Request) (map[string]any, error) {
		return g.correlator.Call(cn, req)
	}
	for i := len(g.middlewares) - 1; i >= 0; i-- {
		call = g.middlewares[i](call)
	}
	return call
}

// orderedParams partitions the declared parameters so required ones come
// first, preserving relative declaration order within each group.
func orderedParams(descs []schema.ParameterDescriptor) []Param {
	params := make([]Param, 0, len(descs))
	for _, d := range descs {
		if !d.Optional {
			params = append(params, toParam(d))
		}
	}
	for _, d := range descs {
		if d.Optional {
			params = append(params, toParam(d))
		}
	}
	return params
}

func toParam(d schema.ParameterDescriptor) Param {
	return Param{
		Internal: names.ExternalToInternal(d.Name),
		External: d.Name,
		Optional: d.Optional,
	}
}
