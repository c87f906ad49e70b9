// Package schemarpc generates callable command bindings from a schema
// catalog and dispatches them over a message connection. It reads the target
// connection backend (NATS or Go channels) from Config, runs a generation
// pass over the catalog that produces one Binding per declared command, and
// correlates request and reply frames by a monotonically increasing call id.
//
// Client hosts the connection, the correlator, and the generated binding
// table: Client.Command looks up a Binding by its qualified
// "<Domain>.<command>" name, and Binding.Call, CallParams, and CallOn
// dispatch it with zero, ambient-connection, or explicit-connection
// arguments. Parameter keys are written in Go-internal snake_case and
// renamed to the protocol's lowerCamelCase on the wire; keys the schema
// never declared pass through untouched. A minimal setup therefore involves
// filling Config, building a Catalog, creating a Client, and calling bound
// commands; see examples/simple for a runnable quick start.
//
// # Connections
//
// Two connection backends ship out of the box:
//   - channel: In-memory Go channels for testing
//   - nats: Request/reply over a NATS subject with a per-connection inbox
//
// Custom backends register a Builder with the conn package registry and are
// selected by name through Config.ConnectionKind.
//
// # Middleware
//
// The default call middleware chain includes structured call logging,
// OpenTelemetry tracing, and Prometheus metrics. Custom middleware can be
// added via ClientDependencies.Middlewares.
//
// # Validation
//
// The generation pass also materialises shape validators for every schema
// type and for every command's parameter and return shapes. They are
// registered by name ("Page.frameId", "Page.navigate#params") and never
// enforced on the call path; a schema type whose kind the generator does not
// understand yields a validator that always fails with SchemaGapError rather
// than being dropped.
package schemarpc
