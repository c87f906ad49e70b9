package runtime

import (
	"context"
	"fmt"
	"net/http"

	connpkg "github.com/drblury/schemarpc/conn"
	bindingpkg "github.com/drblury/schemarpc/internal/runtime/binding"
	configpkg "github.com/drblury/schemarpc/internal/runtime/config"
	correlatepkg "github.com/drblury/schemarpc/internal/runtime/correlate"
	errspkg "github.com/drblury/schemarpc/internal/runtime/errors"
	loggingpkg "github.com/drblury/schemarpc/internal/runtime/logging"
	metricspkg "github.com/drblury/schemarpc/internal/runtime/metrics"
	schemapkg "github.com/drblury/schemarpc/internal/runtime/schema"
	validatepkg "github.com/drblury/schemarpc/internal/runtime/validate"
)

var serveHTTP = func(addr string, handler http.Handler) error {
	return http.ListenAndServe(addr, handler)
}

// ClientDependencies holds the optional collaborators for a Client. Catalog
// is required; everything else has a working default.
type ClientDependencies struct {
	Catalog schemapkg.Catalog

	// Connection bypasses the registry build when set. The client does not
	// close a connection it did not open.
	Connection connpkg.Connection

	// Registry overrides the backend registry used to build the connection.
	Registry *connpkg.Registry

	Middlewares               []MiddlewareRegistration // Appended after the default middleware chain.
	DisableDefaultMiddlewares bool                     // Skips registering the default middleware chain when true.
}

// Client owns one connection, one correlator, and the binding table produced
// by the generation pass over the catalog. All bound commands dispatched
// through it share the correlator's id space.
type Client struct {
	Conf   *configpkg.Config
	Logger loggingpkg.ServiceLogger

	connection     connpkg.Connection
	ownsConnection bool

	correlator *correlatepkg.Correlator
	bindings   *bindingpkg.Table
	validators *validatepkg.Registry
	metrics    *metricspkg.CallMetrics
}

// NewClient constructs a Client for the supplied configuration, panicking on
// setup failure. Use TryNewClient where an error return is preferable.
func NewClient(conf *configpkg.Config, log loggingpkg.ServiceLogger, ctx context.Context, deps ClientDependencies) *Client {
	c, err := TryNewClient(conf, log, ctx, deps)
	if err != nil {
		panic(err)
	}
	return c
}

// TryNewClient builds the connection, resolves the middleware chain, and runs
// the binding generation pass over the catalog.
func TryNewClient(conf *configpkg.Config, log loggingpkg.ServiceLogger, ctx context.Context, deps ClientDependencies) (*Client, error) {
	if conf == nil {
		return nil, errspkg.ErrConfigRequired
	}
	if log == nil {
		return nil, errspkg.ErrLoggerRequired
	}
	if deps.Catalog == nil {
		return nil, errspkg.ErrCatalogRequired
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Info("Creating schema client",
		loggingpkg.LogFields{
			"connection_kind": conf.ConnectionKind,
			"config":          conf,
		})

	c := &Client{
		Conf:       conf,
		Logger:     log,
		correlator: correlatepkg.New(),
		validators: validatepkg.NewRegistry(),
	}

	if conf.MetricsEnabled {
		c.metrics = metricspkg.New()
	}

	if deps.Connection != nil {
		c.connection = deps.Connection
	} else {
		registry := deps.Registry
		if registry == nil {
			registry = connpkg.DefaultRegistry
		}
		cn, err := registry.Build(ctx, conf, loggingpkg.NewWatermillAdapter(log))
		if err != nil {
			return nil, fmt.Errorf("build connection: %w", err)
		}
		c.connection = cn
		c.ownsConnection = true
	}

	chain, err := c.resolveConfiguredMiddlewares(deps)
	if err != nil {
		c.closeOwnedConnection()
		return nil, err
	}

	generator, err := bindingpkg.NewGenerator(bindingpkg.GeneratorOptions{
		Correlator:  c.correlator,
		Source:      c,
		Validators:  c.validators,
		Middlewares: chain,
	})
	if err != nil {
		c.closeOwnedConnection()
		return nil, err
	}

	table, err := generator.Generate(deps.Catalog)
	if err != nil {
		c.closeOwnedConnection()
		return nil, fmt.Errorf("generate bindings: %w", err)
	}
	c.bindings = table

	log.Debug("Generated command bindings",
		loggingpkg.LogFields{"commands": table.Len()})

	return c, nil
}

func (c *Client) resolveConfiguredMiddlewares(deps ClientDependencies) ([]bindingpkg.Middleware, error) {
	var defaults []MiddlewareRegistration
	if !deps.DisableDefaultMiddlewares {
		defaults = DefaultMiddlewares()
	}
	registrations := make([]MiddlewareRegistration, 0, len(defaults)+len(deps.Middlewares))
	registrations = append(registrations, defaults...)
	registrations = append(registrations, deps.Middlewares...)

	return resolveMiddlewares(c, registrations)
}

// CurrentConnection returns the connection ambient calls dispatch on.
func (c *Client) CurrentConnection() connpkg.Connection {
	return c.connection
}

// Command looks up the binding for a qualified "<Domain>.<command>" name.
func (c *Client) Command(method string) (*bindingpkg.Binding, bool) {
	return c.bindings.Lookup(method)
}

// Commands returns the bound method names in catalog order.
func (c *Client) Commands() []string {
	return c.bindings.Methods()
}

// Validator looks up a generated shape validator by its registry name, e.g.
// "Page.frameId" or "Page.navigate#params".
func (c *Client) Validator(name string) (validatepkg.Validator, bool) {
	return c.validators.Lookup(name)
}

// Outstanding reports how many dispatched calls still await a reply.
func (c *Client) Outstanding() int {
	return c.correlator.Outstanding()
}

// Metrics returns the client's Prometheus collectors, or nil when metrics
// are disabled.
func (c *Client) Metrics() *metricspkg.CallMetrics {
	return c.metrics
}

// StartMetricsServer exposes /metrics on the configured port. It is a no-op
// when metrics are disabled or no port is configured.
func (c *Client) StartMetricsServer() {
	if c.metrics == nil || c.Conf.MetricsPort <= 0 {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", c.metrics.Handler())

	addr := fmt.Sprintf(":%d", c.Conf.MetricsPort)
	c.Logger.Info("Starting metrics server", loggingpkg.LogFields{"address": addr})
	go func() {
		if err := serveHTTP(addr, mux); err != nil {
			c.Logger.Error("Failed to start metrics server", err, loggingpkg.LogFields{"address": addr})
		}
	}()
}

// Close releases the connection if the client opened it. Connections passed
// in through ClientDependencies stay open.
func (c *Client) Close() error {
	return c.closeOwnedConnection()
}

func (c *Client) closeOwnedConnection() error {
	if !c.ownsConnection || c.connection == nil {
		return nil
	}
	return c.connection.Close()
}
