package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/drblury/schemarpc/conn"
	bindingpkg "github.com/drblury/schemarpc/internal/runtime/binding"
	loggingpkg "github.com/drblury/schemarpc/internal/runtime/logging"
	metricspkg "github.com/drblury/schemarpc/internal/runtime/metrics"
	"github.com/drblury/schemarpc/wire"
)

// MiddlewareBuilder constructs a call middleware using the provided client instance.
type MiddlewareBuilder func(*Client) (bindingpkg.Middleware, error)

// MiddlewareRegistration captures how a middleware should be attached to the
// client's call chain. Set Middleware for a self-contained middleware, or
// Builder when it needs access to the client's config, logger, or metrics.
type MiddlewareRegistration struct {
	Name       string
	Middleware bindingpkg.Middleware
	Builder    MiddlewareBuilder
}

// DefaultMiddlewares returns the standard middleware chain used by the client
// constructor. Registration order is execution order.
func DefaultMiddlewares() []MiddlewareRegistration {
	return []MiddlewareRegistration{
		LogCallsMiddleware(nil),
		TracerMiddleware(),
		MetricsMiddleware(),
	}
}

// LogCallsMiddleware logs every dispatched command with its id and outcome.
func LogCallsMiddleware(logger loggingpkg.ServiceLogger) MiddlewareRegistration {
	return MiddlewareRegistration{
		Name: "log_calls",
		Builder: func(c *Client) (bindingpkg.Middleware, error) {
			l := logger
			if l == nil {
				l = c.Logger
			}
			if l == nil {
				return nil, errors.New("log calls middleware requires a logger")
			}
			return logCallsMiddleware(l), nil
		},
	}
}

// TracerMiddleware wraps each call in an OpenTelemetry span.
func TracerMiddleware() MiddlewareRegistration {
	return MiddlewareRegistration{
		Name:       "tracer",
		Middleware: tracerMiddleware(),
	}
}

// MetricsMiddleware records Prometheus call metrics when metrics are enabled.
func MetricsMiddleware() MiddlewareRegistration {
	return MiddlewareRegistration{
		Name: "metrics",
		Builder: func(c *Client) (bindingpkg.Middleware, error) {
			if c.Conf == nil || !c.Conf.MetricsEnabled {
				return nil, nil
			}
			if c.metrics == nil {
				return nil, errors.New("metrics middleware requires initialised collectors")
			}
			return metricsMiddleware(c.metrics), nil
		},
	}
}

func logCallsMiddleware(logger loggingpkg.ServiceLogger) bindingpkg.Middleware {
	return func(next bindingpkg.CallFunc) bindingpkg.CallFunc {
		return func(ctx context.Context, cn conn.Connection, req *wire.Request) (map[string]any, error) {
			logger.Debug("Dispatching command", loggingpkg.LogFields{
				"method": req.Method,
				"params": req.Params,
			})
			result, err := next(ctx, cn, req)
			if err != nil {
				logger.Error("Command failed", err, loggingpkg.LogFields{
					"method": req.Method,
				})
				return nil, err
			}
			logger.Trace("Command completed", loggingpkg.LogFields{
				"method": req.Method,
				"result": result,
			})
			return result, nil
		}
	}
}

func tracerMiddleware() bindingpkg.Middleware {
	return func(next bindingpkg.CallFunc) bindingpkg.CallFunc {
		return func(ctx context.Context, cn conn.Connection, req *wire.Request) (map[string]any, error) {
			tracer := otel.Tracer("schemarpc-client-tracer")
			ctx, span := tracer.Start(
				ctx,
				req.Method,
				trace.WithSpanKind(trace.SpanKindClient),
			)
			defer span.End()

			span.SetAttributes(
				attribute.String("rpc.method", req.Method),
			)

			result, err := next(ctx, cn, req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return result, err
		}
	}
}

func metricsMiddleware(m *metricspkg.CallMetrics) bindingpkg.Middleware {
	return func(next bindingpkg.CallFunc) bindingpkg.CallFunc {
		return func(ctx context.Context, cn conn.Connection, req *wire.Request) (map[string]any, error) {
			m.InFlight.Inc()
			started := time.Now()

			result, err := next(ctx, cn, req)

			m.InFlight.Dec()
			m.Observe(req.Method, time.Since(started).Seconds(), err)
			return result, err
		}
	}
}

// resolveMiddlewares turns registrations into the concrete chain handed to the
// binding generator. Builders returning a nil middleware are skipped, which is
// how conditional middlewares opt out.
func resolveMiddlewares(c *Client, registrations []MiddlewareRegistration) ([]bindingpkg.Middleware, error) {
	chain := make([]bindingpkg.Middleware, 0, len(registrations))
	for _, reg := range registrations {
		var mw bindingpkg.Middleware
		switch {
		case reg.Middleware != nil:
			mw = reg.Middleware
		case reg.Builder != nil:
			var err error
			mw, err = reg.Builder(c)
			if err != nil {
				name := reg.Name
				if name == "" {
					name = "anonymous_middleware"
				}
				return nil, fmt.Errorf("middleware %s: %w", name, err)
			}
		default:
			return nil, errors.New("middleware registration requires Middleware or Builder")
		}

		if mw == nil {
			continue
		}
		chain = append(chain, mw)
	}
	return chain, nil
}
