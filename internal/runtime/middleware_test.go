package runtime

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/drblury/schemarpc/conn"
	bindingpkg "github.com/drblury/schemarpc/internal/runtime/binding"
	configpkg "github.com/drblury/schemarpc/internal/runtime/config"
	loggingpkg "github.com/drblury/schemarpc/internal/runtime/logging"
	metricspkg "github.com/drblury/schemarpc/internal/runtime/metrics"
	"github.com/drblury/schemarpc/wire"
)

type recordingLogger struct {
	debugs []string
	errors []string
	traces []string
}

func (l *recordingLogger) With(loggingpkg.LogFields) loggingpkg.ServiceLogger { return l }
func (l *recordingLogger) Debug(msg string, _ loggingpkg.LogFields)           { l.debugs = append(l.debugs, msg) }
func (l *recordingLogger) Info(msg string, _ loggingpkg.LogFields)            {}
func (l *recordingLogger) Error(msg string, _ error, _ loggingpkg.LogFields) {
	l.errors = append(l.errors, msg)
}
func (l *recordingLogger) Trace(msg string, _ loggingpkg.LogFields) { l.traces = append(l.traces, msg) }

func succeed(result map[string]any) bindingpkg.CallFunc {
	return func(context.Context, conn.Connection, *wire.Request) (map[string]any, error) {
		return result, nil
	}
}

func fail(err error) bindingpkg.CallFunc {
	return func(context.Context, conn.Connection, *wire.Request) (map[string]any, error) {
		return nil, err
	}
}

func TestLogCallsMiddleware(t *testing.T) {
	t.Parallel()

	req := &wire.Request{Method: "Page.navigate"}

	t.Run("logs dispatch and completion", func(t *testing.T) {
		logger := &recordingLogger{}
		mw := logCallsMiddleware(logger)

		result, err := mw(succeed(map[string]any{"frameId": "9"}))(context.Background(), nil, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result["frameId"] != "9" {
			t.Fatalf("result not threaded through: %v", result)
		}
		if len(logger.debugs) != 1 || len(logger.traces) != 1 {
			t.Fatalf("expected one debug and one trace entry, got %v / %v", logger.debugs, logger.traces)
		}
		if len(logger.errors) != 0 {
			t.Fatalf("no error should be logged on success: %v", logger.errors)
		}
	})

	t.Run("logs failures", func(t *testing.T) {
		logger := &recordingLogger{}
		mw := logCallsMiddleware(logger)

		boom := errors.New("boom")
		_, err := mw(fail(boom))(context.Background(), nil, req)
		if !errors.Is(err, boom) {
			t.Fatalf("expected original error back, got %v", err)
		}
		if len(logger.errors) != 1 {
			t.Fatalf("expected one error entry, got %v", logger.errors)
		}
	})

	t.Run("builder falls back to client logger", func(t *testing.T) {
		logger := &recordingLogger{}
		reg := LogCallsMiddleware(nil)
		mw, err := reg.Builder(&Client{Logger: logger})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mw == nil {
			t.Fatal("expected a middleware")
		}
	})

	t.Run("builder fails without any logger", func(t *testing.T) {
		reg := LogCallsMiddleware(nil)
		if _, err := reg.Builder(&Client{}); err == nil {
			t.Fatal("expected an error when no logger is available")
		}
	})
}

func TestTracerMiddlewarePassesThrough(t *testing.T) {
	t.Parallel()

	mw := tracerMiddleware()
	req := &wire.Request{Method: "Page.navigate"}

	result, err := mw(succeed(map[string]any{"ok": true}))(context.Background(), nil, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["ok"] != true {
		t.Fatalf("result not threaded through: %v", result)
	}

	boom := errors.New("boom")
	if _, err := mw(fail(boom))(context.Background(), nil, req); !errors.Is(err, boom) {
		t.Fatalf("expected original error back, got %v", err)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("disabled config opts out", func(t *testing.T) {
		reg := MetricsMiddleware()
		mw, err := reg.Builder(&Client{Conf: &configpkg.Config{}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mw != nil {
			t.Fatal("expected nil middleware when metrics are disabled")
		}
	})

	t.Run("enabled config requires collectors", func(t *testing.T) {
		reg := MetricsMiddleware()
		if _, err := reg.Builder(&Client{Conf: &configpkg.Config{MetricsEnabled: true}}); err == nil {
			t.Fatal("expected an error when collectors are missing")
		}
	})

	t.Run("observes calls", func(t *testing.T) {
		m := metricspkg.New()
		mw := metricsMiddleware(m)
		req := &wire.Request{Method: "Page.navigate"}

		if _, err := mw(succeed(nil))(context.Background(), nil, req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := mw(fail(errors.New("boom")))(context.Background(), nil, req); err == nil {
			t.Fatal("expected error to propagate")
		}
	})
}

func TestResolveMiddlewares(t *testing.T) {
	t.Parallel()

	t.Run("keeps registration order", func(t *testing.T) {
		var order []string
		tag := func(name string) bindingpkg.Middleware {
			return func(next bindingpkg.CallFunc) bindingpkg.CallFunc {
				return func(ctx context.Context, cn conn.Connection, req *wire.Request) (map[string]any, error) {
					order = append(order, name)
					return next(ctx, cn, req)
				}
			}
		}

		chain, err := resolveMiddlewares(&Client{}, []MiddlewareRegistration{
			{Name: "first", Middleware: tag("first")},
			{Name: "second", Middleware: tag("second")},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		call := succeed(nil)
		for i := len(chain) - 1; i >= 0; i-- {
			call = chain[i](call)
		}
		if _, err := call(context.Background(), nil, &wire.Request{Method: "X.y"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Fatalf("unexpected execution order: %v", order)
		}
	})

	t.Run("skips nil builders", func(t *testing.T) {
		chain, err := resolveMiddlewares(&Client{Conf: &configpkg.Config{}}, []MiddlewareRegistration{
			MetricsMiddleware(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(chain) != 0 {
			t.Fatalf("expected an empty chain, got %d entries", len(chain))
		}
	})

	t.Run("rejects empty registrations", func(t *testing.T) {
		if _, err := resolveMiddlewares(&Client{}, []MiddlewareRegistration{{Name: "empty"}}); err == nil {
			t.Fatal("expected an error for a registration with no middleware")
		}
	})

	t.Run("builder errors carry the middleware name", func(t *testing.T) {
		_, err := resolveMiddlewares(&Client{}, []MiddlewareRegistration{LogCallsMiddleware(nil)})
		if err == nil {
			t.Fatal("expected an error")
		}
		if got := err.Error(); !strings.Contains(got, "log_calls") {
			t.Fatalf("expected the error to name the middleware, got %q", got)
		}
	})
}
