package binding

import (
	"context"
	"errors"
	"testing"

	"github.com/drblury/schemarpc/conn"
	"github.com/drblury/schemarpc/internal/runtime/correlate"
	errspkg "github.com/drblury/schemarpc/internal/runtime/errors"
	"github.com/drblury/schemarpc/internal/runtime/schema"
	"github.com/drblury/schemarpc/internal/runtime/validate"
	"github.com/drblury/schemarpc/wire"
)

func TestCallShapesConvergeOnAmbientConnection(t *testing.T) {
	cn := &echoConn{respond: func(req *wire.Request) *wire.Reply {
		return &wire.Reply{ID: req.ID, Result: map[string]any{"ok": true}}
	}}
	source := &staticSource{cn: cn}

	g := newTestGenerator(t, source)
	b, _ := g.Bind(schema.CommandDescriptor{Domain: "Page", Name: "reload"})

	// Zero-argument shape: ambient connection, empty params.
	if _, err := b.Call(context.Background()); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	sent := cn.lastRequest()
	if sent.Params == nil || len(sent.Params) != 0 {
		t.Fatalf("expected empty non-nil params, got %#v", sent.Params)
	}

	// Params-only shape still uses the ambient connection.
	if _, err := b.CallParams(context.Background(), Params{"ignore_cache": true}); err != nil {
		t.Fatalf("CallParams failed: %v", err)
	}
	if got := cn.lastRequest().Params["ignoreCache"]; got != true {
		t.Fatalf("expected renamed param on ambient connection, got %v", got)
	}
}

func TestCallParamsWithoutSourceFails(t *testing.T) {
	g := newTestGenerator(t, nil)
	b, _ := g.Bind(schema.CommandDescriptor{Domain: "Page", Name: "reload"})

	if _, err := b.CallParams(context.Background(), nil); !errors.Is(err, errspkg.ErrConnectionRequired) {
		t.Fatalf("expected ErrConnectionRequired, got %v", err)
	}
}

func TestBindOrdersRequiredBeforeOptional(t *testing.T) {
	g := newTestGenerator(t, nil)
	b, _ := g.Bind(schema.CommandDescriptor{
		Domain: "Input",
		Name:   "dispatchKeyEvent",
		Parameters: []schema.ParameterDescriptor{
			{Name: "modifiers", Type: schema.KindInteger, Optional: true},
			{Name: "type", Type: schema.KindString},
			{Name: "text", Type: schema.KindString, Optional: true},
			{Name: "key", Type: schema.KindString},
		},
	})

	got := b.Parameters()
	want := []Param{
		{Internal: "type", External: "type"},
		{Internal: "key", External: "key"},
		{Internal: "modifiers", External: "modifiers", Optional: true},
		{Internal: "text", External: "text", Optional: true},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d params, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("param %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBindRegistersShapeValidators(t *testing.T) {
	reg := validate.NewRegistry()
	g, err := NewGenerator(GeneratorOptions{
		Correlator: correlate.New(),
		Validators: reg,
	})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	b, _ := g.Bind(navigateDescriptor())

	paramsValidator, ok := reg.Lookup("Page.navigate#params")
	if !ok || paramsValidator != b.ParamsValidator() {
		t.Fatal("expected params validator to be registered under Page.navigate#params")
	}
	if _, ok := reg.Lookup("Page.navigate#result"); !ok {
		t.Fatal("expected result validator to be registered under Page.navigate#result")
	}

	// Shape validators key on internal names and stay open-world.
	if err := paramsValidator.Validate(map[string]any{"url": "http://x", "extra": 1}); err != nil {
		t.Fatalf("expected valid params to pass, got %v", err)
	}
	if err := paramsValidator.Validate(map[string]any{"referrer": "http://y"}); err == nil {
		t.Fatal("expected missing required url to fail")
	}
	if err := b.ReturnsValidator().Validate(map[string]any{"frame_id": "7"}); err != nil {
		t.Fatalf("expected valid result shape to pass, got %v", err)
	}
}

func TestBindValidation(t *testing.T) {
	g := newTestGenerator(t, nil)

	if _, err := g.Bind(schema.CommandDescriptor{Name: "navigate"}); !errors.Is(err, errspkg.ErrDomainRequired) {
		t.Fatalf("expected ErrDomainRequired, got %v", err)
	}
	if _, err := g.Bind(schema.CommandDescriptor{Domain: "Page"}); !errors.Is(err, errspkg.ErrCommandNameRequired) {
		t.Fatalf("expected ErrCommandNameRequired, got %v", err)
	}
}

func TestNewGeneratorRequiresCorrelator(t *testing.T) {
	if _, err := NewGenerator(GeneratorOptions{}); !errors.Is(err, errspkg.ErrCorrelatorRequired) {
		t.Fatalf("expected ErrCorrelatorRequired, got %v", err)
	}
}

func TestGenerateWalksCatalog(t *testing.T) {
	catalog := schema.NewStaticCatalog(
		schema.DomainDescriptor{
			Domain: "Page",
			Commands: []schema.CommandDescriptor{
				navigateDescriptor(),
				{Domain: "Page", Name: "reload"},
			},
			Types: []schema.TypeDescriptor{
				{ID: "TransitionType", Kind: schema.KindEnum, Enum: []string{"link", "typed"}},
			},
		},
		schema.DomainDescriptor{
			Domain:   "DOM",
			Commands: []schema.CommandDescriptor{{Domain: "DOM", Name: "getDocument"}},
		},
	)

	reg := validate.NewRegistry()
	g, err := NewGenerator(GeneratorOptions{
		Correlator: correlate.New(),
		Validators: reg,
	})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	table, err := g.Generate(catalog)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	wantMethods := []string{"Page.navigate", "Page.reload", "DOM.getDocument"}
	got := table.Methods()
	if len(got) != len(wantMethods) {
		t.Fatalf("expected %d methods, got %v", len(wantMethods), got)
	}
	for i, m := range wantMethods {
		if got[i] != m {
			t.Fatalf("method %d = %q, want %q", i, got[i], m)
		}
	}

	if _, ok := table.Lookup("Page.navigate"); !ok {
		t.Fatal("expected Page.navigate binding")
	}
	if _, ok := reg.Lookup("Page.TransitionType"); !ok {
		t.Fatal("expected domain types to be registered during generation")
	}
}

func TestGenerateRejectsDuplicateCommands(t *testing.T) {
	catalog := schema.NewStaticCatalog(schema.DomainDescriptor{
		Domain: "Page",
		Commands: []schema.CommandDescriptor{
			{Domain: "Page", Name: "reload"},
			{Domain: "Page", Name: "reload"},
		},
	})

	g := newTestGenerator(t, nil)
	if _, err := g.Generate(catalog); !errors.Is(err, errspkg.ErrBindingNameTaken) {
		t.Fatalf("expected ErrBindingNameTaken, got %v", err)
	}
}

func TestGenerateNilCatalog(t *testing.T) {
	g := newTestGenerator(t, nil)
	if _, err := g.Generate(nil); !errors.Is(err, errspkg.ErrCatalogRequired) {
		t.Fatalf("expected ErrCatalogRequired, got %v", err)
	}
}

func TestMiddlewareOrderAndVisibility(t *testing.T) {
	cn := &echoConn{respond: func(req *wire.Request) *wire.Reply {
		return &wire.Reply{ID: req.ID, Result: map[string]any{}}
	}}

	var order []string
	mw := func(name string) Middleware {
		return func(next CallFunc) CallFunc {
			return func(ctx context.Context, c conn.Connection, req *wire.Request) (map[string]any, error) {
				order = append(order, name)
				if req.Method != "Page.reload" {
					t.Errorf("middleware saw method %q", req.Method)
				}
				return next(ctx, c, req)
			}
		}
	}

	g := newTestGenerator(t, nil, mw("first"), mw("second"))
	b, _ := g.Bind(schema.CommandDescriptor{Domain: "Page", Name: "reload"})

	if _, err := b.CallOn(context.Background(), cn, nil); err != nil {
		t.Fatalf("CallOn failed: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected middlewares to run in registration order, got %v", order)
	}
}
