package binding

import (
	"fmt"
	"sync"

	errspkg "github.com/drblury/schemarpc/internal/runtime/errors"
)

// Table is the lookup from qualified command name to its binding,
// populated by the generation pass.
type Table struct {
	mu       sync.RWMutex
	bindings map[string]*Binding
	order    []string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{bindings: make(map[string]*Binding)}
}

// Add registers a binding under its qualified method name.
func (t *Table) Add(b *Binding) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, taken := t.bindings[b.method]; taken {
		return errBindingTaken(b.method)
	}
	t.bindings[b.method] = b
	t.order = append(t.order, b.method)
	return nil
}

// Lookup returns the binding for a qualified method name.
func (t *Table) Lookup(method string) (*Binding, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	b, ok := t.bindings[method]
	return b, ok
}

// Methods returns the qualified names in registration order.
func (t *Table) Methods() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.order...)
}

// Len reports how many bindings are registered.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.bindings)
}

func errBindingTaken(method string) error {
	return fmt.Errorf("%w: %s", errspkg.ErrBindingNameTaken, method)
}
