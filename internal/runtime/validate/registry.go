package validate

import "sync"

// Registry maps qualified type names to their generated validators.
// Object validators resolve type references through it at validation
// time, so a domain batch can register types in any order.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

// NewRegistry creates an empty validator registry.
func NewRegistry() *Registry {
	return &Registry{validators: make(map[string]Validator)}
}

// Register stores a validator under the given qualified name, replacing
// any previous registration.
func (r *Registry) Register(name string, v Validator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[name] = v
}

// Lookup returns the validator registered under name.
func (r *Registry) Lookup(name string) (Validator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[name]
	return v, ok
}

// Names returns the registered qualified type names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.validators))
	for name := range r.validators {
		names = append(names, name)
	}
	return names
}
