// Package validate builds one validator per declared schema type. Object
// validators check shape only: required fields must be present and every
// declared field that is present must validate. Keys the schema never
// mentions pass through unchecked (open-world policy).
package validate

import (
	"fmt"
	"strings"

	errspkg "github.com/drblury/schemarpc/internal/runtime/errors"
	"github.com/drblury/schemarpc/internal/runtime/names"
	"github.com/drblury/schemarpc/internal/runtime/schema"
)

// Validator checks a single value against a generated shape.
type Validator interface {
	Validate(v any) error
}

// Generate registers one validator per descriptor under "Domain.ID".
// Declared kinds outside enum/object/primitive get a validator that
// always fails with a SchemaGapError; the gap surfaces at use, never at
// generation.
func Generate(domain string, types []schema.TypeDescriptor, reg *Registry) {
	for _, td := range types {
		reg.Register(qualify(domain, td.ID), forDescriptor(domain, td, reg))
	}
}

func forDescriptor(domain string, td schema.TypeDescriptor, reg *Registry) Validator {
	switch td.Kind {
	case schema.KindEnum:
		return NewEnum(qualify(domain, td.ID), td.Enum)
	case schema.KindObject:
		return NewObject(qualify(domain, td.ID), FieldsFromDescriptors(domain, td.Properties), reg)
	case schema.KindString, schema.KindNumber, schema.KindInteger, schema.KindBoolean:
		return NewPrimitive(td.Kind)
	default:
		return NewFailing(qualify(domain, td.ID), td.Kind)
	}
}

// Field is one validated key of an object shape. Name is the runtime's
// internal spelling. Exactly one of Primitive or Ref is set; Ref is
// resolved through the registry at validation time so forward references
// within a domain batch work.
type Field struct {
	Name      string
	Primitive string
	Ref       string
	Optional  bool
}

// FieldsFromDescriptors converts schema property descriptors into fields,
// renaming keys to the internal convention and qualifying bare type
// references with the current domain.
func FieldsFromDescriptors(domain string, descs []schema.ParameterDescriptor) []Field {
	fields := make([]Field, len(descs))
	for i, d := range descs {
		fields[i] = Field{
			Name:      names.ExternalToInternal(d.Name),
			Primitive: d.Type,
			Optional:  d.Optional,
		}
		if d.Ref != "" {
			fields[i].Primitive = ""
			fields[i].Ref = qualify(domain, d.Ref)
		}
	}
	return fields
}

func qualify(domain, id string) string {
	if strings.Contains(id, ".") {
		return id
	}
	return domain + "." + id
}

// NewPrimitive returns a type-membership check for one of the primitive
// kinds. Unknown kinds fail every value.
func NewPrimitive(kind string) Validator {
	return primitiveValidator(kind)
}

type primitiveValidator string

func (p primitiveValidator) Validate(v any) error {
	switch string(p) {
	case schema.KindString:
		if _, ok := v.(string); ok {
			return nil
		}
	case schema.KindBoolean:
		if _, ok := v.(bool); ok {
			return nil
		}
	case schema.KindInteger:
		if isIntegral(v) {
			return nil
		}
	case schema.KindNumber:
		if isNumeric(v) {
			return nil
		}
	default:
		return fmt.Errorf("schemarpc: unknown primitive kind %q", string(p))
	}
	return fmt.Errorf("schemarpc: expected %s, got %T", string(p), v)
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func isIntegral(v any) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		// JSON numbers decode as float64; accept exact integers.
		return n == float64(int64(n))
	case float32:
		return n == float32(int32(n))
	}
	return false
}

// NewEnum returns a validator accepting exactly the declared literal set.
func NewEnum(label string, values []string) Validator {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return &enumValidator{label: label, set: set}
}

type enumValidator struct {
	label string
	set   map[string]struct{}
}

func (e *enumValidator) Validate(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("schemarpc: %s: expected enum string, got %T", e.label, v)
	}
	if _, ok := e.set[s]; !ok {
		return fmt.Errorf("schemarpc: %s: value %q is not in the declared set", e.label, s)
	}
	return nil
}

// NewObject returns a validator for a structured shape with named fields.
// The registry is consulted lazily for referenced types.
func NewObject(label string, fields []Field, reg *Registry) Validator {
	return &objectValidator{label: label, fields: fields, registry: reg}
}

type objectValidator struct {
	label    string
	fields   []Field
	registry *Registry
}

func (o *objectValidator) Validate(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("schemarpc: %s: expected object, got %T", o.label, v)
	}

	for _, f := range o.fields {
		value, present := m[f.Name]
		if !present {
			if f.Optional {
				continue
			}
			return fmt.Errorf("schemarpc: %s: required field %q is missing", o.label, f.Name)
		}
		if err := o.validateField(f, value); err != nil {
			return err
		}
	}
	return nil
}

func (o *objectValidator) validateField(f Field, value any) error {
	if f.Ref != "" {
		ref, ok := o.registry.Lookup(f.Ref)
		if !ok {
			return fmt.Errorf("schemarpc: %s: field %q references unknown type %s", o.label, f.Name, f.Ref)
		}
		if err := ref.Validate(value); err != nil {
			return fmt.Errorf("schemarpc: %s: field %q: %w", o.label, f.Name, err)
		}
		return nil
	}
	if err := NewPrimitive(f.Primitive).Validate(value); err != nil {
		return fmt.Errorf("schemarpc: %s: field %q: %w", o.label, f.Name, err)
	}
	return nil
}

// NewFailing returns the schema-coverage-gap marker validator. It rejects
// every value with a SchemaGapError naming the offending descriptor.
func NewFailing(typeID, kind string) Validator {
	return &failingValidator{err: &errspkg.SchemaGapError{TypeID: typeID, Kind: kind}}
}

type failingValidator struct {
	err *errspkg.SchemaGapError
}

func (f *failingValidator) Validate(any) error {
	return f.err
}
