// Package names translates between the protocol's external field naming
// convention (lowerCamelCase) and the runtime's internal convention
// (snake_case). The external-to-internal direction runs once per schema
// entry at generation time; the inverse runs once per call to rename
// caller-supplied parameter keys back into protocol form.
//
// The mapping is not validated as bijective: two distinct external names
// can collapse to the same internal identifier. This is an accepted
// schema risk.
package names

import (
	"strings"
	"unicode"
)

// ExternalToInternal converts a protocol-style name to the runtime's
// internal identifier form, e.g. "frameId" -> "frame_id".
func ExternalToInternal(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// InternalToExternal converts an internal identifier back to protocol
// form, e.g. "frame_id" -> "frameId". Names without underscores pass
// through unchanged, so already-external keys survive a second pass.
func InternalToExternal(name string) string {
	if !strings.Contains(name, "_") {
		return name
	}

	var b strings.Builder
	b.Grow(len(name))
	upperNext := false
	for i, r := range name {
		if r == '_' && i > 0 && i < len(name)-1 {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RenameToExternal returns a fresh params map with every key renamed to
// protocol form. Unknown keys are renamed and passed through unchanged;
// this layer never rejects them.
func RenameToExternal(params map[string]any) map[string]any {
	renamed := make(map[string]any, len(params))
	for key, value := range params {
		renamed[InternalToExternal(key)] = value
	}
	return renamed
}

// Qualify builds the wire method name for a command within a domain.
func Qualify(domain, command string) string {
	return domain + "." + command
}
