package variadic

import (
	"fmt"
	"strings"
)

// noneToken is the textual form of an empty container. The empty-parens
// token is accepted on import as an alias, matching the generic "empty
// struct" marker used by asset-text tooling.
const noneToken = "None"

// ExportText appends the container's textual form: the fully-qualified type
// name followed by the type's own text export, or "None" when empty.
func (v *VariadicStruct) ExportText(sb *strings.Builder) {
	mem := v.slot()
	if mem == nil {
		sb.WriteString(noneToken)
		return
	}
	sb.WriteString(v.desc.name)
	v.desc.exportText(sb, mem)
}

// ExportTextString is ExportText into a fresh string.
func (v *VariadicStruct) ExportTextString() string {
	var sb strings.Builder
	v.ExportText(&sb)
	return sb.String()
}

// ImportText parses a textual value produced by ExportText, resolving the
// type name through the registry's redirect table first so renamed types
// keep importing. Returns the unconsumed remainder of the input.
func (v *VariadicStruct) ImportText(in string, reg *Registry) (string, error) {
	if rest, ok := strings.CutPrefix(in, "()"); ok {
		v.InitializeAs(nil, nil)
		return rest, nil
	}

	token, rest := readDottedToken(in)
	if token == "" && in != "" && rest == in {
		return in, fmt.Errorf("%w: expected a type name", ErrMalformedText)
	}

	if token == "" || strings.EqualFold(token, noneToken) {
		v.InitializeAs(nil, nil)
		return rest, nil
	}

	td, ok := reg.Resolve(token)
	if !ok {
		return in, fmt.Errorf("%w: unknown type %q", ErrMalformedText, token)
	}

	v.InitializeAs(td, nil)
	out, err := td.importText(rest, v.MutableMemory())
	if err != nil {
		return in, err
	}
	return out, nil
}

// readDottedToken consumes a leading dotted type name (letters, digits,
// '.', '_', '/') and returns it with the remaining input.
func readDottedToken(in string) (token, rest string) {
	i := 0
	for i < len(in) {
		c := in[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '.', c == '_', c == '/':
			i++
		default:
			return in[:i], in[i:]
		}
	}
	return in, ""
}
