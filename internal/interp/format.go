package interp

import (
	"strings"

	"github.com/nuwa-ai/nuwascript/internal/interp/errs"
	"github.com/nuwa-ai/nuwascript/internal/value"
)

// renderFormat implements the FORMAT placeholder grammar: `{identifier}`
// substitutes a key from values, `{{`/`}}` escape to literal braces, and
// an identifier missing from values is a RuntimeError.
func renderFormat(pos *errs.Pos, template string, values value.Value) (string, error) {
	var sb strings.Builder
	runes := []rune(template)
	i := 0
	for i < len(runes) {
		ch := runes[i]
		switch {
		case ch == '{' && i+1 < len(runes) && runes[i+1] == '{':
			sb.WriteByte('{')
			i += 2
		case ch == '}' && i+1 < len(runes) && runes[i+1] == '}':
			sb.WriteByte('}')
			i += 2
		case ch == '{':
			end := i + 1
			for end < len(runes) && isIdentRune(runes[end], end == i+1) {
				end++
			}
			if end == i+1 || end >= len(runes) || runes[end] != '}' {
				return "", errs.NewRuntimeError(pos, "FORMAT: malformed placeholder starting at position %d", i)
			}
			name := string(runes[i+1 : end])
			v, ok := values.Get(name)
			if !ok {
				return "", errs.NewRuntimeError(pos, "FORMAT: missing key %q in values", name)
			}
			sb.WriteString(value.Stringify(v))
			i = end + 1
		default:
			sb.WriteRune(ch)
			i++
		}
	}
	return sb.String(), nil
}

func isIdentRune(r rune, first bool) bool {
	switch {
	case r == '_':
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return !first
	default:
		return false
	}
}
