package template

import (
	"regexp"
	"strings"
)

var funcCallPattern = regexp.MustCompile(`^([A-Za-z_][\w.]*)\s*\((.*)\)$`)

var argKeyPattern = regexp.MustCompile(`^[A-Za-z_]\w*$`)

type rawArg struct {
	key   string
	value string
}

// parseCall splits `name(args...)` into the function name and its arguments.
func parseCall(expr string) (string, []rawArg, bool) {
	matches := funcCallPattern.FindStringSubmatch(expr)
	if matches == nil {
		return "", nil, false
	}
	var args []rawArg
	if strings.TrimSpace(matches[2]) != "" {
		args = parseArgs(matches[2])
	}
	return matches[1], args, true
}

// parseArgs splits a comma separated argument list. Quotes group text and are
// removed; an unquoted `key=` prefix names the argument.
func parseArgs(s string) []rawArg {
	var args []rawArg
	var current strings.Builder
	key := ""
	quoted := false
	inQuote := false
	quoteChar := byte(0)

	flush := func() {
		value := current.String()
		if !quoted {
			value = strings.TrimSpace(value)
		}
		args = append(args, rawArg{key: key, value: value})
		current.Reset()
		key = ""
		quoted = false
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inQuote && ch == '\\' && i+1 < len(s) && s[i+1] == quoteChar:
			current.WriteByte(quoteChar)
			i++
		case !inQuote && (ch == '"' || ch == '\''):
			inQuote = true
			quoted = true
			quoteChar = ch
			current.Reset()
		case inQuote && ch == quoteChar:
			inQuote = false
			quoteChar = 0
		case !inQuote && ch == '=' && key == "" && argKeyPattern.MatchString(strings.TrimSpace(current.String())):
			key = strings.TrimSpace(current.String())
			current.Reset()
		case !inQuote && ch == ',':
			flush()
		case !inQuote && quoted:
			// Text between a closing quote and the next comma is ignored.
		default:
			current.WriteByte(ch)
		}
	}

	if current.Len() > 0 || key != "" || quoted {
		flush()
	}

	return args
}
