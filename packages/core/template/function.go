package template

import (
	"context"
	"strings"
)

// Func evaluates one function call. ok is false when the function has no
// value to offer; the expression then renders as an empty string.
type Func func(ctx context.Context, call *Call) (value string, ok bool)

// Arg describes one declared argument of a function.
type Arg struct {
	Name        string
	Label       string
	Placeholder string
	Default     string
	Options     []string
	Optional    bool
}

// Definition is a registered template function.
type Definition struct {
	Name        string
	Description string
	Aliases     []string
	Args        []Arg
	Fn          Func
}

// Args holds call arguments by name.
type Args map[string]string

// Get returns the named argument, or "" when it was not supplied.
func (a Args) Get(name string) string {
	return a[name]
}

// Call is a single evaluation of a function.
type Call struct {
	Name    string
	Args    Args
	Purpose Purpose
}

// bind maps parsed arguments onto the definition's declared arguments and
// fills in defaults for anything not supplied.
func (d *Definition) bind(parsed []rawArg) Args {
	args := make(Args, len(d.Args))
	pos := 0
	for _, a := range parsed {
		if a.key != "" {
			args[a.key] = a.value
			continue
		}
		for pos < len(d.Args) {
			name := d.Args[pos].Name
			pos++
			if _, taken := args[name]; !taken {
				args[name] = a.value
				break
			}
		}
	}
	for _, a := range d.Args {
		if _, ok := args[a.Name]; !ok && a.Default != "" {
			args[a.Name] = a.Default
		}
	}
	return args
}

// Signature renders the call shape, e.g. random(min?, max?).
func (d *Definition) Signature() string {
	names := make([]string, len(d.Args))
	for i, a := range d.Args {
		names[i] = a.Name
		if a.Optional {
			names[i] += "?"
		}
	}
	return d.Name + "(" + strings.Join(names, ", ") + ")"
}
