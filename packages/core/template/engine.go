package template

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/hitref/packages/logging"
)

var expressionPattern = regexp.MustCompile(`\{\{(.+?)\}\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Engine renders template expressions. Variables and registered functions
// are guarded by a lock; rendering itself keeps no state between calls.
type Engine struct {
	mu        sync.RWMutex
	variables map[string]any
	funcs     map[string]*Definition
	aliases   map[string]string
	warnFunc  WarnFunc
	logger    *slog.Logger
}

func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Engine{
		variables: make(map[string]any),
		funcs:     make(map[string]*Definition),
		aliases:   make(map[string]string),
		logger:    logger,
	}
}

// SetWarnFunc sets a function to be called when warnings occur (e.g., unresolved variables)
func (e *Engine) SetWarnFunc(fn WarnFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.warnFunc = fn
}

func (e *Engine) warn(format string, args ...any) {
	e.mu.RLock()
	fn := e.warnFunc
	e.mu.RUnlock()
	if fn != nil {
		fn(format, args...)
		return
	}
	e.logger.Warn(fmt.Sprintf(format, args...))
}

// Register adds a function under its name and aliases. An alias never
// replaces an existing function name.
func (e *Engine) Register(def *Definition) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.funcs[def.Name] = def
	for _, alias := range def.Aliases {
		if _, exists := e.funcs[alias]; exists {
			continue
		}
		if _, exists := e.aliases[alias]; exists {
			continue
		}
		e.aliases[alias] = def.Name
	}
}

// Lookup finds a function by name or alias.
func (e *Engine) Lookup(name string) (*Definition, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if def, ok := e.funcs[name]; ok {
		return def, true
	}
	if target, ok := e.aliases[name]; ok {
		def, ok := e.funcs[target]
		return def, ok
	}
	return nil, false
}

// Functions returns the registered functions sorted by name.
func (e *Engine) Functions() []*Definition {
	e.mu.RLock()
	defer e.mu.RUnlock()
	defs := make([]*Definition, 0, len(e.funcs))
	for _, def := range e.funcs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

func (e *Engine) SetVariables(vars map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for k, v := range vars {
		e.variables[k] = v
	}
}

func (e *Engine) SetVariable(name string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.variables[name] = value
}

func (e *Engine) GetVariable(name string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.variables[name]
	return v, ok
}

// Render replaces every expression in input. Unknown variables and functions
// are left as written; a function with no value renders as "".
func (e *Engine) Render(ctx context.Context, input string, purpose Purpose) string {
	if !strings.Contains(input, "{{") {
		return input
	}
	return expressionPattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])
		if value, ok := e.evaluate(ctx, expr, purpose); ok {
			return value
		}
		return match
	})
}

// Call invokes a registered function directly with already-named arguments.
func (e *Engine) Call(ctx context.Context, name string, args Args, purpose Purpose) (string, bool) {
	def, ok := e.Lookup(name)
	if !ok {
		return "", false
	}
	bound := make(Args, len(args))
	for k, v := range args {
		bound[k] = v
	}
	for _, a := range def.Args {
		if _, ok := bound[a.Name]; !ok && a.Default != "" {
			bound[a.Name] = a.Default
		}
	}
	return def.Fn(ctx, &Call{Name: def.Name, Args: bound, Purpose: purpose})
}

// evaluate returns false only for expressions that should stay verbatim.
func (e *Engine) evaluate(ctx context.Context, expr string, purpose Purpose) (string, bool) {
	if expr == "" {
		return "", false
	}

	if strings.HasPrefix(expr, "$") {
		name := expr[1:]
		if val, ok := os.LookupEnv(name); ok {
			return val, true
		}
		e.warn("unresolved environment variable: $%s", name)
		return "", false
	}

	if name, parsed, ok := parseCall(expr); ok {
		def, found := e.Lookup(name)
		if !found {
			e.warn("unresolved function call: %s", expr)
			return "", false
		}
		call := &Call{Name: def.Name, Args: def.bind(parsed), Purpose: purpose}
		value, ok := def.Fn(ctx, call)
		if !ok {
			e.logger.Debug("template function returned no value", "function", def.Name, "purpose", purpose)
			return "", true
		}
		return value, true
	}

	if val, ok := e.GetVariable(expr); ok {
		return fmt.Sprintf("%v", val), true
	}

	e.warn("unresolved variable: %s", expr)
	return "", false
}

// Unresolved returns the expressions in input that name no known variable or
// function, in order of appearance.
func (e *Engine) Unresolved(input string) []string {
	var names []string
	for _, m := range expressionPattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		switch {
		case strings.HasPrefix(expr, "$"):
			if _, ok := os.LookupEnv(expr[1:]); !ok {
				names = append(names, expr)
			}
		default:
			if name, _, ok := parseCall(expr); ok {
				if _, found := e.Lookup(name); !found {
					names = append(names, expr)
				}
				continue
			}
			if _, ok := e.GetVariable(expr); !ok {
				names = append(names, expr)
			}
		}
	}
	return names
}
