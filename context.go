package swisskit

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrTemplateSyntax reports a template that references unknown names or does not parse.
	ErrTemplateSyntax = errors.New("template syntax")
	// ErrFormula reports a template that compiled but failed while evaluating a row.
	ErrFormula = errors.New("formula evaluation failed")
)

// ErrorValue is written into cells whose formula failed at evaluation time.
const ErrorValue = "#ERROR"

// Context renders `${...}` templates against roster rows.
// It holds the helpers available to every expression and the compiled-program cache.
type Context struct {
	globals       map[string]any
	evaluator     ExpressionEvaluator
	notationBegin string
	notationEnd   string
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithNotation sets custom expression notation delimiters.
func WithNotation(begin, end string) ContextOption {
	return func(c *Context) {
		c.notationBegin = begin
		c.notationEnd = end
	}
}

// WithEvaluator sets a custom expression evaluator.
func WithEvaluator(ev ExpressionEvaluator) ContextOption {
	return func(c *Context) {
		c.evaluator = ev
	}
}

// WithGlobal makes a value or function available to every expression.
func WithGlobal(name string, value any) ContextOption {
	return func(c *Context) {
		c.globals[name] = value
	}
}

// NewContext creates a Context with the default helpers.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{
		globals: map[string]any{
			"titleCase":       Title,
			"capitalizeFirst": Capitalize,
		},
		evaluator:     NewExpressionEvaluator(),
		notationBegin: "${",
		notationEnd:   "}",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultContext = NewContext()

// Env builds the expression environment for a row. Every known field is
// present (blank when missing) under its key, its lowercase key and its
// snake_case label, so Lastname, lastname and last_name all resolve.
// Those names take precedence over helpers of the same name.
func (c *Context) Env(row Row) map[string]any {
	env := make(map[string]any, len(c.globals)+3*len(Fields)+len(row))
	for k, v := range c.globals {
		env[k] = v
	}
	for _, f := range Fields {
		v := row.Get(f)
		env[string(f)] = v
		env[strings.ToLower(string(f))] = v
		env[f.snakeLabel()] = v
	}
	for k, v := range row {
		if k == "" {
			continue
		}
		env[k] = v
		env[strings.ToLower(k)] = v
	}
	return env
}

// Render evaluates every expression embedded in tmpl for the row.
//
// A template that does not compile is returned unchanged together with an
// error wrapping ErrTemplateSyntax. A template that opens an expression
// without closing it is retried with the closing delimiter appended.
// Evaluation failures return ErrorValue and an error wrapping ErrFormula.
func (c *Context) Render(tmpl string, row Row) (string, error) {
	source := tmpl
	if hasUnterminated(source, c.notationBegin, c.notationEnd) {
		source += c.notationEnd
	}
	segments := ParseExpressions(source, c.notationBegin, c.notationEnd)

	env := c.Env(row)
	var b strings.Builder
	for _, seg := range segments {
		if !seg.IsExpression {
			b.WriteString(seg.Text)
			continue
		}
		val, err := c.evaluator.Evaluate(seg.Text, env)
		if err != nil {
			var ce *CompileError
			if errors.As(err, &ce) {
				return tmpl, fmt.Errorf("%w: %v", ErrTemplateSyntax, err)
			}
			return ErrorValue, fmt.Errorf("%w: %v", ErrFormula, err)
		}
		if val != nil && reflect.TypeOf(val).Kind() == reflect.Func {
			return ErrorValue, fmt.Errorf("%w: %q is a function, call it", ErrFormula, seg.Text)
		}
		if val != nil {
			fmt.Fprintf(&b, "%v", val)
		}
	}
	return b.String(), nil
}

// Check compiles every expression in tmpl against the row's names without evaluating it.
func (c *Context) Check(tmpl string, row Row) error {
	source := tmpl
	if hasUnterminated(source, c.notationBegin, c.notationEnd) {
		source += c.notationEnd
	}
	env := c.Env(row)
	for _, seg := range ParseExpressions(source, c.notationBegin, c.notationEnd) {
		if !seg.IsExpression {
			continue
		}
		if err := c.evaluator.Compile(seg.Text, env); err != nil {
			return fmt.Errorf("%w: %v", ErrTemplateSyntax, err)
		}
	}
	return nil
}

// Render renders tmpl for the row with the default Context.
func Render(tmpl string, row Row) (string, error) {
	return defaultContext.Render(tmpl, row)
}

// RenderOrLiteral renders tmpl, falling back to the literal template when it
// does not compile. Evaluation errors are returned.
func RenderOrLiteral(tmpl string, row Row) (string, error) {
	out, err := defaultContext.Render(tmpl, row)
	if errors.Is(err, ErrTemplateSyntax) {
		return tmpl, nil
	}
	return out, err
}
