package swisskit

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExpressionEvaluator evaluates template expressions against a row environment.
type ExpressionEvaluator interface {
	Evaluate(expression string, env map[string]any) (any, error)
	Compile(expression string, env map[string]any) error
}

// exprEvaluator implements ExpressionEvaluator using expr-lang/expr.
type exprEvaluator struct {
	cache sync.Map // expression + env signature → compiled *vm.Program
}

// NewExpressionEvaluator creates a new expression evaluator backed by expr-lang/expr.
func NewExpressionEvaluator() ExpressionEvaluator {
	return &exprEvaluator{}
}

// CompileError wraps a failure to compile an expression: unknown names or bad syntax.
type CompileError struct {
	Expression string
	Err        error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile expression %q: %v", e.Expression, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

func (e *exprEvaluator) Evaluate(expression string, env map[string]any) (any, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, nil
	}
	program, err := e.compile(expression, env)
	if err != nil {
		return nil, err
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return nil, fmt.Errorf("evaluate expression %q: %w", expression, err)
	}
	return result, nil
}

func (e *exprEvaluator) Compile(expression string, env map[string]any) error {
	_, err := e.compile(expression, env)
	return err
}

func (e *exprEvaluator) compile(expression string, env map[string]any) (*vm.Program, error) {
	source := rewriteMethodCalls(expression)
	key := source + "\x00" + envSignature(env)
	if cached, ok := e.cache.Load(key); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, &CompileError{Expression: expression, Err: err}
	}
	e.cache.Store(key, program)
	return program, nil
}

// envSignature identifies the set of names a program was type-checked against.
func envSignature(env map[string]any) string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// methodCall matches spreadsheet-user habits like Group.lower().
var methodCall = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\.(lower|upper|strip|title|capitalize)\(\)`)

var methodHelpers = map[string]string{
	"lower":      "lower",
	"upper":      "upper",
	"strip":      "trim",
	"title":      "titleCase",
	"capitalize": "capitalizeFirst",
}

// rewriteMethodCalls turns X.lower() into lower(X) so expr can evaluate it.
func rewriteMethodCalls(expression string) string {
	return methodCall.ReplaceAllStringFunc(expression, func(m string) string {
		sub := methodCall.FindStringSubmatch(m)
		return methodHelpers[sub[2]] + "(" + sub[1] + ")"
	})
}

// ExpressionSegment represents a part of a value: either literal text or an expression.
type ExpressionSegment struct {
	IsExpression bool
	Text         string // literal text or expression content (without delimiters)
}

// ParseExpressions splits a value into segments of literal text and expressions.
// For example, "Group: ${Group}" → [{false, "Group: "}, {true, "Group"}]
// An unterminated expression is kept as literal text.
func ParseExpressions(value string, begin, end string) []ExpressionSegment {
	if begin == "" || end == "" {
		begin = "${"
		end = "}"
	}

	var segments []ExpressionSegment
	remaining := value

	for {
		startIdx := strings.Index(remaining, begin)
		if startIdx < 0 {
			break
		}

		searchFrom := startIdx + len(begin)
		endIdx := findMatchingEnd(remaining[searchFrom:], begin, end)
		if endIdx < 0 {
			break
		}
		endIdx += searchFrom

		if startIdx > 0 {
			segments = append(segments, ExpressionSegment{Text: remaining[:startIdx]})
		}
		segments = append(segments, ExpressionSegment{
			IsExpression: true,
			Text:         remaining[startIdx+len(begin) : endIdx],
		})

		remaining = remaining[endIdx+len(end):]
	}

	if remaining != "" {
		segments = append(segments, ExpressionSegment{Text: remaining})
	}
	return segments
}

// findMatchingEnd finds the position of the matching end delimiter,
// handling nested begin/end pairs.
func findMatchingEnd(s string, begin, end string) int {
	depth := 0
	for i := 0; i <= len(s)-len(end); i++ {
		if strings.HasPrefix(s[i:], begin) {
			depth++
		} else if strings.HasPrefix(s[i:], end) {
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// hasUnterminated reports whether value opens an expression it never closes.
func hasUnterminated(value, begin, end string) bool {
	for _, seg := range ParseExpressions(value, begin, end) {
		if !seg.IsExpression && strings.Contains(seg.Text, begin) {
			return true
		}
	}
	return false
}
