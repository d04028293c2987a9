package swisskit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	row := Row{"Lastname": "Novak", "Firstname": "Jana", "Club": "sk slavia", "Title": "WGM", "FIDEId": "123"}

	tests := []struct {
		tmpl string
		want string
	}{
		{"${Lastname} ${Firstname}", "Novak Jana"},
		{"plain text", "plain text"},
		{"${last_name}/${fide_id}", "Novak/123"},
		{"${lastname}", "Novak"},
		{"${titleCase(Club)}", "Sk Slavia"},
		{"${Club.title()}", "Sk Slavia"},
		{"${Title}", "WGM"},
		{"${Club.upper()}", "SK SLAVIA"},
		{"${capitalizeFirst(Club)}", "Sk slavia"},
		{"${Club.capitalize()}", "Sk slavia"},
		{"${Club", "sk slavia"},
		{"${Rating}", ""},
		{"${Lastname + ' (' + Title + ')'}", "Novak (WGM)"},
	}
	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			got, err := Render(tt.tmpl, row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_UnknownNameReturnsLiteral(t *testing.T) {
	got, err := Render("Hello ${nope}", Row{})
	require.ErrorIs(t, err, ErrTemplateSyntax)
	assert.Equal(t, "Hello ${nope}", got)

	got, err = RenderOrLiteral("Hello ${nope}", Row{})
	require.NoError(t, err)
	assert.Equal(t, "Hello ${nope}", got)
}

func TestRender_RuntimeError(t *testing.T) {
	got, err := Render("${int(Club)}", Row{"Club": "abc"})
	require.ErrorIs(t, err, ErrFormula)
	assert.Equal(t, ErrorValue, got)
}

func TestContext_Options(t *testing.T) {
	c := NewContext(
		WithNotation("{{", "}}"),
		WithGlobal("shout", func(s string) string { return strings.ToUpper(s) + "!" }),
	)
	got, err := c.Render("{{shout(Club)}} ${Club}", Row{"Club": "ok"})
	require.NoError(t, err)
	assert.Equal(t, "OK! ${Club}", got)
}

func TestContext_Check(t *testing.T) {
	row := Row{"Name": "x"}
	assert.NoError(t, defaultContext.Check("${Name.lower()} ${Group}", row))
	assert.ErrorIs(t, defaultContext.Check("${Missing}", row), ErrTemplateSyntax)
	assert.ErrorIs(t, defaultContext.Check("${Name +", row), ErrTemplateSyntax)
}

func TestContext_FieldAliasesWinOverHelpers(t *testing.T) {
	row := Row{"Name": "novak jana", "Title": "GM"}

	got, err := Render("${title}", row)
	require.NoError(t, err)
	assert.Equal(t, "GM", got)

	got, err = Render("${name.title()} (${title})", row)
	require.NoError(t, err)
	assert.Equal(t, "Novak Jana (GM)", got)

	env := NewContext().Env(row)
	assert.Equal(t, "GM", env["title"])
	assert.Equal(t, "", env["team_id"])
}

func TestRender_FunctionValueIsAnError(t *testing.T) {
	got, err := Render("${titleCase}", Row{})
	require.ErrorIs(t, err, ErrFormula)
	assert.Equal(t, ErrorValue, got)
}

func TestParseExpressions(t *testing.T) {
	got := ParseExpressions("a ${b} c ${d}", "${", "}")
	assert.Equal(t, []ExpressionSegment{
		{Text: "a "},
		{IsExpression: true, Text: "b"},
		{Text: " c "},
		{IsExpression: true, Text: "d"},
	}, got)

	got = ParseExpressions("open ${never", "${", "}")
	assert.Equal(t, []ExpressionSegment{{Text: "open ${never"}}, got)
}

func TestRewriteMethodCalls(t *testing.T) {
	assert.Equal(t, "trim(Group)", rewriteMethodCalls("Group.strip()"))
	assert.Equal(t, "lower(a) + upper(b)", rewriteMethodCalls("a.lower() + b.upper()"))
	assert.Equal(t, "titleCase(Club) + capitalizeFirst(Name)", rewriteMethodCalls("Club.title() + Name.capitalize()"))
	assert.Equal(t, "Group.other()", rewriteMethodCalls("Group.other()"))
}

func TestEvaluator_CachesPrograms(t *testing.T) {
	ev := NewExpressionEvaluator().(*exprEvaluator)
	env := map[string]any{"x": "1"}
	_, err := ev.Evaluate("x + '2'", env)
	require.NoError(t, err)
	_, err = ev.Evaluate("x + '2'", map[string]any{"x": "5"})
	require.NoError(t, err)

	n := 0
	ev.cache.Range(func(_, _ any) bool { n++; return true })
	assert.Equal(t, 1, n)

	v, err := ev.Evaluate("  ", env)
	require.NoError(t, err)
	assert.Nil(t, v)
}
