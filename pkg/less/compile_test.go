package less_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lessweb/pkg/less"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	out, err := less.Compile(src, less.Options{})
	require.NoError(t, err)
	return out
}

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "plain css",
			input:    "body { margin: 0; }",
			expected: "body {\n  margin: 0;\n}\n",
		},
		{
			name:     "variables",
			input:    "@c: #ff0000;\n.a { color: @c; }",
			expected: ".a {\n  color: #ff0000;\n}\n",
		},
		{
			name:     "variables are lazy",
			input:    ".a { color: @c; }\n@c: blue;",
			expected: ".a {\n  color: blue;\n}\n",
		},
		{
			name:     "nested rules",
			input:    ".a { .b { color: red; } &:hover { color: blue; } }",
			expected: ".a .b {\n  color: red;\n}\n.a:hover {\n  color: blue;\n}\n",
		},
		{
			name:     "nested selector groups",
			input:    ".a, .b { .c { x: 1; } }",
			expected: ".a .c,\n.b .c {\n  x: 1;\n}\n",
		},
		{
			name:     "parent selector permutations",
			input:    ".a, .b { & + & { c: d; } }",
			expected: ".a + .a,\n.a + .b,\n.b + .a,\n.b + .b {\n  c: d;\n}\n",
		},
		{
			name:     "combinators are normalised",
			input:    "ul>li   a { c: d; }",
			expected: "ul > li a {\n  c: d;\n}\n",
		},
		{
			name:     "selector interpolation",
			input:    "@n: foo;\n.@{n} { b: c; }",
			expected: ".foo {\n  b: c;\n}\n",
		},
		{
			name:     "block comments are kept",
			input:    "/* hi */\n// dropped\n.a { b: c; }",
			expected: "/* hi */\n.a {\n  b: c;\n}\n",
		},
		{
			name:     "arithmetic",
			input:    ".a { width: (10px + 5) * 2; margin: (10px / 2); }",
			expected: ".a {\n  width: 30px;\n  margin: 5px;\n}\n",
		},
		{
			name:     "division outside parentheses is kept",
			input:    ".a { font: 12px/1.5 sans-serif; }",
			expected: ".a {\n  font: 12px/1.5 sans-serif;\n}\n",
		},
		{
			name:     "calc keeps maths and substitutes variables",
			input:    "@w: 10px;\n.a { width: calc(100% - @w); }",
			expected: ".a {\n  width: calc(100% - 10px);\n}\n",
		},
		{
			name:     "unknown functions pass through",
			input:    ".a { transform: translate(10px, 20px); }",
			expected: ".a {\n  transform: translate(10px, 20px);\n}\n",
		},
		{
			name:     "hex colours keep their spelling",
			input:    ".a { color: #FFF; }",
			expected: ".a {\n  color: #FFF;\n}\n",
		},
		{
			name:     "media queries bubble",
			input:    ".a { color: red; @media (min-width: 10px) { color: blue; } }",
			expected: ".a {\n  color: red;\n}\n@media (min-width: 10px) {\n  .a {\n    color: blue;\n  }\n}\n",
		},
		{
			name:     "nested media queries are combined",
			input:    "@media screen { @media (min-width: 10px) { .a { b: c; } } }",
			expected: "@media screen and (min-width: 10px) {\n  .a {\n    b: c;\n  }\n}\n",
		},
		{
			name:     "font-face",
			input:    "@font-face { font-family: x; }",
			expected: "@font-face {\n  font-family: x;\n}\n",
		},
		{
			name:     "duplicate declarations collapse",
			input:    ".a { b: c; b: c; }",
			expected: ".a {\n  b: c;\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, compile(t, tt.input))
		})
	}
}

func TestCompileMixins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain ruleset as mixin",
			input:    ".m { a: b; }\n.x { .m; }",
			expected: ".m {\n  a: b;\n}\n.x {\n  a: b;\n}\n",
		},
		{
			name:     "parametric with default",
			input:    ".m(@w: 10px) { width: @w; }\n.a { .m(); }\n.b { .m(20px); }",
			expected: ".a {\n  width: 10px;\n}\n.b {\n  width: 20px;\n}\n",
		},
		{
			name:     "named arguments",
			input:    ".m(@a: 1; @b: 2) { x: @a @b; }\n.y { .m(@b: 3); }",
			expected: ".y {\n  x: 1 3;\n}\n",
		},
		{
			name:     "arguments variable",
			input:    ".s(@x; @y) { box-shadow: @arguments; }\n.a { .s(1px; 2px); }",
			expected: ".a {\n  box-shadow: 1px 2px;\n}\n",
		},
		{
			name:     "guards select a definition",
			input:    ".m(@a) when (@a > 10) { big: yes; }\n.m(@a) when (@a =< 10) { small: yes; }\n.x { .m(5); }",
			expected: ".x {\n  small: yes;\n}\n",
		},
		{
			name:     "pattern matching",
			input:    ".m(dark) { c: black; }\n.m(light) { c: white; }\n.x { .m(light); }",
			expected: ".x {\n  c: white;\n}\n",
		},
		{
			name:     "important",
			input:    ".m() { a: b; }\n.x { .m() !important; }",
			expected: ".x {\n  a: b !important;\n}\n",
		},
		{
			name:     "namespaces",
			input:    "#ns { .m() { c: d; } }\n.a { #ns > .m(); }",
			expected: ".a {\n  c: d;\n}\n",
		},
		{
			name:     "recursive loop",
			input:    ".loop(@i) when (@i > 0) {\n  .w-@{i} { width: (@i * 10px); }\n  .loop(@i - 1);\n}\n.loop(2);",
			expected: ".w-2 {\n  width: 20px;\n}\n.w-1 {\n  width: 10px;\n}\n",
		},
		{
			name:     "mixin sees caller variables",
			input:    ".m() { c: @v; }\n.x { @v: 1; .m(); }",
			expected: ".x {\n  c: 1;\n}\n",
		},
		{
			name:     "default guard as fallback",
			input:    ".m(@a) when (default()) { x: d; }\n.a { .m(1); }",
			expected: ".a {\n  x: d;\n}\n",
		},
		{
			name:     "default guard skipped when another definition matches",
			input:    ".m(@a) when (@a > 0) { x: pos; }\n.m(@a) when (default()) { x: other; }\n.a { .m(1); }\n.b { .m(-1); }",
			expected: ".a {\n  x: pos;\n}\n.b {\n  x: other;\n}\n",
		},
		{
			name:     "negated default guard",
			input:    ".m(@a) when not (default()) { x: y; }\n.m(@a) { z: w; }\n.a { .m(1); }",
			expected: ".a {\n  x: y;\n  z: w;\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, compile(t, tt.input))
		})
	}
}

func TestCompileCompress(t *testing.T) {
	t.Parallel()

	out, err := less.Compile(".a {\n  color: blue;\n}\n.b { margin: 0; }", less.Options{Compress: true})
	require.NoError(t, err)
	assert.NotContains(t, out, "\n")
	assert.Contains(t, out, ".a{")
	assert.Contains(t, out, "margin:0")
}

func TestCompileDeepGuardedLoop(t *testing.T) {
	t.Parallel()

	out := compile(t, ".loop(@i) when (@i > 0) {\n  .loop(@i - 1);\n}\n.loop(300);\n.a { b: c; }")
	assert.Equal(t, ".a {\n  b: c;\n}\n", out)

	out = compile(t, ".w(@i) when (@i > 0) {\n  .w-@{i} { n: @i; }\n  .w(@i - 1);\n}\n.w(400);")
	assert.Contains(t, out, ".w-400 {\n  n: 400;\n}\n")
	assert.True(t, strings.HasSuffix(out, ".w-1 {\n  n: 1;\n}\n"))
}

func TestCompileIEFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "alpha opacity filter",
			input:    ".a { filter: alpha(opacity=50); }",
			expected: ".a {\n  filter: alpha(opacity=50);\n}\n",
		},
		{
			name:     "spaced",
			input:    ".a { filter: alpha( opacity = 80 ); }",
			expected: ".a {\n  filter: alpha( opacity = 80 );\n}\n",
		},
		{
			name:     "colour function still works",
			input:    ".a { b: alpha(rgba(0, 0, 0, 0.5)); }",
			expected: ".a {\n  b: 0.5;\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, compile(t, tt.input))
		})
	}
}
