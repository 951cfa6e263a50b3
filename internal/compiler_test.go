package internal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lessweb/internal"
	"github.com/dmitrymomot/lessweb/pkg/less"
)

func TestSafeCompile(t *testing.T) {
	t.Parallel()

	t.Run("result", func(t *testing.T) {
		t.Parallel()

		out, err := internal.SafeCompile(internal.LessCompiler{}, "@w: 1px;\n.a { width: @w; }", less.Options{})
		require.NoError(t, err)
		assert.Equal(t, ".a {\n  width: 1px;\n}\n", out)
	})

	t.Run("compile error", func(t *testing.T) {
		t.Parallel()

		_, err := internal.SafeCompile(internal.LessCompiler{}, ".a {", less.Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, less.ErrSyntax)
	})

	t.Run("panic becomes internal error", func(t *testing.T) {
		t.Parallel()

		boom := internal.CompilerFunc(func(string, less.Options) (string, error) {
			panic("boom")
		})

		var (
			out string
			err error
		)
		require.NotPanics(t, func() {
			out, err = internal.SafeCompile(boom, ".a{}", less.Options{Filename: "x.less"})
		})
		assert.Empty(t, out)
		require.Error(t, err)
		assert.ErrorIs(t, err, less.ErrInternal)

		lerr, ok := less.AsError(err)
		require.True(t, ok)
		assert.Equal(t, less.KindInternal, lerr.Kind)
		assert.Equal(t, "x.less", lerr.Filename)
		assert.Contains(t, lerr.Message, "boom")
	})
}

func TestLessCompilerCompress(t *testing.T) {
	t.Parallel()

	out, err := internal.LessCompiler{Compress: true}.Compile(".a { color: red; }\n.b { margin: 0; }", less.Options{})
	require.NoError(t, err)
	assert.NotContains(t, out, "\n  ")
	assert.Contains(t, out, ".a{")
}
