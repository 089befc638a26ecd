package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMathToolEvaluates(t *testing.T) {
	tool := NewMathTool()
	cases := []struct {
		expr string
		want string
	}{
		{"1+1", "Result of 1+1 = 2"},
		{"2 + 3 * 4", "Result of 2 + 3 * 4 = 14"},
		{"(2 + 3) * 4", "Result of (2 + 3) * 4 = 20"},
		{"2^10", "Result of 2^10 = 1024"},
		{"-3 + 5", "Result of -3 + 5 = 2"},
		{"10 % 3", "Result of 10 % 3 = 1"},
		{"sqrt(16)", "Result of sqrt(16) = 4"},
		{"abs(-2.5)", "Result of abs(-2.5) = 2.5"},
		{"min(3, 1, 2)", "Result of min(3, 1, 2) = 1"},
		{"max(3, 1, 2)", "Result of max(3, 1, 2) = 3"},
		{"pow(2, 3)", "Result of pow(2, 3) = 8"},
		{"floor(2.9)", "Result of floor(2.9) = 2"},
		{"ceil(2.1)", "Result of ceil(2.1) = 3"},
		{"1.5e2 + 50", "Result of 1.5e2 + 50 = 200"},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := tool.Execute(context.Background(), map[string]any{"expression": tc.expr})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMathToolPrecedence(t *testing.T) {
	// ^ binds tighter than unary minus context and is right-associative.
	got, err := NewMathTool().Execute(context.Background(), map[string]any{"expression": "2^3^2"})
	require.NoError(t, err)
	assert.Equal(t, "Result of 2^3^2 = 512", got)
}

func TestMathToolErrors(t *testing.T) {
	tool := NewMathTool()
	for _, expr := range []string{
		"",
		"1 +",
		"(1 + 2",
		"1 / 0",
		"10 % 0",
		"nope(1)",
		"unknownconst",
		"sqrt(-1)",
		"1 2",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := tool.Execute(context.Background(), map[string]any{"expression": expr})
			require.Error(t, err)
			var terr *ToolError
			assert.ErrorAs(t, err, &terr)
		})
	}
}
