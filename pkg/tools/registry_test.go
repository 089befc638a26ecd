package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	name    string
	schema  map[string]ArgSpec
	execute func(ctx context.Context, args map[string]any) (string, error)
}

func (f *fakeTool) Name() string { return f.name }

func (f *fakeTool) Description() string { return "fake tool " + f.name }

func (f *fakeTool) Schema() map[string]ArgSpec { return f.schema }
func (f *fakeTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	return f.execute(ctx, args)
}

func echoTool(name string) *fakeTool {
	return &fakeTool{
		name: name,
		schema: map[string]ArgSpec{
			"input": {Description: "text to echo", Type: "string", Required: true},
		},
		execute: func(_ context.Context, args map[string]any) (string, error) {
			s, _ := args["input"].(string)
			return s, nil
		},
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("echo")))
	assert.Equal(t, 1, r.Len())

	tool, ok := r.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", tool.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("echo")))
	assert.Error(t, r.Register(echoTool("echo")))
}

func TestRegistryValidate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("echo")))

	assert.NoError(t, r.Validate("echo", map[string]any{"input": "hi"}))
	assert.Error(t, r.Validate("echo", map[string]any{}), "missing required argument")
	assert.Error(t, r.Validate("echo", map[string]any{"input": 7}), "wrong type")
	assert.Error(t, r.Validate("echo", map[string]any{"input": "hi", "extra": true}), "undeclared argument")
	assert.Error(t, r.Validate("missing", map[string]any{}))
}

func TestRegistryValidateNoSchema(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&fakeTool{
		name: "clock",
		execute: func(context.Context, map[string]any) (string, error) {
			return "tick", nil
		},
	}))

	assert.NoError(t, r.Validate("clock", map[string]any{}))
	assert.Error(t, r.Validate("clock", map[string]any{"surprise": 1}))
}

func TestRegistryDefinitionsSorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(echoTool("zulu")))
	require.NoError(t, r.Register(echoTool("alpha")))

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "alpha", defs[0].Name)
	assert.Equal(t, "zulu", defs[1].Name)
	assert.Equal(t, "fake tool alpha", defs[0].Description)
}
