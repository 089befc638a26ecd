package tools

import (
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Definition is the prompt-facing view of a registered tool.
type Definition struct {
	Name        string
	Description string
	Schema      map[string]ArgSpec
}

// Registry is a name-keyed tool lookup. It is populated once at startup and
// read-only afterwards, so lookups need no locking.
type Registry struct {
	entries map[string]*entry
}

type entry struct {
	tool   Tool
	schema *jsonschema.Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]*entry{}}
}

// Register adds a tool, compiling its argument schema. Names must be unique.
func (r *Registry) Register(t Tool) error {
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}

	schema, err := compileSchema(name, t.Schema())
	if err != nil {
		return fmt.Errorf("compile schema for tool %q: %w", name, err)
	}

	r.entries[name] = &entry{tool: t, schema: schema}
	return nil
}

// MustRegister registers a tool and panics on failure. Registration happens
// at startup with static tool sets, so a failure is a programming error.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get resolves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.tool, true
}

// Validate checks tool-call arguments against the tool's compiled schema.
// The caller must have resolved the tool first.
func (r *Registry) Validate(name string, args map[string]any) error {
	e, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("tool %q not registered", name)
	}
	// jsonschema validates decoded JSON values; arguments arrive as such
	// from the tool payload.
	if err := e.schema.Validate(toJSONValue(args)); err != nil {
		return fmt.Errorf("invalid arguments for tool %q: %w", name, err)
	}
	return nil
}

// Definitions returns the registered tools in name order for deterministic
// prompt rendering.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.entries))
	for _, e := range r.entries {
		defs = append(defs, Definition{
			Name:        e.tool.Name(),
			Description: e.tool.Description(),
			Schema:      e.tool.Schema(),
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.entries) }

// compileSchema builds and compiles a JSON Schema document from an ArgSpec
// map. Declared-but-unknown arguments are rejected so the model gets
// feedback instead of silently ignored input.
func compileSchema(name string, args map[string]ArgSpec) (*jsonschema.Schema, error) {
	properties := map[string]any{}
	var required []string

	names := make([]string, 0, len(args))
	for argName := range args {
		names = append(names, argName)
	}
	sort.Strings(names)

	for _, argName := range names {
		spec := args[argName]
		prop := map[string]any{}
		if spec.Description != "" {
			prop["description"] = spec.Description
		}
		if spec.Type != "" {
			prop["type"] = spec.Type
		}
		if spec.Type == "array" && spec.Items != "" {
			prop["items"] = map[string]any{"type": spec.Items}
		}
		properties[argName] = prop
		if spec.Required {
			required = append(required, argName)
		}
	}

	doc := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	url := "tool://" + name + ".schema.json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(string(raw))); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

// toJSONValue normalizes argument maps into the plain decoded-JSON shapes
// the schema validator expects (ints arriving from Go callers become
// float64, typed slices become []any).
func toJSONValue(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}
