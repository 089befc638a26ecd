package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/loom-chat/loom/pkg/tools"
)

// FormatToolDescriptions renders the registered tools for prompt injection.
// Each tool becomes one line: "name: description / Arguments: arg: desc, ...".
// Tools without arguments render "Arguments: none".
func FormatToolDescriptions(defs []tools.Definition) string {
	if len(defs) == 0 {
		return "No tools available."
	}

	var sb strings.Builder
	for i, def := range defs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%s: %s / Arguments: %s", def.Name, def.Description, formatArguments(def.Schema)))
	}
	return sb.String()
}

func formatArguments(schema map[string]tools.ArgSpec) string {
	if len(schema) == 0 {
		return "none"
	}

	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		spec := schema[name]
		desc := spec.Description
		if desc == "" {
			desc = spec.Type
		}
		if spec.Required {
			desc += " (required)"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, desc))
	}
	return strings.Join(parts, ", ")
}
