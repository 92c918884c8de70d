package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// ToolDefinition describes a tool to the model.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// Toolbox carries everything a tool executor may need. Tools receive it
// explicitly; there is no hidden global registry of components.
type Toolbox struct {
	Registry  *Registry
	Runner    *Runner
	Gate      *PermissionGate
	Logger    *Logger
	Config    Config
	SessionID string
}

// ToolFunc executes one tool invocation. Executors return a map-shaped
// payload and report failures as {"error": ...}; they never panic outward.
type ToolFunc func(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{}

type registeredTool struct {
	def ToolDefinition
	fn  ToolFunc
}

var toolRegistry = map[string]registeredTool{}

// RegisterTool registers a tool executor under its definition name.
func RegisterTool(def ToolDefinition, fn ToolFunc) {
	toolRegistry[def.Name] = registeredTool{def: def, fn: fn}
}

// ToolDefinitions returns all registered definitions in a stable order.
func ToolDefinitions() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(toolRegistry))
	for _, t := range toolRegistry {
		defs = append(defs, t.def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// ExecuteTool dispatches one invocation. Unknown tool names come back as a
// structured error payload, not a failure of the calling loop, and a
// panicking executor is converted to the same shape so the session loop
// never dies on a tool bug.
func ExecuteTool(ctx context.Context, name string, args json.RawMessage, tb *Toolbox) (result map[string]interface{}) {
	tool, ok := toolRegistry[name]
	if !ok {
		return errorResult("unknown tool: %s", name)
	}
	if tb.Logger != nil {
		tb.Logger.Info("tool invocation", map[string]interface{}{
			"tool":    name,
			"session": tb.SessionID,
		})
	}
	defer func() {
		if r := recover(); r != nil {
			if tb.Logger != nil {
				tb.Logger.Error("tool panicked", map[string]interface{}{
					"tool":    name,
					"session": tb.SessionID,
					"panic":   fmt.Sprint(r),
				})
			}
			result = errorResult("tool %s failed: %v", name, r)
		}
	}()
	return tool.fn(ctx, args, tb)
}

func errorResult(format string, a ...interface{}) map[string]interface{} {
	return map[string]interface{}{"error": fmt.Sprintf(format, a...)}
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

func numberProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": description}
}

func integerProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": description}
}
