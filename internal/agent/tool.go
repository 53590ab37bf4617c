package agent

import (
	"context"
	"strings"
)

// Tool is an action the agent may take between thoughts
type Tool interface {
	Name() string
	Description() string
	Run(ctx context.Context, input string) (string, error)
}

// ToolFunc adapts a plain function into a Tool
type ToolFunc struct {
	name        string
	description string
	fn          func(ctx context.Context, input string) (string, error)
}

// NewTool creates a Tool backed by fn
func NewTool(name, description string, fn func(ctx context.Context, input string) (string, error)) *ToolFunc {
	return &ToolFunc{name: name, description: description, fn: fn}
}

func (t *ToolFunc) Name() string        { return t.name }
func (t *ToolFunc) Description() string { return t.description }

func (t *ToolFunc) Run(ctx context.Context, input string) (string, error) {
	return t.fn(ctx, input)
}

func toolNames(tools []Tool) string {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name()
	}
	return strings.Join(names, ", ")
}
