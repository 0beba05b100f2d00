package command

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pottingshed/verdant/internal/catalog"
	"github.com/pottingshed/verdant/internal/garden"
)

type stateInput struct{}
type catalogInput struct{}

// stateOutput is the output schema for the garden_state tool.
type stateOutput struct {
	State garden.Snapshot `json:"state"`
}

// catalogOutput is the output schema for the garden_catalog tool.
type catalogOutput struct {
	Categories []categoryEntry      `json:"categories"`
	Objects    []catalog.Definition `json:"objects"`
}

type categoryEntry struct {
	Name  string   `json:"name"`
	Slots []string `json:"slots"`
}

// registerQueryTools registers the read-only garden tools.
func (s *Server) registerQueryTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "garden_state",
		Description: "Return a snapshot of the current garden state",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ stateInput) (*mcp.CallToolResult, stateOutput, error) {
		return nil, stateOutput{State: s.engine.State()}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "garden_catalog",
		Description: "Return the slot categories and object definitions",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ catalogInput) (*mcp.CallToolResult, catalogOutput, error) {
		cat := s.engine.Catalog()
		out := catalogOutput{Objects: cat.Objects()}
		for _, name := range cat.Categories() {
			out.Categories = append(out.Categories, categoryEntry{
				Name:  name,
				Slots: cat.SlotsOf(name),
			})
		}
		return nil, out, nil
	})
}
