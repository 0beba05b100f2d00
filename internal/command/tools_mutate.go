package command

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pottingshed/verdant/internal/garden"
)

// plantInput is the input schema for the plant_object tool.
type plantInput struct {
	ObjectID string `json:"object_id" jsonschema:"Catalog ID of the object to plant"`
}

// removeInput is the input schema for the remove_object tool.
type removeInput struct {
	ObjectID string `json:"object_id" jsonschema:"Catalog ID of the planted object to remove"`
}

// setGardenInput is the input schema for the set_garden tool.
type setGardenInput struct {
	ObjectIDs  []string `json:"object_ids" jsonschema:"Ordered object IDs to plant"`
	ClearFirst bool     `json:"clear_first,omitempty" jsonschema:"Clear the garden before planting"`
}

type clearInput struct{}
type pruneInput struct{}
type resetInput struct{}

// registerMutateTools registers every state-changing garden tool.
func (s *Server) registerMutateTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "plant_object",
		Description: "Plant a single object into the garden",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input plantInput) (*mcp.CallToolResult, garden.Result, error) {
		if input.ObjectID == "" {
			return nil, garden.Result{}, fmt.Errorf("object_id is required")
		}
		res, err := s.engine.Add(input.ObjectID)
		if err != nil {
			return nil, garden.Result{}, err
		}
		return nil, res, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "remove_object",
		Description: "Remove a planted object from the garden",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input removeInput) (*mcp.CallToolResult, garden.Result, error) {
		if input.ObjectID == "" {
			return nil, garden.Result{}, fmt.Errorf("object_id is required")
		}
		res, err := s.engine.Remove(input.ObjectID)
		if err != nil {
			return nil, garden.Result{}, err
		}
		return nil, res, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_garden",
		Description: "Plant an ordered list of objects, optionally clearing the garden first",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input setGardenInput) (*mcp.CallToolResult, garden.Result, error) {
		ids, err := normalizeIDs(input.ObjectIDs)
		if err != nil {
			return nil, garden.Result{}, err
		}
		res, err := s.engine.AddBatch(ids, input.ClearFirst)
		if err != nil {
			return nil, garden.Result{}, err
		}
		return nil, res, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "clear_garden",
		Description: "Remove every object from the garden",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ clearInput) (*mcp.CallToolResult, garden.Result, error) {
		res, err := s.engine.Clear()
		if err != nil {
			return nil, garden.Result{}, err
		}
		return nil, res, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "prune_oldest",
		Description: "Remove the oldest half of the garden's occupants",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ pruneInput) (*mcp.CallToolResult, garden.Result, error) {
		res, err := s.engine.RemoveOldestHalf()
		if err != nil {
			return nil, garden.Result{}, err
		}
		return nil, res, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "reset_garden",
		Description: "Clear the garden and plant the default object set",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ resetInput) (*mcp.CallToolResult, garden.Result, error) {
		res, err := s.engine.Reinitialize()
		if err != nil {
			return nil, garden.Result{}, err
		}
		return nil, res, nil
	})
}

// normalizeIDs validates a set_garden object list and deduplicates it,
// keeping the first occurrence of each ID in order. The engine never sees
// a malformed list.
func normalizeIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: object_ids must not be empty", garden.ErrInvalidInput)
	}
	if len(ids) > MaxBatchIDs {
		return nil, fmt.Errorf("%w: object_ids has %d entries, maximum is %d", garden.ErrInvalidInput, len(ids), MaxBatchIDs)
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, fmt.Errorf("%w: object_ids contains an empty id", garden.ErrInvalidInput)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}
