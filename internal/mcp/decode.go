package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"montage/internal/errors"
)

// decode unmarshals MCP request arguments into a typed struct. Arguments
// arrive as a map, so they take a round trip through JSON to get field names
// and types checked. A mistyped argument comes back as INVALID_REQUEST,
// ready for errorResult.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, errors.NewInternal(fmt.Errorf("marshal arguments: %w", err))
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, errors.NewInvalidRequest(fmt.Sprintf("invalid arguments: %v", err))
	}
	return result, nil
}
