package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/atext2csv/internal/config"
	"github.com/hpungsan/atext2csv/internal/errors"
	"github.com/hpungsan/atext2csv/internal/ops"
	"github.com/hpungsan/atext2csv/internal/snippet"
)

// Parse listing limits
const (
	defaultParseLimit = 100
	maxParseLimit     = 500
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *config.Config) *Handlers {
	return &Handlers{cfg: cfg}
}

// Request types for each tool

// ParseRequest represents the arguments for parse.
type ParseRequest struct {
	Path   string  `json:"path,omitempty"`
	Group  *string `json:"group,omitempty"`
	Limit  int     `json:"limit,omitempty"`
	Offset int     `json:"offset,omitempty"`
}

// InfoRequest represents the arguments for info.
type InfoRequest struct {
	Path string `json:"path,omitempty"`
}

// SearchRequest represents the arguments for search.
type SearchRequest struct {
	Query  string  `json:"query"`
	Path   string  `json:"path,omitempty"`
	Group  *string `json:"group,omitempty"`
	Type   *string `json:"type,omitempty"`
	Limit  int     `json:"limit,omitempty"`
	Offset int     `json:"offset,omitempty"`
}

// GroupsRequest represents the arguments for groups.
type GroupsRequest struct {
	Path       string  `json:"path,omitempty"`
	NamePrefix *string `json:"name_prefix,omitempty"`
	Limit      int     `json:"limit,omitempty"`
	Offset     int     `json:"offset,omitempty"`
}

// ExportRequest represents the arguments for export.
type ExportRequest struct {
	Path      string   `json:"path,omitempty"`
	OutputDir string   `json:"output_dir,omitempty"`
	Formats   []string `json:"formats,omitempty"`
	Prefix    string   `json:"prefix,omitempty"`
}

// ParseOutput is the result of the parse tool.
type ParseOutput struct {
	Source     ops.Source       `json:"source"`
	Summary    snippet.Summary  `json:"summary"`
	Records    []snippet.Record `json:"records"`
	Pagination ops.Pagination   `json:"pagination"`
}

// Handler implementations

// HandleParse handles the parse tool call.
func (h *Handlers) HandleParse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ParseRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	loaded, err := h.load(ctx, input.Path)
	if err != nil {
		return errorResult(err), nil
	}

	records := loaded.Records
	if input.Group != nil {
		filtered := []snippet.Record{}
		for _, r := range records {
			if r.Group == *input.Group {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultParseLimit
	}
	limit = min(limit, maxParseLimit)
	offset := max(input.Offset, 0)
	start := min(offset, len(records))
	end := min(start+limit, len(records))

	return successResult(ParseOutput{
		Source:  loaded.Source,
		Summary: loaded.Summary(),
		Records: append([]snippet.Record{}, records[start:end]...),
		Pagination: ops.Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: end < len(records),
			Total:   len(records),
		},
	})
}

// HandleInfo handles the info tool call.
func (h *Handlers) HandleInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[InfoRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	if err := validateOptionalPath(input.Path); err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Info(ctx, h.cfg, input.Path)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSearch handles the search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	loaded, err := h.load(ctx, input.Path)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Search(loaded.Records, ops.SearchInput{
		Query:  input.Query,
		Group:  input.Group,
		Type:   input.Type,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGroups handles the groups tool call.
func (h *Handlers) HandleGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GroupsRequest](req)
	if err != nil {
		return errorResult(err), nil
	}

	loaded, err := h.load(ctx, input.Path)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(ops.Groups(loaded.Records, ops.GroupsInput{
		NamePrefix: input.NamePrefix,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}))
}

// HandleExport handles the export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(err), nil
	}
	if err := validateOptionalPath(input.OutputDir); err != nil {
		return errorResult(err), nil
	}

	var formats []ops.Format
	if len(input.Formats) > 0 {
		formats, err = ops.ParseFormats(input.Formats)
		if err != nil {
			return errorResult(err), nil
		}
	}

	loaded, err := h.load(ctx, input.Path)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Export(ctx, h.cfg, ops.ExportInput{
		Records:   loaded.Records,
		Source:    loaded.Source.Path,
		OutputDir: input.OutputDir,
		Prefix:    input.Prefix,
		Formats:   formats,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// load validates a client-supplied path and loads the store.
func (h *Handlers) load(ctx context.Context, path string) (*ops.Loaded, error) {
	if err := validateOptionalPath(path); err != nil {
		return nil, err
	}
	return ops.Load(ctx, h.cfg, path)
}

func validateOptionalPath(path string) error {
	if path == "" {
		return nil
	}
	return ops.ValidateRemotePath(path)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if aErr, ok := err.(*errors.AtextError); ok {
		errorObj := map[string]any{
			"code":    aErr.Code,
			"message": aErr.Message,
			"status":  aErr.Status,
		}
		if aErr.Code == errors.ErrInternal {
			errorObj["message"] = "an internal error occurred"
		} else if aErr.Details != nil {
			errorObj["details"] = aErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
