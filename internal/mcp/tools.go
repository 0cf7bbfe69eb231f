package mcp

import "github.com/mark3labs/mcp-go/mcp"

const pathDescription = "Absolute path to an aText .atext data file or a .db export. " +
	"Defaults to the aText data file in its standard location."

var parseToolDef = mcp.NewTool("atext_parse",
	mcp.WithDescription("Decode an aText snippet store and return its snippets. "+
		"Each snippet has trigger, content, rich_content, type, type_label, name, group, "+
		"hotkey, tags, uuid, created and modified."),
	mcp.WithString("path", mcp.Description(pathDescription)),
	mcp.WithString("group", mcp.Description("Only return snippets of this group (exact name).")),
	mcp.WithNumber("limit", mcp.Description("Maximum snippets to return (default 100, max 500).")),
	mcp.WithNumber("offset", mcp.Description("Snippets to skip (default 0).")),
)

var infoToolDef = mcp.NewTool("atext_info",
	mcp.WithDescription("Describe an aText snippet store: container layout, sizes, "+
		"snippet and group counts, and counts per snippet type."),
	mcp.WithString("path", mcp.Description(pathDescription)),
)

var searchToolDef = mcp.NewTool("atext_search",
	mcp.WithDescription("Search snippets by trigger, name, tags and content. "+
		"Exact trigger matches rank first. Snippets are HTML-escaped with <b> highlights."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Case-insensitive text to find.")),
	mcp.WithString("path", mcp.Description(pathDescription)),
	mcp.WithString("group", mcp.Description("Only search this group (exact name).")),
	mcp.WithString("type", mcp.Description("Only search this type (code such as t or s, or label such as script).")),
	mcp.WithNumber("limit", mcp.Description("Maximum results (default 20, max 100).")),
	mcp.WithNumber("offset", mcp.Description("Results to skip (default 0).")),
)

var groupsToolDef = mcp.NewTool("atext_groups",
	mcp.WithDescription("List snippet groups with their snippet counts in document order. "+
		"Top-level snippets are counted under the empty group name."),
	mcp.WithString("path", mcp.Description(pathDescription)),
	mcp.WithString("name_prefix", mcp.Description("Only list groups whose name starts with this (case-insensitive).")),
	mcp.WithNumber("limit", mcp.Description("Maximum groups (default 100, max 500).")),
	mcp.WithNumber("offset", mcp.Description("Groups to skip (default 0).")),
)

var exportToolDef = mcp.NewTool("atext_export",
	mcp.WithDescription("Export snippets to files: csv, json, espanso, txt, markdown, html or sqlite. "+
		"Without formats, writes csv, json, espanso and txt. Writes nothing when the store has no snippets."),
	mcp.WithString("path", mcp.Description(pathDescription)),
	mcp.WithString("output_dir", mcp.Description("Absolute directory for the output files. Defaults to the configured output_dir.")),
	mcp.WithArray("formats", mcp.WithStringItems(), mcp.Description("Formats to write.")),
	mcp.WithString("prefix", mcp.Description("File name prefix (default atext).")),
)
