package mcp

import "github.com/mark3labs/mcp-go/mcp"

const (
	toolSortImports  = "sort_imports"
	toolParseImports = "parse_imports"

	// defaultPath picks the TypeScript grammar when no path is given.
	defaultPath = "input.ts"
)

func sortImportsTool() mcp.Tool {
	return mcp.NewTool(toolSortImports,
		mcp.WithDescription("Sort, group and deduplicate the import declarations of a TypeScript or JavaScript source. "+
			"Returns the rewritten source, the generated import block and whether anything changed."),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Complete source text of the file"),
		),
		mcp.WithString("path",
			mcp.Description("File name used to pick the grammar (.ts, .tsx, .js, .jsx). Defaults to input.ts"),
		),
	)
}

func parseImportsTool() mcp.Tool {
	return mcp.NewTool(toolParseImports,
		mcp.WithDescription("Extract the import declarations of a source as structured elements, with their "+
			"positions, attached comments and the identifiers used outside imports."),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Complete source text of the file"),
		),
		mcp.WithString("path",
			mcp.Description("File name used to pick the grammar. Defaults to input.ts"),
		),
	)
}
