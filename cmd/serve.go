package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/agentic-research/fieldpath/internal/document"
	"github.com/agentic-research/fieldpath/internal/registry"
	"github.com/agentic-research/fieldpath/internal/resolver"
	billy "github.com/go-git/go-billy/v5"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve field resolution as MCP tools over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fsys := siteFS()
		reg, err := loadRegistry(fsys)
		if err != nil {
			return err
		}

		live := registry.NewLive(reg)
		r := resolver.New(live, resolver.WithLogger(logger))
		live.OnSwap(r.Reset)

		logger.Info("serving MCP over stdio", "site", siteDir)
		return server.ServeStdio(newMCPServer(fsys, live, r))
	},
}

func newMCPServer(fsys billy.Filesystem, live *registry.Live, r *resolver.Resolver) *server.MCPServer {
	s := server.NewMCPServer("fieldpath", version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("resolve_field",
		mcp.WithDescription("Return the content-model field that governs a key path of an entry"),
		mcp.WithString("collection", mcp.Required(), mcp.Description("Collection name")),
		mcp.WithString("key_path", mcp.Required(), mcp.Description("Dotted key path, e.g. blocks.0<image>.src")),
		mcp.WithString("file", mcp.Description("File of a file collection")),
		mcp.WithString("component", mcp.Description("Resolve against a reusable component")),
		mcp.WithBoolean("index_file", mcp.Description("Prefer the collection's index-file fields")),
		mcp.WithString("document", mcp.Description("Entry as a JSON object, read for union discriminators")),
	), resolveFieldTool(r))

	s.AddTool(mcp.NewTool("reload_config",
		mcp.WithDescription("Reload the content model from the site and drop memoized resolutions"),
	), reloadConfigTool(fsys, live))

	return s
}

func resolveFieldTool(r *resolver.Resolver) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		collection, err := req.RequireString("collection")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		keyPath, err := req.RequireString("key_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		values := map[string]any{}
		if raw := req.GetString("document", ""); raw != "" {
			doc, err := document.Parse("document.json", []byte(raw))
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid document: %v", err)), nil
			}
			values = document.Flatten(doc)
		}

		f, err := r.ResolveField(resolver.Query{
			Collection: collection,
			File:       req.GetString("file", ""),
			Component:  req.GetString("component", ""),
			KeyPath:    keyPath,
			IndexFile:  req.GetBool("index_file", false),
			Values:     values,
		})
		if errors.Is(err, resolver.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no field governs %q", keyPath)), nil
		}
		if err != nil {
			return nil, err
		}

		out, err := newFieldReport(keyPath, f).JSON()
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(out), nil
	}
}

func reloadConfigTool(fsys billy.Filesystem, live *registry.Live) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reg, err := loadRegistry(fsys)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reload failed: %v", err)), nil
		}
		live.Swap(reg)
		return mcp.NewToolResultText(fmt.Sprintf("reloaded %d collections, %d components",
			len(reg.Collections()), len(reg.Components()))), nil
	}
}
