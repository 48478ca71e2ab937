package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentic-research/fieldpath/internal/registry"
	"github.com/agentic-research/fieldpath/internal/resolver"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const siteConfig = `
collections:
  - name: posts
    folder: content/posts
    fields:
      - name: title
        widget: string
      - name: cities
        widget: select
        multiple: true
      - name: location
        widget: map
      - name: blocks
        widget: list
        types:
          - name: image
            fields:
              - name: src
                widget: image
              - name: alt
                required: false
          - name: text
            fields:
              - name: content
                widget: markdown
  - name: pages
    files:
      - name: about
        file: content/about.md
        fields:
          - name: heading
components:
  - name: cta
    fields:
      - name: label
`

const helloPost = `---
title: Hello
cities: [paris, rome]
location:
  lat: 48.8
  lng: 2.3
blocks:
  - type: image
    src: /a.png
  - type: text
    content: hi
    stray: oops
---
Body
`

func writeSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"fieldpath.yaml":         siteConfig,
		"content/posts/hello.md": helloPost,
		"content/posts/all.json": `{"entries": [{"slug": "a", "blocks": [{"type": "text"}]}]}`,
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestResolveCmd(t *testing.T) {
	site := writeSite(t)

	out, err := execute(t, "resolve", "posts", "blocks.0<image>.src", "--site", site)
	require.NoError(t, err)
	assert.Contains(t, out, "name:     src")
	assert.Contains(t, out, "widget:   image")
	assert.Contains(t, out, "required: true")

	out, err = execute(t, "resolve", "posts", "blocks.1.content", "--site", site, "--doc", "content/posts/hello.md", "--json")
	require.NoError(t, err)
	var report fieldReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "content", report.Name)
	assert.Equal(t, "markdown", report.Widget)
	assert.Equal(t, "scalar", report.Kind)

	out, err = execute(t, "resolve", "posts", "blocks.3.alt", "--site", site, "--set", "blocks.3.type=image", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Required)

	out, err = execute(t, "resolve", "posts", "blocks.0.content", "--site", site,
		"--doc", "content/posts/all.json", "--select", "$.entries[0]", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "content", report.Name)

	out, err = execute(t, "resolve", "posts", "label", "--component", "cta", "--site", site, "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "label", report.Name)

	out, err = execute(t, "resolve", "pages", "heading", "--file", "about", "--site", site, "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "heading", report.Name)
}

func TestResolveCmd_Errors(t *testing.T) {
	site := writeSite(t)

	_, err := execute(t, "resolve", "posts", "blocks.0.content", "--site", site)
	assert.ErrorIs(t, err, resolver.ErrNotFound, "set flags from an earlier run must not leak")

	_, err = execute(t, "resolve", "posts", "title", "--site", site, "--set", "novalue")
	assert.ErrorContains(t, err, "invalid --set")

	_, err = execute(t, "resolve", "posts", "title", "--site", site, "--record", "x")
	assert.ErrorContains(t, err, "--record requires --db")

	_, err = execute(t, "resolve", "posts", "title", "--site", site, "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid --log-level")

	_, err = execute(t, "resolve", "posts", "title", "--site", t.TempDir())
	assert.ErrorContains(t, err, "no config file found")
}

func TestResolveCmd_Record(t *testing.T) {
	site := writeSite(t)
	dbPath := filepath.Join(t.TempDir(), "entries.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE results (id TEXT PRIMARY KEY, record JSON);
		INSERT INTO results VALUES ('hello', '{"blocks": [{"type": "image", "src": "/a.png"}]}');
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := execute(t, "resolve", "posts", "blocks.0.src", "--site", site, "--db", dbPath, "--record", "hello", "--json")
	require.NoError(t, err)
	var report fieldReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "image", report.Widget)
}

func TestCheckCmd(t *testing.T) {
	site := writeSite(t)

	out, err := execute(t, "check", "posts", "content/posts/hello.md", "--site", site)
	require.NoError(t, err)
	assert.Contains(t, out, "unresolved: blocks.1.stray")
	assert.NotContains(t, out, "location.lat", "values below a scalar field are covered")
	assert.NotContains(t, out, "cities.1")
	assert.Contains(t, out, "9 of 10 key paths resolved")

	_, err = execute(t, "check", "posts", "content/posts/hello.md", "--site", site, "--strict")
	assert.ErrorIs(t, err, errUnresolved)

	_, err = execute(t, "check", "posts", "--site", site)
	assert.ErrorContains(t, err, "needs a document")
}

func TestMCPTools(t *testing.T) {
	resetFlags(rootCmd)
	site := writeSite(t)
	fsys := osfs.New(site)

	reg, err := loadRegistry(fsys)
	require.NoError(t, err)
	live := registry.NewLive(reg)
	r := resolver.New(live)
	live.OnSwap(r.Reset)
	s := newMCPServer(fsys, live, r)
	require.NotNil(t, s)

	call := func(args map[string]any) *mcp.CallToolResult {
		req := mcp.CallToolRequest{}
		req.Params.Name = "resolve_field"
		req.Params.Arguments = args
		res, err := resolveFieldTool(r)(context.Background(), req)
		require.NoError(t, err)
		return res
	}
	text := func(res *mcp.CallToolResult) string {
		require.NotEmpty(t, res.Content)
		tc, ok := res.Content[0].(mcp.TextContent)
		require.True(t, ok)
		return tc.Text
	}

	res := call(map[string]any{
		"collection": "posts",
		"key_path":   "blocks.0.content",
		"document":   `{"blocks": [{"type": "text"}]}`,
	})
	assert.False(t, res.IsError)
	var report fieldReport
	require.NoError(t, json.Unmarshal([]byte(text(res)), &report))
	assert.Equal(t, "markdown", report.Widget)

	res = call(map[string]any{"collection": "posts", "key_path": "blocks.0.content"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "no field governs")

	res = call(map[string]any{"key_path": "title"})
	assert.True(t, res.IsError)

	res = call(map[string]any{"collection": "posts", "key_path": "title", "document": "[1]"})
	assert.True(t, res.IsError)
	assert.Contains(t, text(res), "invalid document")

	// Reload picks up an edited config.
	updated := siteConfig + "  - name: hero\n    fields:\n      - name: heading\n"
	require.NoError(t, os.WriteFile(filepath.Join(site, "fieldpath.yaml"), []byte(updated), 0o644))

	reload := mcp.CallToolRequest{}
	reload.Params.Name = "reload_config"
	res, err = reloadConfigTool(fsys, live)(context.Background(), reload)
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(res), "2 components")

	res = call(map[string]any{"collection": "posts", "component": "hero", "key_path": "heading"})
	assert.False(t, res.IsError)
}
