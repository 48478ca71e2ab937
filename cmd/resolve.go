package cmd

import (
	"fmt"
	"strings"

	"github.com/agentic-research/fieldpath/internal/document"
	"github.com/agentic-research/fieldpath/internal/resolver"
	"github.com/spf13/cobra"
)

var (
	resolveFile      string
	resolveComponent string
	resolveIndexFile bool
	resolveSet       []string
	resolveJSON      bool
	resolveSource    docSource
)

func init() {
	resolveCmd.Flags().StringVar(&resolveFile, "file", "", "File of a file collection")
	resolveCmd.Flags().StringVar(&resolveComponent, "component", "", "Resolve against a reusable component instead of the collection")
	resolveCmd.Flags().BoolVar(&resolveIndexFile, "index-file", false, "Prefer the collection's index-file fields")
	resolveCmd.Flags().StringVar(&resolveSource.path, "doc", "", "Entry document (relative to --site) supplying discriminator values")
	resolveCmd.Flags().StringArrayVar(&resolveSet, "set", nil, "Set a value as key.path=value (repeatable)")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Print the field as JSON")
	resolveSource.bind(resolveCmd)
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <collection> <keypath>",
	Short: "Print the field definition governing a key path",
	Example: `  fieldpath resolve posts 'blocks.0<image>.src'
  fieldpath resolve posts blocks.0.content --set blocks.0.type=text
  fieldpath resolve posts blocks.2.alt --doc content/posts/hello.md`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collection, keyPath := args[0], args[1]
		fsys := siteFS()

		reg, err := loadRegistry(fsys)
		if err != nil {
			return err
		}
		doc, err := resolveSource.load(cmd.Context(), fsys)
		if err != nil {
			return err
		}
		values := document.Flatten(doc)
		for _, kv := range resolveSet {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				return fmt.Errorf("invalid --set %q: want key.path=value", kv)
			}
			values[k] = v
		}

		r := resolver.New(reg, resolver.WithLogger(logger))
		f, err := r.ResolveField(resolver.Query{
			Collection: collection,
			File:       resolveFile,
			Component:  resolveComponent,
			KeyPath:    keyPath,
			IndexFile:  resolveIndexFile,
			Values:     values,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", keyPath, err)
		}

		report := newFieldReport(keyPath, f)
		if resolveJSON {
			out, err := report.JSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		}
		return report.writeText(cmd.OutOrStdout())
	},
}
