package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agentic-research/fieldpath/internal/document"
	"github.com/agentic-research/fieldpath/internal/resolver"
	"github.com/agentic-research/fieldpath/internal/schema"
	"github.com/spf13/cobra"
)

// errUnresolved is returned by check --strict when an entry holds values
// no field governs.
var errUnresolved = errors.New("unresolved key paths")

var (
	checkFile      string
	checkIndexFile bool
	checkStrict    bool
	checkSource    docSource
)

func init() {
	checkCmd.Flags().StringVar(&checkFile, "file", "", "File of a file collection")
	checkCmd.Flags().BoolVar(&checkIndexFile, "index-file", false, "Check against the collection's index-file fields")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Fail when any key path is unresolved")
	checkSource.bind(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <collection> [document]",
	Short: "Report the key paths of an entry that no field governs",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collection := args[0]
		checkSource.path = ""
		if len(args) == 2 {
			checkSource.path = args[1]
		}
		if checkSource.empty() {
			return fmt.Errorf("check needs a document argument or --db/--record")
		}

		fsys := siteFS()
		reg, err := loadRegistry(fsys)
		if err != nil {
			return err
		}
		doc, err := checkSource.load(cmd.Context(), fsys)
		if err != nil {
			return err
		}

		r := resolver.New(reg, resolver.WithLogger(logger))
		base := resolver.Query{Collection: collection, File: checkFile, IndexFile: checkIndexFile}
		unresolved, total := checkEntry(r, base, document.Flatten(doc))
		if err := writeCheck(cmd.OutOrStdout(), unresolved, total); err != nil {
			return err
		}
		if checkStrict && len(unresolved) > 0 {
			return fmt.Errorf("%w: %d of %d", errUnresolved, len(unresolved), total)
		}
		return nil
	},
}

// checkEntry resolves every key path of values and returns those no field
// governs, with the number of paths checked.
func checkEntry(r *resolver.Resolver, base resolver.Query, values map[string]any) ([]string, int) {
	paths := document.Paths(values)
	var unresolved []string
	for _, p := range paths {
		if !covered(r, base, values, p) {
			unresolved = append(unresolved, p)
		}
	}
	return unresolved, len(paths)
}

// covered reports whether keyPath resolves, or lies inside the value of a
// leaf field (a scalar or a bare list) that holds structured data.
func covered(r *resolver.Resolver, q resolver.Query, values map[string]any, keyPath string) bool {
	q.Values = values
	q.KeyPath = keyPath
	if _, err := r.ResolveField(q); err == nil {
		return true
	}

	parts := strings.Split(keyPath, ".")
	for i := len(parts) - 1; i > 0; i-- {
		q.KeyPath = strings.Join(parts[:i], ".")
		f, err := r.ResolveField(q)
		if err != nil {
			continue
		}
		switch f.(type) {
		case *schema.Scalar, *schema.ListBare:
			return true
		default:
			return false
		}
	}
	return false
}

func writeCheck(w io.Writer, unresolved []string, total int) error {
	for _, p := range unresolved {
		if _, err := fmt.Fprintf(w, "unresolved: %s\n", p); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d of %d key paths resolved\n", total-len(unresolved), total)
	return err
}
