package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/agentic-research/fieldpath/api"
	"github.com/agentic-research/fieldpath/internal/config"
	"github.com/agentic-research/fieldpath/internal/document"
	"github.com/agentic-research/fieldpath/internal/registry"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	siteDir    string
	configPath string
	logLevel   string

	logger = slog.New(slog.DiscardHandler)
)

func init() {
	rootCmd.PersistentFlags().StringVar(&siteDir, "site", ".", "Site root directory")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Content-model config relative to --site (default: first of fieldpath.{yaml,yml,json,hcl})")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
}

var rootCmd = &cobra.Command{
	Use:           "fieldpath",
	Short:         "Resolve document key paths to the content-model fields that govern them",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func siteFS() billy.Filesystem {
	return osfs.New(siteDir)
}

// loadRegistry loads the content model named by --config, or the first
// default config file at the site root.
func loadRegistry(fsys billy.Filesystem) (*registry.Registry, error) {
	var (
		cfg  *api.Config
		name = configPath
		err  error
	)
	if name == "" {
		cfg, name, err = config.Find(fsys, ".")
	} else {
		cfg, err = config.Load(fsys, name)
	}
	if err != nil {
		return nil, err
	}

	reg, err := registry.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	logger.Info("loaded content model",
		"config", name,
		"collections", len(reg.Collections()),
		"components", len(reg.Components()))
	return reg, nil
}

// docSource names where an entry's values come from.
type docSource struct {
	path     string
	selector string
	db       string
	record   string
}

func (s *docSource) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.selector, "select", "", "JSONPath picking the entry out of a multi-entry document")
	cmd.Flags().StringVar(&s.db, "db", "", "SQLite database with a results(id, record) table")
	cmd.Flags().StringVar(&s.record, "record", "", "Record id to read from --db")
}

func (s *docSource) empty() bool {
	return s.path == "" && s.record == ""
}

// load returns the entry, or an empty one when no source is set.
func (s *docSource) load(ctx context.Context, fsys billy.Filesystem) (map[string]any, error) {
	var (
		doc map[string]any
		err error
	)
	switch {
	case s.record != "":
		if s.db == "" {
			return nil, fmt.Errorf("--record requires --db")
		}
		doc, err = document.LoadRecord(ctx, s.db, s.record)
	case s.path != "":
		doc, err = document.Load(fsys, s.path)
	default:
		doc = map[string]any{}
	}
	if err != nil {
		return nil, err
	}

	if s.selector != "" {
		return document.Select(doc, s.selector)
	}
	return doc, nil
}
