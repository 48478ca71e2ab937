// Package config loads a site's content model from YAML, JSON or HCL.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/agentic-research/fieldpath/api"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for config files whose extension has no decoder.
	ErrUnsupportedFormat = errors.New("unsupported config format")
	// ErrNotFound is returned by Find when a directory holds no config file.
	ErrNotFound = errors.New("no config file found")
)

// DefaultNames are the file names Find looks for, in order.
var DefaultNames = []string{
	"fieldpath.yaml",
	"fieldpath.yml",
	"fieldpath.json",
	"fieldpath.hcl",
}

// Load reads and validates the config file name from fsys. The decoder is
// picked by extension.
func Load(fsys billy.Filesystem, name string) (*api.Config, error) {
	data, err := util.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", name, err)
	}

	cfg, err := Decode(name, data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", name, err)
	}
	return cfg, nil
}

// Find loads the first of DefaultNames present in dir and returns it with
// the name it was found under.
func Find(fsys billy.Filesystem, dir string) (*api.Config, string, error) {
	root := fsys
	if dir != "" && dir != "." {
		root = chroot.New(fsys, dir)
	}
	for _, name := range DefaultNames {
		if _, err := root.Stat(name); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("stat %s: %w", name, err)
		}
		cfg, err := Load(root, name)
		return cfg, path.Join(dir, name), err
	}
	return nil, "", fmt.Errorf("%w in %q", ErrNotFound, dir)
}

// Decode parses data according to the extension of filename. It does not
// validate the result.
func Decode(filename string, data []byte) (*api.Config, error) {
	var cfg api.Config
	switch ext := strings.ToLower(path.Ext(filename)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml %s: %w", filename, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode json %s: %w", filename, err)
		}
	case ".hcl":
		if err := hclsimple.Decode(path.Base(filename), data, nil, &cfg); err != nil {
			return nil, fmt.Errorf("decode hcl %s: %w", filename, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return &cfg, nil
}
