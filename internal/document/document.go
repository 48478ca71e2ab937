// Package document loads content entries and turns them into the flat
// value maps the resolver reads discriminators from.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for entry files whose extension has no parser.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrNotObject is returned when an entry's root value is not an object.
	ErrNotObject = errors.New("document root is not an object")
	// ErrNoMatch is returned when a selector matches nothing.
	ErrNoMatch = errors.New("selector matched nothing")
)

var frontMatterDelim = []byte("---")

// Load reads the entry name from fsys. JSON and YAML files are parsed
// whole; Markdown files contribute their YAML front matter.
func Load(fsys billy.Filesystem, name string) (map[string]any, error) {
	data, err := util.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", name, err)
	}
	doc, err := Parse(name, data)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", name, err)
	}
	return doc, nil
}

// Parse decodes data according to the extension of filename.
func Parse(filename string, data []byte) (map[string]any, error) {
	switch ext := strings.ToLower(path.Ext(filename)); ext {
	case ".json":
		return parseJSON(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".md", ".markdown":
		fm, ok := frontMatter(data)
		if !ok {
			return map[string]any{}, nil
		}
		return parseYAML(fm)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func parseJSON(data []byte) (map[string]any, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return asObject(v)
}

func parseYAML(data []byte) (map[string]any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if v == nil {
		return map[string]any{}, nil
	}
	return asObject(normalize(v))
}

// frontMatter returns the block between a leading "---" line and the next
// "---" line.
func frontMatter(data []byte) ([]byte, bool) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	first, rest, ok := bytes.Cut(data, []byte("\n"))
	if !ok || !bytes.Equal(bytes.TrimRight(first, " \r"), frontMatterDelim) {
		return nil, false
	}

	var block [][]byte
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = bytes.Cut(rest, []byte("\n"))
		if bytes.Equal(bytes.TrimRight(line, " \r"), frontMatterDelim) {
			return bytes.Join(block, []byte("\n")), true
		}
		block = append(block, line)
	}
	return nil, false
}

// Select evaluates a JSONPath expression against root and returns the first
// matching object. It picks an entry out of a multi-entry data file.
func Select(root any, selector string) (map[string]any, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	results := x.Get(root)
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, selector)
	}
	return asObject(results[0])
}

func asObject(v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, v)
	}
	return m, nil
}

// normalize converts the map[any]any values yaml produces for non-string
// keys into map[string]any.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			val[k] = normalize(child)
		}
		return val
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, child := range val {
			m[fmt.Sprint(k)] = normalize(child)
		}
		return m
	case []any:
		for i, child := range val {
			val[i] = normalize(child)
		}
		return val
	default:
		return v
	}
}
