package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/agentic-research/fieldpath/internal/schema"
)

// fieldReport is the printable view of a resolved field.
type fieldReport struct {
	KeyPath  string `json:"keyPath"`
	Name     string `json:"name"`
	Label    string `json:"label,omitempty"`
	Kind     string `json:"kind"`
	Widget   string `json:"widget,omitempty"`
	Hint     string `json:"hint,omitempty"`
	Shape    string `json:"shape"`
	Required bool   `json:"required"`
	Multiple bool   `json:"multiple"`
}

func newFieldReport(keyPath string, f schema.Field) fieldReport {
	info := f.FieldInfo()
	return fieldReport{
		KeyPath:  keyPath,
		Name:     info.Name,
		Label:    info.Label,
		Kind:     f.Kind().String(),
		Widget:   info.Widget,
		Hint:     info.Hint,
		Shape:    schema.Summary(f),
		Required: schema.IsRequired(f),
		Multiple: schema.IsMultiple(f),
	}
}

func (r fieldReport) JSON() (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r fieldReport) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "key path:\t%s\n", r.KeyPath)
	fmt.Fprintf(tw, "name:\t%s\n", r.Name)
	if r.Label != "" {
		fmt.Fprintf(tw, "label:\t%s\n", r.Label)
	}
	fmt.Fprintf(tw, "kind:\t%s\n", r.Kind)
	if r.Widget != "" {
		fmt.Fprintf(tw, "widget:\t%s\n", r.Widget)
	}
	fmt.Fprintf(tw, "shape:\t%s\n", r.Shape)
	fmt.Fprintf(tw, "required:\t%t\n", r.Required)
	fmt.Fprintf(tw, "multiple:\t%t\n", r.Multiple)
	return tw.Flush()
}
