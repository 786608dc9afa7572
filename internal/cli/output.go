package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
	"gopkg.in/yaml.v3"

	"github.com/chazuruo/chaosq/internal/format"
	"github.com/chazuruo/chaosq/internal/resource"
	"github.com/chazuruo/chaosq/internal/search"
)

// OutputFormat defines the output format for non-interactive commands.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatPlain OutputFormat = "plain"
)

// parseOutputFormat validates an --output value. An empty value means def.
func parseOutputFormat(s, def string) (OutputFormat, error) {
	if s == "" {
		s = def
	}
	switch f := OutputFormat(s); f {
	case FormatTable, FormatJSON, FormatYAML, FormatPlain:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format %q (want table, json, yaml or plain)", s)
	}
}

var tableHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)

func headerFormatter(format string, vals ...interface{}) string {
	return tableHeaderStyle.Render(fmt.Sprintf(format, vals...))
}

// writeResources prints a flat list of resources.
func writeResources(w io.Writer, f OutputFormat, items []resource.Resource) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, items)
	case FormatYAML:
		return writeYAML(w, items)
	case FormatPlain:
		for _, r := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.UID, r.Name, r.Kind, r.Link())
		}
		return nil
	default:
		tbl := table.New("UID", "NAME", "NAMESPACE", "KIND", "STATUS", "CREATED", "AGE").
			WithHeaderFormatter(headerFormatter).
			WithWriter(w)
		for _, r := range items {
			status := r.Status
			if status == "" {
				status = "-"
			}
			tbl.AddRow(r.UID, r.Name, r.Namespace, r.Kind, status, format.Time(r.CreatedAt), format.Ago(r.CreatedAt))
		}
		tbl.Print()
		return nil
	}
}

// writeResultSet prints search results grouped by variant.
func writeResultSet(w io.Writer, f OutputFormat, rs search.ResultSet) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, rs)
	case FormatYAML:
		return writeYAML(w, rs)
	}

	if rs.Empty() {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	for i, g := range rs.Groups {
		if f == FormatPlain {
			for _, r := range g.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.Key, r.UID, r.Name, r.Link())
			}
			continue
		}

		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d)\n", g.Label, len(g.Items))
		tbl := table.New("UID", "NAME", "KIND", "CREATED", "LINK").
			WithHeaderFormatter(headerFormatter).
			WithWriter(w)
		for _, r := range g.Items {
			tbl.AddRow(format.Truncate(r.UID, 11), r.Name, r.Kind, format.Time(r.CreatedAt), r.Link())
		}
		tbl.Print()
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
