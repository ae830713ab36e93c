package application

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/scanner-cli/internal/properties"
)

// Format selects how Printer renders the resolved configuration.
type Format string

// Supported output formats.
const (
	FormatProperties Format = "properties"
	FormatJSON       Format = "json"
	FormatYAML       Format = "yaml"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{string(FormatProperties), string(FormatJSON), string(FormatYAML)}
}

// Printer is the default Bootstrapper: it writes the resolved configuration
// instead of starting an engine.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a Printer writing to w in the given format.
func NewPrinter(w io.Writer, format Format) (*Printer, error) {
	switch format {
	case FormatProperties, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return &Printer{w: w, format: format}, nil
}

// Bootstrap implements Bootstrapper.
func (p *Printer) Bootstrap(ctx context.Context, props map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(props)
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(props); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return properties.Write(p.w, properties.FromMap(props))
	}
}
