package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/histogauss/pkg/plotpage"
	"github.com/Sumatoshi-tech/histogauss/pkg/terminal"
)

const (
	defaultJSONIndent = "  "
	defaultYAMLIndent = 2
	defaultBarWidth   = 40
)

// Encoder writes a Report in one format.
type Encoder interface {
	Encode(w io.Writer, rep Report) error
	Format() Format
}

// Options configures encoders that need presentation settings.
type Options struct {
	Theme    plotpage.Theme
	Terminal terminal.Config
	BarWidth int
}

// NewEncoder returns the encoder for format.
func NewEncoder(format Format, opts Options) (Encoder, error) {
	switch format {
	case FormatJSON:
		return &JSONEncoder{Indent: defaultJSONIndent}, nil
	case FormatYAML:
		return &YAMLEncoder{Indent: defaultYAMLIndent}, nil
	case FormatText:
		return &TextEncoder{Terminal: opts.Terminal, BarWidth: opts.BarWidth}, nil
	case FormatHTML:
		return &HTMLEncoder{Theme: opts.Theme}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Write encodes rep to w in format.
func Write(w io.Writer, rep Report, format Format, opts Options) error {
	enc, err := NewEncoder(format, opts)
	if err != nil {
		return err
	}

	return enc.Encode(w, rep)
}

// SaveFile writes rep to path with enc.
func SaveFile(path string, rep Report, enc Encoder) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	err = enc.Encode(file, rep)
	if err != nil {
		file.Close()

		return fmt.Errorf("encode report: %w", err)
	}

	err = file.Close()
	if err != nil {
		return fmt.Errorf("close report file: %w", err)
	}

	return nil
}

// JSONEncoder writes JSON. An empty Indent means compact output.
type JSONEncoder struct {
	Indent string
}

// Encode implements Encoder.
func (e *JSONEncoder) Encode(w io.Writer, rep Report) error {
	encoder := json.NewEncoder(w)
	if e.Indent != "" {
		encoder.SetIndent("", e.Indent)
	}

	err := encoder.Encode(rep)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Format implements Encoder.
func (e *JSONEncoder) Format() Format { return FormatJSON }

// YAMLEncoder writes YAML.
type YAMLEncoder struct {
	Indent int
}

// Encode implements Encoder.
func (e *YAMLEncoder) Encode(w io.Writer, rep Report) error {
	encoder := yaml.NewEncoder(w)
	if e.Indent > 0 {
		encoder.SetIndent(e.Indent)
	}

	err := encoder.Encode(rep)
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("yaml flush: %w", err)
	}

	return nil
}

// Format implements Encoder.
func (e *YAMLEncoder) Format() Format { return FormatYAML }
