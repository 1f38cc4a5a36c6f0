package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	// FormatYAML renders YAML, the default for terminals
	FormatYAML OutputFormat = "yaml"
	// FormatJSON renders indented JSON
	FormatJSON OutputFormat = "json"
	// FormatRaw writes strings and byte slices untouched
	FormatRaw OutputFormat = "raw"
)

// OutputOptions configures where and how a result is written.
type OutputOptions struct {
	// Format is the rendering format; empty means YAML
	Format OutputFormat

	// File writes to this path instead of stdout
	File string

	// Writer overrides both File and stdout when set
	Writer io.Writer
}

// Output renders result to the configured destination.
func Output(result any, opts OutputOptions) error {
	w, closer, err := opts.destination()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML, "":
		return writeYAML(w, result)
	case FormatRaw:
		switch v := result.(type) {
		case []byte:
			_, err := w.Write(v)
			return err
		case string:
			_, err := io.WriteString(w, v)
			return err
		default:
			return writeYAML(w, result)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

func (opts OutputOptions) destination() (io.Writer, func() error, error) {
	if opts.Writer != nil {
		return opts.Writer, nil, nil
	}
	if opts.File != "" {
		f, err := os.Create(opts.File)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, f.Close, nil
	}
	return os.Stdout, nil, nil
}

func writeYAML(w io.Writer, result any) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Terminal message helpers. Results go through Output; these carry the
// human-facing status lines around them.

// PrintSuccess prints a line marked with a checkmark.
func PrintSuccess(format string, args ...any) {
	fmt.Printf("✓ "+format+"\n", args...)
}

// PrintError prints an error line to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// PrintInfo prints an informational line.
func PrintInfo(format string, args ...any) {
	fmt.Printf("ℹ "+format+"\n", args...)
}

// PrintVerbose prints to stderr, only when verbose is on.
func PrintVerbose(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}
