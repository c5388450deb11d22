// Package serializer writes run reports to stdout or a file in JSON or
// YAML.
package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// StdoutPath is the special output path meaning "write to stdout".
const StdoutPath = "-"

// IsUnknown reports whether the format is outside the supported set.
func (f Format) IsUnknown() bool {
	return f != FormatJSON && f != FormatYAML
}

// Writer serializes values to a destination in a fixed format.
type Writer struct {
	format Format
	out    io.Writer
}

// NewWriter builds a writer targeting the given destination.
func NewWriter(format Format, out io.Writer) *Writer {
	return &Writer{format: format, out: out}
}

// NewFileWriterOrStdout returns a writer for the given path, treating "-"
// or empty as stdout. The file is created lazily on first Serialize.
func NewFileWriterOrStdout(format Format, path string) *Writer {
	if path == "" || path == StdoutPath {
		return NewWriter(format, os.Stdout)
	}
	return &Writer{format: format, out: &lazyFile{path: path}}
}

// Serialize encodes v to the destination.
func (w *Writer) Serialize(v any) error {
	switch w.format {
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		if _, err := w.out.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize to json: %w", err)
		}
		data = append(data, '\n')
		if _, err := w.out.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// Close releases the destination when the writer owns it (file output).
// Writers over caller-supplied streams are left open; closing twice is a
// no-op.
func (w *Writer) Close() error {
	if f, ok := w.out.(*lazyFile); ok {
		return f.Close()
	}
	return nil
}

// lazyFile defers file creation until output actually exists, so failed
// runs do not leave empty report files behind.
type lazyFile struct {
	path string
	f    *os.File
}

func (l *lazyFile) Write(p []byte) (int, error) {
	if l.f == nil {
		f, err := os.Create(l.path)
		if err != nil {
			return 0, err
		}
		l.f = f
	}
	return l.f.Write(p)
}

func (l *lazyFile) Close() error {
	if l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil
	return f.Close()
}
