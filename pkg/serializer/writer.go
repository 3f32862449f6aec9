package serializer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format selects the encoding used for serialized documents.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// scalarFieldKey labels a bare scalar in table output, where there is
// no field name to borrow.
const scalarFieldKey = "value"

func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats lists every format Serialize accepts, in the order
// shown in CLI help text.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
	}
}

// normalizeFormat maps unknown formats to JSON with a warning, so a
// typo in an output flag degrades to usable output instead of nothing.
func normalizeFormat(f Format) Format {
	if f.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", f)
		return FormatJSON
	}
	return f
}

// Writer encodes documents to a single destination in a fixed format.
// Writers backed by a file hold the handle until Close.
type Writer struct {
	format Format
	output io.Writer
	owned  io.Closer
}

// NewWriter returns a Writer targeting output, or stdout when output
// is nil.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{format: normalizeFormat(format), output: output}
}

// NewStdoutWriter returns a Writer targeting stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout resolves an output path into a Serializer.
// Three path shapes are understood:
//
//   - blank: stdout
//   - cm://namespace/name: a Kubernetes ConfigMap
//   - anything else: a file created at that path
//
// A target that cannot be created is logged and degrades to stdout,
// so a bad output flag never swallows the document. Callers should
// Close the result when it implements Closer.
func NewFileWriterOrStdout(format Format, path string) Serializer {
	format = normalizeFormat(format)

	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return NewStdoutWriter(format)
	}

	if strings.HasPrefix(trimmed, ConfigMapURIScheme) {
		namespace, name, err := parseConfigMapURI(trimmed)
		if err != nil {
			slog.Error("invalid ConfigMap URI, falling back to stdout", "error", err, "uri", trimmed)
			return NewStdoutWriter(format)
		}
		return NewConfigMapWriter(namespace, name, format)
	}

	file, err := os.Create(trimmed)
	if err != nil {
		slog.Error("failed to create output file", "error", err, "path", trimmed)
		return NewStdoutWriter(format)
	}
	return &Writer{format: format, output: file, owned: file}
}

// Close releases the file behind the Writer, if any. Calling it on a
// stdout-backed Writer, or twice, is a no-op.
func (w *Writer) Close() error {
	if w.owned == nil {
		return nil
	}
	c := w.owned
	w.owned = nil
	return c.Close()
}

// Serialize encodes v in the Writer's format. The context is accepted
// to satisfy Serializer; local writes do not consult it.
func (w *Writer) Serialize(ctx context.Context, v any) error {
	switch w.format {
	case FormatJSON:
		enc := json.NewEncoder(w.output)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w.output)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to YAML: %w", err)
		}
		return nil
	case FormatTable:
		return writeTable(w.output, v)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

// writeTable renders v as a two-column FIELD/VALUE table, flattening
// nested values to dotted paths first so a drill command nested three
// levels deep still comes out as a single row.
func writeTable(dst io.Writer, v any) error {
	rows := make(map[string]any)
	flatten(rows, reflect.ValueOf(v), "")
	if len(rows) == 0 {
		_, err := fmt.Fprintln(dst, "<empty>")
		return err
	}

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(dst, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", k, rows[k])
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}
	return nil
}

// flatten walks val and records every leaf under its dotted path:
// struct fields keep their Go names, map entries use the formatted
// key, and slice elements get an [i] segment. A nil pointer below the
// root keeps its row so the field shows as unset instead of vanishing.
func flatten(out map[string]any, val reflect.Value, prefix string) {
	if !val.IsValid() {
		return
	}

	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			if prefix != "" {
				out[prefix] = nil
			}
			return
		}
		val = val.Elem()
	}

	//nolint:exhaustive // scalar kinds all take the default branch
	switch val.Kind() {
	case reflect.Struct:
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			flatten(out, val.Field(i), childKey(prefix, field.Name))
		}
	case reflect.Map:
		for _, k := range val.MapKeys() {
			flatten(out, val.MapIndex(k), childKey(prefix, fmt.Sprintf("%v", k.Interface())))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < val.Len(); i++ {
			flatten(out, val.Index(i), childKey(prefix, fmt.Sprintf("[%d]", i)))
		}
	default:
		if prefix == "" {
			prefix = scalarFieldKey
		}
		out[prefix] = val.Interface()
	}
}

func childKey(prefix, segment string) string {
	switch {
	case prefix == "":
		return segment
	case segment == "":
		return prefix
	default:
		return prefix + "." + segment
	}
}

// encodeJSON, encodeYAML, and encodeTable produce document bytes for
// sinks that need the whole payload up front, like ConfigMap data
// fields.
func encodeJSON(v any) ([]byte, error) {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return content, nil
}

func encodeYAML(v any) ([]byte, error) {
	content, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	return content, nil
}

func encodeTable(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTable(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
