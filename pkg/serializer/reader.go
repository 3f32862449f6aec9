package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kubescenarios/kubescenarios/pkg/k8s/client"
	"gopkg.in/yaml.v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// FormatFromPath derives the serialization format from a path's extension:
// .json is JSON, .yaml and .yml are YAML, .table and .txt are table output.
// Matching is case-insensitive. Anything else falls back to JSON with a
// warning, so a typoed extension surfaces in the logs instead of failing.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".table", ".txt":
		return FormatTable
	default:
		slog.Warn("unknown file extension, defaulting to JSON", "path", path)
		return FormatJSON
	}
}

// Reader decodes structured documents (catalog exports, quiz sheets,
// lint reports) from JSON or YAML sources. Table output is one-way and
// cannot be read back.
//
// A Reader built over a file owns the handle: call Close when done. Close
// is idempotent and a no-op for readers over plain io.Reader sources.
type Reader struct {
	format Format
	input  io.Reader
	owned  io.Closer
}

// readableFormat rejects formats that cannot be decoded.
func readableFormat(format Format) error {
	if format.IsUnknown() {
		return fmt.Errorf("unknown format: %s", format)
	}
	if format == FormatTable {
		return fmt.Errorf("table format does not support deserialization")
	}
	return nil
}

// NewReader wraps an io.Reader source in a Reader for the given format.
// The format must be FormatJSON or FormatYAML.
//
// If input also implements io.Closer the Reader takes ownership and
// Close releases it.
//
// Example:
//
//	r, err := NewReader(FormatYAML, strings.NewReader("seed: 42"))
//	if err != nil { ... }
//	var sheet quiz.Sheet
//	err = r.Deserialize(&sheet)
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if err := readableFormat(format); err != nil {
		return nil, err
	}

	r := &Reader{
		format: format,
		input:  input,
	}
	if closer, ok := input.(io.Closer); ok {
		r.owned = closer
	}
	return r, nil
}

// NewFileReader opens a local file or an http(s) URL for decoding. Remote
// documents are downloaded to a temp file first, so transient network
// failures surface here rather than mid-decode.
//
// The returned Reader owns the file handle; call Close to release it.
//
// Example:
//
//	r, err := NewFileReader(FormatYAML, "./dist/catalog.yaml")
//	if err != nil { ... }
//	defer r.Close()
func NewFileReader(format Format, path string) (*Reader, error) {
	if err := readableFormat(format); err != nil {
		return nil, err
	}

	file, err := openDocument(path)
	if err != nil {
		return nil, err
	}

	return &Reader{
		format: format,
		input:  file,
		owned:  file,
	}, nil
}

// openDocument opens a local path, or downloads a remote document into the
// temp directory and opens that.
func openDocument(path string) (*os.File, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		local := filepath.Join(os.TempDir(), fmt.Sprintf("kubescenarios-%d.tmp", time.Now().UnixNano()))
		if err := NewHttpReader().Download(path, local); err != nil {
			return nil, fmt.Errorf("failed to download remote file: %w", err)
		}
		path = local
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// NewFileReaderAuto is NewFileReader with the format derived from the path
// extension via FormatFromPath.
//
// Example:
//
//	r, err := NewFileReaderAuto("sheet.yaml")
//	if err != nil { ... }
//	defer r.Close()
func NewFileReaderAuto(path string) (*Reader, error) {
	return NewFileReader(FormatFromPath(path), path)
}

// Deserialize decodes the next document from the input into v, which must
// be a pointer. Decode failures report the format so a JSON file fed to a
// YAML reader is recognizable from the error.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}
	if r.input == nil {
		return fmt.Errorf("input source is nil")
	}

	switch r.format {
	case FormatJSON:
		if err := json.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil

	case FormatYAML:
		if err := yaml.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil

	case FormatTable:
		return fmt.Errorf("table format is not supported for deserialization")

	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
}

// Close releases the file handle when the Reader owns one. Safe on nil
// readers and safe to call more than once.
func (r *Reader) Close() error {
	if r == nil || r.owned == nil {
		return nil
	}

	err := r.owned.Close()
	r.owned = nil
	return err
}

// FromFile loads a typed document from a local path, an http(s) URL, or a
// cm://namespace/name ConfigMap URI. The format comes from the path
// extension; ConfigMap sources carry their format in the ConfigMap itself.
// Reader lifecycle is handled internally.
//
// Example:
//
//	sheet, err := FromFile[quiz.Sheet]("cm://training/quiz-week1")
//
// Use NewFileReader directly when the Reader needs to be reused or its
// lifetime managed by the caller.
func FromFile[T any](path string) (*T, error) {
	return FromFileWithKubeconfig[T](path, "")
}

// FromFileWithKubeconfig is FromFile with an explicit kubeconfig path for
// cm:// sources. The kubeconfig is ignored for plain files and URLs.
//
// Example:
//
//	sheet, err := FromFileWithKubeconfig[quiz.Sheet]("cm://training/quiz-week1", "/tmp/kubeconfig")
func FromFileWithKubeconfig[T any](path, kubeconfig string) (*T, error) {
	if strings.HasPrefix(path, ConfigMapURIScheme) {
		namespace, name, err := parseConfigMapURI(path)
		if err != nil {
			return nil, fmt.Errorf("invalid ConfigMap URI: %w", err)
		}
		return readConfigMapDocument[T](namespace, name, kubeconfig)
	}

	format := FormatFromPath(path)
	slog.Debug("reading document", "path", path, "format", format)

	r, err := NewFileReader(format, path)
	if err != nil {
		return nil, fmt.Errorf("failed to create serializer for %q: %w", path, err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil {
			slog.Warn("failed to close serializer", "error", closeErr)
		}
	}()

	var doc T
	if err := r.Deserialize(&doc); err != nil {
		return nil, fmt.Errorf("failed to deserialize object from %q: %w", path, err)
	}
	return &doc, nil
}

// readConfigMapDocument fetches a document stored by ConfigMapWriter (or by
// hand) and decodes it. The format is taken from the ConfigMap's "format"
// key when present; otherwise the document.{yaml,json,txt} keys are probed
// in order.
func readConfigMapDocument[T any](namespace, name, kubeconfig string) (*T, error) {
	var k8sClient client.Interface
	var err error

	if kubeconfig != "" {
		k8sClient, _, err = client.GetKubeClientWithConfig(kubeconfig)
	} else {
		k8sClient, _, err = client.GetKubeClient()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
	}

	ctx := context.Background()
	cm, err := k8sClient.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get ConfigMap %s/%s: %w", namespace, name, err)
	}

	format := FormatYAML
	if formatStr, ok := cm.Data["format"]; ok {
		format = Format(formatStr)
	}

	var content string
	if data, ok := cm.Data[fmt.Sprintf("document.%s", format)]; ok {
		content = data
	} else {
		for _, ext := range []string{"yaml", "json", "txt"} {
			if data, ok := cm.Data[fmt.Sprintf("document.%s", ext)]; ok {
				content = data
				format = Format(ext)
				break
			}
		}
		if content == "" {
			return nil, fmt.Errorf("ConfigMap %s/%s has no document data", namespace, name)
		}
	}

	slog.Debug("reading from ConfigMap",
		"namespace", namespace,
		"name", name,
		"format", format,
		"size", len(content))

	reader, err := NewReader(format, strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for ConfigMap data: %w", err)
	}

	var doc T
	if err := reader.Deserialize(&doc); err != nil {
		return nil, fmt.Errorf("failed to deserialize ConfigMap data: %w", err)
	}
	return &doc, nil
}
