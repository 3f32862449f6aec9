package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/kubescenarios/kubescenarios/pkg/errors"
)

//go:embed data
var dataFS embed.FS

// DataProvider abstracts access to catalog data files.
// This allows layering external directories over embedded data.
type DataProvider interface {
	// ReadFile reads a file by path (relative to the data root).
	ReadFile(path string) ([]byte, error)

	// WalkDir walks the directory tree rooted at root.
	WalkDir(root string, fn fs.WalkDirFunc) error

	// Source returns a description of where data came from (for debugging).
	Source(path string) string
}

// EmbeddedDataProvider wraps an embed.FS to implement DataProvider.
type EmbeddedDataProvider struct {
	fs     embed.FS
	prefix string // e.g., "data" to strip from paths
}

// NewEmbeddedDataProvider creates a provider from an embedded filesystem.
func NewEmbeddedDataProvider(efs embed.FS, prefix string) *EmbeddedDataProvider {
	return &EmbeddedDataProvider{
		fs:     efs,
		prefix: prefix,
	}
}

// ReadFile reads a file from the embedded filesystem.
func (p *EmbeddedDataProvider) ReadFile(path string) ([]byte, error) {
	fullPath := p.prefix + "/" + path
	slog.Debug("reading file from embedded provider", "path", path, "fullPath", fullPath)
	return p.fs.ReadFile(fullPath)
}

// WalkDir walks the embedded filesystem.
func (p *EmbeddedDataProvider) WalkDir(root string, fn fs.WalkDirFunc) error {
	fullRoot := p.prefix
	if root != "" {
		fullRoot = p.prefix + "/" + root
	}
	return fs.WalkDir(p.fs, fullRoot, func(path string, d fs.DirEntry, err error) error {
		// Strip the prefix before passing to callback
		relPath := strings.TrimPrefix(path, p.prefix+"/")
		if relPath == p.prefix {
			relPath = ""
		}
		return fn(relPath, d, err)
	})
}

// Source returns "embedded" for all paths.
func (p *EmbeddedDataProvider) Source(path string) string {
	return sourceEmbedded
}

// LayeredDataProvider overlays an external directory on top of embedded data.
// For RegistryFileName: merges the external document list with the embedded
// one (external entries appended, name/version overridden when set).
// For all other files: external completely replaces embedded if present.
type LayeredDataProvider struct {
	embedded    *EmbeddedDataProvider
	externalDir string

	// Cached merged registry (computed once on first access)
	mergedRegistry     []byte
	mergedRegistryErr  error
	mergedRegistryDone bool

	// Track which files came from external (for debugging)
	externalFiles map[string]bool
}

// LayeredProviderConfig configures the layered data provider.
type LayeredProviderConfig struct {
	// ExternalDir is the path to the external data directory.
	ExternalDir string

	// MaxFileSize is the maximum allowed file size in bytes (default: 10MB).
	MaxFileSize int64

	// AllowSymlinks allows symlinks in the external directory (default: false).
	AllowSymlinks bool
}

const (
	// DefaultMaxFileSize is the default maximum file size (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024

	// sourceEmbedded is the source name for embedded files.
	sourceEmbedded = "embedded"

	// sourceExternal is the source name for external files.
	sourceExternal = "external"

	// RegistryFileName is the name of the catalog registry file.
	RegistryFileName = "registry.yaml"
)

// NewLayeredDataProvider creates a provider that layers external data over embedded.
// Returns an error if:
// - External directory doesn't exist
// - External directory doesn't contain RegistryFileName
// - Path traversal is detected
// - File size exceeds limits
func NewLayeredDataProvider(embedded *EmbeddedDataProvider, config LayeredProviderConfig) (*LayeredDataProvider, error) {
	slog.Debug("creating layered data provider",
		"external_dir", config.ExternalDir,
		"max_file_size", config.MaxFileSize,
		"allow_symlinks", config.AllowSymlinks)

	if config.MaxFileSize == 0 {
		config.MaxFileSize = DefaultMaxFileSize
	}

	// Validate external directory exists
	info, err := os.Stat(config.ExternalDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNotFound,
			fmt.Sprintf("external data directory not found: %s", config.ExternalDir), err)
	}
	if !info.IsDir() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("external data path is not a directory: %s", config.ExternalDir))
	}

	// Validate RegistryFileName exists in external directory
	registryPath := filepath.Join(config.ExternalDir, RegistryFileName)
	if _, statErr := os.Stat(registryPath); statErr != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s is required in external data directory: %s", RegistryFileName, config.ExternalDir))
	}

	// Validate external directory for security issues
	externalFiles := make(map[string]bool)
	err = filepath.WalkDir(config.ExternalDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// Get relative path
		relPath, relErr := filepath.Rel(config.ExternalDir, path)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}

		// Check for path traversal
		if strings.Contains(relPath, "..") {
			return apperrors.New(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("path traversal detected: %s", relPath))
		}

		// Check for symlinks
		if !config.AllowSymlinks {
			info, lstatErr := os.Lstat(path)
			if lstatErr != nil {
				return fmt.Errorf("failed to stat file: %w", lstatErr)
			}
			if info.Mode()&os.ModeSymlink != 0 {
				return apperrors.New(apperrors.ErrCodeInvalidRequest,
					fmt.Sprintf("symlinks not allowed: %s", relPath))
			}
		}

		// Check file size
		info, statErr := d.Info()
		if statErr != nil {
			return fmt.Errorf("failed to get file info: %w", statErr)
		}
		if info.Size() > config.MaxFileSize {
			return apperrors.New(apperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("file too large (%d bytes, max %d): %s", info.Size(), config.MaxFileSize, relPath))
		}

		externalFiles[relPath] = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("layered data provider initialized",
		"external_dir", config.ExternalDir,
		"external_files", len(externalFiles))

	return &LayeredDataProvider{
		embedded:      embedded,
		externalDir:   config.ExternalDir,
		externalFiles: externalFiles,
	}, nil
}

// NewDefaultLayeredProvider layers an external directory over the embedded
// catalog data with default limits. Build a fresh provider after the
// directory changes; the merged registry is cached per provider.
func NewDefaultLayeredProvider(externalDir string) (*LayeredDataProvider, error) {
	return NewLayeredDataProvider(
		NewEmbeddedDataProvider(dataFS, "data"),
		LayeredProviderConfig{ExternalDir: externalDir},
	)
}

// ReadFile reads a file, checking external directory first.
// For RegistryFileName, returns merged content.
// For other files, external completely replaces embedded.
func (p *LayeredDataProvider) ReadFile(path string) ([]byte, error) {
	// Special handling for registry file - merge instead of replace
	if path == RegistryFileName {
		return p.getMergedRegistry()
	}

	// Check external directory first
	if p.externalFiles[path] {
		externalPath := filepath.Join(p.externalDir, path)
		data, err := os.ReadFile(externalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read external file %s: %w", path, err)
		}
		slog.Debug("read from external data directory", "path", path)
		return data, nil
	}

	// Fall back to embedded
	return p.embedded.ReadFile(path)
}

// WalkDir walks both embedded and external directories.
// External files take precedence over embedded files.
func (p *LayeredDataProvider) WalkDir(root string, fn fs.WalkDirFunc) error {
	// Track files we've visited (to avoid duplicates)
	visited := make(map[string]bool)

	// Walk external directory first
	externalRoot := filepath.Join(p.externalDir, root)
	if _, err := os.Stat(externalRoot); err == nil {
		err := filepath.WalkDir(externalRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			relPath, relErr := filepath.Rel(p.externalDir, path)
			if relErr != nil {
				return relErr
			}

			// Strip root prefix if present
			if root != "" {
				relPath = strings.TrimPrefix(relPath, root+"/")
				if relPath == root {
					relPath = ""
				}
			}

			visited[relPath] = true
			return fn(relPath, d, nil)
		})
		if err != nil {
			return err
		}
	}

	// Walk embedded, skipping already-visited paths
	return p.embedded.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if visited[path] {
			return nil // Skip, external takes precedence
		}
		return fn(path, d, err)
	})
}

// Source returns "external" or "embedded" depending on where the file comes from.
func (p *LayeredDataProvider) Source(path string) string {
	switch {
	case path == RegistryFileName:
		return "merged (" + sourceEmbedded + " + " + sourceExternal + ")"
	case p.externalFiles[path]:
		return sourceExternal
	default:
		return sourceEmbedded
	}
}

// getMergedRegistry returns the merged RegistryFileName content.
// External registry entries are merged with embedded, with external taking precedence.
func (p *LayeredDataProvider) getMergedRegistry() ([]byte, error) {
	if p.mergedRegistryDone {
		return p.mergedRegistry, p.mergedRegistryErr
	}
	p.mergedRegistryDone = true

	// Load embedded registry
	embeddedData, err := p.embedded.ReadFile(RegistryFileName)
	if err != nil {
		p.mergedRegistryErr = fmt.Errorf("failed to read embedded registry: %w", err)
		return nil, p.mergedRegistryErr
	}

	var embeddedReg Registry
	if unmarshalErr := yaml.Unmarshal(embeddedData, &embeddedReg); unmarshalErr != nil {
		p.mergedRegistryErr = fmt.Errorf("failed to parse embedded registry: %w", unmarshalErr)
		return nil, p.mergedRegistryErr
	}

	// Load external registry
	externalPath := filepath.Join(p.externalDir, RegistryFileName)
	externalData, err := os.ReadFile(externalPath)
	if err != nil {
		p.mergedRegistryErr = fmt.Errorf("failed to read external registry: %w", err)
		return nil, p.mergedRegistryErr
	}

	var externalReg Registry
	if unmarshalErr := yaml.Unmarshal(externalData, &externalReg); unmarshalErr != nil {
		p.mergedRegistryErr = fmt.Errorf("failed to parse external registry: %w", unmarshalErr)
		return nil, p.mergedRegistryErr
	}

	// Validate schema version compatibility
	if externalReg.APIVersion != "" && externalReg.APIVersion != embeddedReg.APIVersion {
		slog.Warn("external registry has different API version",
			"embedded", embeddedReg.APIVersion,
			"external", externalReg.APIVersion)
	}

	// Merge: external document list extends embedded, name/version override
	merged := mergeRegistries(&embeddedReg, &externalReg)

	// Serialize merged registry
	p.mergedRegistry, p.mergedRegistryErr = yaml.Marshal(merged)
	if p.mergedRegistryErr != nil {
		return nil, fmt.Errorf("failed to serialize merged registry: %w", p.mergedRegistryErr)
	}

	slog.Info("merged catalog registries",
		"embedded_documents", len(embeddedReg.Documents),
		"external_documents", len(externalReg.Documents),
		"merged_documents", len(merged.Documents))

	return p.mergedRegistry, nil
}

// mergeRegistries merges the external registry into the embedded one.
// Document entries are a union: embedded order is preserved, new external
// entries are appended. Name and version come from external when set.
func mergeRegistries(embedded, external *Registry) *Registry {
	result := &Registry{
		Kind:       embedded.Kind,
		APIVersion: embedded.APIVersion,
		Name:       embedded.Name,
		Version:    embedded.Version,
		Documents:  make([]string, 0, len(embedded.Documents)+len(external.Documents)),
	}
	if external.Name != "" {
		result.Name = external.Name
	}
	if external.Version != "" {
		result.Version = external.Version
	}

	added := make(map[string]bool, len(embedded.Documents))
	for _, doc := range embedded.Documents {
		result.Documents = append(result.Documents, doc)
		added[doc] = true
	}
	for _, doc := range external.Documents {
		if !added[doc] {
			result.Documents = append(result.Documents, doc)
			added[doc] = true
		}
	}

	return result
}

// Global data provider (defaults to embedded, can be set for layered)
var (
	globalDataProvider     DataProvider
	dataProviderGeneration int // Incremented when provider changes
)

// SetDataProvider sets the global data provider.
// This should be called before any catalog operations if using external data.
// Note: This invalidates cached data, so callers should ensure this is called
// early in the application lifecycle.
func SetDataProvider(provider DataProvider) {
	globalDataProvider = provider
	dataProviderGeneration++
	slog.Info("data provider set", "generation", dataProviderGeneration)
}

// GetDataProvider returns the global data provider.
// Returns the embedded provider if none was set.
func GetDataProvider() DataProvider {
	if globalDataProvider == nil {
		globalDataProvider = NewEmbeddedDataProvider(dataFS, "data")
	}
	return globalDataProvider
}

// GetDataProviderGeneration returns the current data provider generation.
// This is used by caches to detect when they need to reload.
func GetDataProviderGeneration() int {
	return dataProviderGeneration
}
