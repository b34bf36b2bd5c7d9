// Package protocols loads the symptom protocol catalog from a remote URL, a local
// file or the catalog embedded in the binary, in that order of preference.
package protocols

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/giygas/hospital-api/interfaces"
	"github.com/giygas/hospital-api/logging"
	"github.com/giygas/hospital-api/protocols/entities"
)

//go:embed default_protocols.json
var defaultCatalog []byte

// Catalog sources reported alongside a loaded catalog
const (
	SourceURL      = "url"
	SourceFile     = "file"
	SourceEmbedded = "embedded"
)

// ErrEmptyCatalog is returned when a source decodes to zero protocols
var ErrEmptyCatalog = errors.New("protocol catalog is empty")

// Compile-time check to ensure Loader implements CatalogLoader
var _ interfaces.CatalogLoader = (*Loader)(nil)

// Loader implements the CatalogLoader interface
type Loader struct {
	url    string
	file   string
	client *http.Client
}

// NewLoader creates a loader. Empty url or file skip that source.
func NewLoader(url, file string, timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Loader{
		url:    url,
		file:   file,
		client: &http.Client{Timeout: timeout},
	}
}

// Load returns the first catalog that can be read and decoded, and the name of the
// source it came from. The embedded catalog is always available as a last resort.
func (l *Loader) Load(ctx context.Context) ([]entities.SymptomProtocol, string, error) {
	if l.url != "" {
		catalog, err := l.loadURL(ctx)
		if err == nil {
			return catalog, SourceURL, nil
		}
		logging.Warn("Failed to load protocol catalog from URL, falling back", "url", l.url, "error", err)
	}

	if l.file != "" {
		catalog, err := LoadFile(l.file)
		if err == nil {
			return catalog, SourceFile, nil
		}
		logging.Warn("Failed to load protocol catalog from file, falling back", "file", l.file, "error", err)
	}

	catalog, err := Default()
	if err != nil {
		return nil, "", err
	}
	return catalog, SourceEmbedded, nil
}

func (l *Loader) loadURL(ctx context.Context) ([]entities.SymptomProtocol, error) {
	body, err := download(ctx, l.client, l.url)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}

// LoadFile reads and decodes a catalog from disk
func LoadFile(path string) ([]entities.SymptomProtocol, error) {
	cleanPath := filepath.Clean(path)
	if !strings.HasSuffix(strings.ToLower(cleanPath), ".json") {
		return nil, fmt.Errorf("invalid catalog file %s: expected a .json file", path)
	}

	// #nosec G304 -- path comes from operator configuration
	body, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", cleanPath, err)
	}
	return Decode(body)
}

// Default returns the catalog embedded in the binary
func Default() ([]entities.SymptomProtocol, error) {
	catalog, err := Decode(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return catalog, nil
}

// Decode parses a JSON array of protocols. Entries without a symptom name are
// dropped with a warning.
func Decode(body []byte) ([]entities.SymptomProtocol, error) {
	var raw []entities.SymptomProtocol
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode protocol catalog: %w", err)
	}

	catalog := make([]entities.SymptomProtocol, 0, len(raw))
	for i, p := range raw {
		if strings.TrimSpace(p.Symptom) == "" {
			logging.Warn("Skipping protocol without symptom name", "index", i)
			continue
		}
		catalog = append(catalog, p)
	}

	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	return catalog, nil
}
