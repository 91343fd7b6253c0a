package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/eleven-am/failover/internal/domain"
	"github.com/eleven-am/failover/internal/ports"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var _ ports.InterfaceProvider = (*FileProvider)(nil)

// Document is the on-disk snapshot format written by the interface service.
type Document struct {
	Interfaces []domain.NetworkInterface `json:"interfaces" yaml:"interfaces"`
}

// FileProvider re-reads a snapshot file on every query, so the latest write by
// the interface service is always observed. Files ending in .json are decoded
// as JSON, everything else as YAML.
type FileProvider struct {
	path   string
	logger *slog.Logger
}

func NewFileProvider(path string, logger *slog.Logger) *FileProvider {
	if logger == nil {
		logger = slog.Default()
	}

	return &FileProvider{
		path:   path,
		logger: logger.With("component", "snapshot", "path", path),
	}
}

func (p *FileProvider) Path() string {
	return p.path
}

func (p *FileProvider) Query(ctx context.Context, filter domain.InterfaceFilter) ([]domain.NetworkInterface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read interface snapshot: %w", err)
	}

	doc, err := Decode(data, p.isJSON())
	if err != nil {
		p.logger.Warn("failed to decode interface snapshot", "error", err)
		return nil, err
	}

	p.logger.Debug("read interface snapshot", "interfaces", len(doc.Interfaces))
	return filterInterfaces(doc.Interfaces, filter), nil
}

func (p *FileProvider) isJSON() bool {
	return strings.EqualFold(filepath.Ext(p.path), ".json")
}

// Decode parses a snapshot document.
func Decode(data []byte, asJSON bool) (Document, error) {
	var doc Document
	var err error
	if asJSON {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return Document{}, fmt.Errorf("%w: interface snapshot: %v", domain.ErrInvalidInput, err)
	}

	for i, iface := range doc.Interfaces {
		if strings.TrimSpace(iface.Name) == "" {
			return Document{}, fmt.Errorf("%w: interface snapshot entry %d has no name", domain.ErrInvalidInput, i)
		}
	}
	return doc, nil
}
