package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petra-ci/pipecheck/internal/errors"
)

// ClientType selects how the snapshot is obtained.
type ClientType string

const (
	// ClientMock deserializes a static snapshot file (YAML or JSON).
	ClientMock ClientType = "mock"
	// ClientHTTP queries a registry service endpoint once.
	ClientHTTP ClientType = "http"
)

// IsValid returns true for a known client type.
func (c ClientType) IsValid() bool {
	return c == ClientMock || c == ClientHTTP
}

// Loader obtains a registry snapshot from one source.
type Loader interface {
	Load(ctx context.Context) (Snapshot, error)
}

// FileLoader reads a static snapshot mapping from a YAML or JSON file.
type FileLoader struct {
	Path string
}

// Load deserializes the snapshot file. The format is chosen by extension;
// anything that is not .json is treated as YAML.
func (l *FileLoader) Load(_ context.Context) (Snapshot, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, errors.WrapWithMessage(
			fmt.Errorf("%w: %v", errors.ErrRegistryUnavailable, err),
			errors.Source,
			"loading registry snapshot file",
			"check registry_verifier.snapshot_file in the configuration")
	}

	var snap Snapshot
	if strings.EqualFold(filepath.Ext(l.Path), ".json") {
		err = json.Unmarshal(data, &snap)
	} else {
		err = yaml.Unmarshal(data, &snap)
	}
	if err != nil {
		return nil, errors.WrapWithMessage(err, errors.Source,
			fmt.Sprintf("decoding registry snapshot %s", l.Path))
	}
	return snap, nil
}

// HTTPLoader queries a live registry service once, capturing a consistent
// point-in-time view. The response body must be a JSON document matching
// the Snapshot shape.
type HTTPLoader struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPLoader creates an HTTPLoader with a bounded request timeout.
func NewHTTPLoader(endpoint string, timeout time.Duration) *HTTPLoader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPLoader{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

// Load performs the single registry query.
func (l *HTTPLoader) Load(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Endpoint, nil)
	if err != nil {
		return nil, errors.WrapWithMessage(err, errors.Configuration,
			"building registry request",
			"check registry_verifier.endpoint in the configuration")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, errors.WrapWithMessage(
			fmt.Errorf("%w: %v", errors.ErrRegistryUnavailable, err),
			errors.Source,
			"querying registry service",
			"check that the registry service is reachable",
			"use client_type: mock with a snapshot file for offline runs")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.WrapWithMessage(
			fmt.Errorf("%w: registry returned %s", errors.ErrRegistryUnavailable, resp.Status),
			errors.Source, "querying registry service")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapWithMessage(err, errors.Source, "reading registry response")
	}

	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, errors.WrapWithMessage(err, errors.Source, "decoding registry response")
	}
	return snap, nil
}

// Config selects and parameterizes the snapshot source.
type Config struct {
	ClientType   ClientType
	SnapshotFile string
	Endpoint     string
	Timeout      time.Duration
}

// NewLoader builds the Loader a config describes.
func NewLoader(cfg Config) (Loader, error) {
	switch cfg.ClientType {
	case ClientMock:
		if cfg.SnapshotFile == "" {
			return nil, errors.NewConfigError(
				"registry_verifier: client_type mock requires snapshot_file")
		}
		return &FileLoader{Path: cfg.SnapshotFile}, nil
	case ClientHTTP:
		if cfg.Endpoint == "" {
			return nil, errors.NewConfigError(
				"registry_verifier: client_type http requires endpoint")
		}
		return NewHTTPLoader(cfg.Endpoint, cfg.Timeout), nil
	default:
		return nil, errors.NewConfigError(
			fmt.Sprintf("registry_verifier: unknown client_type %q", cfg.ClientType),
			"use one of: mock, http")
	}
}
