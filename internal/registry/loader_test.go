package registry

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pipeerrors "github.com/petra-ci/pipecheck/internal/errors"
)

func TestFileLoaderYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yml")
	content := `
worker-1:
  status: running
  replicas: 3
collector:
  status: stopped
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	snap, err := (&FileLoader{Path: path}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, snap.Components())
	value, compFound, attrFound := snap.Lookup("worker-1", "status")
	assert.True(t, compFound)
	assert.True(t, attrFound)
	assert.Equal(t, "running", value)
}

func TestFileLoaderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"gateway":{"healthy":true}}`), 0o644))

	snap, err := (&FileLoader{Path: path}).Load(context.Background())
	require.NoError(t, err)
	value, _, _ := snap.Lookup("gateway", "healthy")
	assert.Equal(t, true, value)
}

func TestFileLoaderMissing(t *testing.T) {
	_, err := (&FileLoader{Path: filepath.Join(t.TempDir(), "none.yml")}).Load(context.Background())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, pipeerrors.ErrRegistryUnavailable))
}

func TestHTTPLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"worker-1":{"status":"running"}}`))
	}))
	defer srv.Close()

	snap, err := NewHTTPLoader(srv.URL, time.Second).Load(context.Background())
	require.NoError(t, err)
	value, _, _ := snap.Lookup("worker-1", "status")
	assert.Equal(t, "running", value)
}

func TestHTTPLoaderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force connection refused

	_, err := NewHTTPLoader(srv.URL, time.Second).Load(context.Background())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, pipeerrors.ErrRegistryUnavailable))
	assert.Equal(t, pipeerrors.Source, pipeerrors.CategoryOf(err))
}

func TestHTTPLoaderNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPLoader(srv.URL, time.Second).Load(context.Background())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, pipeerrors.ErrRegistryUnavailable))
}

func TestNewLoader(t *testing.T) {
	tests := map[string]struct {
		cfg      Config
		wantErr  bool
		wantType any
	}{
		"mock with file": {
			cfg:      Config{ClientType: ClientMock, SnapshotFile: "snap.yml"},
			wantType: &FileLoader{},
		},
		"mock without file": {
			cfg:     Config{ClientType: ClientMock},
			wantErr: true,
		},
		"http with endpoint": {
			cfg:      Config{ClientType: ClientHTTP, Endpoint: "http://registry.local/state"},
			wantType: &HTTPLoader{},
		},
		"http without endpoint": {
			cfg:     Config{ClientType: ClientHTTP},
			wantErr: true,
		},
		"unknown client type": {
			cfg:     Config{ClientType: "ftp"},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			loader, err := NewLoader(tc.cfg)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, pipeerrors.Configuration, pipeerrors.CategoryOf(err))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.wantType, loader)
		})
	}
}

func TestSnapshotLookupMissing(t *testing.T) {
	snap := Snapshot{"worker-1": {"status": "running"}}

	_, compFound, attrFound := snap.Lookup("absent", "status")
	assert.False(t, compFound)
	assert.False(t, attrFound)

	_, compFound, attrFound = snap.Lookup("worker-1", "absent")
	assert.True(t, compFound)
	assert.False(t, attrFound)
}
