package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/shopkeep/pkg/api/auth"
	"github.com/marmos91/shopkeep/pkg/api/handlers"
	"github.com/marmos91/shopkeep/pkg/catalog/store"
	"github.com/marmos91/shopkeep/pkg/reconcile"
	"github.com/marmos91/shopkeep/pkg/uploads/local"
)

const testSecret = "test-secret-key-that-is-at-least-32-characters-long"

func testDeps(t *testing.T) (Dependencies, afero.Fs) {
	t.Helper()
	catalog, err := store.New(&store.Config{Type: store.DatabaseTypeSQLite, SQLite: store.SQLiteConfig{Path: ":memory:"}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = catalog.Close() })

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/uploads/orphan.png", []byte("x"), 0644))
	uploadStore := local.New(fsys, "mem")

	return Dependencies{
		Catalog:    catalog,
		Uploads:    uploadStore,
		Reconciler: reconcile.New(uploadStore, catalog, nil),
		Connection: handlers.ConnectionInfo{Type: "sqlite", URL: "sqlite://:memory:"},
	}, fsys
}

func testConfig() APIConfig {
	return APIConfig{JWT: JWTConfig{Secret: testSecret}}
}

func adminToken(t *testing.T, cfg APIConfig) string {
	t.Helper()
	svc, err := NewJWTService(cfg)
	require.NoError(t, err)
	tok, err := svc.Generate("ops", auth.RoleAdmin, time.Minute)
	require.NoError(t, err)
	return tok.AccessToken
}

func TestNewServer_RequiresSecret(t *testing.T) {
	t.Setenv(EnvJWTSecret, "")
	deps, _ := testDeps(t)

	_, err := NewServer(APIConfig{}, deps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvJWTSecret)

	_, err = NewServer(APIConfig{JWT: JWTConfig{Secret: "short"}}, deps)
	assert.Error(t, err)
}

func TestGetJWTSecret_EnvOverrides(t *testing.T) {
	cfg := APIConfig{JWT: JWTConfig{Secret: "from-config"}}
	t.Setenv(EnvJWTSecret, "from-env")
	assert.Equal(t, "from-env", cfg.GetJWTSecret())
	assert.True(t, cfg.HasJWTSecret())
}

func TestApplyDefaults(t *testing.T) {
	var cfg APIConfig
	cfg.ApplyDefaults()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "shopkeep", cfg.JWT.Issuer)
	assert.Equal(t, time.Hour, cfg.JWT.TokenTTL)
}

func TestRouter_CleanupRoutes(t *testing.T) {
	t.Setenv(EnvJWTSecret, "")
	cfg := testConfig()
	deps, fsys := testDeps(t)
	srv, err := NewServer(cfg, deps)
	require.NoError(t, err)
	token := adminToken(t, cfg)

	for _, path := range []string{"/api/admin/cleanup", "/api/v1/maintenance/cleanup"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var resp handlers.CleanupPreview
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, []string{"/uploads/orphan.png"}, resp.ToDelete)
		})
	}

	ok, err := afero.Exists(fsys, "/uploads/orphan.png")
	require.NoError(t, err)
	assert.True(t, ok, "dry runs must not delete")
}

func TestRouter_AdminRoutesRequireToken(t *testing.T) {
	t.Setenv(EnvJWTSecret, "")
	deps, _ := testDeps(t)
	srv, err := NewServer(testConfig(), deps)
	require.NoError(t, err)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/admin/cleanup"},
		{http.MethodPost, "/api/v1/maintenance/cleanup"},
		{http.MethodGet, "/api/v1/products"},
		{http.MethodDelete, "/api/v1/products/abc"},
	} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_CleanupRejectionsUseCleanupShape(t *testing.T) {
	t.Setenv(EnvJWTSecret, "")
	deps, _ := testDeps(t)
	cfg := testConfig()
	srv, err := NewServer(cfg, deps)
	require.NoError(t, err)

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)
	viewer, err := svc.Generate("ops", "viewer", time.Minute)
	require.NoError(t, err)

	for _, tc := range []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"not admin", "Bearer " + viewer.AccessToken, http.StatusForbidden},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/admin/cleanup", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			require.Equal(t, tc.want, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["ok"])
			assert.NotEmpty(t, body["error"])
		})
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	assert.Equal(t, handlers.ContentTypeProblemJSON, w.Header().Get("Content-Type"))
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	t.Setenv(EnvJWTSecret, "")
	deps, _ := testDeps(t)

	srv, err := NewServer(testConfig(), deps)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "metrics are not mounted when disabled")

	deps.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "shopkeep_up 1\n")
	})
	srv, err = NewServer(testConfig(), deps)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shopkeep_up")
}

func TestServer_ServeAndStop(t *testing.T) {
	t.Setenv(EnvJWTSecret, "")
	deps, _ := testDeps(t)
	srv, err := NewServer(testConfig(), deps)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := fmt.Sprintf("http://%s/health", ln.Addr().String())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("server did not stop")
	}

	// Stop after shutdown is a no-op.
	assert.NoError(t, srv.Stop(context.Background()))
}
