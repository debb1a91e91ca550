package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/shopkeep/pkg/reconcile"
)

type fakeRunner struct {
	result *reconcile.Result
	err    error
	calls  []reconcile.Options
}

func (f *fakeRunner) Run(ctx context.Context, opts reconcile.Options) (*reconcile.Result, error) {
	f.calls = append(f.calls, opts)
	return f.result, f.err
}

func postCleanup(t *testing.T, h *CleanupHandler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, "/api/admin/cleanup", nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, "/api/admin/cleanup", strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.Cleanup(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return w, resp
}

func TestCleanup_DryRunContract(t *testing.T) {
	runner := &fakeRunner{result: &reconcile.Result{
		Orphans: reconcile.OrphanSet{"/uploads/b.png", "/uploads/thumbs/b-thumb.png"},
	}}
	h := NewCleanupHandler(runner)

	w, resp := postCleanup(t, h, `{}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, []any{"/uploads/b.png", "/uploads/thumbs/b-thumb.png"}, resp["toDelete"])
	assert.Equal(t, `Send { "confirm": true } to delete`, resp["message"])
	assert.NotContains(t, resp, "deleted")
	require.Len(t, runner.calls, 1)
	assert.False(t, runner.calls[0].Confirm)
}

func TestCleanup_DryRunEmptyListIsArray(t *testing.T) {
	h := NewCleanupHandler(&fakeRunner{result: &reconcile.Result{}})

	w, _ := postCleanup(t, h, "")
	assert.Contains(t, w.Body.String(), `"toDelete":[]`)
}

func TestCleanup_BodyVariantsDefaultToDryRun(t *testing.T) {
	bodies := map[string]string{
		"no body":        "",
		"confirm false":  `{"confirm": false}`,
		"malformed json": `{"confirm": tru`,
		"wrong type":     `{"confirm": "yes"}`,
		"not an object":  `[true]`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			runner := &fakeRunner{result: &reconcile.Result{}}
			w, resp := postCleanup(t, NewCleanupHandler(runner), body)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, resp, "toDelete")
			require.Len(t, runner.calls, 1)
			assert.False(t, runner.calls[0].Confirm)
		})
	}
}

func TestCleanup_ConfirmContract(t *testing.T) {
	runner := &fakeRunner{result: &reconcile.Result{
		Confirmed: true,
		Orphans:   reconcile.OrphanSet{"/uploads/1.png", "/uploads/2.png", "/uploads/3.png"},
		Deleted:   2,
		Failures: []reconcile.DeletionFailure{
			{Path: "/uploads/2.png", Err: errors.New("permission denied")},
		},
	}}
	w, resp := postCleanup(t, NewCleanupHandler(runner), `{"confirm": true}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, float64(2), resp["deleted"])
	assert.Equal(t, float64(0), resp["missing"])
	assert.Equal(t, []any{map[string]any{"path": "/uploads/2.png", "error": "permission denied"}}, resp["failures"])
	assert.NotContains(t, resp, "toDelete")
	require.Len(t, runner.calls, 1)
	assert.True(t, runner.calls[0].Confirm)
}

func TestCleanup_FailureContract(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"reference fetch", &reconcile.ReferenceFetchError{Err: errors.New("dial tcp: refused")}, "Cleanup failed: could not load image references"},
		{"scan", &reconcile.ScanError{Dir: "/uploads/thumbs/", Err: os.ErrPermission}, "Cleanup failed: could not list /uploads/thumbs/"},
		{"other", errors.New("boom"), "Cleanup failed: internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := postCleanup(t, NewCleanupHandler(&fakeRunner{err: tt.err}), `{"confirm": true}`)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, map[string]any{"ok": false, "error": tt.want}, resp)
		})
	}
}

type failingSource struct{}

func (failingSource) ImageURLs(ctx context.Context) ([]*string, error) {
	return nil, errors.New("database is locked")
}

func TestCleanup_EndToEnd(t *testing.T) {
	catalog := createTestCatalog(t)
	seedProduct(t, catalog, "shirt", "https://cdn.x.com/uploads/shirt.png", "/uploads/thumbs/shirt-thumb.png")
	fsys, uploadStore := createTestUploads(t,
		"/uploads/shirt.png",
		"/uploads/old.png",
		"/uploads/.gitkeep",
		"/uploads/thumbs/shirt-thumb.png",
		"/uploads/thumbs/old-thumb.png",
	)
	h := NewCleanupHandler(reconcile.New(uploadStore, catalog, nil))

	_, preview := postCleanup(t, h, `{}`)
	assert.Equal(t, []any{"/uploads/old.png", "/uploads/thumbs/old-thumb.png"}, preview["toDelete"])

	_, report := postCleanup(t, h, `{"confirm": true}`)
	assert.Equal(t, float64(2), report["deleted"])

	_, again := postCleanup(t, h, `{"confirm": true}`)
	assert.Equal(t, float64(0), again["deleted"])

	for p, want := range map[string]bool{
		"/uploads/shirt.png":              true,
		"/uploads/.gitkeep":               true,
		"/uploads/thumbs/shirt-thumb.png": true,
		"/uploads/old.png":                false,
		"/uploads/thumbs/old-thumb.png":   false,
	} {
		ok, err := afero.Exists(fsys, p)
		require.NoError(t, err)
		assert.Equal(t, want, ok, p)
	}
}

func TestCleanup_ReferenceFailureDeletesNothing(t *testing.T) {
	fsys, uploadStore := createTestUploads(t, "/uploads/a.png")
	h := NewCleanupHandler(reconcile.New(uploadStore, failingSource{}, nil))

	w, resp := postCleanup(t, h, `{"confirm": true}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, resp["ok"])

	ok, err := afero.Exists(fsys, "/uploads/a.png")
	require.NoError(t, err)
	assert.True(t, ok)
}
