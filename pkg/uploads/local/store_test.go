package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/shopkeep/pkg/uploads"
)

func writeFiles(t *testing.T, fsys afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, fsys.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(fsys, p, []byte("x"), 0o644))
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys,
		"/uploads/b.png",
		"/uploads/a.png",
		"/uploads/.gitkeep",
		"/uploads/thumbs/a-thumb.png",
	)
	s := New(fsys, "mem")

	entries, err := s.List(ctx, uploads.DirRoot)
	require.NoError(t, err)
	assert.Equal(t, []uploads.Entry{
		{Name: ".gitkeep", Regular: true},
		{Name: "a.png", Regular: true},
		{Name: "b.png", Regular: true},
		{Name: "thumbs", IsDir: true},
	}, entries)

	thumbs, err := s.List(ctx, uploads.DirThumbs)
	require.NoError(t, err)
	assert.Equal(t, []uploads.Entry{{Name: "a-thumb.png", Regular: true}}, thumbs)
}

func TestListMissingDir(t *testing.T) {
	s := New(afero.NewMemMapFs(), "mem")

	entries, err := s.List(context.Background(), uploads.DirThumbs)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestNewOSMissingRootIsEmpty(t *testing.T) {
	ctx := context.Background()
	s, err := NewOS(filepath.Join(t.TempDir(), "public"))
	require.NoError(t, err)

	for _, dir := range []uploads.Dir{uploads.DirRoot, uploads.DirThumbs} {
		entries, err := s.List(ctx, dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
	assert.ErrorIs(t, s.Remove(ctx, "/uploads/a.png"), uploads.ErrNotFound)
	assert.Error(t, s.Healthcheck(ctx))
}

func TestListSymlinksAreNotRegular(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "uploads")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "real"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("x"), 0o644))
	if err := os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(dir, "a.png"), filepath.Join(dir, "alias.png")))

	s, err := NewOS(root)
	require.NoError(t, err)

	entries, err := s.List(context.Background(), uploads.DirRoot)
	require.NoError(t, err)
	assert.Equal(t, []uploads.Entry{
		{Name: "a.png", Regular: true},
		{Name: "alias.png"},
		{Name: "link"},
		{Name: "real", IsDir: true},
	}, entries)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/uploads/a.png", "/uploads/thumbs/a-thumb.png")
	s := New(fsys, "mem")

	require.NoError(t, s.Remove(ctx, "/uploads/thumbs/a-thumb.png"))
	exists, err := afero.Exists(fsys, "/uploads/thumbs/a-thumb.png")
	require.NoError(t, err)
	assert.False(t, exists)

	err = s.Remove(ctx, "/uploads/thumbs/a-thumb.png")
	assert.ErrorIs(t, err, uploads.ErrNotFound)

	err = s.Remove(ctx, "/uploads/thumbs")
	assert.ErrorIs(t, err, uploads.ErrIsDirectory)

	for _, bad := range []string{"/etc/passwd", "/uploads/../secret", "uploads/a.png", "/uploads/"} {
		err = s.Remove(ctx, bad)
		assert.ErrorIs(t, err, uploads.ErrInvalidPath, bad)
	}

	exists, _ = afero.Exists(fsys, "/uploads/a.png")
	assert.True(t, exists)
}

func TestRemoveRaceMapsToNotFound(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/uploads/a.png")
	s := New(&vanishingFs{Fs: fsys}, "mem")

	err := s.Remove(context.Background(), "/uploads/a.png")
	assert.ErrorIs(t, err, uploads.ErrNotFound)
}

// vanishingFs reports every file as gone at Remove time.
type vanishingFs struct{ afero.Fs }

func (v *vanishingFs) Remove(name string) error {
	return &os.PathError{Op: "remove", Path: name, Err: os.ErrNotExist}
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	s := New(afero.NewMemMapFs(), "mem")
	require.NoError(t, s.Healthcheck(ctx))
	require.NoError(t, s.Close())

	_, err := s.List(ctx, uploads.DirRoot)
	assert.ErrorIs(t, err, uploads.ErrStoreClosed)
	assert.ErrorIs(t, s.Remove(ctx, "/uploads/a.png"), uploads.ErrStoreClosed)
	assert.ErrorIs(t, s.Healthcheck(ctx), uploads.ErrStoreClosed)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(afero.NewMemMapFs(), "mem")
	_, err := s.List(ctx, uploads.DirRoot)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewOS(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "uploads", "thumbs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "uploads", "a.png"), []byte("x"), 0o644))

	s, err := NewOS(root)
	require.NoError(t, err)
	assert.Equal(t, "local", s.Type())
	assert.Equal(t, root, s.Root())

	entries, err := s.List(context.Background(), uploads.DirRoot)
	require.NoError(t, err)
	assert.Equal(t, []uploads.Entry{{Name: "a.png", Regular: true}, {Name: "thumbs", IsDir: true}}, entries)

	require.NoError(t, s.Remove(context.Background(), "/uploads/a.png"))
	_, err = os.Stat(filepath.Join(root, "uploads", "a.png"))
	assert.True(t, os.IsNotExist(err))

	notDir := filepath.Join(root, "uploads", "thumbs", "file")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0o644))
	_, err = NewOS(notDir)
	assert.Error(t, err)

	file := filepath.Join(root, "uploads", "thumbs", "f.png")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = NewOS(file)
	assert.Error(t, err, "root must be a directory")
}
