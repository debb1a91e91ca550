// Package local provides a filesystem-backed uploads store.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/spf13/afero"

	"github.com/marmos91/shopkeep/internal/logger"
	"github.com/marmos91/shopkeep/pkg/uploads"
)

// DefaultRoot is the deployment root of a storefront checkout: uploads are
// served from <root>/uploads.
const DefaultRoot = "./public"

// Store is an uploads.Store over an afero filesystem rooted at the
// deployment root. Public path /uploads/x.png maps to <root>/uploads/x.png.
type Store struct {
	fs     afero.Fs
	root   string
	closed bool
	mu     sync.RWMutex
}

// New creates a store over fsys, whose "/" is treated as the deployment root.
// root is only used for logging.
func New(fsys afero.Fs, root string) *Store {
	return &Store{fs: fsys, root: root}
}

// NewOS creates a store over the operating system filesystem below root.
// Paths cannot escape root. A root that does not exist yet lists as empty;
// Healthcheck still reports it.
func NewOS(root string) (*Store, error) {
	if root == "" {
		root = DefaultRoot
	}
	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("Uploads root does not exist, nothing to reconcile", logger.KeyRoot, root)
	case err != nil:
		return nil, fmt.Errorf("uploads root %q: %w", root, err)
	case !info.IsDir():
		return nil, fmt.Errorf("uploads root %q is not a directory", root)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), root), root), nil
}

func (s *Store) Type() string { return "local" }

// Root returns the deployment root this store was opened on.
func (s *Store) Root() string { return s.root }

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return uploads.ErrStoreClosed
	}
	return nil
}

// List returns the direct children of dir. afero.ReadDir sorts by name and
// does not follow symlinks, so a link is never reported as Regular.
func (s *Store) List(ctx context.Context, dir uploads.Dir) ([]uploads.Entry, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(s.fs, "/"+string(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	entries := make([]uploads.Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, uploads.Entry{
			Name:    info.Name(),
			IsDir:   info.IsDir(),
			Regular: info.Mode().IsRegular(),
		})
	}
	return entries, nil
}

// Remove deletes the regular file at publicPath.
func (s *Store) Remove(ctx context.Context, publicPath string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	rel, err := uploads.ValidatePublicPath(publicPath)
	if err != nil {
		return fmt.Errorf("%w: %q", err, publicPath)
	}
	name := "/" + rel

	info, err := s.fs.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return uploads.ErrNotFound
		}
		return fmt.Errorf("stat %s: %w", publicPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", uploads.ErrIsDirectory, publicPath)
	}

	if err := s.fs.Remove(name); err != nil {
		// Lost a race with a concurrent remover.
		if errors.Is(err, fs.ErrNotExist) {
			return uploads.ErrNotFound
		}
		return fmt.Errorf("remove %s: %w", publicPath, err)
	}
	return nil
}

// Healthcheck verifies the deployment root is reachable.
func (s *Store) Healthcheck(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if _, err := s.fs.Stat("/"); err != nil {
		return fmt.Errorf("uploads root unavailable: %w", err)
	}
	return ctx.Err()
}

// Close marks the store as closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ uploads.Store = (*Store)(nil)
