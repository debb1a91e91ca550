// Package uploads abstracts the storage holding product image files.
//
// Files are addressed by public path, the form stored in Image.url and
// served by the storefront: /uploads/<name> for originals and
// /uploads/thumbs/<name> for derived thumbnails. Backends map a public path
// onto their own namespace (a directory under the deployment root, or an
// object key under a bucket prefix).
package uploads

import (
	"context"
	"errors"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Dir identifies one of the two scanned upload directories, relative to the
// deployment root.
type Dir string

const (
	DirRoot   Dir = "uploads"
	DirThumbs Dir = "uploads/thumbs"
)

// PublicPrefix returns the public path prefix for entries of d, with a
// trailing slash.
func (d Dir) PublicPrefix() string {
	return "/" + string(d) + "/"
}

// PlaceholderName keeps otherwise empty upload directories in version control.
const PlaceholderName = ".gitkeep"

var (
	ErrNotFound    = errors.New("upload not found")
	ErrInvalidPath = errors.New("invalid upload path")
	ErrIsDirectory = errors.New("upload path is a directory")
	ErrStoreClosed = errors.New("uploads store is closed")
)

// Entry is a direct child of an upload directory.
type Entry struct {
	Name  string
	IsDir bool
	// Regular is false for directories, symlinks and other special files.
	Regular bool
}

// Store is the upload storage used by the reconciler and product cleanup.
type Store interface {
	// List returns the direct children of dir sorted by name. A directory
	// that does not exist yields nil, nil.
	List(ctx context.Context, dir Dir) ([]Entry, error)

	// Remove deletes the file at publicPath. It returns ErrNotFound when
	// the file does not exist.
	Remove(ctx context.Context, publicPath string) error

	Healthcheck(ctx context.Context) error
	Close() error

	// Type names the backend ("local", "s3", ...) for logs and metrics.
	Type() string
}

// PublicPath returns the public path of name inside dir.
func PublicPath(dir Dir, name string) string {
	return dir.PublicPrefix() + name
}

// IsPlaceholder reports whether name is a dotfile or the .gitkeep marker.
// Such entries are never reconciliation candidates.
func IsPlaceholder(name string) bool {
	return name == PlaceholderName || strings.HasPrefix(name, ".")
}

// ValidatePublicPath checks that p names a file below /uploads/ and returns
// it relative to the deployment root, without the leading slash.
func ValidatePublicPath(p string) (string, error) {
	if !strings.HasPrefix(p, DirRoot.PublicPrefix()) {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." || seg == "." {
			return "", ErrInvalidPath
		}
	}
	if path.Clean(p) != p || strings.HasSuffix(p, "/") {
		return "", ErrInvalidPath
	}
	return strings.TrimPrefix(p, "/"), nil
}

var extSuffix = regexp.MustCompile(`(\.\w+)$`)

// ThumbPathFor returns the public path of the thumbnail derived from the
// image at imageURL: <base>.<ext> becomes /uploads/thumbs/<base>-thumb.<ext>.
// imageURL may be absolute or root-relative. It returns false when the file
// name has no extension, since no thumbnail is generated for it.
func ThumbPathFor(imageURL string) (string, bool) {
	p := imageURL
	if u, err := url.Parse(imageURL); err == nil {
		p = u.Path
	}

	base := path.Base(p)
	if base == "." || base == "/" || !extSuffix.MatchString(base) {
		return "", false
	}
	return PublicPath(DirThumbs, extSuffix.ReplaceAllString(base, "-thumb$1")), true
}
