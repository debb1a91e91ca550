package reconcile

import (
	"context"
	"net/url"
	"strings"

	"github.com/marmos91/shopkeep/internal/telemetry"
)

// ReferenceSource returns the url column of every image row. NULL columns
// are returned as nil pointers.
type ReferenceSource interface {
	ImageURLs(ctx context.Context) ([]*string, error)
}

// normalizeBase resolves root-relative URLs. Only the path of the result is
// kept, so the host is irrelevant.
var normalizeBase = &url.URL{Scheme: "http", Host: "example.com", Path: "/"}

// Browsers treat a backslash as a path separator in these schemes. Relative
// references inherit http from normalizeBase.
var specialSchemes = map[string]bool{
	"http": true, "https": true, "ws": true, "wss": true, "ftp": true, "file": true,
}

// cleanReference applies the input cleanup a browser performs before parsing
// a URL. C0 controls and spaces around the value are trimmed and tabs or
// newlines inside it are dropped. Backslashes become slashes unless the
// value carries a non-special scheme.
func cleanReference(raw string) string {
	s := strings.TrimFunc(raw, func(r rune) bool { return r <= ' ' })
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
	if scheme, ok := schemeOf(s); !ok || specialSchemes[scheme] {
		s = strings.ReplaceAll(s, `\`, "/")
	}
	return s
}

// schemeOf returns the lowercased scheme of s, if s starts with one.
func schemeOf(s string) (string, bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		case i > 0 && c == ':':
			return strings.ToLower(s[:i]), true
		default:
			return "", false
		}
	}
	return "", false
}

func parseReference(raw string) (*url.URL, error) {
	return normalizeBase.Parse(cleanReference(raw))
}

// NormalizeReference reduces a stored image URL to its path component.
// Absolute (https://cdn/uploads/x.png), protocol-relative and root-relative
// (/uploads/x.png) forms normalize identically. Surrounding whitespace,
// embedded newlines and backslash separators are tolerated the way a browser
// tolerates them. A value that still cannot be parsed is kept unchanged.
// Empty values yield false.
func NormalizeReference(raw string) (ReferencedPath, bool) {
	if raw == "" {
		return "", false
	}
	u, err := parseReference(raw)
	if err != nil {
		return ReferencedPath(raw), true
	}
	return ReferencedPath(u.Path), true
}

// referenceForms returns every path form under which raw may name a file:
// the decoded path and, when it differs, the percent-encoded one.
func referenceForms(raw string) []ReferencedPath {
	if raw == "" {
		return nil
	}
	u, err := parseReference(raw)
	if err != nil {
		return []ReferencedPath{ReferencedPath(raw)}
	}
	p := ReferencedPath(u.Path)
	forms := []ReferencedPath{p}
	if escaped := ReferencedPath(u.EscapedPath()); escaped != p {
		forms = append(forms, escaped)
	}
	return forms
}

// Resolver builds the set of referenced paths.
type Resolver struct {
	source ReferenceSource
}

func NewResolver(source ReferenceSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve fetches all image URLs and returns their normalized paths as a
// set. A query failure is returned as *ReferenceFetchError.
func (r *Resolver) Resolve(ctx context.Context) (map[ReferencedPath]struct{}, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanReconcileRefs)
	defer span.End()

	urls, err := r.source.ImageURLs(ctx)
	if err != nil {
		fetchErr := &ReferenceFetchError{Err: err}
		telemetry.RecordError(ctx, fetchErr)
		return nil, fetchErr
	}

	refs := make(map[ReferencedPath]struct{}, len(urls))
	for _, u := range urls {
		if u == nil {
			continue
		}
		for _, p := range referenceForms(*u) {
			refs[p] = struct{}{}
		}
	}

	telemetry.SetAttributes(ctx, telemetry.Referenced(len(refs)))
	return refs, nil
}
