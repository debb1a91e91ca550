package reconcile

import (
	"encoding/json"
	"time"
)

// CandidatePath is the public path of a file found by the scanner,
// e.g. /uploads/x.png or /uploads/thumbs/x-thumb.png.
type CandidatePath string

// ReferencedPath is an image URL reduced to its path component.
// Use NormalizeReference to build one from a stored URL.
type ReferencedPath string

// OrphanSet is the ordered list of candidates no image references.
type OrphanSet []CandidatePath

// Contains reports whether p is in the set.
func (s OrphanSet) Contains(p CandidatePath) bool {
	for _, o := range s {
		if o == p {
			return true
		}
	}
	return false
}

func (s OrphanSet) Len() int { return len(s) }

// Strings returns the paths in order. It never returns nil, so the JSON
// encoding of an empty set is [].
func (s OrphanSet) Strings() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = string(p)
	}
	return out
}

// DeletionFailure records an orphan that could not be removed.
type DeletionFailure struct {
	Path CandidatePath
	Err  error
}

func (f DeletionFailure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		Path  string `json:"path"`
		Error string `json:"error"`
	}{string(f.Path), msg})
}

// Options controls a run. The zero value is a dry run.
type Options struct {
	// Confirm deletes the orphans instead of only reporting them.
	Confirm bool
}

// Result summarizes a run. It is never persisted.
type Result struct {
	Confirmed  bool
	Candidates int
	Referenced int
	Orphans    OrphanSet

	// Deleted counts files actually removed. Missing counts orphans that
	// had already disappeared when their removal was attempted.
	Deleted  int
	Missing  int
	Failures []DeletionFailure

	// OutOfScope lists referenced paths that lie outside the scanned
	// directories. They cannot protect any candidate and usually point at a
	// different uploads layout.
	OutOfScope []ReferencedPath

	Duration time.Duration
}
