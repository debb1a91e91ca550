package reconcile

import "fmt"

// ScanError reports a directory that could not be listed. The scan is
// aborted, never returned partially.
type ScanError struct {
	Dir string
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Dir, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// ReferenceFetchError reports a failed image URL query. It is fatal to the
// run: treating it as "no references" would make every file an orphan.
type ReferenceFetchError struct {
	Err error
}

func (e *ReferenceFetchError) Error() string {
	return fmt.Sprintf("fetch image references: %v", e.Err)
}

func (e *ReferenceFetchError) Unwrap() error { return e.Err }
