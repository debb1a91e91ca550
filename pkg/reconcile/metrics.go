package reconcile

import "time"

// Metrics receives per-run measurements. A nil Metrics disables collection.
type Metrics interface {
	ObserveRun(confirmed bool, duration time.Duration, err error)
	RecordOrphans(n int)
	RecordDeleted(n int)
	RecordMissing(n int)
	RecordFailures(n int)
}
