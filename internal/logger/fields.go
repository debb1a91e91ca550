package logger

import "log/slog"

// Field keys used across shopkeep. Keep them stable: dashboards and log
// queries filter on these names.
const (
	// Tracing
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// HTTP
	KeyRequestID = "request_id"
	KeyClientIP  = "client_ip"
	KeyMethod    = "method"
	KeyRoute     = "route"
	KeyStatus    = "status"
	KeyBytes     = "bytes"

	// Uploads
	KeyPath      = "path"
	KeyDir       = "dir"
	KeyStoreType = "store_type"
	KeyBucket    = "bucket"
	KeyKey       = "key"
	KeyRoot      = "root"

	// Reconciliation
	KeyCandidates = "candidates"
	KeyReferenced = "referenced"
	KeyOrphans    = "orphans"
	KeyDeleted    = "deleted"
	KeyMissing    = "missing"
	KeyFailed     = "failed"
	KeyConfirm    = "confirm"

	// Catalog
	KeyProductID = "product_id"
	KeyDatabase  = "database"

	// Generic
	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyOperation  = "operation"
	KeySubject    = "subject"
)

func TraceID(id string) slog.Attr   { return slog.String(KeyTraceID, id) }
func SpanID(id string) slog.Attr    { return slog.String(KeySpanID, id) }
func RequestID(id string) slog.Attr { return slog.String(KeyRequestID, id) }
func ClientIP(ip string) slog.Attr  { return slog.String(KeyClientIP, ip) }
func Method(m string) slog.Attr     { return slog.String(KeyMethod, m) }
func Route(r string) slog.Attr      { return slog.String(KeyRoute, r) }
func Status(code int) slog.Attr     { return slog.Int(KeyStatus, code) }
func Bytes(n int) slog.Attr         { return slog.Int(KeyBytes, n) }

func Path(p string) slog.Attr      { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr       { return slog.String(KeyDir, d) }
func StoreType(t string) slog.Attr { return slog.String(KeyStoreType, t) }
func Bucket(b string) slog.Attr    { return slog.String(KeyBucket, b) }
func Key(k string) slog.Attr       { return slog.String(KeyKey, k) }
func Root(r string) slog.Attr      { return slog.String(KeyRoot, r) }

func Candidates(n int) slog.Attr { return slog.Int(KeyCandidates, n) }
func Referenced(n int) slog.Attr { return slog.Int(KeyReferenced, n) }
func Orphans(n int) slog.Attr    { return slog.Int(KeyOrphans, n) }
func Deleted(n int) slog.Attr    { return slog.Int(KeyDeleted, n) }
func Missing(n int) slog.Attr    { return slog.Int(KeyMissing, n) }
func Failed(n int) slog.Attr     { return slog.Int(KeyFailed, n) }
func Confirm(c bool) slog.Attr   { return slog.Bool(KeyConfirm, c) }

func ProductID(id string) slog.Attr { return slog.String(KeyProductID, id) }
func Database(t string) slog.Attr   { return slog.String(KeyDatabase, t) }

// DurationMs returns a slog.Attr for a duration in milliseconds
func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err returns a slog.Attr for an error. A nil error yields an empty attr,
// which handlers drop.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }
func Subject(s string) slog.Attr    { return slog.String(KeySubject, s) }
