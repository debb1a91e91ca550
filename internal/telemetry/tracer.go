package telemetry

import "go.opentelemetry.io/otel/attribute"

// Span attribute keys
const (
	AttrClientIP   = "client.ip"
	AttrHTTPMethod = "http.request.method"
	AttrHTTPRoute  = "http.route"
	AttrHTTPStatus = "http.response.status_code"

	AttrConfirm    = "reconcile.confirm"
	AttrCandidates = "reconcile.candidates"
	AttrReferenced = "reconcile.referenced"
	AttrOrphans    = "reconcile.orphans"
	AttrDeleted    = "reconcile.deleted"
	AttrFailed     = "reconcile.failed"

	AttrPath      = "uploads.path"
	AttrDir       = "uploads.dir"
	AttrStoreType = "store.type"
	AttrBucket    = "storage.bucket"
	AttrKey       = "storage.key"

	AttrProductID = "catalog.product_id"
	AttrDBSystem  = "db.system"
)

// Span names
const (
	SpanHTTPRequest   = "http.request"
	SpanReconcile     = "reconcile.run"
	SpanReconcileScan = "reconcile.scan"
	SpanReconcileRefs = "reconcile.resolve"
	SpanUploadsList   = "uploads.list"
	SpanUploadsRemove = "uploads.remove"
	SpanCatalogQuery  = "catalog.query"
	SpanProductDelete = "catalog.product_delete"
	SpanProductUpdate = "catalog.product_update"
)

func ClientIP(ip string) attribute.KeyValue     { return attribute.String(AttrClientIP, ip) }
func HTTPMethod(m string) attribute.KeyValue    { return attribute.String(AttrHTTPMethod, m) }
func HTTPRoute(r string) attribute.KeyValue     { return attribute.String(AttrHTTPRoute, r) }
func HTTPStatus(code int) attribute.KeyValue    { return attribute.Int(AttrHTTPStatus, code) }
func Confirm(c bool) attribute.KeyValue         { return attribute.Bool(AttrConfirm, c) }
func Candidates(n int) attribute.KeyValue       { return attribute.Int(AttrCandidates, n) }
func Referenced(n int) attribute.KeyValue       { return attribute.Int(AttrReferenced, n) }
func Orphans(n int) attribute.KeyValue          { return attribute.Int(AttrOrphans, n) }
func Deleted(n int) attribute.KeyValue          { return attribute.Int(AttrDeleted, n) }
func Failed(n int) attribute.KeyValue           { return attribute.Int(AttrFailed, n) }
func Path(p string) attribute.KeyValue          { return attribute.String(AttrPath, p) }
func Dir(d string) attribute.KeyValue           { return attribute.String(AttrDir, d) }
func StoreType(t string) attribute.KeyValue     { return attribute.String(AttrStoreType, t) }
func Bucket(b string) attribute.KeyValue        { return attribute.String(AttrBucket, b) }
func StorageKey(k string) attribute.KeyValue    { return attribute.String(AttrKey, k) }
func ProductID(id string) attribute.KeyValue    { return attribute.String(AttrProductID, id) }
func DBSystem(system string) attribute.KeyValue { return attribute.String(AttrDBSystem, system) }
