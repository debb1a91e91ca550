package reconcile

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marmos91/shopkeep/internal/logger"
	"github.com/marmos91/shopkeep/internal/telemetry"
	"github.com/marmos91/shopkeep/pkg/uploads"
)

// maxOutOfScopeSamples bounds the sample logged for out-of-scope references.
const maxOutOfScopeSamples = 5

// Reconciler computes and optionally deletes orphaned uploads.
type Reconciler struct {
	scanner  *Scanner
	resolver *Resolver
	store    uploads.Store
	metrics  Metrics
}

// New creates a Reconciler over the given upload store and reference
// source. metrics may be nil.
func New(store uploads.Store, source ReferenceSource, metrics Metrics) *Reconciler {
	return &Reconciler{
		scanner:  NewScanner(store),
		resolver: NewResolver(source),
		store:    store,
		metrics:  metrics,
	}
}

// Run performs one reconciliation. With the zero Options it only reports
// orphans. Scan or reference failures abort the run before any deletion;
// individual deletion failures are collected in Result.Failures.
func (r *Reconciler) Run(ctx context.Context, opts Options) (result *Result, err error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanReconcile,
		telemetry.Confirm(opts.Confirm),
		telemetry.StoreType(r.store.Type()),
	)
	defer func() {
		if err != nil {
			telemetry.RecordError(ctx, err)
		}
		span.End()
		if r.metrics != nil {
			r.metrics.ObserveRun(opts.Confirm, time.Since(start), err)
		}
	}()

	var (
		candidates []CandidatePath
		refs       map[ReferencedPath]struct{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = r.scanner.Scan(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		refs, err = r.resolver.Resolve(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.ErrorCtx(ctx, "Reconcile: aborted before deletion", logger.Err(err))
		return nil, err
	}

	result = &Result{
		Confirmed:  opts.Confirm,
		Candidates: len(candidates),
		Referenced: len(refs),
		Orphans:    Diff(candidates, refs),
		Failures:   []DeletionFailure{},
	}
	result.OutOfScope = outOfScope(refs)
	if len(result.OutOfScope) > 0 {
		logger.WarnCtx(ctx, "Reconcile: image references outside the scanned upload directories",
			"count", len(result.OutOfScope),
			"sample", samplePaths(result.OutOfScope, maxOutOfScopeSamples))
	}

	if r.metrics != nil {
		r.metrics.RecordOrphans(result.Orphans.Len())
	}

	if opts.Confirm {
		r.deleteOrphans(ctx, result)
	}

	result.Duration = time.Since(start)
	telemetry.SetAttributes(ctx,
		telemetry.Candidates(result.Candidates),
		telemetry.Referenced(result.Referenced),
		telemetry.Orphans(result.Orphans.Len()),
		telemetry.Deleted(result.Deleted),
		telemetry.Failed(len(result.Failures)),
	)
	logger.InfoCtx(ctx, "Reconcile: complete",
		logger.KeyConfirm, opts.Confirm,
		logger.KeyCandidates, result.Candidates,
		logger.KeyReferenced, result.Referenced,
		logger.KeyOrphans, result.Orphans.Len(),
		logger.KeyDeleted, result.Deleted,
		logger.KeyMissing, result.Missing,
		logger.KeyFailed, len(result.Failures),
		logger.KeyDurationMs, logger.Duration(start))

	return result, nil
}

// deleteOrphans removes every orphan, isolating failures per file.
func (r *Reconciler) deleteOrphans(ctx context.Context, result *Result) {
	for _, p := range result.Orphans {
		err := r.store.Remove(ctx, string(p))
		switch {
		case err == nil:
			result.Deleted++
			logger.DebugCtx(ctx, "Reconcile: deleted", logger.KeyPath, string(p))
		case errors.Is(err, uploads.ErrNotFound):
			result.Missing++
			logger.DebugCtx(ctx, "Reconcile: already gone", logger.KeyPath, string(p))
		default:
			result.Failures = append(result.Failures, DeletionFailure{Path: p, Err: err})
			logger.WarnCtx(ctx, "Reconcile: failed to delete", logger.KeyPath, string(p), logger.Err(err))
		}
	}

	if r.metrics != nil {
		r.metrics.RecordDeleted(result.Deleted)
		r.metrics.RecordMissing(result.Missing)
		r.metrics.RecordFailures(len(result.Failures))
	}
}

// Diff returns the candidates not present in refs, preserving candidate
// order. Matching is exact and case-sensitive.
func Diff(candidates []CandidatePath, refs map[ReferencedPath]struct{}) OrphanSet {
	orphans := OrphanSet{}
	for _, c := range candidates {
		if _, ok := refs[ReferencedPath(c)]; !ok {
			orphans = append(orphans, c)
		}
	}
	return orphans
}

// outOfScope returns the referenced paths that are not direct children of
// a scanned directory, in lexical order.
func outOfScope(refs map[ReferencedPath]struct{}) []ReferencedPath {
	var out []ReferencedPath
	for p := range refs {
		if !inScannedDir(string(p)) {
			out = append(out, p)
		}
	}
	sortReferenced(out)
	return out
}

func inScannedDir(p string) bool {
	for _, dir := range scanDirs {
		prefix := dir.PublicPrefix()
		if rest, ok := strings.CutPrefix(p, prefix); ok && rest != "" && !strings.Contains(rest, "/") {
			return true
		}
	}
	return false
}

func samplePaths(paths []ReferencedPath, n int) []string {
	if len(paths) < n {
		n = len(paths)
	}
	out := make([]string, n)
	for i := range out {
		out[i] = string(paths[i])
	}
	return out
}

func sortReferenced(paths []ReferencedPath) {
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
}
