package reconcile

import (
	"context"
	"sort"

	"github.com/marmos91/shopkeep/internal/logger"
	"github.com/marmos91/shopkeep/internal/telemetry"
	"github.com/marmos91/shopkeep/pkg/uploads"
)

// scanDirs are listed in this order; the candidate order follows it.
var scanDirs = []uploads.Dir{uploads.DirRoot, uploads.DirThumbs}

// Scanner lists candidate files in the upload directories.
type Scanner struct {
	store uploads.Store
}

func NewScanner(store uploads.Store) *Scanner {
	return &Scanner{store: store}
}

// Scan returns the public paths of all regular, non-placeholder files
// directly inside /uploads and /uploads/thumbs: root entries first, then
// thumbs, each in lexical order.
func (s *Scanner) Scan(ctx context.Context) ([]CandidatePath, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanReconcileScan, telemetry.StoreType(s.store.Type()))
	defer span.End()

	var candidates []CandidatePath
	for _, dir := range scanDirs {
		entries, err := s.store.List(ctx, dir)
		if err != nil {
			scanErr := &ScanError{Dir: dir.PublicPrefix(), Err: err}
			telemetry.RecordError(ctx, scanErr)
			return nil, scanErr
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.Regular || uploads.IsPlaceholder(e.Name) {
				continue
			}
			names = append(names, e.Name)
		}
		sort.Strings(names)
		for _, name := range names {
			candidates = append(candidates, CandidatePath(uploads.PublicPath(dir, name)))
		}
		logger.DebugCtx(ctx, "Scan: listed directory", logger.KeyDir, dir.PublicPrefix(), "entries", len(entries))
	}

	telemetry.SetAttributes(ctx, telemetry.Candidates(len(candidates)))
	return candidates, nil
}
