package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marmos91/shopkeep/internal/cli/output"
	"github.com/marmos91/shopkeep/internal/cli/prompt"
	"github.com/marmos91/shopkeep/internal/logger"
	"github.com/marmos91/shopkeep/pkg/config"
	"github.com/marmos91/shopkeep/pkg/reconcile"
)

var (
	cleanupConfirm bool
	cleanupYes     bool
	cleanupOutput  string
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Find and delete uploaded files no product image references",
	Long: `Scan the uploads and thumbnails directories, compare them with the image
URLs stored in the catalog, and report every file nothing references.

Without --confirm nothing is deleted. With --confirm the orphaned files are
removed after an interactive confirmation, which --yes skips.

Examples:
  # Report orphaned files
  shopkeep cleanup

  # Delete them without prompting, for cron jobs
  shopkeep cleanup --confirm --yes

  # Machine-readable report
  shopkeep cleanup -o json`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupConfirm, "confirm", false, "Delete orphaned files instead of only listing them")
	cleanupCmd.Flags().BoolVarP(&cleanupYes, "yes", "y", false, "Skip the confirmation prompt")
	cleanupCmd.Flags().StringVarP(&cleanupOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(cleanupOutput)
	if err != nil {
		return err
	}
	printer := output.NewPrinter(cmd.OutOrStdout(), format, logger.IsTerminalWriter(cmd.OutOrStdout()))

	if cleanupConfirm && !cleanupYes && printer.Structured() {
		return fmt.Errorf("--confirm with --output %s requires --yes", format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Keep stdout for the report.
	if cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = "stderr"
	}
	if err := InitLogger(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := config.CreateCatalogStore(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = catalog.Close() }()

	uploadStore, err := config.CreateUploadsStore(ctx, cfg.Uploads)
	if err != nil {
		return err
	}
	defer func() { _ = uploadStore.Close() }()

	reconciler := reconcile.New(uploadStore, catalog, nil)

	if cleanupConfirm && !cleanupYes {
		proceed, err := confirmCleanup(ctx, reconciler, printer)
		if err != nil || !proceed {
			return err
		}
	}

	result, err := reconciler.Run(ctx, reconcile.Options{Confirm: cleanupConfirm})
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	if err := printer.Print(newCleanupReport(result)); err != nil {
		return err
	}
	printSummary(printer, result)

	if n := len(result.Failures); n > 0 {
		return fmt.Errorf("%d of %d orphaned files could not be deleted", n, result.Orphans.Len())
	}
	return nil
}

// confirmCleanup previews the orphans and asks before deleting them.
func confirmCleanup(ctx context.Context, r *reconcile.Reconciler, printer *output.Printer) (bool, error) {
	preview, err := r.Run(ctx, reconcile.Options{})
	if err != nil {
		return false, fmt.Errorf("cleanup failed: %w", err)
	}
	if preview.Orphans.Len() == 0 {
		return true, nil
	}

	if err := printer.Print(newCleanupReport(preview)); err != nil {
		return false, err
	}

	ok, err := prompt.Confirm(fmt.Sprintf("Delete %d orphaned files", preview.Orphans.Len()), false)
	if errors.Is(err, prompt.ErrAborted) || (err == nil && !ok) {
		printer.Warning("Aborted, nothing was deleted")
		return false, nil
	}
	return ok, err
}

func printSummary(printer *output.Printer, result *reconcile.Result) {
	switch {
	case result.Orphans.Len() == 0:
		printer.Success("No orphaned files found")
	case !result.Confirmed:
		printer.Printf("\n%d orphaned files. Run with --confirm to delete them.\n", result.Orphans.Len())
	case len(result.Failures) == 0:
		printer.Success(fmt.Sprintf("Deleted %d orphaned files", result.Deleted))
	default:
		printer.Warning(fmt.Sprintf("Deleted %d orphaned files, %d failed", result.Deleted, len(result.Failures)))
	}
	if n := len(result.OutOfScope); n > 0 {
		printer.Warning(fmt.Sprintf("%d image URLs point outside /uploads and /uploads/thumbs", n))
	}
}

// cleanupReport is the CLI rendering of a reconcile.Result.
type cleanupReport struct {
	Confirmed  bool            `json:"confirmed" yaml:"confirmed"`
	Candidates int             `json:"candidates" yaml:"candidates"`
	Referenced int             `json:"referenced" yaml:"referenced"`
	Orphans    []string        `json:"orphans" yaml:"orphans"`
	Deleted    int             `json:"deleted" yaml:"deleted"`
	Missing    int             `json:"missing" yaml:"missing"`
	Failures   []cleanupFailed `json:"failures" yaml:"failures"`
	OutOfScope []string        `json:"outOfScope,omitempty" yaml:"out_of_scope,omitempty"`
	DurationMs int64           `json:"durationMs" yaml:"duration_ms"`
}

type cleanupFailed struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

func newCleanupReport(r *reconcile.Result) cleanupReport {
	report := cleanupReport{
		Confirmed:  r.Confirmed,
		Candidates: r.Candidates,
		Referenced: r.Referenced,
		Orphans:    r.Orphans.Strings(),
		Deleted:    r.Deleted,
		Missing:    r.Missing,
		Failures:   make([]cleanupFailed, 0, len(r.Failures)),
		DurationMs: r.Duration.Milliseconds(),
	}
	for _, f := range r.Failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		report.Failures = append(report.Failures, cleanupFailed{Path: string(f.Path), Error: msg})
	}
	for _, p := range r.OutOfScope {
		report.OutOfScope = append(report.OutOfScope, string(p))
	}
	return report
}

func (c cleanupReport) Headers() []string {
	return []string{"Path", "Status"}
}

func (c cleanupReport) Rows() [][]string {
	failed := make(map[string]string, len(c.Failures))
	for _, f := range c.Failures {
		failed[f.Path] = f.Error
	}

	rows := make([][]string, 0, len(c.Orphans))
	for _, p := range c.Orphans {
		status := "orphaned"
		if c.Confirmed {
			status = "removed"
			if msg, ok := failed[p]; ok {
				status = "failed: " + msg
			}
		}
		rows = append(rows, []string{p, status})
	}
	return rows
}

func (c cleanupReport) Footer() []string {
	if len(c.Orphans) == 0 {
		return nil
	}
	return []string{strconv.Itoa(len(c.Orphans)) + " of " + strconv.Itoa(c.Candidates) + " files", ""}
}
