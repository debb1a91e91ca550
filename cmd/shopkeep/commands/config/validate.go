package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/shopkeep/internal/cli/output"
	"github.com/marmos91/shopkeep/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the shopkeep configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  shopkeep config validate
  shopkeep config validate --config /etc/shopkeep/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)

	cfg, err := config.MustLoad(path)
	if err != nil {
		return err
	}
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	var warnings []string
	if !cfg.API.HasJWTSecret() {
		warnings = append(warnings, "JWT secret not configured - the API server will refuse to start")
	}
	if cfg.Uploads.Type == config.UploadsTypeMemory {
		warnings = append(warnings, "memory uploads store selected - files are not persisted")
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", path)
	_, _ = fmt.Fprintln(out, "Validation: OK")

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	uploadsTarget := cfg.Uploads.Local.Root
	if cfg.Uploads.Type == config.UploadsTypeS3 {
		uploadsTarget = "s3://" + cfg.Uploads.S3.Bucket + "/" + cfg.Uploads.S3.KeyPrefix
	}

	_, _ = fmt.Fprintln(out, "\nConfiguration summary:")
	return output.KeyValues(out, [][2]string{
		{"Database", cfg.Database.MaskedDSN()},
		{"Uploads", fmt.Sprintf("%s (%s)", cfg.Uploads.Type, uploadsTarget)},
		{"API port", fmt.Sprintf("%d", cfg.API.Port)},
		{"Log level", cfg.Logging.Level},
		{"Metrics", fmt.Sprintf("%t", cfg.Metrics.Enabled)},
	})
}
