package config

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/shopkeep/internal/cli/output"
	"github.com/marmos91/shopkeep/pkg/config"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the configuration after defaults and SHOPKEEP_* overrides.

Secrets are masked.

Examples:
  shopkeep config show
  shopkeep config show --output json
  SHOPKEEP_UPLOADS_TYPE=s3 shopkeep config show`,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
}

const masked = "****"

func runConfigShow(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return err
	}

	if cfg.API.JWT.Secret != "" {
		cfg.API.JWT.Secret = masked
	}
	if cfg.Database.Postgres.Password != "" {
		cfg.Database.Postgres.Password = masked
	}
	if cfg.Database.Postgres.URL != "" {
		cfg.Database.Postgres.URL = cfg.Database.MaskedDSN()
	}
	if cfg.Uploads.S3.SecretAccessKey != "" {
		cfg.Uploads.S3.SecretAccessKey = masked
	}

	if format == output.FormatJSON {
		return output.PrintJSON(cmd.OutOrStdout(), cfg)
	}
	return output.PrintYAML(cmd.OutOrStdout(), cfg)
}
