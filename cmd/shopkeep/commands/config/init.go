package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/shopkeep/pkg/api"
	"github.com/marmos91/shopkeep/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a default shopkeep configuration file with a random JWT secret.

By default the file is created at $XDG_CONFIG_HOME/shopkeep/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  shopkeep config init

  # Initialize with custom path
  shopkeep config init --config /etc/shopkeep/config.yaml

  # Force overwrite existing config
  shopkeep config init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)

	var err error
	if path != "" {
		err = config.InitConfigToPath(path, initForce)
	} else {
		path, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file created at: %s\n", path)
	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintln(out, "  1. Set uploads.local.root to the storefront's public directory")
	_, _ = fmt.Fprintln(out, "  2. Point database at the catalog")
	_, _ = fmt.Fprintf(out, "  3. Start the server with: shopkeep start --config %s\n", path)
	_, _ = fmt.Fprintln(out, "\nSecurity note:")
	_, _ = fmt.Fprintln(out, "  A random JWT secret has been written to the file. In production prefer:")
	_, _ = fmt.Fprintf(out, "    export %s=$(openssl rand -hex 32)\n", api.EnvJWTSecret)
	return nil
}
