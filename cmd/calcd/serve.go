package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/calcstack/calcd/bootstrap"
	"github.com/calcstack/calcd/config"
)

var hotReload bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the calculator API server",
	Long: `Start the calcd API server.

The server will:
  - Load configuration from calcd.yaml (or --config)
  - Or load configuration from CALCD_* environment variables
  - Open the configured stores (sqlite, memory, or redis)
  - Serve the calculation endpoints under /api/

Environment variables (for container deployments):
  CALCD_DATABASE_DRIVER   - Store driver: sqlite, memory, or redis
  CALCD_DATABASE_DSN      - Database path (default: calcd.db)
  CALCD_SERVER_PORT       - Server port (default: 8080)
  CALCD_SOLVER_GATEWAY_URL - AI calculator gateway URL
  CALCD_LOG_LEVEL         - Log level: debug, info, warn, error

Examples:
  calcd serve
  calcd serve --config /etc/calcd/config.yaml
  calcd serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	var holder *config.Holder

	if _, err := os.Stat(cfgFile); err == nil {
		holder, err = config.NewHolder(cfgFile, zerolog.New(os.Stdout).With().Timestamp().Logger())
		if err != nil {
			return err
		}
		if hotReload {
			if err := holder.WatchFile(); err != nil {
				return err
			}
			holder.WatchSignals()
		}
	} else {
		cfg, err := config.LoadFromEnv()
		if err != nil {
			return err
		}
		holder = config.NewStaticHolder(cfg, zerolog.New(os.Stdout).With().Timestamp().Logger())
	}
	defer holder.Stop()

	app, err := bootstrap.New(holder)
	if err != nil {
		return err
	}

	return app.Run()
}
