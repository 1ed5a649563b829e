package commands

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/panyam/fermi/web/server"
)

func serveCmd() *cobra.Command {
	var addr, envFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the parse and simulate API over HTTP",
		Long: `Starts an HTTP server exposing:
  GET  /v1/distributions[/{kind}]                           -> default parameters
  POST /v1/parse          {"formula"}                       -> variables
  POST /v1/eval           {"formula", "vars"}               -> value
  POST /v1/simulate       {"formula", "distributions", ...} -> statistics
  POST /v1/histogram.svg  same body as simulate             -> SVG
  POST /v1/batch          {"seed", "scenarios": [...]}      -> statistics per scenario

Settings come from FERMI_ADDR, FERMI_SAMPLES, FERMI_MAX_SAMPLES and
FERMI_SEED, optionally loaded from an env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					slog.Warn("Not loading env file", "path", envFile, "error", err)
				}
			}
			cfg, err := server.LoadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Address = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			srv := &server.Server{Config: cfg, Logger: slog.Default()}
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (default: FERMI_ADDR env var or :8080)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Env file to load before reading configuration")
	return cmd
}

func init() {
	AddCommand(serveCmd())
}
