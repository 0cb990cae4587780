package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/api"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/events"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis server",
	Long: `Serve exposes the pipeline over HTTP: POST /api/analyze runs a full
analysis, GET /api/events streams run progress as Server-Sent Events,
and GET /api/status reports accumulated counters.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	bus := events.NewBus(256)
	defer bus.Close()

	orch, err := newOrchestrator(cfg, log, bus)
	if err != nil {
		return err
	}

	serverCfg := api.DefaultConfig()
	serverCfg.Addr = cfg.Server.Addr
	if serveAddr != "" {
		serverCfg.Addr = serveAddr
	}
	serverCfg.AllowedOrigins = cfg.Server.AllowedOrigins

	server := api.New(serverCfg, orch, bus, log)
	server.Start()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	return server.Shutdown(context.Background())
}
