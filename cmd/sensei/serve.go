package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sensei-mcp/sensei/internal/config"
	"github.com/sensei-mcp/sensei/internal/logger"
	senseiserver "github.com/sensei-mcp/sensei/internal/server"
	"github.com/sensei-mcp/sensei/internal/updater"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server on the stdio transport, or over streamable HTTP
when --http is given. The skill catalog loads lazily on the first call.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	serveCmd.Flags().String("skills-dir", "", "Skills directory (overrides config)")
	serveCmd.Flags().String("http", "", "Serve streamable HTTP on this address (e.g. :8080) instead of stdio")
	serveCmd.Flags().String("log-level", "", "Log level: debug, info, warn, error")
	serveCmd.Flags().String("log-format", "", "Log format: text or json")
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger.SetLevel(cfg.LogLevel)
	logger.SetFormat(cfg.LogFormat)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, cleanup, err := senseiserver.New(ctx, cfg)
	if err != nil {
		return errors.Wrap(err, "creating server")
	}
	defer cleanup()

	// Best-effort version check; prints to stderr so it cannot disturb
	// the stdio transport on stdout.
	go notifyUpdates()

	log := logger.G(ctx)

	if cfg.HTTPAddr != "" {
		httpServer := server.NewStreamableHTTPServer(s)
		go func() {
			<-ctx.Done()
			if err := httpServer.Shutdown(context.Background()); err != nil {
				log.WithError(err).Warn("http shutdown")
			}
		}()

		log.WithField("addr", cfg.HTTPAddr).Info("serving streamable HTTP")
		if err := httpServer.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	}

	log.Info("serving stdio")
	if err := server.NewStdioServer(s).Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "stdio server")
	}
	return nil
}

// loadConfig resolves configuration and applies any flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("skills-dir"); v != "" {
		cfg.SkillsDir = v
	}
	if v, _ := cmd.Flags().GetString("http"); v != "" {
		cfg.HTTPAddr = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.LogFormat = v
	}

	return cfg, nil
}

// notifyUpdates prints a stderr notice when a newer release exists.
func notifyUpdates() {
	result := updater.CheckVersion(senseiserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  Update available: v%s -> v%s\n"+
				"  Run: sensei update\n"+
				"  Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}
