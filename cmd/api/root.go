package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/melih/dockhook/internal/adapters/docker"
	"github.com/melih/dockhook/internal/adapters/http"
	"github.com/melih/dockhook/internal/config"
	"github.com/melih/dockhook/internal/logging"
	"github.com/melih/dockhook/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	var cfgFile string
	v := viper.New()

	root := &cobra.Command{
		Use:          "dockhook",
		Short:        "HTTP control surface for Docker containers",
		Version:      version.GetFullVersion(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), v, cfgFile)
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), v, cfgFile)
		},
	}
	bindServeFlags(root, v)
	bindServeFlags(serveCmd, v)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
		},
	}

	root.AddCommand(serveCmd, versionCmd)
	return root
}

func bindServeFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.Flags()
	flags.String("listen", "", "listen address (default 127.0.0.1:8080)")
	flags.String("docker-host", "", "docker daemon host (default unix:///var/run/docker.sock)")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error, disabled")

	// Only flags the user actually set override config.
	cmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		for key, flag := range map[string]string{
			"server.listen": "listen",
			"docker.host":   "docker-host",
			"log.level":     "log-level",
		} {
			if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

func serve(ctx context.Context, v *viper.Viper, cfgFile string) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}

	logger := logging.New("dockhook", cfg.Log, os.Stderr)
	logger.Info().
		Str("version", version.Version).
		Str("config", cfg.ConfigFilePath).
		Str("docker_host", cfg.Docker.Host).
		Str("match", cfg.Docker.Match).
		Msg("starting")

	adapter, err := docker.NewAdapter(cfg.Docker, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize docker adapter")
		return err
	}
	defer func() {
		if cerr := adapter.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close docker client")
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Docker.PingOnStart {
		if err := adapter.Ping(ctx); err != nil {
			logger.Error().Err(err).Msg("docker daemon unreachable")
			return err
		}
	}

	app := http.NewApp(adapter, logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("listen", cfg.Server.Listen).Msg("server listening")
		errCh <- app.Listen(cfg.Server.Listen)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("server failed")
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
