package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/hireability/internal/logger"
	"github.com/spigell/hireability/internal/server"
	"github.com/spigell/hireability/internal/telemetry"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on, overrides the config and PORT")
}

func serve(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(logger.Options{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug")})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if flag := cmd.Flags().Lookup("listen"); flag.Changed {
		config.Listen = flag.Value.String()
	}

	logger.Info("starting the hireability api", zap.String("version", version))

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := telemetry.NewManager(telemetry.WithRuntimeCollectors())

	p, err := newPipeline(ctx, config, logger, metrics)
	if err != nil {
		logger.Fatal("preparing the analysis pipeline", zap.Error(err))
	}

	srv, err := server.New(server.Config{
		Analyzer:     p.service,
		Providers:    p.orchestrator.Providers,
		Metrics:      metrics.Handler(),
		Recorder:     metrics,
		Logger:       logger.With(zap.String("component", "http")),
		AllowOrigins: config.Server.AllowOrigins,
		Version:      version,
	})
	if err != nil {
		logger.Fatal("creating the http server", zap.Error(err))
	}

	if err := srv.Run(ctx, config.Listen); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}

	logger.Info("exiting", zap.String("reason", "shutdown requested"))
}
