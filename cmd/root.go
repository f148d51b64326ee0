package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ayunami2000/ayunsdlist/bot"
	"github.com/ayunami2000/ayunsdlist/config"
	"github.com/ayunami2000/ayunsdlist/logging"
	"github.com/ayunami2000/ayunsdlist/metrics"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:          "ayunsdlist",
	Short:        "Discord bot for browsing and switching stable-diffusion-webui models",
	Long:         `ayunsdlist lists the models, VAEs, embeddings and LoRAs of a stable-diffusion-webui server and lets chat users switch the active model or VAE.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, logger, err := setup()
		if err != nil {
			return err
		}
		store.Watch(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		b, err := bot.New(store, logger)
		if err != nil {
			return err
		}

		metricsDone := make(chan struct{})
		if cfg := store.Get(); cfg.MetricsHttpBind != "" {
			go func() {
				defer close(metricsDone)
				if err := metrics.Serve(ctx, cfg.MetricsHttpBind, cfg.MetricsCorsOrigins, logger); err != nil {
					logger.Error().Err(err).Msg("metrics server")
				}
			}()
		} else {
			close(metricsDone)
		}

		err = b.Run(ctx)
		stop()
		<-metricsDone
		logger.Info().Msg("shut down")
		return err
	},
}

// setup loads the config and builds the logger it describes.
// --log-level wins over the config file.
func setup() (*config.Store, zerolog.Logger, error) {
	store, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	cfg := store.Get()
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	return store, logging.New(level, cfg.LogJSON, nil), nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./config.{json,yaml,toml})")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn, error or off")

	rootCmd.AddCommand(checkCmd)
}
