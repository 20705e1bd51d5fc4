package main

import (
	"github.com/iwvelando/reimburse/internal/config"
	"github.com/iwvelando/reimburse/internal/server"
	"github.com/iwvelando/reimburse/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		serverConfigPath string
		address          string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reimbursement API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}

			// A logging section in the server config replaces the one from
			// the main config.
			logger := a.logger
			if cfg.Logging != (config.LoggingConfig{}) {
				logger, err = initializeLogger(cfg.Logging, a.logLevel)
				if err != nil {
					return err
				}
				defer func() {
					_ = logger.Sync()
				}()
			}

			handler := server.NewHandler(logger, a.engine, server.Options{
				MaxUploadSize:  cfg.UploadSizeBytes(),
				Version:        version,
				AllowedOrigins: cfg.AllowedOrigins,
				Workers:        a.conf.Batch.Workers,
			})

			logger.Info("starting reimbursement API",
				zap.String("op", "main.serve"),
				zap.String("address", cfg.Address),
				zap.Int64("maxUploadSize", cfg.UploadSizeBytes()),
			)
			return server.Run(cmd.Context(), logger, cfg, handler)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}
