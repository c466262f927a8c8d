package main

import (
	"os"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Dan9191/task-service/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "task-service",
		Short:         "Personal task tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

// setup loads configuration and builds the JSON logger
func setup() (*config.Config, *logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.NewConfig()
	if err != nil {
		logger.WithError(err).Error("Failed to load config")
		return nil, nil, err
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	goose.SetLogger(logger)

	return cfg, logger, nil
}
