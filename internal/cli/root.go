// Package cli wires configuration, logging, and the user pipeline into a
// cobra command.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ZERO20/latai-labs-etl-test/internal/config"
	"github.com/ZERO20/latai-labs-etl-test/internal/domain"
	"github.com/ZERO20/latai-labs-etl-test/internal/etl"
	"github.com/ZERO20/latai-labs-etl-test/internal/httpclient"
	"github.com/ZERO20/latai-labs-etl-test/internal/users"
)

func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	var (
		configPath string
		endpoint   string
		output     string
		timeout    = config.DefaultTimeout
		logFile    string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:           "useretl",
		Short:         "Fetch users from a JSON API, clean them, and write a CSV",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if configPath != "" {
				var err error
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}

			// Flags override the config file.
			if cmd.Flags().Changed("endpoint") {
				cfg.Endpoint = endpoint
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = output
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = timeout
			}
			if cmd.Flags().Changed("log-file") {
				cfg.LogFile = logFile
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = debug
			}

			if err := config.Validate(cfg); err != nil {
				cmd.PrintErrln(err)
				return err
			}

			log, cleanup, err := newLogger(cfg.LogFile, cfg.Debug)
			if err != nil {
				cmd.PrintErrln(err)
				return err
			}
			defer func() { _ = cleanup() }()

			clientCfg := httpclient.DefaultConfig()
			clientCfg.Timeout = cfg.Timeout
			client := httpclient.New(clientCfg)

			job := users.NewJob(
				users.NewExtractor(client, cfg.Endpoint, log),
				users.NewCSVLoader(cfg.Output, log),
				log,
			)

			if err := etl.New[domain.RawUser, domain.CleanUser](job).Run(cmd.Context()); err != nil {
				cmd.PrintErrln(err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (optional)")
	cmd.Flags().StringVar(&endpoint, "endpoint", config.DefaultEndpoint, "Source API endpoint URL")
	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultOutput, "Output CSV path")
	cmd.Flags().DurationVar(&timeout, "timeout", config.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Also append logs to this file")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return cmd
}
