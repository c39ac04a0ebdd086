package main

import (
	"context"
	"fmt"

	"inpaint-masker/internal/config"
	"inpaint-masker/internal/logger"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath  string
	logLevel    string
	logFile     string
	outputDir   string
	maskBackend string
}

func newRootCmd() *cobra.Command {
	cmd, _ := newRootCmdWithOptions()
	return cmd
}

func newRootCmdWithOptions() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "inpaint-masker",
		Short: "Paint inpainting masks over images",
		Long: `Inpaint Masker opens a window where you load a JPEG or PNG image, paint
over the regions to inpaint, and export them as a black and white mask.png.

Examples:
  inpaint-masker
  inpaint-masker --output-dir ./masks
  inpaint-masker --mask-backend opencv --log-level debug
  inpaint-masker extract layer.png -o mask.png`,
		Version:       AppVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runGUI(cmd.Context(), cfg)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/"+config.ConfigDirName+"/"+config.ConfigFileName+")")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", "write JSON logs to this file instead of the console")
	flags.StringVar(&opts.maskBackend, "mask-backend", "", "mask extraction backend (go, opencv)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "write mask.png into this directory instead of asking")

	cmd.AddCommand(newExtractCmd(opts))
	return cmd, opts
}

// loadConfig reads the config file and applies flags given on the command line.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	var loader *config.Loader
	if opts.configPath != "" {
		loader = config.NewLoaderWithPath(opts.configPath)
	} else {
		l, err := config.NewLoader()
		if err != nil {
			return nil, err
		}
		loader = l
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", loader.ConfigPath(), err)
	}

	cfg.LogLevel = logger.LevelFromEnv(logger.ParseLevel(cfg.LogLevel)).String()

	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}
	if changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}
	if changed("mask-backend") {
		cfg.MaskBackend = opts.maskBackend
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (logger.Logger, func(), error) {
	log, closer, err := logger.New(logger.ParseLevel(cfg.LogLevel), cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	return log, func() { closer.Close() }, nil
}

func runGUI(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	application, err := NewApplication(cfg, log)
	if err != nil {
		log.Error("Main", "application initialization failed", err, nil)
		return err
	}
	return application.Run(ctx)
}
