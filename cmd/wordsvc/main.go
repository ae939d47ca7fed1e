package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chazai233/word-service/internal/service"
)

var (
	verbose     bool
	addr        string
	templateDir string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wordsvc",
	Short: "Daily construction report document service",
	Long: `wordsvc fills DOCX report templates: classified free text into cells,
date and weather stamps, personnel statistics, appendix row updates, and
generated daily statistics tables.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := service.LoadConfig()
		if addr != "" {
			cfg.Addr = addr
		}
		if templateDir != "" {
			cfg.TemplateDir = templateDir
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("starting service",
			zap.String("addr", cfg.Addr),
			zap.String("template_dir", cfg.TemplateDir))
		return service.New(cfg, logger).Run(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides PORT)")
	serveCmd.Flags().StringVar(&templateDir, "template-dir", "", "directory holding default templates")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
