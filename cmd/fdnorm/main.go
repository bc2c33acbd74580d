package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/fdnorm"
	"github.com/tordrt/fdnorm/internal/config"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fdnorm",
		Short: "Analyze functional dependencies and normal forms of database tables",
		Long: `fdnorm reads tables from PostgreSQL, MySQL, or SQLite together with the functional
dependencies stored in their catalog, and reports candidate keys, the canonical cover
and the highest normal form of every table. With --normalize it proposes a 2NF or 3NF
decomposition.`,
		SilenceUsage: true,
		RunE:         run,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("db-url", "", "PostgreSQL connection string")
	pf.String("mysql-url", "", "MySQL connection string")
	pf.String("sqlite", "", "SQLite database file path")
	pf.StringP("schema", "s", config.DefaultSchema, "Database schema name (default: public for PostgreSQL)")
	pf.String("config", "", "Config file (default: ./fdnorm.yaml if present)")
	pf.BoolP("verbose", "v", false, "Log debug output to stderr")
	pf.Int("max-attributes", config.DefaultMaxAttributes, "Do not classify tables with more attributes (0: no limit)")

	f := rootCmd.Flags()
	f.StringP("output", "o", "", "Output file (default: stdout)")
	f.StringP("output-dir", "d", "", "Output directory for multi-file output")
	f.StringP("tables", "t", "", "Specific tables (comma-separated, optional)")
	f.String("exclude", "", "Tables to skip (comma-separated, optional)")
	f.StringP("format", "f", config.DefaultFormat, "Output format: text, markdown or yaml")
	f.StringArray("fd", nil, `Preview a dependency without storing it, e.g. "orders: customer -> city" (repeatable)`)
	f.String("normalize", "", "Decompose tables below the given form: 2nf or 3nf")
	f.Int("concurrency", 0, "Tables analyzed in parallel (0: unlimited)")

	rootCmd.AddCommand(newFDCmd())
	return rootCmd
}

// loadConfig reads the configuration of cmd and builds its logger
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(cmd.ErrOrStderr(), cfg.Verbose), nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	url, err := cfg.SourceURL()
	if err != nil {
		return err
	}
	target, err := cfg.Target()
	if err != nil {
		return err
	}

	reports, err := fdnorm.Analyze(ctx, url, &fdnorm.Options{
		Tables:        cfg.Tables,
		ExcludeTables: cfg.Exclude,
		SchemaName:    cfg.SchemaName(),
		Dependencies:  cfg.Dependencies,
		MaxAttributes: cfg.MaxAttributes,
		Target:        target,
		Concurrency:   cfg.Concurrency,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("failed to analyze: %w", err)
	}

	// Multi-file output
	if cfg.OutputDir != "" {
		if err := fdnorm.FormatReports(reports, &fdnorm.OutputOptions{OutputDir: cfg.OutputDir, Format: cfg.Format}); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return nil
	}

	// Single-file output
	writer := cmd.OutOrStdout()
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("failed to close output file", "error", err)
			}
		}()
		writer = f
	}

	if err := fdnorm.FormatReports(reports, &fdnorm.OutputOptions{Writer: writer, Format: cfg.Format}); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
