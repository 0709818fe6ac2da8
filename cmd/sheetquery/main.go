// Package main provides the CLI entry point for sheetquery-go.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetquery-go/pkg/sheetquery"
)

// globalFlags holds flags shared by every subcommand.
type globalFlags struct {
	charset  string
	pretty   bool
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "sheetquery",
		Short: "Query tables and numeric sums in Excel workbooks",
		Long: `sheetquery-go loads .xls and .xlsx workbooks, exposes each sheet as a
table, and sums rows or columns of numeric-looking text such as "$1,000.50",
"10%", "1 3/4" or "1.23E+5".`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.charset, "charset", sheetquery.DefaultCharset, "Text encoding for legacy .xls files")
	rootCmd.PersistentFlags().BoolVar(&flags.pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newTablesCmd(flags),
		newDetailsCmd(flags),
		newRowSumCmd(flags),
		newColumnSumCmd(flags),
		newDumpCmd(flags),
		newServeCmd(flags),
	)
	return rootCmd
}

// logger builds a text logger on stderr at the configured level.
func (f *globalFlags) logger(cmd *cobra.Command) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(f.logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", f.logLevel)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})), nil
}

func (f *globalFlags) options() sheetquery.Options {
	opts := sheetquery.DefaultOptions()
	opts.Charset = f.charset
	return opts
}

// openSession loads the workbook at path into a new session.
func (f *globalFlags) openSession(cmd *cobra.Command, path string) (*sheetquery.Session, error) {
	logger, err := f.logger(cmd)
	if err != nil {
		return nil, err
	}
	format, err := sheetquery.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	session := sheetquery.NewSession(f.options(), logger)
	if _, err := session.Load(path, format); err != nil {
		return nil, err
	}
	return session, nil
}
