package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetquery-go/pkg/sheetquery"
	"github.com/ukaji3/sheetquery-go/pkg/sheetquery/models"
	"github.com/ukaji3/sheetquery-go/pkg/sheetquery/output"
	"github.com/ukaji3/sheetquery-go/pkg/sheetquery/server"
)

func newTablesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tables [input.xlsx]",
		Short: "List the tables (sheets) of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := flags.openSession(cmd, args[0])
			if err != nil {
				return err
			}
			return flags.print(cmd, map[string]any{"tables": session.ListTables()})
		},
	}
}

func newDetailsCmd(flags *globalFlags) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "details [input.xlsx] [table]",
		Short: "List row labels (first column) of a table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := flags.openSession(cmd, args[0])
			if err != nil {
				return err
			}
			rows, err := session.TableDetails(args[1], limit, offset)
			if err != nil {
				return err
			}
			return flags.print(cmd, map[string]any{
				"table_name": args[1],
				"row_names":  rows,
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", sheetquery.DefaultLimit, "Number of row labels to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset for pagination")
	return cmd
}

func newRowSumCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "row-sum [input.xlsx] [table] [row]",
		Short: "Sum the numeric cells of the first row with the given label",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := flags.openSession(cmd, args[0])
			if err != nil {
				return err
			}
			agg, err := session.RowAggregate(args[1], args[2])
			if err != nil {
				return err
			}
			return flags.print(cmd, struct {
				TableName string `json:"table_name"`
				RowName   string `json:"row_name"`
				models.Aggregate
			}{args[1], args[2], agg})
		},
	}
}

func newColumnSumCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "column-sum [input.xlsx] [table] [column]",
		Short: "Sum the numeric cells under a header column",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := flags.openSession(cmd, args[0])
			if err != nil {
				return err
			}
			agg, err := session.ColumnAggregate(args[1], args[2])
			if err != nil {
				return err
			}
			return flags.print(cmd, struct {
				TableName  string `json:"table_name"`
				ColumnName string `json:"column_name"`
				models.Aggregate
			}{args[1], args[2], agg})
		},
	}
}

func newDumpCmd(flags *globalFlags) *cobra.Command {
	var outputPath, sheetsDir string

	cmd := &cobra.Command{
		Use:   "dump [input.xlsx]",
		Short: "Export the loaded tables as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := flags.openSession(cmd, args[0])
			if err != nil {
				return err
			}
			wb := session.Snapshot()

			jsonData, err := output.ToJSON(wb, flags.pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			} else if sheetsDir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			}

			if sheetsDir != "" {
				if err := writeSheetFiles(wb, sheetsDir, flags.pretty); err != nil {
					return fmt.Errorf("failed to write sheet files: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	return cmd
}

func writeSheetFiles(wb *models.WorkbookData, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, sheetName := range wb.SheetNames {
		jsonData, err := output.TableToJSON(wb.Sheets[sheetName], pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, sheetName+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var (
		addr      string
		maxUpload int64
		preload   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve upload and query endpoints over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := flags.logger(cmd)
			if err != nil {
				return err
			}

			session := sheetquery.NewSession(flags.options(), logger)
			if preload != "" {
				format, err := sheetquery.FormatFromPath(preload)
				if err != nil {
					return err
				}
				if _, err := session.Load(preload, format); err != nil {
					return err
				}
			}

			srv := &http.Server{
				Addr: addr,
				Handler: server.New(session, server.Options{
					MaxUploadBytes: maxUpload,
					Logger:         logger,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				logger.Info("shutting down")
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().Int64Var(&maxUpload, "max-upload", server.DefaultMaxUploadBytes, "Maximum upload size in bytes")
	cmd.Flags().StringVar(&preload, "file", "", "Workbook to load before serving")
	return cmd
}

// print writes v as JSON to the command's stdout.
func (f *globalFlags) print(cmd *cobra.Command, v any) error {
	data, err := output.Marshal(v, f.pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
