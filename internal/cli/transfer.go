package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// addTransferCommands adds import and export commands.
func addTransferCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newImportCmd(app))
	rootCmd.AddCommand(newExportCmd(app))
}

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import trades from a CSV file",
		Long: `Import trades into the active account. Column names are matched loosely
(Entry, Entry Price, open_price...). Rows that cannot be parsed are skipped
and reported. Use - to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					output.Error("Failed to open %s: %v", args[0], err)
					return err
				}
				defer f.Close()
				r = f
			}

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}
			res, err := svc.ImportCSV(ctx, r)
			if output.IsJSON() {
				if jerr := output.JSON(map[string]interface{}{
					"imported": res.Imported,
					"skipped":  res.Skipped,
					"warnings": res.Warnings,
				}); jerr != nil {
					return jerr
				}
				return err
			}
			if err != nil {
				output.Error("Import failed after %d trades: %v", res.Imported, err)
				return err
			}

			if res.Imported == 0 && res.Skipped == 0 {
				output.Warning("No trades found in %s", args[0])
				return nil
			}
			output.Success("✓ Imported %d trades", res.Imported)
			if res.Skipped > 0 {
				output.Warning("Skipped %d rows:", res.Skipped)
				for _, w := range res.Warnings {
					output.Dim("  %s", w)
				}
			}
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export trades of the active account",
		Long: `Export the active account as CSV, or as a JSON backup with the account
settings. Without --out the file is named trading-journal-<date> in the
current directory. Use --out - to write to standard output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			format, _ := cmd.Flags().GetString("format")
			if format != "csv" && format != "json" {
				return fmt.Errorf("unsupported format %q (must be csv or json)", format)
			}

			svc, err := app.openJournal(ctx)
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = svc.ExportFileName(format)
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					output.Error("Failed to create %s: %v", out, err)
					return err
				}
				defer f.Close()
				w = f
			}

			if format == "json" {
				err = svc.ExportBackup(w)
			} else {
				err = svc.ExportCSV(w)
			}
			if err != nil {
				output.Error("Export failed: %v", err)
				return err
			}

			if out == "-" {
				return nil
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"path":   out,
					"trades": len(svc.Trades()),
				})
			}
			output.Success("✓ Exported %d trades to %s", len(svc.Trades()), out)
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "csv", "export format: csv or json")
	cmd.Flags().StringP("out", "o", "", "output path")
	return cmd
}
