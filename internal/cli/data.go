package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	apperrors "stock-advisor/internal/errors"
	"stock-advisor/internal/models"
	"stock-advisor/internal/store"
)

func newDataCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage stored price history and fundamentals",
	}

	cmd.AddCommand(newDataImportCmd(app))
	cmd.AddCommand(newDataFundamentalsCmd(app))
	cmd.AddCommand(newDataListCmd(app))
	cmd.AddCommand(newDataShowCmd(app))
	return cmd
}

func newDataImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <symbol> <file.csv>",
		Short: "Import OHLCV bars from a CSV file",
		Long: `Import reads a CSV file with date, open, high, low, close, and volume
columns and stores the bars under the symbol. Existing bars with the same
timestamp are overwritten.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("data store unavailable")
			}
			symbol, path := args[0], args[1]

			bars, err := store.ReadBarsCSV(path)
			if err != nil {
				return err
			}
			if err := app.Store.SaveBars(cmd.Context(), symbol, bars); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"symbol": symbol, "imported": len(bars)})
			}
			output.Success("Imported %d bars for %s", len(bars), symbol)
			return nil
		},
	}
}

func newDataFundamentalsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fundamentals <symbol> <file.json>",
		Short: "Import a fundamental record from a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("data store unavailable")
			}
			symbol, path := args[0], args[1]

			data, err := os.ReadFile(path)
			if err != nil {
				return apperrors.Wrap(err, "reading fundamentals file")
			}
			var rec models.FundamentalRecord
			if err := json.Unmarshal(data, &rec); err != nil {
				return apperrors.Wrap(err, "parsing fundamentals file")
			}
			if rec.IsEmpty() {
				return fmt.Errorf("no recognized fields in %s", path)
			}

			if err := app.Store.SaveFundamentals(cmd.Context(), symbol, &rec); err != nil {
				return err
			}

			fields := 0
			for _, v := range rec.Fields() {
				if v != nil {
					fields++
				}
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"symbol": symbol, "fields": fields})
			}
			output.Success("Stored %d fundamental fields for %s", fields, symbol)
			return nil
		},
	}
}

func newDataListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List symbols with stored data",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("data store unavailable")
			}
			symbols, err := app.Store.Symbols(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"symbols": symbols})
			}
			if len(symbols) == 0 {
				output.Dim("No data stored yet. Use 'advisor data import' to load bars.")
				return nil
			}
			for _, sym := range symbols {
				output.Println(sym)
			}
			return nil
		},
	}
}

func newDataShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <symbol>",
		Short: "Show stored data summary for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("data store unavailable")
			}
			symbol := args[0]

			bars, barsErr := app.Store.FetchSeries(cmd.Context(), symbol, time.Time{}, time.Time{})
			rec, recErr := app.Store.FetchFundamentals(cmd.Context(), symbol)
			if barsErr != nil && recErr != nil {
				return apperrors.NewDataError("store", symbol, "nothing stored", apperrors.ErrSymbolNotFound)
			}

			if output.IsJSON() {
				payload := map[string]interface{}{"symbol": symbol}
				if barsErr == nil {
					payload["bars"] = len(bars)
					payload["first"] = bars[0].Timestamp
					payload["last"] = bars[len(bars)-1].Timestamp
				}
				if recErr == nil {
					payload["fundamentals"] = rec
				}
				return output.JSON(payload)
			}

			output.Bold("%s", symbol)
			if barsErr == nil {
				output.Printf("  Bars: %d (%s to %s)\n", len(bars),
					bars[0].Timestamp.Format("2006-01-02"),
					bars[len(bars)-1].Timestamp.Format("2006-01-02"))
			} else {
				output.Dim("  No bars stored")
			}
			if recErr == nil {
				fields := 0
				for _, v := range rec.Fields() {
					if v != nil {
						fields++
					}
				}
				output.Printf("  Fundamental fields: %d\n", fields)
			} else {
				output.Dim("  No fundamentals stored")
			}
			return nil
		},
	}
}
