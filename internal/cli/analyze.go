package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apperrors "stock-advisor/internal/errors"
	"stock-advisor/internal/logging"
	"stock-advisor/internal/models"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	var (
		fromStr string
		toStr   string
	)

	cmd := &cobra.Command{
		Use:   "analyze <symbol>",
		Short: "Run the full analysis for a symbol",
		Long: `Analyze fetches the symbol's stored bars and fundamentals, runs the
technical and fundamental pipelines, and prints the blended recommendation.
Either input may be missing; the recommendation reflects what was available.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("data store unavailable")
			}
			symbol := args[0]

			from, err := parseDate(fromStr)
			if err != nil {
				return fmt.Errorf("invalid --from date: %w", err)
			}
			to, err := parseDate(toStr)
			if err != nil {
				return fmt.Errorf("invalid --to date: %w", err)
			}

			ctx := logging.WithLogger(cmd.Context(), app.Logger)

			bars, err := app.Store.FetchSeries(ctx, symbol, from, to)
			if err != nil && !apperrors.Is(err, apperrors.ErrSymbolNotFound) {
				return err
			}

			var rec *models.FundamentalRecord
			rec, err = app.Store.FetchFundamentals(ctx, symbol)
			if err != nil {
				if !apperrors.Is(err, apperrors.ErrSymbolNotFound) {
					return err
				}
				rec = nil
			}

			report, err := app.Engine.Analyze(ctx, symbol, bars, rec)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(report)
			}
			renderReport(output, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "end date (YYYY-MM-DD)")
	return cmd
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
