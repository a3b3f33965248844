package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/energy-analytics/internal/adapters/modelstore"
	service "github.com/okian/energy-analytics/internal/app"
	"github.com/okian/energy-analytics/internal/domain/advice"
	"github.com/okian/energy-analytics/pkg/logger"
)

var (
	forecastData  string
	forecastModel string
	forecastRules string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Run the dashboard pipeline once and print the result",
	Long: `Loads the dataset and model the dashboard would use, predicts next-hour
consumption from the last row and prints the recommendations.`,
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().StringVar(&forecastData, "data", "", "CSV file (default is data/energy_data.csv under --base-dir)")
	forecastCmd.Flags().StringVar(&forecastModel, "model", "", "model artifact (default is models/energy_forecast_model.json under --base-dir)")
	forecastCmd.Flags().StringVar(&forecastRules, "rules", "", "recommendations YAML that must exist (default is scripts/recommendations.yaml under --base-dir, else built-in rules)")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	paths, err := resolvePaths()
	if err != nil {
		return err
	}
	if forecastData != "" {
		paths.DataPath = forecastData
	}
	if forecastModel != "" {
		paths.ModelPath = forecastModel
	}
	if forecastRules != "" {
		paths.RulesPath = forecastRules
		paths.RulesRequired = true
	}

	opts := []service.Option{
		service.WithDataPath(paths.DataPath),
		service.WithLogger(logger.Get().Named("forecast")),
	}
	if rules, err := advice.LoadRules(paths.RulesPath, paths.RulesRequired); err != nil {
		opts = append(opts, service.WithRulesError(err))
	} else {
		opts = append(opts, service.WithRecommender(rules))
	}
	if p, err := modelstore.Load(ctx, paths.ModelPath); err != nil {
		opts = append(opts, service.WithModelError(err))
	} else {
		opts = append(opts, service.WithPredictor(p))
	}

	svc := service.New(opts...)
	view := svc.Render(ctx, svc.Session(ctx, ""))
	printView(cmd.OutOrStdout(), view)
	if view.Halted {
		return fmt.Errorf("pipeline halted: %s", view.Error)
	}
	return nil
}

// printView writes a plain-text rendition of a dashboard view.
func printView(w io.Writer, v service.View) {
	if v.Halted {
		fmt.Fprintf(w, "ERROR: %s\n", v.Error)
		return
	}
	for _, n := range v.Notices {
		fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Message)
	}
	if v.Dataset != nil {
		fmt.Fprintf(w, "Dataset: %s (%d rows)\n", v.Dataset.Source, v.Dataset.Rows)
	}
	if v.Chart != nil {
		fmt.Fprintf(w, "Chart: %d points, %.2f-%.2f kWh\n", len(v.Chart.Points), v.Chart.Min, v.Chart.Max)
	}
	if v.Forecast != nil {
		fmt.Fprintf(w, "%s: %.2f (from %s %02d:00)\n", v.Forecast.Label, v.Forecast.Value, v.Forecast.Weekday, v.Forecast.Hour)
	}
	if len(v.Tips) > 0 {
		fmt.Fprintln(w, "Energy-Saving Recommendations:")
		for _, tip := range v.Tips {
			fmt.Fprintf(w, "  - %s\n", tip)
		}
	}
}
