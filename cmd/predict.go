package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/railfleet/locopredict/config"
	"github.com/railfleet/locopredict/core/artifacts"
	"github.com/railfleet/locopredict/core/engine"
	"github.com/railfleet/locopredict/core/model"
	"github.com/railfleet/locopredict/infra/logger"
	"github.com/railfleet/locopredict/infra/store"
	"github.com/railfleet/locopredict/pkg/export"
)

var (
	predictType   string
	predictPeriod int
	predictFormat string
)

var predictCmd = &cobra.Command{
	Use:   "predict <number> [number...]",
	Short: "Predict failure risk for registered locomotives",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictType, "type", string(model.TypeAll), "prediction type (all, availability_days, distance_travelled, distance_per_day, total_failures, reliability or fuel_efficiency)")
	predictCmd.Flags().IntVar(&predictPeriod, "period", 30, "prediction horizon in days")
	predictCmd.Flags().StringVar(&predictFormat, "format", "json", "output format (json or csv)")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("predict-command")

	req := engine.Request{Type: model.PredictionType(predictType), HorizonDays: predictPeriod}
	if err := req.Validate(); err != nil {
		return err
	}

	st, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logg.Errorf("store close: %v", err)
		}
	}()

	ctx := context.Background()
	locos := make([]model.Locomotive, 0, len(args))
	for _, number := range args {
		l, err := st.Locomotive(ctx, number)
		if err != nil {
			return fmt.Errorf("locomotive %s: %w", number, err)
		}
		locos = append(locos, l)
	}

	bundle, err := artifacts.Load(cfg.Artifacts.Dir)
	if err != nil {
		logg.Warnf("artifact bundle unavailable, predictions use the fallback path: %v", err)
		bundle = nil
	}
	eng := engine.New(bundle, nil, logg)

	items := make([]engine.BatchItem, 0, len(locos))
	for _, l := range locos {
		p, err := eng.Predict(l, req)
		if err != nil {
			return fmt.Errorf("predict %s: %w", l.Number, err)
		}
		items = append(items, engine.BatchItem{LocomotiveNumber: l.Number, Prediction: p})
	}
	if predictFormat == "csv" {
		return export.WriteBatchCSV(cmd.OutOrStdout(), items)
	}
	if len(items) == 1 {
		return export.WriteJSON(cmd.OutOrStdout(), items[0].Prediction)
	}
	return export.WriteJSON(cmd.OutOrStdout(), items)
}
