package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/railfleet/locopredict/config"
	"github.com/railfleet/locopredict/infra/logger"
	"github.com/railfleet/locopredict/infra/store"
	"github.com/railfleet/locopredict/simulator"
)

var (
	seedCount int
	seedDE11  float64
	seedSeed  int64
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List registered locomotives",
	RunE:  runFleetLs,
}

var fleetSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with a synthetic fleet",
	RunE:  runFleetSeed,
}

func init() {
	fleetSeedCmd.Flags().IntVar(&seedCount, "count", 25, "number of locomotives to generate")
	fleetSeedCmd.Flags().Float64Var(&seedDE11, "de11", 0.4, "share of the newer DE11 class")
	fleetSeedCmd.Flags().Int64Var(&seedSeed, "seed", 0, "random seed (0 uses the current time)")
	fleetCmd.AddCommand(fleetLsCmd)
	fleetCmd.AddCommand(fleetSeedCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	locos, err := fleetFromStore()
	if err != nil {
		return err
	}
	for _, l := range locos {
		fmt.Printf("%s\t%s\t%s\t%.0fh\n", l.Number, l.Model, l.Status, l.OperatingHours)
	}
	return nil
}

func runFleetSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	seed := seedSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	locos := simulator.GenerateFleet(
		simulator.FleetConfig{Size: seedCount, DE11Pct: seedDE11},
		rand.New(rand.NewSource(seed)),
	)

	st, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.New("fleet-seed").Errorf("store close: %v", err)
		}
	}()
	if err := st.SaveFleet(context.Background(), locos); err != nil {
		return fmt.Errorf("save fleet: %w", err)
	}
	fmt.Printf("seeded %d locomotives into %s\n", len(locos), cfg.Storage.Path)
	return nil
}
