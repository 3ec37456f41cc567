package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/railfleet/locopredict/config"
	"github.com/railfleet/locopredict/infra/logger"
	"github.com/railfleet/locopredict/infra/mqtt"
	"github.com/railfleet/locopredict/simulator"
)

var (
	simInterval time.Duration
	simSeed     int64
	simRate     float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay fleet telemetry over MQTT",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().DurationVar(&simInterval, "interval", 5*time.Second, "delay between readings")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "random seed (0 uses the current time)")
	simulateCmd.Flags().Float64Var(&simRate, "maintenance-rate", 0.02, "per-reading chance of a maintenance report")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("simulate-command")

	fleet, err := fleetFromStore()
	if err != nil {
		return err
	}
	if len(fleet) == 0 {
		return fmt.Errorf("no locomotives to simulate, run fleet seed first")
	}

	mqttCfg := cfg.MQTT
	suffix := time.Now().UnixNano()
	if mqttCfg.ClientID != "" {
		mqttCfg.ClientID = fmt.Sprintf("%s-%d", mqttCfg.ClientID, suffix)
	} else {
		mqttCfg.ClientID = fmt.Sprintf("simulator-%d", suffix)
	}
	client, err := mqtt.NewPahoClient(mqttCfg)
	if err != nil {
		return fmt.Errorf("mqtt client: %w", err)
	}
	defer client.Disconnect()

	seed := simSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logg.Infof("simulating %d locomotives every %s", len(fleet), simInterval)
	runner := &simulator.Runner{
		Client:          client,
		Fleet:           fleet,
		Interval:        simInterval,
		Rng:             rand.New(rand.NewSource(seed)),
		Log:             logg,
		MaintenanceRate: simRate,
	}
	return runner.Run(ctx)
}
