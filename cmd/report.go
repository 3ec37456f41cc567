package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/railfleet/locopredict/core/report"
	"github.com/railfleet/locopredict/pkg/export"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Fleet analytics reports",
}

var reportOverviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Fleet composition and status summary",
	RunE:  runReportOverview,
}

var reportFailuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "Failure risk forecast per locomotive",
	RunE:  runReportFailures,
}

var reportScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Maintenance schedule ordered by priority",
	RunE:  runReportSchedule,
}

var reportUtilizationCmd = &cobra.Command{
	Use:   "utilization",
	Short: "Utilization analysis per locomotive",
	RunE:  runReportUtilization,
}

func init() {
	reportCmd.PersistentFlags().StringVar(&reportFormat, "format", "json", "output format (json or csv)")
	reportCmd.AddCommand(reportOverviewCmd)
	reportCmd.AddCommand(reportFailuresCmd)
	reportCmd.AddCommand(reportScheduleCmd)
	reportCmd.AddCommand(reportUtilizationCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportOverview(cmd *cobra.Command, args []string) error {
	if reportFormat == "csv" {
		return fmt.Errorf("overview supports json output only")
	}
	locos, err := fleetFromStore()
	if err != nil {
		return err
	}
	return export.WriteJSON(cmd.OutOrStdout(), report.FleetOverview(locos, time.Now()))
}

func runReportFailures(cmd *cobra.Command, args []string) error {
	locos, err := fleetFromStore()
	if err != nil {
		return err
	}
	f := report.FailureForecast(locos, time.Now())
	if reportFormat == "csv" {
		return export.WriteForecastCSV(cmd.OutOrStdout(), f)
	}
	return export.WriteJSON(cmd.OutOrStdout(), f)
}

func runReportSchedule(cmd *cobra.Command, args []string) error {
	locos, err := fleetFromStore()
	if err != nil {
		return err
	}
	s := report.MaintenanceSchedule(locos, time.Now())
	if reportFormat == "csv" {
		return export.WriteScheduleCSV(cmd.OutOrStdout(), s)
	}
	return export.WriteJSON(cmd.OutOrStdout(), s)
}

func runReportUtilization(cmd *cobra.Command, args []string) error {
	locos, err := fleetFromStore()
	if err != nil {
		return err
	}
	u := report.UtilizationAnalysis(locos, time.Now())
	if reportFormat == "csv" {
		return export.WriteUtilizationCSV(cmd.OutOrStdout(), u)
	}
	return export.WriteJSON(cmd.OutOrStdout(), u)
}
