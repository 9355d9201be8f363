package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show system information and data directory paths",
	Long: `Display revu configuration information including:
  - Data directory locations
  - Configuration file paths
  - Current reviewer
  - Platform information`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)

		dataDir, err := getDataDir()
		if err != nil {
			return fmt.Errorf("failed to get data directory: %w", err)
		}

		reviewsDir, err := getReviewsDir()
		if err != nil {
			return fmt.Errorf("failed to get reviews directory: %w", err)
		}

		telemetryPath, err := getTelemetryPath()
		if err != nil {
			return fmt.Errorf("failed to get telemetry path: %w", err)
		}

		reviewsExists := "x (not created yet)"
		if _, err := os.Stat(appCtx.DataDir); err == nil {
			reviewsExists = "ok (exists)"
		}

		telemetryExists := "x (not created yet)"
		if _, err := os.Stat(telemetryPath); err == nil {
			telemetryExists = "ok (exists)"
		}

		configFile := "~/.revu-cli.yaml"
		configExists := "x (using defaults)"
		homeDir, _ := os.UserHomeDir()
		configPath := homeDir + "/.revu-cli.yaml"
		if _, err := os.Stat(configPath); err == nil {
			configExists = "ok (exists)"
		}

		// Get output writer (for testing support)
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "revu System Information")
		fmt.Fprintln(out, "=======================")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Platform:          %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "Reviewer:          %s\n", appCtx.Reviewer)
		fmt.Fprintf(out, "Python:            %s\n", cliConfig.Review.Python)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Data Locations:")
		fmt.Fprintf(out, "  Data Directory:     %s\n", dataDir)
		fmt.Fprintf(out, "  Reviews Directory:  %s %s\n", reviewsDir, reviewsExists)
		fmt.Fprintf(out, "  Telemetry Log:      %s %s\n", telemetryPath, telemetryExists)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Configuration File:   %s %s\n", configFile, configExists)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To override the reviews directory, create ~/.revu-cli.yaml with:")
		fmt.Fprintln(out, "  data_dir: /custom/path/to/reviews")

		return nil
	},
}
