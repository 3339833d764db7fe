package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pulsewatch.dev/internal/app"
	"pulsewatch.dev/internal/config"
)

var (
	flagDemo    bool
	flagAdapter string
	flagDevice  string
	flagConfig  string
	flagWarn    int
	flagAlert   int
	flagRecord  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pulsewatch",
		Short: "Terminal heart rate badge fed by a BLE sensor",
		Long: `pulsewatch connects to a Bluetooth LE heart rate sensor, watches the
connection for silent death, and renders the current rate as a compact
color-coded badge with warn/alert thresholds.

Requires sudo or CAP_NET_ADMIN capability for real BLE access.
Use --demo for a synthetic sensor without hardware.`,
		RunE: run,
	}

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Use a synthetic sensor (no Bluetooth required)")
	rootCmd.Flags().StringVar(&flagAdapter, "adapter", "", "Bluetooth adapter to use")
	rootCmd.Flags().StringVar(&flagDevice, "device", "", "Sensor MAC address (default: first heart rate device found)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Directory containing config.yaml")
	rootCmd.Flags().IntVar(&flagWarn, "warn", 0, "Warn threshold in bpm (0 = use config)")
	rootCmd.Flags().IntVar(&flagAlert, "alert", 0, "Alert threshold in bpm (0 = use config)")
	rootCmd.Flags().BoolVar(&flagRecord, "record", false, "Log readings and RR intervals to disk")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	// Flags override the file.
	if flagDemo {
		cfg.Sensor.Demo = true
	}
	if flagAdapter != "" {
		cfg.Sensor.Adapter = flagAdapter
	}
	if flagDevice != "" {
		cfg.Sensor.Device = flagDevice
	}
	if flagWarn != 0 {
		cfg.Thresholds.Warn = flagWarn
	}
	if flagAlert != 0 {
		cfg.Thresholds.Alert = flagAlert
	}
	if flagRecord {
		cfg.Logging.Enabled = true
		cfg.Logging.RR = true
	}

	model := app.New(cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	// Connect the sensor before the UI starts. The initial connect may
	// block for a while and its failure is fatal.
	if err := model.StartSupervision(context.Background(), p); err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
		if !cfg.Sensor.Demo {
			fmt.Fprintln(os.Stderr, "BLE access requires elevated permissions. Try one of:")
			fmt.Fprintln(os.Stderr, "  sudo ./pulsewatch")
			fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep ./pulsewatch")
			fmt.Fprintln(os.Stderr, "  ./pulsewatch --demo    (synthetic sensor, no hardware needed)")
		}
		return err
	}

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(app.Model); ok {
		if ferr := m.FatalErr(); ferr != nil {
			fmt.Fprintf(os.Stderr, "\nFatal: %v\n", ferr)
			os.Exit(1)
		}
	}
	return nil
}
