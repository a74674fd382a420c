package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ir-hub-bridge/internal/bridge"
	"ir-hub-bridge/internal/logging"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the devices the configured backend knows",
	RunE:  runDevicesCommand,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevicesCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Initialize(cfg.LogLevel)

	descriptor, err := bridge.NewDescriptor(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	devices, err := descriptor.Devices(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate devices: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		return nil
	}

	for _, device := range devices {
		fmt.Printf("%s\t%s\n", device.DeviceID, device.Name)
	}
	return nil
}
