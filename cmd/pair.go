package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ir-hub-bridge/internal/bridge"
	"ir-hub-bridge/internal/logging"
)

var pairCmd = &cobra.Command{
	Use:   "pair <device-id>",
	Short: "Walk the pairing handshake for a device",
	Long: `Walks the pairing handshake the hub would perform. IR devices need no
credentials, so this is a formality: it always succeeds without a PIN.`,
	Args: cobra.ExactArgs(1),
	RunE: runPairCommand,
}

var remoteName string

func init() {
	pairCmd.Flags().StringVar(&remoteName, "remote-name", "Bridge Remote", "name of the remote that will control the device")
	rootCmd.AddCommand(pairCmd)
}

func runPairCommand(cmd *cobra.Command, args []string) error {
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

	device, err := descriptor.Device(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Authentication method: %s\n", descriptor.AuthenticationMethod())
	fmt.Printf("Requires pairing: %v\n", descriptor.RequiresPairing())

	requestID, providesPIN, err := descriptor.StartPairing(ctx, device, remoteName)
	if err != nil {
		return fmt.Errorf("failed to start pairing: %w", err)
	}
	fmt.Printf("Pairing request: %s (device provides PIN: %v)\n", requestID, providesPIN)

	ok, err := descriptor.FinalizePairing(ctx, requestID, "", providesPIN)
	if err != nil {
		return fmt.Errorf("failed to finalize pairing: %w", err)
	}
	if !ok {
		return fmt.Errorf("pairing was rejected")
	}

	fmt.Printf("Paired with %s\n", device.DeviceID)
	return nil
}
