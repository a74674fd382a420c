package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"ir-hub-bridge/internal/bridge"
	"ir-hub-bridge/internal/logging"
)

var sendCmd = &cobra.Command{
	Use:   "send <device-id> <key>",
	Short: "Send one key press to a device",
	Args:  cobra.ExactArgs(2),
	RunE:  runSendCommand,
}

var sendTimeout int

func init() {
	sendCmd.Flags().IntVar(&sendTimeout, "timeout", 10, "send timeout in seconds")
	rootCmd.AddCommand(sendCmd)
}

func runSendCommand(cmd *cobra.Command, args []string) error {
	deviceID, key := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Initialize(cfg.LogLevel)

	descriptor, err := bridge.NewDescriptor(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(sendTimeout)*time.Second)
	defer cancel()

	device, err := descriptor.CreateDevice(ctx, deviceID)
	if err != nil {
		return err
	}
	if c, ok := device.(io.Closer); ok {
		defer c.Close()
	}

	commands, err := device.Commands(ctx)
	if err != nil {
		return fmt.Errorf("failed to list commands: %w", err)
	}

	for _, c := range commands {
		if c.Key() != key {
			continue
		}
		if err := device.Execute(ctx, c); err != nil {
			return fmt.Errorf("failed to send %s: %w", key, err)
		}
		fmt.Printf("Sent %s to %s\n", key, deviceID)
		return nil
	}

	return fmt.Errorf("device %s has no key %q", deviceID, key)
}
