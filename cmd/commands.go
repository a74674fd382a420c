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

var commandsCmd = &cobra.Command{
	Use:   "commands <device-id>",
	Short: "List the commands a device supports",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommandsCommand,
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}

func runCommandsCommand(cmd *cobra.Command, args []string) error {
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

	device, err := descriptor.CreateDevice(ctx, args[0])
	if err != nil {
		return err
	}
	if c, ok := device.(io.Closer); ok {
		defer c.Close()
	}

	if !device.Ready(ctx) {
		fmt.Println("Warning: device is not ready, command list may be empty.")
	}

	commands, err := device.Commands(ctx)
	if err != nil {
		return fmt.Errorf("failed to list commands: %w", err)
	}

	if width, height := device.RemoteLayoutSize(); width > 0 || height > 0 {
		fmt.Printf("Remote layout: %dx%d\n", width, height)
	}

	for _, c := range commands {
		fmt.Printf("%d\t%s\n", c.ID(), c.Title())
	}
	return nil
}
