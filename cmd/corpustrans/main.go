package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/corpustrans/internal/cli"
	"codeberg.org/snonux/corpustrans/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command, the processor runs every subcommand
	rootCmd := cli.CreateRootCommand(flags, processor.NewProcessor(flags))

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Stop suggestion requests cleanly on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
