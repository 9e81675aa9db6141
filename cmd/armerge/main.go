// Package main implements armerge, a driver for assembling static
// archives.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/meigma/ar"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "armerge",
		Short:         "Assemble and inspect static link archives",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newExtractFatCmd())
	cmd.AddCommand(newExtractBundledCmd())
	return cmd
}

func builderOptions(cmd *cobra.Command) []ar.Option {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return nil
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return []ar.Option{ar.WithLogger(slog.New(handler))}
}
