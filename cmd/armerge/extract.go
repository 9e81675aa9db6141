package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meigma/ar"
)

func newExtractFatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract-fat <file>",
		Short: "Extract one architecture slice from a universal binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arch, _ := cmd.Flags().GetString("arch")
			output, _ := cmd.Flags().GetString("output")

			slice, ok, err := ar.ExtractFatSlice(args[0], arch)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no %s slice in %s", arch, args[0])
			}
			data, err := os.ReadFile(slice)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o666); err != nil {
				return err
			}
			return os.Remove(slice)
		},
	}
	cmd.Flags().String("arch", "", "Architecture to extract (aarch64 or x86_64)")
	cmd.Flags().StringP("output", "o", "", "Output path")
	_ = cmd.MarkFlagRequired("arch")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newExtractBundledCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract-bundled <archive> <member>...",
		Short: "Extract bundled libraries from archive members",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return ar.ExtractBundledLibs(args[0], out, args[1:])
		},
	}
	cmd.Flags().String("out", ".", "Output directory")
	return cmd
}
