package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/meigma/ar/internal/arfile"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <archive>",
		Short: "List archive members and their sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			rd, err := arfile.NewReader(data)
			if err != nil {
				return err
			}
			for {
				m, err := rd.Next()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", m.Name, m.Size)
			}
		},
	}
}
