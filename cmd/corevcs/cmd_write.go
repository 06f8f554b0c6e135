package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newWriteCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "write <path> [content]",
		Short: "Create or update a file in the working tree",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var content []byte
			switch {
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %q: %w", file, err)
				}
				content = data
			case len(args) == 2:
				content = []byte(args[1])
			default:
				return fmt.Errorf("either a content argument or --file is required")
			}

			ctx := context.Background()
			e, _, err := openSession(ctx, ".")
			if err != nil {
				return err
			}
			e.Write(e.WT.AbsPath(args[0]), content)
			return saveSession(ctx, e, ".")
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "read content from a host file instead of the argument")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a file from the working tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, _, err := openSession(ctx, ".")
			if err != nil {
				return err
			}
			e.Delete(e.WT.AbsPath(args[0]))
			return saveSession(ctx, e, ".")
		},
	}
}
