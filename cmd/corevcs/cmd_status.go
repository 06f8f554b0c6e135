package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working tree status relative to HEAD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, _, err := openSession(ctx, ".")
			if err != nil {
				return err
			}

			status, err := e.ComputeStatus(ctx)
			if err != nil {
				return err
			}

			branch := "HEAD"
			if name, ok := e.CurrentBranch(); ok {
				branch = name
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "on %s\n", branch)
			printPaths(out, "new", status.New)
			printPaths(out, "modified", status.Modified)
			printPaths(out, "deleted", status.Deleted)
			return nil
		},
	}
}

func printPaths(out io.Writer, label string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", label)
	for _, p := range paths {
		fmt.Fprintf(out, "  %s\n", p)
	}
}
