package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/corevcs/corevcs/pkg/vcserr"
	"github.com/spf13/cobra"
)

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge a branch into the current branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branchName := args[0]

			ctx := context.Background()
			e, _, err := openSession(ctx, ".")
			if err != nil {
				return err
			}

			current, _ := e.CurrentBranch()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "merging %s into %s...\n", branchName, current)

			status, err := e.Merge(ctx, branchName)
			if err != nil {
				var conflict *vcserr.ConflictError
				if errors.As(err, &conflict) {
					fmt.Fprintf(out, "conflict at %s\n", conflict.Path)
				}
				return err
			}
			if err := saveSession(ctx, e, "."); err != nil {
				return err
			}

			fmt.Fprintln(out, status)
			return nil
		},
	}
}
