package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckoutCmd() *cobra.Command {
	var createBranch bool

	cmd := &cobra.Command{
		Use:   "checkout <hashOrRef>",
		Short: "Switch the working tree to a commit or branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

			ctx := context.Background()
			e, _, err := openSession(ctx, ".")
			if err != nil {
				return err
			}

			if createBranch {
				if err := e.CreateBranch(target); err != nil {
					return err
				}
			}

			if err := e.Checkout(ctx, target); err != nil {
				return err
			}
			if err := saveSession(ctx, e, "."); err != nil {
				return err
			}

			if createBranch {
				fmt.Fprintf(cmd.OutOrStdout(), "switched to new branch '%s'\n", target)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "switched to '%s'\n", target)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&createBranch, "branch", "b", false, "create and switch to a new branch")
	return cmd
}
