package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newBranchCmd() *cobra.Command {
	var deleteBranch string

	cmd := &cobra.Command{
		Use:   "branch [name]",
		Short: "List, create, or delete branches",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, _, err := openSession(ctx, ".")
			if err != nil {
				return err
			}

			if deleteBranch != "" {
				if err := e.DeleteBranch(deleteBranch); err != nil {
					return err
				}
				if err := saveSession(ctx, e, "."); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted branch '%s'\n", deleteBranch)
				return nil
			}

			if len(args) == 1 {
				if err := e.CreateBranch(args[0]); err != nil {
					return err
				}
				return saveSession(ctx, e, ".")
			}

			current, _ := e.CurrentBranch()
			out := cmd.OutOrStdout()
			for _, b := range e.Branches() {
				if b == current {
					fmt.Fprintf(out, "* %s\n", b)
				} else {
					fmt.Fprintf(out, "  %s\n", b)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&deleteBranch, "delete", "d", "", "delete the named branch")
	return cmd
}
