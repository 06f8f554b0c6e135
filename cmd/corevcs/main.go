package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "corevcs",
		Short: "In-memory content-addressed version control with compile/run orchestration",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newWriteCmd())
	root.AddCommand(newDeleteCmd())
	root.AddCommand(newCommitCmd())
	root.AddCommand(newCheckoutCmd())
	root.AddCommand(newBranchCmd())
	root.AddCommand(newMergeCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newSnapshotCmd())
	root.AddCommand(newCompileCmd())
	root.AddCommand(newRunCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "corevcs 0.1.0-dev")
		},
	}
}
