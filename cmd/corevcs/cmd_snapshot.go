package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save or load an explicit snapshot document",
	}
	cmd.AddCommand(newSnapshotSaveCmd())
	cmd.AddCommand(newSnapshotLoadCmd())
	return cmd
}

func newSnapshotSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <path>",
		Short: "Write the current session to a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, _, err := openSession(ctx, ".")
			if err != nil {
				return err
			}
			if err := e.SaveSnapshot(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved snapshot to %s\n", args[0])
			return nil
		},
	}
}

func newSnapshotLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <path>",
		Short: "Replace the current session with a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, _, err := openSession(ctx, ".")
			if err != nil {
				return err
			}
			if err := e.LoadSnapshot(ctx, args[0]); err != nil {
				return err
			}
			if err := saveSession(ctx, e, "."); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded snapshot from %s\n", args[0])
			return nil
		},
	}
}
