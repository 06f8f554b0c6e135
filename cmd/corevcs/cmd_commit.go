package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCommitCmd() *cobra.Command {
	var message string
	var author string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record the working tree's current state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			ctx := context.Background()
			e, _, err := openSession(ctx, ".")
			if err != nil {
				return err
			}

			h, err := e.Commit(ctx, message, author)
			if err != nil {
				return err
			}
			if err := saveSession(ctx, e, "."); err != nil {
				return err
			}

			branch := "HEAD"
			if name, ok := e.CurrentBranch(); ok {
				branch = name
			}
			short := string(h)
			if len(short) > 8 {
				short = short[:8]
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", branch, short, message)
			if sig := e.LastSignature(); sig != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "signed: %s\n", truncateSignature(sig))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&author, "author", "", "override the configured default author for this commit")
	return cmd
}

func truncateSignature(sig string) string {
	const max = 48
	if len(sig) <= max {
		return sig
	}
	return strings.TrimSpace(sig[:max]) + "..."
}
