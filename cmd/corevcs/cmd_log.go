package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var oneline bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, _, err := openSession(ctx, ".")
			if err != nil {
				return err
			}

			commits, err := e.Log(ctx)
			if err != nil {
				return err
			}
			if len(commits) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no commits yet")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, c := range commits {
				if oneline {
					fmt.Fprintf(out, "%s\n", c.Message)
					continue
				}
				fmt.Fprintf(out, "Author: %s\n", c.Author)
				fmt.Fprintf(out, "Date:   %s\n", time.UnixMilli(c.Timestamp).Format("2006-01-02 15:04:05"))
				fmt.Fprintln(out)
				fmt.Fprintf(out, "    %s\n", c.Message)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	return cmd
}
