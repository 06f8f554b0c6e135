package main

import (
	"context"
	"fmt"

	"github.com/corevcs/corevcs/pkg/sandbox"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var runtime string

	cmd := &cobra.Command{
		Use:   "run <entrypoint>",
		Short: "Materialize the working tree and execute an entry point in a sandbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, cfg, err := openSession(ctx, ".")
			if err != nil {
				return err
			}

			x := sandbox.NewExecutor(cfg.Sandbox, runtime)
			result, err := x.Run(ctx, e, args[0], cfg.Compiler.PackageCacheRoot)
			out := cmd.OutOrStdout()
			if result.Stdout != "" {
				fmt.Fprint(out, result.Stdout)
			}
			if result.Stderr != "" {
				fmt.Fprint(cmd.ErrOrStderr(), result.Stderr)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&runtime, "runtime", "podman", "container runtime binary")
	return cmd
}
