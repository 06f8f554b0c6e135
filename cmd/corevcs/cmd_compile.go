package main

import (
	"context"
	"fmt"

	"github.com/corevcs/corevcs/pkg/compiler"
	"github.com/spf13/cobra"
)

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile [path...]",
		Short: "Resolve imports for the given files (or the whole tree) and report diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, cfg, err := openSession(ctx, ".")
			if err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				for _, f := range e.GetAllFiles() {
					paths = append(paths, f.Path)
				}
			}

			driver := compiler.NewDriver(compiler.NewEngineAccessor(e), cfg.Compiler)
			diags := driver.Check(paths)

			out := cmd.OutOrStdout()
			if len(diags) == 0 {
				fmt.Fprintln(out, "no diagnostics")
				return nil
			}
			for _, d := range diags {
				fmt.Fprintln(out, d.String())
			}
			return fmt.Errorf("compile: %d diagnostic(s)", len(diags))
		},
	}
}
