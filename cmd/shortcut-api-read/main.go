package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/houzhh15/shortcut-skills/internal/app"
	"github.com/houzhh15/shortcut-skills/internal/output"
	"github.com/houzhh15/shortcut-skills/internal/router"
)

func main() {
	code := 0
	rootCmd := &cobra.Command{
		Use:                "shortcut-api-read <entity> <operation> [args...]",
		Short:              "Read-only operations for the Shortcut API",
		Long:               "只读操作（get/list/search 等），可自动批准执行。",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdio := output.Stdio{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
			code = app.Run(cmd.Context(), router.Read, router.ReadOperations, args, stdio)
			return nil
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(code)
}
