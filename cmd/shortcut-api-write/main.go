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
		Use:                "shortcut-api-write <entity> <operation> [args...]",
		Short:              "Write operations for the Shortcut API",
		Long:               "写入操作（create/update/delete 等），执行前需要人工批准。",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdio := output.Stdio{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
			code = app.Run(cmd.Context(), router.Write, router.WriteOperations, args, stdio)
			return nil
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(code)
}
