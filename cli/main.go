//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// See LICENSE file for details
//

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/UnifyEM/uemauth/cli/display"
	"github.com/UnifyEM/uemauth/cli/functions/login"
	"github.com/UnifyEM/uemauth/cli/functions/logout"
	"github.com/UnifyEM/uemauth/cli/functions/me"
	"github.com/UnifyEM/uemauth/cli/functions/oauth"
	"github.com/UnifyEM/uemauth/cli/functions/register"
	"github.com/UnifyEM/uemauth/cli/functions/version"
	"github.com/UnifyEM/uemauth/cli/global"
)

func main() {
	var err error

	// Get the name of this binary, eliminating any path information
	progName := os.Args[0]
	progName = progName[strings.LastIndex(progName, "/")+1:]

	// Initialize the root command
	rootCmd := &cobra.Command{
		Use:           progName,
		Short:         global.Description,
		Long:          global.LongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("a subcommand is required")
		},
	}

	rootCmd.PersistentFlags().StringVarP(&global.ServerFlag, "server", "s", "", "server URL (overrides UEMAUTH_SERVER)")
	rootCmd.PersistentFlags().BoolVarP(&global.DebugFlag, "debug", "d", false, "debug logging to stderr")

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add the functions
	rootCmd.AddCommand(login.Register())
	rootCmd.AddCommand(login.StatusCmd())
	rootCmd.AddCommand(logout.Register())
	rootCmd.AddCommand(me.Register())
	rootCmd.AddCommand(oauth.Register())
	rootCmd.AddCommand(register.Register())
	rootCmd.AddCommand(version.Register())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute the CLI
	err = rootCmd.ExecuteContext(ctx)
	if err != nil {
		display.ErrorWrapper(err)
		stop()
		os.Exit(1)
	}
}
