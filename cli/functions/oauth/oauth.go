//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

package oauth

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/UnifyEM/uemauth/cli/client"
	"github.com/UnifyEM/uemauth/cli/display"
	"github.com/UnifyEM/uemauth/common/oauth"
)

// Register returns the oauth command with subcommands
func Register() *cobra.Command {
	oauthCmd := &cobra.Command{
		Use:   "oauth",
		Short: "Complete an OAuth login",
		Long:  "Store the tokens delivered by an OAuth provider redirect",
	}

	oauthCmd.AddCommand(callbackCmd())
	oauthCmd.AddCommand(listenCmd())
	return oauthCmd
}

func callbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "callback <url>",
		Short: "Store tokens from a redirect URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid URL: %w", err)
			}

			c, err := client.Load()
			if err != nil {
				return err
			}
			defer c.Close()

			clean, err := oauth.HandleCallback(c.Store, u)
			if err != nil {
				return err
			}
			display.Message("Logged in. Continue at %s", clean.String())
			return nil
		},
	}
}

func listenCmd() *cobra.Command {
	var listen string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Wait for the provider redirect on a local address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Load()
			if err != nil {
				return err
			}
			defer c.Close()

			l, err := oauth.NewListener(c.Store, listen, c.Logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			callbackURL, err := l.Start(ctx)
			if err != nil {
				return err
			}
			display.Message("Use this redirect URL with your provider: %s", callbackURL)

			if err = l.Wait(ctx); err != nil {
				return err
			}
			display.Message("Logged in")
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:0", "callback listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "how long to wait for the redirect")
	return cmd
}
