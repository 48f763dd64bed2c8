/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package logout

import (
	"github.com/spf13/cobra"

	"github.com/UnifyEM/uemauth/cli/client"
	"github.com/UnifyEM/uemauth/cli/display"
)

func Register() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out and delete stored tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Load()
			if err != nil {
				return err
			}
			defer c.Close()

			if local {
				c.Session.Logout()
			} else if err = c.Auth.Logout(cmd.Context()); err != nil {
				return err
			}

			display.Message("Logged out")
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "delete local tokens without contacting the server")
	return cmd
}
