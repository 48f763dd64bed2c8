/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package me

import (
	"github.com/spf13/cobra"

	"github.com/UnifyEM/uemauth/cli/client"
	"github.com/UnifyEM/uemauth/cli/display"
)

// Register returns the me command, an authenticated request that refreshes
// the access token when the server rejects it
func Register() *cobra.Command {
	return &cobra.Command{
		Use:     "me",
		Aliases: []string{"whoami"},
		Short:   "Show the current user",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Load()
			if err != nil {
				return err
			}
			defer c.Close()

			user, err := c.Auth.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			display.Pretty(user)
			return nil
		},
	}
}
