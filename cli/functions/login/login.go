/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package login

import (
	"github.com/spf13/cobra"

	"github.com/UnifyEM/uemauth/cli/client"
	"github.com/UnifyEM/uemauth/cli/display"
	"github.com/UnifyEM/uemauth/cli/global"
	"github.com/UnifyEM/uemauth/cli/prompt"
)

// Register returns the login command. Credentials come from the flag, then
// UEMAUTH_LOGIN and UEMAUTH_PASS, then a prompt.
func Register() *cobra.Command {
	var login string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store tokens",
		Long:  "Authenticate with the server and store the access and refresh tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return doLogin(cmd, login)
		},
	}

	cmd.Flags().StringVarP(&login, "login", "l", "", "login name")
	return cmd
}

func doLogin(cmd *cobra.Command, login string) error {
	c, err := client.Load()
	if err != nil {
		return err
	}
	defer c.Close()

	if login == "" {
		login = c.Conf.Get(global.ConfigLogin).String()
	}

	p := prompt.New()
	if login, err = p.Default(login, "Login", false); err != nil {
		return err
	}
	password, err := p.Default(c.Conf.Get(global.ConfigPass).String(), "Password", true)
	if err != nil {
		return err
	}

	resp, err := c.Auth.Login(cmd.Context(), login, password)
	if err != nil {
		return err
	}

	display.Message("Logged in as %s (%s)", resp.Login, resp.UserID)
	return nil
}

// StatusCmd reports whether credentials are stored
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether you are logged in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Load()
			if err != nil {
				return err
			}
			defer c.Close()

			if c.Session.LoggedIn() {
				display.Message("Logged in to %s", c.Comms.BaseURL())
			} else {
				display.Message("Not logged in")
			}
			return nil
		},
	}
}
