/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package register

import (
	"github.com/spf13/cobra"

	"github.com/UnifyEM/uemauth/cli/client"
	"github.com/UnifyEM/uemauth/cli/display"
	"github.com/UnifyEM/uemauth/cli/prompt"
)

func Register() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "register [login]",
		Short: "Create an account",
		Long:  "Create an account on the server. Registration does not log you in.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var login string
			if len(args) == 1 {
				login = args[0]
			}
			return doRegister(cmd, login, name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	return cmd
}

func doRegister(cmd *cobra.Command, login, name string) error {
	c, err := client.Load()
	if err != nil {
		return err
	}
	defer c.Close()

	p := prompt.New()
	if login, err = p.Default(login, "Login", false); err != nil {
		return err
	}
	if name, err = p.Default(name, "Name", false); err != nil {
		return err
	}
	password, err := p.Password("Password")
	if err != nil {
		return err
	}

	if err = c.Auth.Register(cmd.Context(), login, password, name); err != nil {
		return err
	}

	if c.Session.LoggedIn() {
		display.Message("Registered and logged in as %s", login)
	} else {
		display.Message("Registered %s. Use the login command to sign in.", login)
	}
	return nil
}
