package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func authCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in and out",
	}

	var email, code string
	login := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a one-time email code",
		Long: `Sign in with a one-time email code.

Run once with --email to request a code, then again with --email and
--code to redeem it for an API key. The key is stored in the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			if code == "" {
				if err := a.anonAPI().SendCode(cmd.Context(), email); err != nil {
					return err
				}
				printJSON(map[string]string{"message": "code sent; rerun with --code"})
				return nil
			}
			res, err := a.anonAPI().Verify(cmd.Context(), email, code)
			if err != nil {
				return err
			}
			a.cfg.Token = res.Token
			a.cfg.Email = res.Email
			a.cfg.UserID = res.UserID
			if err := saveConfig(a.cfg); err != nil {
				return err
			}
			printJSON(map[string]string{"message": "logged in", "email": res.Email, "user_id": res.UserID})
			return nil
		},
	}
	login.Flags().StringVar(&email, "email", "", "email address")
	login.Flags().StringVar(&code, "code", "", "one-time code from the email")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.Token = ""
			a.cfg.Email = ""
			a.cfg.UserID = ""
			if err := saveConfig(a.cfg); err != nil {
				return err
			}
			printJSON(map[string]string{"message": "logged out"})
			return nil
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Token == "" {
				return errors.New("not logged in")
			}
			printJSON(map[string]string{"email": a.cfg.Email, "user_id": a.cfg.UserID})
			return nil
		},
	}

	cmd.AddCommand(login, logout, whoami)
	return cmd
}
