package main

import (
	"github.com/spf13/cobra"
)

// summonCmd invites an email address into the team context.
func summonCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summon <email>",
		Short: "Invite an email address to the team (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			teamID, err := a.teamID()
			if err != nil {
				return err
			}
			inv, err := api.CreateInvite(cmd.Context(), teamID, args[0])
			if err != nil {
				return err
			}
			printJSON(inv)
			return nil
		},
	}
}

func invitesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invites",
		Short: "Manage the team's pending invites (owner only)",
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List pending invites",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			teamID, err := a.teamID()
			if err != nil {
				return err
			}
			invites, err := api.ListInvites(cmd.Context(), teamID)
			if err != nil {
				return err
			}
			printJSON(invites)
			return nil
		},
	}

	revoke := &cobra.Command{
		Use:   "revoke <id>",
		Short: "Revoke an invite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			teamID, err := a.teamID()
			if err != nil {
				return err
			}
			inv, err := api.RevokeInvite(cmd.Context(), teamID, args[0])
			if err != nil {
				return err
			}
			printJSON(inv)
			return nil
		},
	}

	cmd.AddCommand(ls, revoke)
	return cmd
}
