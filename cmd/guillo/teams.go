package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func teamsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Manage teams",
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List your teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			teams, err := api.ListTeams(cmd.Context())
			if err != nil {
				return err
			}
			printJSON(teams)
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a team (you become its owner)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			t, err := api.CreateTeam(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printJSON(t)
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a team and its members",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			id, err := argOrTeam(a, args)
			if err != nil {
				return err
			}
			t, err := api.GetTeam(cmd.Context(), id)
			if err != nil {
				return err
			}
			printJSON(t)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a team (owner only)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			id, err := argOrTeam(a, args)
			if err != nil {
				return err
			}
			t, err := api.DeleteTeam(cmd.Context(), id)
			if err != nil {
				return err
			}
			if a.cfg.TeamID == t.ID {
				a.cfg.TeamID = ""
				a.cfg.ProjectID = ""
				_ = saveConfig(a.cfg)
			}
			printJSON(t)
			return nil
		},
	}

	var rename string
	update := &cobra.Command{
		Use:   "rename [id]",
		Short: "Rename a team (owner only)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rename == "" {
				return errors.New("--name is required")
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			id, err := argOrTeam(a, args)
			if err != nil {
				return err
			}
			t, err := api.UpdateTeam(cmd.Context(), id, rename)
			if err != nil {
				return err
			}
			printJSON(t)
			return nil
		},
	}
	update.Flags().StringVar(&rename, "name", "", "new team name")

	cmd.AddCommand(ls, create, get, rm, update)
	return cmd
}

// teamCmd holds singular team actions, currently joining via invite token.
func teamCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Act on a single team",
	}

	join := &cobra.Command{
		Use:   "join <token>",
		Short: "Accept an invite token and join its team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			t, err := api.AcceptInvite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printJSON(t)
			return nil
		},
	}

	cmd.AddCommand(join)
	return cmd
}

// argOrTeam returns the positional id if given, else the team context.
func argOrTeam(a *app, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return a.teamID()
}
