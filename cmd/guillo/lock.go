package main

import (
	"errors"

	"github.com/spf13/cobra"
)

// lockCmd pins a team or project as the working context so later commands can
// omit --team/--project.
func lockCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Pin a working context",
	}

	team := &cobra.Command{
		Use:   "team <id>",
		Short: "Pin the team context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			// Resolve before pinning so a typo fails loudly here.
			t, err := api.GetTeam(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.cfg.TeamID = t.ID
			a.cfg.ProjectID = ""
			if err := saveConfig(a.cfg); err != nil {
				return err
			}
			printJSON(map[string]string{"locked": "team", "id": t.ID, "name": t.Name})
			return nil
		},
	}

	project := &cobra.Command{
		Use:   "project <id>",
		Short: "Pin the project context (requires a team context)",
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
			p, err := api.GetProject(cmd.Context(), teamID, args[0])
			if err != nil {
				return err
			}
			a.cfg.TeamID = teamID
			a.cfg.ProjectID = p.ID
			if err := saveConfig(a.cfg); err != nil {
				return err
			}
			printJSON(map[string]string{"locked": "project", "id": p.ID, "name": p.Name})
			return nil
		},
	}

	cmd.AddCommand(team, project)
	return cmd
}

// unlockCmd clears the working context.
func unlockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock [team|project|all]",
		Short: "Clear the working context",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			what := "all"
			if len(args) > 0 {
				what = args[0]
			}
			switch what {
			case "team", "all":
				a.cfg.TeamID = ""
				a.cfg.ProjectID = ""
			case "project":
				a.cfg.ProjectID = ""
			default:
				return errors.New("expected team, project or all")
			}
			if err := saveConfig(a.cfg); err != nil {
				return err
			}
			printJSON(map[string]string{"unlocked": what})
			return nil
		},
	}
}
