package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func projectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects within the team context",
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List the team's projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			teamID, err := a.teamID()
			if err != nil {
				return err
			}
			projects, err := api.ListProjects(cmd.Context(), teamID)
			if err != nil {
				return err
			}
			printJSON(projects)
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project under the team",
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
			p, err := api.CreateProject(cmd.Context(), teamID, args[0])
			if err != nil {
				return err
			}
			printJSON(p)
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a project with its task status counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			teamID, err := a.teamID()
			if err != nil {
				return err
			}
			id, err := argOrProject(a, args)
			if err != nil {
				return err
			}
			p, err := api.GetProject(cmd.Context(), teamID, id)
			if err != nil {
				return err
			}
			printJSON(p)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			teamID, err := a.teamID()
			if err != nil {
				return err
			}
			id, err := argOrProject(a, args)
			if err != nil {
				return err
			}
			p, err := api.DeleteProject(cmd.Context(), teamID, id)
			if err != nil {
				return err
			}
			if a.cfg.ProjectID == p.ID {
				a.cfg.ProjectID = ""
				_ = saveConfig(a.cfg)
			}
			printJSON(p)
			return nil
		},
	}

	var rename string
	update := &cobra.Command{
		Use:   "rename [id]",
		Short: "Rename a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rename == "" {
				return errors.New("--name is required")
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			teamID, err := a.teamID()
			if err != nil {
				return err
			}
			id, err := argOrProject(a, args)
			if err != nil {
				return err
			}
			p, err := api.UpdateProject(cmd.Context(), teamID, id, rename)
			if err != nil {
				return err
			}
			printJSON(p)
			return nil
		},
	}
	update.Flags().StringVar(&rename, "name", "", "new project name")

	cmd.AddCommand(ls, create, get, rm, update)
	return cmd
}

// argOrProject returns the positional id if given, else the project context.
func argOrProject(a *app, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return a.projectID()
}
