package main

import (
	"github.com/spf13/cobra"

	"github.com/kwybro/guilloteam/internal/client"
)

func tasksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks within the project context",
	}

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List the project's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, teamID, projectID, err := taskContext(a)
			if err != nil {
				return err
			}
			tasks, err := api.ListTasks(cmd.Context(), teamID, projectID)
			if err != nil {
				return err
			}
			printJSON(tasks)
			return nil
		},
	}

	var status string
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task under the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, teamID, projectID, err := taskContext(a)
			if err != nil {
				return err
			}
			t, err := api.CreateTask(cmd.Context(), teamID, projectID, args[0], status)
			if err != nil {
				return err
			}
			printJSON(t)
			return nil
		},
	}
	add.Flags().StringVar(&status, "status", "", "initial status (open, in_progress, executed, pardoned)")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, teamID, projectID, err := taskContext(a)
			if err != nil {
				return err
			}
			t, err := api.GetTask(cmd.Context(), teamID, projectID, args[0])
			if err != nil {
				return err
			}
			printJSON(t)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, teamID, projectID, err := taskContext(a)
			if err != nil {
				return err
			}
			t, err := api.DeleteTask(cmd.Context(), teamID, projectID, args[0])
			if err != nil {
				return err
			}
			printJSON(t)
			return nil
		},
	}

	cmd.AddCommand(ls, add, get, rm)
	return cmd
}

// executeCmd marks a task executed.
func executeCmd(a *app) *cobra.Command {
	return statusShortcut(a, "execute", "executed", "Mark a task executed")
}

// pardonCmd marks a task pardoned.
func pardonCmd(a *app) *cobra.Command {
	return statusShortcut(a, "pardon", "pardoned", "Mark a task pardoned")
}

func statusShortcut(a *app, use, status, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <taskId>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, teamID, projectID, err := taskContext(a)
			if err != nil {
				return err
			}
			s := status
			t, err := api.UpdateTask(cmd.Context(), teamID, projectID, args[0], nil, &s)
			if err != nil {
				return err
			}
			printJSON(t)
			return nil
		},
	}
}

func taskContext(a *app) (*client.Client, string, string, error) {
	api, err := a.api()
	if err != nil {
		return nil, "", "", err
	}
	teamID, err := a.teamID()
	if err != nil {
		return nil, "", "", err
	}
	projectID, err := a.projectID()
	if err != nil {
		return nil, "", "", err
	}
	return api, teamID, projectID, nil
}
