// Package main provides the guillo binary, the command-line client for the
// guilloteam API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kwybro/guilloteam/internal/client"
)

const (
	Version = "0.1.0"
	appName = "guillo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fail(err)
	}
}

type app struct {
	cfg *cliConfig

	// flag overrides for the locked context
	teamFlag    string
	projectFlag string
	apiURLFlag  string
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Team, project and task tracking from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if a.apiURLFlag != "" {
				cfg.APIURL = a.apiURLFlag
			}
			a.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.apiURLFlag, "api-url", "", "API base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&a.teamFlag, "team", "", "team id (overrides locked context)")
	cmd.PersistentFlags().StringVar(&a.projectFlag, "project", "", "project id (overrides locked context)")

	cmd.AddCommand(
		authCmd(a),
		teamsCmd(a),
		teamCmd(a),
		projectsCmd(a),
		tasksCmd(a),
		executeCmd(a),
		pardonCmd(a),
		summonCmd(a),
		invitesCmd(a),
		lockCmd(a),
		unlockCmd(a),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	}
}

// api returns a client for authenticated calls.
func (a *app) api() (*client.Client, error) {
	if a.cfg.Token == "" {
		return nil, errors.New("not logged in; run: guillo auth login --email you@example.com")
	}
	return client.New(a.cfg.APIURL, a.cfg.Token), nil
}

// anonAPI returns a client without a token, for the auth endpoints.
func (a *app) anonAPI() *client.Client {
	return client.New(a.cfg.APIURL, "")
}

// teamID resolves the team context: flag beats lock.
func (a *app) teamID() (string, error) {
	if a.teamFlag != "" {
		return a.teamFlag, nil
	}
	if a.cfg.TeamID != "" {
		return a.cfg.TeamID, nil
	}
	return "", errors.New("no team context; pass --team or run: guillo lock team <id>")
}

// projectID resolves the project context: flag beats lock.
func (a *app) projectID() (string, error) {
	if a.projectFlag != "" {
		return a.projectFlag, nil
	}
	if a.cfg.ProjectID != "" {
		return a.cfg.ProjectID, nil
	}
	return "", errors.New("no project context; pass --project or run: guillo lock project <id>")
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// fail writes the error as JSON to stderr and exits: 2 for server faults,
// 1 for everything else.
func fail(err error) {
	code := 1
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		_ = json.NewEncoder(os.Stderr).Encode(apiErr)
		if apiErr.ServerFault() {
			code = 2
		}
		os.Exit(code)
	}
	_ = json.NewEncoder(os.Stderr).Encode(map[string]string{"error": err.Error()})
	os.Exit(code)
}
