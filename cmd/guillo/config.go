package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// cliConfig is the on-disk CLI state: server location, credential and the
// locked working context.
type cliConfig struct {
	APIURL    string `mapstructure:"api_url"`
	Token     string `mapstructure:"token"`
	Email     string `mapstructure:"email"`
	UserID    string `mapstructure:"user_id"`
	TeamID    string `mapstructure:"team_id"`
	ProjectID string `mapstructure:"project_id"`
}

const defaultAPIURL = "http://localhost:8080"

func configPath() (string, error) {
	if p := os.Getenv("GUILLO_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "guilloteam", "config.yaml"), nil
}

func loadConfig() (*cliConfig, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("api_url", defaultAPIURL)
	if err := v.ReadInConfig(); err != nil {
		// Missing file means first run; a malformed one should not be
		// silently ignored.
		if _, statErr := os.Stat(path); statErr == nil {
			return nil, err
		}
	}
	var cfg cliConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	return &cfg, nil
}

func saveConfig(cfg *cliConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	v := viper.New()
	v.Set("api_url", cfg.APIURL)
	v.Set("token", cfg.Token)
	v.Set("email", cfg.Email)
	v.Set("user_id", cfg.UserID)
	v.Set("team_id", cfg.TeamID)
	v.Set("project_id", cfg.ProjectID)
	return v.WriteConfigAs(path)
}
