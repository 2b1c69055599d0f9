package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pders01/leetsync/internal/config"
	"github.com/pders01/leetsync/internal/git"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config file and the solutions repository",
	Long: `Create a default config file and prepare the solutions repository.

This command:
  - Writes a default config file if it doesn't exist
  - Initializes a git repository at repo_path with a README commit
  - Adds remote_url under remote_name when one is configured

Run this once, then set leetcode_session in the config file.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	path, err := configPath()
	if err != nil {
		return err
	}

	written, err := writeDefaultConfig(path)
	if err != nil {
		return err
	}
	if written {
		printSuccess(fmt.Sprintf("Created default config: %s", path))
	} else {
		fmt.Printf("Config already exists: %s\n", path)
	}

	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return err
	}

	repo, err := git.NewRepo(cfg.RepoPath)
	if err != nil {
		return err
	}
	created, err := repo.EnsureHistory(ctx)
	if err != nil {
		return err
	}
	if created {
		printSuccess(fmt.Sprintf("Initialized repository: %s", repo.Dir))
	} else {
		fmt.Printf("Repository already initialized: %s\n", repo.Dir)
	}

	if cfg.RemoteURL != "" {
		added, err := repo.ConfigureRemote(ctx, cfg.RemoteURL, cfg.RemoteName)
		if err != nil {
			return err
		}
		if added {
			printSuccess(fmt.Sprintf("Added remote %s: %s", cfg.RemoteName, cfg.RemoteURL))
		}
	}

	fmt.Println()
	printSuccess("leetsync initialized successfully!")
	if cfg.Session == "" {
		fmt.Println("  Set leetcode_session in the config file, then run: leetsync check")
	} else {
		fmt.Println("  You can now use: leetsync sync")
	}

	return nil
}

// writeDefaultConfig writes config.Default to path unless a file is already there
func writeDefaultConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return false, fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config.Default()); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
