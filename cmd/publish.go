package cmd

import (
	"fmt"
	"strings"

	"github.com/pders01/leetsync/internal/config"
	"github.com/pders01/leetsync/internal/git"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultPublishMessage = "Update solutions"

var (
	publishMessage string
	publishNoPush  bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Commit outstanding changes and push them",
	Long: `Commit every outstanding change in the solutions repository and push the
branch to the configured remote.

Use this after editing solutions by hand or after a sync whose push failed.

Examples:
  leetsync publish
  leetsync publish -m "Tidy up comments"
  leetsync publish --no-push`,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringVarP(&publishMessage, "message", "m", defaultPublishMessage, "Commit message")
	publishCmd.Flags().BoolVar(&publishNoPush, "no-push", false, "Commit without pushing")
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return err
	}

	repo, err := git.NewRepo(cfg.RepoPath)
	if err != nil {
		return err
	}
	if !repo.IsGitRepo() {
		return fmt.Errorf("not a git repository: %s (run 'leetsync init' first)", repo.Dir)
	}

	message := publishMessage
	if message == "" {
		message = defaultPublishMessage
	}

	status, err := repo.Status(ctx)
	if err != nil {
		return err
	}
	if status != "" {
		printSection("Pending changes")
		for _, line := range strings.Split(status, "\n") {
			if line != "" {
				fmt.Printf("  %s\n", line)
			}
		}
		fmt.Println()
	}

	committed, err := repo.CommitAll(ctx, message)
	if err != nil {
		return err
	}
	if committed {
		printSuccess(fmt.Sprintf("Committed changes: %s", message))
	} else {
		fmt.Println("No changes to commit")
	}

	if publishNoPush {
		branch, err := repo.CurrentBranch(ctx)
		if err != nil {
			return err
		}
		printLabelValue("Branch", branch)
		return nil
	}

	pub := remotePublisher{Repo: repo, url: cfg.RemoteURL}
	if err := pub.Publish(ctx, cfg.RemoteName, cfg.Branch); err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Pushed to %s/%s", cfg.RemoteName, cfg.Branch))

	return nil
}
