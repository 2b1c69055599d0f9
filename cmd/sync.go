package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/pders01/leetsync/internal/config"
	"github.com/pders01/leetsync/internal/git"
	"github.com/pders01/leetsync/internal/history"
	"github.com/pders01/leetsync/internal/leetcode"
	"github.com/pders01/leetsync/internal/store"
	"github.com/pders01/leetsync/internal/syncer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const sessionHelp = `To find your session cookie:
  1. Log in to leetcode.com in your browser
  2. Open the developer tools and go to Application > Cookies
  3. Copy the value of LEETCODE_SESSION into leetcode_session
     (or export LEETSYNC_LEETCODE_SESSION)`

var (
	syncMax    int
	syncDryRun bool
	syncForce  bool
	syncToday  bool
	syncNoPush bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch accepted submissions and commit new solutions",
	Long: `Fetch your accepted submissions, save one file per problem that is not
already in the repository, and commit each new file.

When auto_push is enabled and at least one solution was added, the branch is
pushed to the configured remote.

Examples:
  leetsync sync
  leetsync sync --max 20
  leetsync sync --today
  leetsync sync --dry-run
  leetsync sync --force --no-push`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().IntVarP(&syncMax, "max", "m", 0, "Maximum number of submissions to fetch (default from config)")
	syncCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "d", false, "Show what would be saved without writing or committing")
	syncCmd.Flags().BoolVarP(&syncForce, "force", "f", false, "Overwrite solutions that already exist")
	syncCmd.Flags().BoolVar(&syncToday, "today", false, "Only sync submissions accepted today (UTC)")
	syncCmd.Flags().BoolVar(&syncNoPush, "no-push", false, "Commit locally without pushing")
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		if errors.Is(err, config.ErrMissingSession) {
			return fmt.Errorf("%w\n\n%s", err, sessionHelp)
		}
		return err
	}

	opts := syncer.OptionsFromConfig(cfg)
	if syncMax > 0 {
		opts.MaxSubmissions = syncMax
	}
	opts.DryRun = syncDryRun
	opts.Force = syncForce
	opts.TodayOnly = opts.TodayOnly || syncToday
	if syncNoPush {
		opts.AutoPush = false
	}

	st, err := store.New(cfg.RepoPath, cfg.OrganizeBy == config.OrganizeByDifficulty)
	if err != nil {
		return err
	}
	repo, err := git.NewRepo(cfg.RepoPath)
	if err != nil {
		return err
	}
	client := leetcode.NewClient(cfg.BaseURL, cfg.Session, cfg.CSRFToken)

	printHeader("LeetCode Sync")
	if opts.DryRun {
		printWarning("Dry run: nothing will be written or committed")
	}

	s := syncer.New(client, st, remotePublisher{Repo: repo, url: cfg.RemoteURL}, opts, newLogger())
	res, runErr := s.Run(ctx)

	if res != nil && cfg.History.Enabled {
		if err := recordRun(ctx, cfg.History.Path, res); err != nil {
			printWarning(fmt.Sprintf("Failed to record run history: %v", err))
		}
	}

	if runErr != nil {
		if errors.Is(runErr, syncer.ErrNotAuthenticated) {
			return fmt.Errorf("%w\n\n%s", runErr, sessionHelp)
		}
		return runErr
	}

	printSyncSummary(res)
	return nil
}

// remotePublisher makes sure the configured remote exists before pushing
type remotePublisher struct {
	*git.Repo
	url string
}

func (p remotePublisher) Publish(ctx context.Context, remote, branch string) error {
	if p.url != "" {
		if _, err := p.ConfigureRemote(ctx, p.url, remote); err != nil {
			return err
		}
	}
	return p.Repo.Publish(ctx, remote, branch)
}

func printSyncSummary(res *syncer.Result) {
	fmt.Println()
	fmt.Println("==================================================")
	if res.State == syncer.StateAborted {
		printWarning("No submissions found")
		return
	}

	if res.DryRun {
		printSuccess("Dry run complete!")
		for _, rec := range res.Records {
			if rec.Outcome == syncer.OutcomeNew {
				fmt.Printf("  Would save: %s\n", rec.Path)
			}
		}
	} else {
		printSuccess("Sync complete!")
	}

	if res.User != "" {
		printLabelValue("User", res.User)
	}
	printLabelValue("Fetched", fmt.Sprintf("%d (%d unique problems)", res.Fetched, res.Unique))
	printLabelValue("New solutions", fmt.Sprintf("%d", res.New))
	printLabelValue("Skipped (existing)", fmt.Sprintf("%d", res.Skipped))
	printLabelValue("Failed", fmt.Sprintf("%d", res.Failed))

	for _, rec := range res.Records {
		switch {
		case rec.Outcome == syncer.OutcomeFailed:
			printWarning(fmt.Sprintf("%s: %s", rec.Slug, rec.Error))
		case rec.CommitError != "":
			printWarning(fmt.Sprintf("%s saved but not committed: %s", rec.Path, rec.CommitError))
		}
	}

	switch {
	case res.Pushed:
		printSuccess("Pushed to remote")
	case res.PublishError != "":
		printWarning(fmt.Sprintf("Push failed: %s", res.PublishError))
		fmt.Println("  Run 'leetsync publish' once the remote is reachable")
	}
}

// recordRun appends the run to the history ledger
func recordRun(ctx context.Context, path string, res *syncer.Result) error {
	if path == "" {
		return nil
	}

	ledger, err := history.Open(path)
	if err != nil {
		return err
	}
	defer ledger.Close()

	run := history.Run{
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		State:      res.State.String(),
		User:       res.User,
		DryRun:     res.DryRun,
		Fetched:    res.Fetched,
		New:        res.New,
		Skipped:    res.Skipped,
		Failed:     res.Failed,
		Pushed:     res.Pushed,
	}
	for _, rec := range res.Records {
		if rec.Outcome != syncer.OutcomeNew {
			continue
		}
		run.Artifacts = append(run.Artifacts, history.Artifact{
			ProblemID: rec.ProblemID,
			Title:     rec.Title,
			Path:      rec.Path,
			Committed: rec.Committed,
		})
	}

	// a cancelled run still gets recorded
	_, err = ledger.Record(context.WithoutCancel(ctx), run)
	return err
}
