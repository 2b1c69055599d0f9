package cmd

import (
	"errors"
	"fmt"

	"github.com/pders01/leetsync/internal/config"
	"github.com/pders01/leetsync/internal/leetcode"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	checkFetch = 5
	checkShow  = 3
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"test"},
	Short:   "Verify the session cookie and show recent accepted submissions",
	Long: `Check that the configured session is signed in, print the username and
list a few recent accepted submissions. Nothing is written to disk.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		if errors.Is(err, config.ErrMissingSession) {
			return fmt.Errorf("%w\n\n%s", err, sessionHelp)
		}
		return err
	}

	client := leetcode.NewClient(cfg.BaseURL, cfg.Session, cfg.CSRFToken)

	printHeader("Testing LeetCode connection")
	user, err := client.Profile(ctx)
	if err != nil {
		return fmt.Errorf("connection test failed: %w\n\n%s", err, sessionHelp)
	}
	printSuccess(fmt.Sprintf("Connected as: %s", user.Username))

	subs, err := client.SubmissionPage(ctx, 0, checkFetch)
	if err != nil {
		printWarning(fmt.Sprintf("Failed to fetch submissions: %v", err))
		return nil
	}
	if len(subs) == 0 {
		printWarning("No accepted submissions found")
		return nil
	}

	printSuccess(fmt.Sprintf("Found %d recent accepted submissions", len(subs)))
	for i, s := range subs {
		if i == checkShow {
			break
		}
		fmt.Printf("  - %s (%s)\n", s.ProblemTitle, s.LanguageName)
	}
	return nil
}
