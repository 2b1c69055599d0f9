package cmd

import (
	"fmt"

	"github.com/pders01/leetsync/internal/config"
	"github.com/pders01/leetsync/internal/history"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	historyLimit int
	historyJSON  bool
	historyToon  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync runs",
	Long: `Show recorded sync runs, newest first, with the solutions each one added.

Examples:
  leetsync history
  leetsync history --limit 3
  leetsync history --json`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of runs to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
	historyCmd.Flags().BoolVar(&historyToon, "toon", false, "Output in LLM-friendly toon format")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("history.path is not set")
	}

	ledger, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer ledger.Close()

	runs, err := ledger.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []history.Run{}
	}

	if handled, err := printStructured(runs, historyJSON, historyToon); handled {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	for _, r := range runs {
		title := r.StartedAt.Local().Format("2006-01-02 15:04")
		if r.DryRun {
			title += " (dry run)"
		}
		printSection(title)
		printLabelValue("State", r.State)
		if r.User != "" {
			printLabelValue("User", r.User)
		}
		printLabelValue("Fetched", fmt.Sprintf("%d", r.Fetched))
		printLabelValue("New", fmt.Sprintf("%d", r.New))
		printLabelValue("Skipped", fmt.Sprintf("%d", r.Skipped))
		printLabelValue("Failed", fmt.Sprintf("%d", r.Failed))
		printLabelValue("Pushed", fmt.Sprintf("%t", r.Pushed))
		for _, a := range r.Artifacts {
			fmt.Printf("    + %s\n", a.Path)
		}
	}

	return nil
}
