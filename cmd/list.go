package cmd

import (
	"fmt"

	"github.com/pders01/leetsync/internal/config"
	"github.com/pders01/leetsync/internal/models"
	"github.com/pders01/leetsync/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	listDifficulty string
	listJSON       bool
	listToon       bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List solutions saved in the repository",
	Long: `List the solution files found under repo_path, ordered by problem number.

Examples:
  leetsync list
  leetsync list --difficulty hard
  leetsync list --json
  leetsync list --toon`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listDifficulty, "difficulty", "", "Filter by difficulty (easy, medium, hard)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&listToon, "toon", false, "Output in LLM-friendly toon format")
}

type listReport struct {
	Total        int               `json:"total"`
	ByDifficulty map[string]int    `json:"by_difficulty"`
	Solutions    []models.Solution `json:"solutions"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return err
	}

	st, err := store.New(cfg.RepoPath, cfg.OrganizeBy == config.OrganizeByDifficulty)
	if err != nil {
		return err
	}
	solutions, err := st.List()
	if err != nil {
		return err
	}

	var filter models.Difficulty
	if listDifficulty != "" {
		filter = models.ParseDifficulty(listDifficulty)
	}

	report := listReport{
		ByDifficulty: make(map[string]int),
		Solutions:    []models.Solution{},
	}
	for _, s := range solutions {
		if filter != "" && s.Difficulty != filter {
			continue
		}
		report.Solutions = append(report.Solutions, s)
		if s.Difficulty != "" {
			report.ByDifficulty[string(s.Difficulty)]++
		}
	}
	report.Total = len(report.Solutions)

	if handled, err := printStructured(report, listJSON, listToon); handled {
		return err
	}

	if report.Total == 0 {
		fmt.Println("No solutions found")
		return nil
	}

	fmt.Printf("Found %d solution(s) in %s:\n\n", report.Total, st.Root())
	for _, s := range report.Solutions {
		if s.Difficulty != "" {
			fmt.Printf("  %s  %-8s %s%s\n", s.ProblemID, s.Difficulty, s.Slug, s.Extension)
		} else {
			fmt.Printf("  %s  %s%s\n", s.ProblemID, s.Slug, s.Extension)
		}
	}

	if len(report.ByDifficulty) > 0 {
		printSection("By difficulty")
		for _, d := range models.Difficulties {
			if n := report.ByDifficulty[string(d)]; n > 0 {
				printLabelValue(string(d), fmt.Sprintf("%d", n))
			}
		}
	}

	return nil
}
