package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/challenge-workflows/eval-cli/internal/model"
	"github.com/challenge-workflows/eval-cli/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded evaluation runs",
	Long: `History lists past validate and score invocations from the configured
history store (EVAL_HISTORY_DRIVER=sqlite or postgres), newest first.`,
	RunE: runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.String("kind", "", "filter by evaluation kind: validate or score")
	f.Int("limit", 20, "maximum number of records")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")

	if kind != "" && kind != string(model.KindValidate) && kind != string(model.KindScore) {
		return eris.Errorf("history: --kind must be validate or score (got %q)", kind)
	}

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if st == nil {
		return eris.New("history: no history store configured (set history.driver to sqlite or postgres)")
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(cmd.Context()); err != nil {
		return err
	}

	evals, err := st.ListEvaluations(cmd.Context(), store.Filter{
		Kind:  model.EvaluationKind(kind),
		Limit: limit,
	})
	if err != nil {
		return err
	}
	if len(evals) == 0 {
		fmt.Println("No recorded evaluations.")
		return nil
	}

	fmt.Printf("%-20s %-9s %-10s %-30s %s\n", "When", "Kind", "Status", "Predictions", "Scores")
	fmt.Println(strings.Repeat("-", 95))
	for _, ev := range evals {
		name := ev.PredictionsFile
		if len(name) > 30 {
			name = "..." + name[len(name)-27:]
		}
		fmt.Printf("%-20s %-9s %-10s %-30s %s\n",
			ev.CreatedAt.Format("2006-01-02 15:04:05"),
			ev.Kind, ev.Status, name, formatScores(ev.Scores))
	}
	return nil
}

// formatScores renders scores as "auc_roc=0.9123 auprc=0.8456", sorted by
// metric name for stable output.
func formatScores(scores map[string]float64) string {
	if len(scores) == 0 {
		return "-"
	}
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%.4f", name, scores[name]))
	}
	return strings.Join(parts, " ")
}
