package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/challenge-workflows/eval-cli/internal/dataset"
	"github.com/challenge-workflows/eval-cli/internal/evaluate"
	"github.com/challenge-workflows/eval-cli/internal/model"
	"github.com/challenge-workflows/eval-cli/internal/results"
	"github.com/challenge-workflows/eval-cli/internal/schema"
)

// scoreBlockedMsg and scoreFailedMsg are the fixed error strings the
// workflow surfaces to submitters.
const (
	scoreBlockedMsg = "Submission could not be evaluated due to validation errors."
	scoreFailedMsg  = "Error encountered during scoring; submission not evaluated."
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score predictions against the goldstandard",
	Long: `Score merges the predictions with the goldstandard on the ID column
and computes AUROC and AUPRC. The metrics are merged into the results
JSON produced by a prior validate step, and the final status (SCORED or
INVALID) is printed to stdout for the workflow to consume.

Scoring is skipped when the recorded validation status is INVALID.`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.StringP("predictions_file", "p", "", "path to the prediction file")
	f.StringP("goldstandard_folder", "g", "", "path to the folder containing the goldstandard file")
	f.StringP("output_file", "o", "results.json", "path to save the results JSON file")
	_ = scoreCmd.MarkFlagRequired("predictions_file")
	_ = scoreCmd.MarkFlagRequired("goldstandard_folder")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	predFile, _ := cmd.Flags().GetString("predictions_file")
	goldFolder, _ := cmd.Flags().GetString("goldstandard_folder")
	outputFile, _ := cmd.Flags().GetString("output_file")

	s, err := loadSchema(cfg)
	if err != nil {
		return err
	}

	status, scoreErrors, scores, err := executeScore(predFile, goldFolder, outputFile, s)
	if err != nil {
		return err
	}

	recordHistory(cmd.Context(), cfg, &model.Evaluation{
		Kind:            model.KindScore,
		PredictionsFile: predFile,
		Status:          status,
		Errors:          scoreErrors,
		Scores:          scores,
	})

	fmt.Println(status)
	return nil
}

// executeScore computes metrics and merges them into the results file,
// returning the final status, the error string, and the scores.
func executeScore(predFile, goldFolder, outputFile string, s *schema.Schema) (string, string, map[string]float64, error) {
	res, found := results.Load(outputFile)
	if !found || results.ValidationStatus(res) == "" {
		// Absent validation results may lead to inaccurate scores (e.g. due
		// to multiple predictions per ID, missing predictions, etc).
		zap.L().Warn("validation results not found, proceeding with scoring but results may be inaccurate")
	}

	status := results.StatusInvalid
	scoreErrors := ""
	var scores map[string]float64

	if results.ValidationStatus(res) == results.StatusInvalid {
		scoreErrors = scoreBlockedMsg
	} else {
		goldFile, err := dataset.GoldstandardFile(goldFolder)
		if err != nil {
			return "", "", nil, err
		}

		scores, err = evaluate.Score(goldFile, predFile, s)
		switch {
		case err == nil:
			status = results.StatusScored
		default:
			var serr *evaluate.ScoringError
			if !errors.As(err, &serr) {
				return "", "", nil, err
			}
			zap.L().Error("scoring failed", zap.Error(err))
			scoreErrors = scoreFailedMsg
			scores = nil
		}
	}

	res[results.KeyScoreStatus] = status
	res[results.KeyScoreErrors] = scoreErrors
	for name, value := range scores {
		res[name] = value
	}
	if err := results.Write(outputFile, res); err != nil {
		return "", "", nil, err
	}

	return status, scoreErrors, scores, nil
}
