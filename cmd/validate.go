package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/challenge-workflows/eval-cli/internal/dataset"
	"github.com/challenge-workflows/eval-cli/internal/evaluate"
	"github.com/challenge-workflows/eval-cli/internal/model"
	"github.com/challenge-workflows/eval-cli/internal/results"
	"github.com/challenge-workflows/eval-cli/internal/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a predictions file in preparation for scoring",
	Long: `Validate checks a predictions file against the goldstandard:
expected columns and types, exactly one prediction per goldstandard ID,
no unknown IDs, no null values, and values inside the configured range.

The result is written to the output JSON file and the final status
(VALIDATED or INVALID) is printed to stdout for the workflow to consume.`,
	RunE: runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.StringP("predictions_file", "p", "", "path to the prediction file")
	f.StringP("goldstandard_folder", "g", "", "path to the folder containing the goldstandard file")
	f.StringP("output_file", "o", "results.json", "path to save the results JSON file")
	_ = validateCmd.MarkFlagRequired("predictions_file")
	_ = validateCmd.MarkFlagRequired("goldstandard_folder")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	predFile, _ := cmd.Flags().GetString("predictions_file")
	goldFolder, _ := cmd.Flags().GetString("goldstandard_folder")
	outputFile, _ := cmd.Flags().GetString("output_file")

	s, err := loadSchema(cfg)
	if err != nil {
		return err
	}

	status, reasons, err := executeValidate(predFile, goldFolder, outputFile, s)
	if err != nil {
		return err
	}

	recordHistory(cmd.Context(), cfg, &model.Evaluation{
		Kind:            model.KindValidate,
		PredictionsFile: predFile,
		Status:          status,
		Errors:          reasons,
	})

	fmt.Println(status)
	return nil
}

// executeValidate runs validation and writes the results file, returning
// the final status and the (truncated) error report.
func executeValidate(predFile, goldFolder, outputFile string, s *schema.Schema) (string, string, error) {
	var msgs []string

	// The workflow renames submissions it has already rejected upstream so
	// the path contains INVALID; the file body is the rejection reason.
	if strings.Contains(predFile, "INVALID") {
		data, err := os.ReadFile(predFile)
		if err != nil {
			return "", "", eris.Wrapf(err, "validate: read %s", predFile)
		}
		msgs = []string{string(data)}
	} else {
		goldFile, err := dataset.GoldstandardFile(goldFolder)
		if err != nil {
			return "", "", err
		}
		msgs, err = evaluate.Validate(goldFile, predFile, s)
		if err != nil {
			return "", "", err
		}
	}

	invalidReasons := results.Truncate(strings.Join(msgs, "\n"))
	status := results.StatusValidated
	if invalidReasons != "" {
		status = results.StatusInvalid
		zap.L().Info("validation failed", zap.Int("errors", len(msgs)))
	}

	res := map[string]any{
		results.KeyValidationStatus: status,
		results.KeyValidationErrors: invalidReasons,
	}
	if err := results.Write(outputFile, res); err != nil {
		return "", "", err
	}

	return status, invalidReasons, nil
}
