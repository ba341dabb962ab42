package main

import (
	"fmt"

	"github.com/Bahjat/phishguard/internal/classifier"
	"github.com/spf13/cobra"
)

type prediction struct {
	URL   string           `json:"url"`
	Label classifier.Label `json:"prediction"`
	Name  string           `json:"label"`
}

func newPredictCommand(flags *globalFlags) *cobra.Command {
	var modelPath string

	cmd := &cobra.Command{
		Use:   "predict URL...",
		Short: "Score each URL as benign (0) or phishing (1)",
		Args:  urlArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(flags)
			if err != nil {
				return err
			}
			if modelPath == "" {
				modelPath = d.cfg.ModelPath
			}

			model, err := classifier.Load(modelPath)
			if err != nil {
				return err
			}

			results := d.batch.ExtractAll(cmd.Context(), args)

			preds := make([]prediction, 0, len(results))
			for _, r := range results {
				label, err := model.Predict(r.Vector.Slice())
				if err != nil {
					return fmt.Errorf("score %s: %w", r.URL, err)
				}
				preds = append(preds, prediction{URL: r.URL, Label: label, Name: label.String()})
			}

			return renderPredictions(cmd.OutOrStdout(), flags.format, preds)
		},
	}

	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "path to the model JSON (defaults to MODEL_PATH)")
	return cmd
}
