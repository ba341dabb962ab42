package main

import (
	"github.com/spf13/cobra"
)

func newExtractCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "extract URL...",
		Short: "Print the feature vector of each URL",
		Args:  urlArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps(flags)
			if err != nil {
				return err
			}

			results := d.batch.ExtractAll(cmd.Context(), args)
			d.log.Info("extraction complete", "urls", len(results))

			return renderVectors(cmd.OutOrStdout(), flags.format, results)
		},
	}
}
