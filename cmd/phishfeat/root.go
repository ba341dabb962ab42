package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Bahjat/phishguard/internal/domaininfo"
	"github.com/Bahjat/phishguard/internal/features"
	"github.com/Bahjat/phishguard/internal/pageinsight"
	"github.com/Bahjat/phishguard/internal/platform/config"
	"github.com/Bahjat/phishguard/internal/platform/logger"
	"github.com/spf13/cobra"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	format      string
	concurrency int
	logLevel    string
}

func newRootCommand() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "phishfeat",
		Short:         "Extract phishing features from URLs",
		Long:          `Builds the 30-value phishing feature vector for each URL and optionally scores it with a tree-ensemble model.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.format != formatTable && flags.format != formatJSON {
				return fmt.Errorf("unknown --format %q (want %s or %s)", flags.format, formatTable, formatJSON)
			}
			if flags.concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1, got %d", flags.concurrency)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&flags.format, "format", "o", formatTable, "output format: table or json")
	root.PersistentFlags().IntVarP(&flags.concurrency, "concurrency", "c", 4, "URLs processed in parallel")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (defaults to LOG_LEVEL)")

	root.AddCommand(newExtractCommand(&flags), newPredictCommand(&flags))
	return root
}

// urlArgs requires between one and features.MaxBatch URLs, so a batch is
// never silently truncated.
func urlArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
		return err
	}
	if len(args) > features.MaxBatch {
		return fmt.Errorf("got %d URLs, at most %d per run; split the input", len(args), features.MaxBatch)
	}
	return nil
}

// deps holds what every subcommand builds from the environment.
type deps struct {
	cfg   config.Config
	log   *slog.Logger
	batch *features.Batch
}

func newDeps(flags *globalFlags) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	// stdout carries only results.
	log := logger.NewWithWriter(os.Stderr, level)

	fetcher := pageinsight.NewHTTPClient(pageinsight.ClientOptions{
		Timeout:      cfg.PageFetchTimeout,
		AllowPrivate: cfg.AllowPrivateTargets,
	})
	extractor := features.NewExtractor(
		pageinsight.NewEngine(fetcher),
		domaininfo.NewWHOISClient(cfg.WHOISTimeout, cfg.WHOISRateLimit),
		domaininfo.NewResolver(cfg.DNSTimeout),
		features.WithLogger(log),
	)

	return &deps{
		cfg:   cfg,
		log:   log,
		batch: features.NewBatch(extractor, flags.concurrency),
	}, nil
}
