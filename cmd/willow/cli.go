package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/Gobusters/ectologger"
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/willow/config"
	"github.com/Ramsey-B/willow/internal/repositories/analytics"
	"github.com/Ramsey-B/willow/internal/repositories/session"
	"github.com/Ramsey-B/willow/pkg/catalog"
	"github.com/Ramsey-B/willow/pkg/logging"
	"github.com/Ramsey-B/willow/pkg/matching"
	"github.com/Ramsey-B/willow/pkg/rebirth"
	"github.com/Ramsey-B/willow/pkg/startup"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// CLI holds the state shared by every command.
type CLI struct {
	envFile    string
	driver     string
	dataDir    string
	output     string
	locale     string
	seed       uint64
	dumpMetric bool

	cfg     *config.Config
	logger  ectologger.Logger
	startup *startup.Startup
	storage *storageDependency
	service *rebirth.Service
}

// NewRootCommand creates the root cobra command
func NewRootCommand() *cobra.Command {
	cli := &CLI{}

	rootCmd := &cobra.Command{
		Use:   "willow",
		Short: "Past-life persona matching from MBTI, birth year and a short questionnaire",
		Long: `willow matches you to a historical persona.

It combines your MBTI type, the Five-Element sign of your birth year and the
behavioral tags of an eight question questionnaire, then keeps the result in
a local session history.

Examples:
  willow catalog questions
  willow match --mbti INTJ --birth 1996-05-20 --answer q1_social=a --answer q8_pace=2
  willow history list
  willow history export rebirth_1717000000000_abc123def`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initialize(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return cli.shutdown(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cli.envFile, "env-file", ".env", "Optional dotenv file")
	rootCmd.PersistentFlags().StringVar(&cli.driver, "storage", "", "Storage driver override: memory, file or redis")
	rootCmd.PersistentFlags().StringVar(&cli.dataDir, "data-dir", "", "Directory of the file storage driver")
	rootCmd.PersistentFlags().StringVarP(&cli.output, "output", "o", outputText, "Output format: text or json")
	rootCmd.PersistentFlags().StringVar(&cli.locale, "locale", "en", "Persona text locale: en or zh")
	rootCmd.PersistentFlags().Uint64Var(&cli.seed, "seed", 0, "Seed for persona selection; 0 picks a random seed")
	rootCmd.PersistentFlags().BoolVar(&cli.dumpMetric, "metrics", false, "Print collected metrics to stderr on exit")

	rootCmd.AddCommand(
		newElementCommand(cli),
		newProfileCommand(cli),
		newRankCommand(cli),
		newMatchCommand(cli),
		newSessionCommand(cli),
		newHistoryCommand(cli),
		newCatalogCommand(cli),
		newAnalyticsCommand(cli),
		newStorageCommand(cli),
	)

	return rootCmd
}

func (cli *CLI) initialize(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cli.output != outputText && cli.output != outputJSON {
		return fmt.Errorf("unknown output format %q", cli.output)
	}

	cfg, err := config.Load(cli.envFile)
	if err != nil {
		return err
	}
	if cli.driver != "" {
		cfg.StorageDriver = cli.driver
	}
	if cli.dataDir != "" {
		cfg.StorageFileDir = cli.dataDir
	}
	cli.cfg = cfg

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		return err
	}
	cli.logger = logger

	cli.storage = newStorageDependency(cfg, logger)
	cli.startup = startup.NewStartup(logger)
	cli.startup.AddDependency(newTracingDependency(cfg, os.Stderr))
	cli.startup.AddDependency(cli.storage)
	if err := cli.startup.Start(ctx); err != nil {
		return err
	}

	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	engineConfig := matching.DefaultConfig()
	engineConfig.TopCandidates = cfg.MatchTopCandidates
	engineConfig.RandomPool = cfg.MatchRandomPool

	engineOpts := []matching.Option{matching.WithMetrics(cfg.MetricsEnabled)}
	if cli.seed != 0 {
		engineOpts = append(engineOpts, matching.WithRandom(rand.New(rand.NewPCG(cli.seed, cli.seed))))
	}

	store := cli.storage.Store()
	cli.service = rebirth.NewService(
		logger,
		cat,
		matching.NewEngine(logger, cat, engineConfig, engineOpts...),
		store,
		session.NewRepository(store, logger,
			session.WithHistoryLimit(cfg.HistoryLimit),
			session.WithMetrics(cfg.MetricsEnabled),
		),
		analytics.NewRepository(store, logger,
			analytics.WithEnabled(cfg.AnalyticsEnabled),
			analytics.WithMaxEvents(cfg.AnalyticsMaxEvents),
			analytics.WithMetrics(cfg.MetricsEnabled),
		),
	)
	return nil
}

func (cli *CLI) shutdown(cmd *cobra.Command) error {
	if cli.dumpMetric {
		if err := writeMetrics(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}
	if cli.startup == nil {
		return nil
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return cli.startup.Stop(ctx)
}
