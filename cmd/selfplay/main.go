package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"othello_ai/internal/adapters"
	"othello_ai/internal/bootstrap"
	matchdomain "othello_ai/internal/domain/match"
	repo "othello_ai/internal/repository"
	"othello_ai/internal/usecase/match"
	"othello_ai/internal/usecase/search"
)

type options struct {
	configPath string
	persist    bool
	show       string
	latest     int64
}

// needsMongo reports whether the run reads or writes stored standings.
func (o options) needsMongo() bool {
	return o.persist || o.latest > 0 || o.show != ""
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("selfplay", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", ".env", "path to the env file")
	fs.BoolVar(&o.persist, "persist", false, "store the standings in MongoDB")
	fs.StringVar(&o.show, "show", "", "print the stored tournament with this id and exit")
	fs.Int64Var(&o.latest, "latest", 0, "print the n most recent stored tournaments and exit")
	err := fs.Parse(args)
	return o, err
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, err := bootstrap.Setup(opts.configPath)
	if err != nil {
		bootstrap.NewLogger(false).Errorf("failed to setup configuration: %v", err)
		os.Exit(1)
	}
	logger := bootstrap.NewLogger(cfg.LogDevelopment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store match.StandingsStore
	if opts.needsMongo() {
		mongoAdapter := adapters.NewAdapterMongo(cfg, logger)
		if err := mongoAdapter.Init(ctx); err != nil {
			logger.Fatalf("failed to initialize mongodb: %v", err)
		}
		defer mongoAdapter.Close(context.Background())
		standings := repo.NewStandingsRepository(logger, mongoAdapter.Database)

		if opts.show != "" {
			report, err := standings.GetReport(ctx, opts.show)
			if err != nil {
				logger.Fatalf("failed to load tournament: %v", err)
			}
			printReport(logger, report)
			return
		}
		if opts.latest > 0 {
			reports, err := standings.LatestReports(ctx, opts.latest)
			if err != nil {
				logger.Fatalf("failed to load tournaments: %v", err)
			}
			for _, r := range reports {
				printReport(logger, r)
			}
			return
		}
		store = standings
	}

	engine := search.NewEngine(cfg.SearchOptions(), logger)
	shallow := search.Options{StartDepth: 1, MaxDepth: 3, SafetyMargin: cfg.SearchOptions().SafetyMargin}
	entrants := []match.Strategy{
		match.NewSearchStrategy("iterative", engine, cfg.TimeBudget()),
		match.NewSearchStrategy("iterative-half", engine, cfg.TimeBudget()/2),
		match.NewFixedDepthStrategy("depth3", search.NewEngine(shallow, logger), 3),
		match.NewGreedyStrategy("greedy"),
	}

	started := time.Now()
	report, err := match.NewTournament(logger, store, cfg.SelfplayWorkers).Run(ctx, entrants, cfg.SelfplayRounds)
	if err != nil {
		logger.Fatalf("tournament failed: %v", err)
	}
	printReport(logger, report)
	logger.Infof("tournament %s took %v", report.ID, time.Since(started))
}

func printReport(logger *zap.SugaredLogger, report matchdomain.Report) {
	logger.Infof("tournament %s started %s, %d rounds", report.ID, report.StartedAt.Format(time.RFC3339), report.Rounds)
	for i, s := range report.Standings {
		logger.Infof("%d. %-16s wins %.1f of %d, tile share %.3f, forfeits %d", i+1, s.Name, s.Wins, s.Games, s.TileShare, s.Forfeits)
	}
}
