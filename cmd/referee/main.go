package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"othello_ai/internal/bootstrap"
	"othello_ai/internal/referee"
	"othello_ai/internal/usecase/search"
)

func main() {
	cfgPath := flag.String("config", ".env", "path to the env file")
	flag.Parse()

	cfg, err := bootstrap.Setup(*cfgPath)
	if err != nil {
		bootstrap.NewLogger(false).Errorf("failed to setup configuration: %v", err)
		os.Exit(1)
	}
	logger := bootstrap.NewLogger(cfg.LogDevelopment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := search.NewEngine(cfg.SearchOptions(), logger)
	client := referee.NewClient(cfg.ProgramName, cfg.RefereeDir, cfg.TimeBudget(), engine, logger)

	outcome, err := client.Run(ctx)
	if err != nil {
		logger.Errorf("referee session failed: %v", err)
		os.Exit(1)
	}
	logger.Infow("match finished",
		"result", outcome.Result.String(),
		"role", outcome.Role.String(),
		"tiles", outcome.PlayerTiles,
		"opponent_tiles", outcome.OpponentTiles,
		"forfeit", outcome.Forfeit,
		"complete", outcome.Complete,
	)
}
