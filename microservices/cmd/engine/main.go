package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"othello_ai/internal/bootstrap"
	engineuc "othello_ai/internal/usecase/engine"
	"othello_ai/internal/usecase/search"
	"othello_ai/microservices/usecase"
)

func main() {
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		bootstrap.NewLogger(false).Errorf("failed to setup configuration: %v", err)
		return
	}
	logger := bootstrap.NewLogger(cfg.LogDevelopment)
	defer logger.Sync()

	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		logger.Fatalf("cant listen port %s: %v", cfg.GrpcPort, err)
	}

	engine := search.NewEngine(cfg.SearchOptions(), logger)
	server := grpc.NewServer()
	usecase.RegisterEngineServer(server, usecase.NewEngineRPC(engineuc.NewEngineUseCase(engine, cfg.TimeBudget(), logger), logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("stopping engine server")
		server.GracefulStop()
	}()

	logger.Infof("engine server listening at %s", cfg.GrpcPort)
	if err := server.Serve(lis); err != nil {
		logger.Fatalf("serve: %v", err)
	}
}
