package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"othello_ai/internal/adapters"
	"othello_ai/internal/bootstrap"
	engineDelivery "othello_ai/internal/delivery/engine"
	sessionDelivery "othello_ai/internal/delivery/session"
	ownMiddleware "othello_ai/internal/middleware"
	repo "othello_ai/internal/repository"
	engineuc "othello_ai/internal/usecase/engine"
	"othello_ai/internal/usecase/search"
	sessionuc "othello_ai/internal/usecase/session"
	engineRPC "othello_ai/microservices/usecase"
)

type mainDeliveryHandler struct {
	engine  *engineDelivery.EngineHandler
	session *sessionDelivery.SessionHandler
}

func main() {
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		bootstrap.NewLogger(false).Errorf("failed to setup configuration: %v", err)
		return
	}
	logger := bootstrap.NewLogger(cfg.LogDevelopment)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	redisAdapter := adapters.NewAdapterRedis(cfg, logger)
	if err := redisAdapter.Init(ctx); err != nil {
		logger.Fatalw("failed to initialize redis", zap.Error(err))
	}
	defer redisAdapter.Close(ctx)

	engine := search.NewEngine(cfg.SearchOptions(), logger)

	var engineService engineDelivery.EngineService = engineuc.NewEngineUseCase(engine, cfg.TimeBudget(), logger)
	if cfg.EngineGrpcAddr != "" {
		conn, err := grpc.NewClient(cfg.EngineGrpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			logger.Fatalw("failed to dial engine", zap.Error(err))
		}
		defer conn.Close()
		engineService = engineRPC.NewEngineClient(conn)
		logger.Infof("engine requests go to %s", cfg.EngineGrpcAddr)
	}

	sessions := sessionuc.NewSessionUseCase(
		repo.NewSessionRedisStorage(redisAdapter.GetClient(), cfg.SessionTTL(), logger),
		engine, cfg.TimeBudget(), logger,
	)
	handlers := &mainDeliveryHandler{
		engine:  engineDelivery.NewEngineHandler(*cfg, logger, engineService),
		session: sessionDelivery.NewSessionHandler(*cfg, logger, sessions),
	}

	r := chi.NewRouter()
	handlers.Router(r, cfg.IsLocalCors)

	server := &http.Server{Addr: cfg.ServerPort, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Infof("server is running on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("failed to start server", zap.Error(err))
	}
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/engine/move", h.engine.HandleChooseMove)
	r.Post("/engine/evaluate", h.engine.HandleEvaluate)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.session.HandleCreate)
		r.Get("/{id}", h.session.HandleGet)
		r.Delete("/{id}", h.session.HandleDelete)
		r.Post("/{id}/moves", h.session.HandlePlay)
		r.Get("/{id}/ws", h.session.HandleStream)
	})
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("received shutdown signal")
	cancelFunc()
}
