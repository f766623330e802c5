package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	_ "polling-backend/docs"
	"polling-backend/internal/cache"
	"polling-backend/internal/config"
	"polling-backend/internal/domain/auth"
	"polling-backend/internal/domain/question"
	"polling-backend/internal/domain/report"
	"polling-backend/internal/domain/response"
	api "polling-backend/internal/http"
	"polling-backend/internal/metrics"
	"polling-backend/internal/platform/database"
	"polling-backend/internal/repository/mongodb"
	"polling-backend/internal/repository/postgres"
	"polling-backend/internal/worker"
)

type repositories struct {
	questions question.Repository
	responses response.Repository
	reports   report.Repository
	passwords auth.Repository
	ping      api.PingFunc
	close     func()
}

// @title           Polling API
// @version         1.0
// @description     Anonymous polls with demographic breakdowns
// @BasePath        /
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	api.SetLogger(logger)
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger, openStore)
}

type storeOpener func(ctx context.Context, cfg config.Config) (*repositories, error)

// serve runs the server until ctx is done. Everything opened here is closed
// before it returns, on error paths too.
func serve(ctx context.Context, cfg config.Config, logger *slog.Logger, open storeOpener) error {
	repos, err := open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect %s store: %w", cfg.StoreDriver, err)
	}
	defer repos.close()

	var reportCache report.Cache
	if cfg.RedisAddr != "" {
		rdb, err := database.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		reportCache = cache.NewRedis(rdb, cfg.ReportCacheTTL)
		logger.Info("report cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.ReportCacheTTL)
	}

	questionSvc := question.NewService(repos.questions)
	reportSvc := report.NewService(repos.questions, repos.reports, reportCache)
	responseSvc := response.NewService(repos.responses, reportSvc)
	authSvc := auth.NewService(repos.passwords)

	responseCh := make(chan worker.ResponseEvent, 100)
	responseWorker := worker.NewResponseWorker(responseCh)

	router := api.NewRouter(questionSvc, responseSvc, reportSvc, authSvc, api.Options{
		ResponseCh:      responseCh,
		Ping:            repos.ping,
		ClientBuildPath: cfg.ClientBuildPath,
		VotesPerMinute:  cfg.VoteRatePerMin,
		VoteBurst:       cfg.VoteBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go responseWorker.Run(ctx)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var listenErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case listenErr = <-serveErr:
		logger.Error("listen error", "error", listenErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
	return listenErr
}

func openStore(ctx context.Context, cfg config.Config) (*repositories, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.DB_DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.CreateSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return postgresRepositories(db), nil
	default:
		client, err := database.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDB)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return mongoRepositories(client, db), nil
	}
}

func postgresRepositories(db *sql.DB) *repositories {
	return &repositories{
		questions: postgres.NewQuestionRepo(db),
		responses: postgres.NewResponseRepo(db),
		reports:   postgres.NewReportRepo(db),
		passwords: postgres.NewPasswordRepo(db),
		ping:      db.PingContext,
		close:     func() { _ = db.Close() },
	}
}

func mongoRepositories(client *mongo.Client, db *mongo.Database) *repositories {
	return &repositories{
		questions: mongodb.NewQuestionRepo(db),
		responses: mongodb.NewResponseRepo(db),
		reports:   mongodb.NewReportRepo(db),
		passwords: mongodb.NewPasswordRepo(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		},
	}
}
