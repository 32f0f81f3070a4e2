package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amylase/rime-judge/internal/common/cache"
	"github.com/amylase/rime-judge/internal/common/db"
	"github.com/amylase/rime-judge/internal/contest"
	"github.com/amylase/rime-judge/internal/contest/queue"
	"github.com/amylase/rime-judge/internal/contest/repository"
	"github.com/amylase/rime-judge/internal/contest/store"
	"github.com/amylase/rime-judge/internal/contest/worker"
	"github.com/amylase/rime-judge/internal/project"
	"github.com/amylase/rime-judge/internal/web"
	"github.com/amylase/rime-judge/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultConfigPath = "configs/rime_judge.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	window, err := appCfg.Contest.contestWindow()
	if err != nil {
		logger.Fatal(context.Background(), "invalid contest window", zap.Error(err))
	}

	// The project is judged from a cached copy so packaged solutions
	// and judging artifacts survive restarts without touching the
	// pristine project.
	cacheDir := appCfg.Project.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(appCfg.Project.Dir, "contest_cache")
	}
	projectDir, err := project.PrepareCache(appCfg.Project.Dir, cacheDir)
	if err != nil {
		logger.Fatal(context.Background(), "prepare project cache failed", zap.Error(err))
	}
	contestProject := project.New(projectDir)
	runner := project.NewRunner(contestProject, appCfg.Project.RimeBin)
	if err := runner.Build(context.Background()); err != nil {
		logger.Fatal(context.Background(), "build project failed", zap.Error(err))
	}

	mysqlDB, err := db.NewMySQLWithConfig(&appCfg.Database)
	if err != nil {
		logger.Fatal(context.Background(), "init database failed", zap.Error(err))
	}
	defer func() {
		_ = mysqlDB.Close()
	}()
	submissionStore := store.NewMySQLStore(mysqlDB)

	// The status cache is optional; without redis, status polling
	// falls back to the store.
	var statusCache *repository.StatusCache
	if appCfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCacheWithConfig(&appCfg.Redis)
		if err != nil {
			logger.Fatal(context.Background(), "init redis failed", zap.Error(err))
		}
		defer func() {
			_ = redisCache.Close()
		}()
		statusCache = repository.NewStatusCache(redisCache, submissionStore, appCfg.StatusCache.TTL)
	}

	judgeQueue := queue.New(appCfg.Queue.Capacity)
	pool, err := worker.NewPool(worker.Config{
		Store:    submissionStore,
		Queue:    judgeQueue,
		Backend:  runner,
		Reporter: statusReporter(statusCache),
		Workers:  appCfg.Contest.Workers,
	})
	if err != nil {
		logger.Fatal(context.Background(), "init worker pool failed", zap.Error(err))
	}

	orchestrator, err := contest.New(contest.Config{
		Store:    submissionStore,
		Queue:    judgeQueue,
		Pool:     pool,
		Project:  contestProject,
		Reporter: statusReporter(statusCache),
		Window:   window,
	})
	if err != nil {
		logger.Fatal(context.Background(), "init orchestrator failed", zap.Error(err))
	}

	orchestrator.Start(context.Background())
	requeued, err := orchestrator.Requeue(context.Background())
	if err != nil {
		logger.Fatal(context.Background(), "requeue unfinished submissions failed", zap.Error(err))
	}
	logger.Info(context.Background(), "contest engine started",
		zap.Int("workers", appCfg.Contest.Workers),
		zap.Int("requeued", requeued),
		zap.Time("contest_start", window.Start),
		zap.Time("contest_end", window.End))

	gin.SetMode(gin.ReleaseMode)
	controller := web.NewContestController(orchestrator, statusCache)
	httpServer := &http.Server{
		Addr:         appCfg.Server.Addr,
		Handler:      web.NewRouter(controller),
		ReadTimeout:  appCfg.Server.ReadTimeout,
		WriteTimeout: appCfg.Server.WriteTimeout,
		IdleTimeout:  appCfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "http server started", zap.String("addr", appCfg.Server.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "http server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "http server shutdown failed", zap.Error(err))
	}
	orchestrator.Shutdown()
}

// statusReporter avoids handing a typed nil to the worker pool.
func statusReporter(statusCache *repository.StatusCache) worker.StatusReporter {
	if statusCache == nil {
		return nil
	}
	return statusCache
}
