package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/felttable/blackjack/internal/config"
	"github.com/felttable/blackjack/internal/logging"
	"github.com/felttable/blackjack/internal/server"
	"github.com/felttable/blackjack/pkg/games/blackjack"
	"github.com/felttable/blackjack/pkg/repositories/results"
	"github.com/felttable/blackjack/pkg/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("could not load configuration")
	}

	logging.Setup(cfg.LogLevel)

	repo := buildRepository(cfg)
	defer repo.Close()

	manager := blackjack.NewManager(repo, blackjack.ManagerConfig{
		Stake:         cfg.DefaultStake,
		StartingChips: cfg.StartingChips,
		MaxPlayers:    cfg.MaxPlayers,
		IdleTTL:       cfg.SessionTTL,
	})

	sched := scheduler.NewScheduler()
	sched.AddTask("reap-idle-sessions", cfg.ReapInterval, manager.CleanupIdle)
	sched.Start(context.Background())
	defer sched.Stop()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(manager).Handler(),
	}

	go func() {
		logrus.WithField("addr", cfg.ListenAddr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logrus.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("shutdown failed")
	}
}

// buildRepository picks the results backend from the configuration, falling
// back to memory when a persistent backend cannot be opened
func buildRepository(cfg *config.Config) results.Repository {
	switch cfg.Storage {
	case config.StorageSQLite:
		repo, err := results.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			logrus.WithError(err).Warn("could not open SQLite repository, falling back to memory")
			return results.NewMemoryRepository()
		}
		logrus.WithField("path", cfg.SQLitePath).Info("using SQLite results repository")
		return repo

	case config.StorageElasticsearch:
		base, err := results.NewSQLiteRepository(cfg.SQLitePath)
		if err != nil {
			logrus.WithError(err).Warn("could not open SQLite repository, falling back to memory")
			return results.NewMemoryRepository()
		}

		repo, err := results.NewElasticsearchRepository(base, &results.ElasticsearchConfig{
			URL:         cfg.ElasticsearchURL,
			Username:    cfg.ElasticsearchUsername,
			Password:    cfg.ElasticsearchPassword,
			IndexPrefix: cfg.ElasticsearchIndex,
		})
		if err != nil {
			logrus.WithError(err).Warn("could not build Elasticsearch repository, using SQLite only")
			return base
		}
		logrus.WithField("url", cfg.ElasticsearchURL).Info("indexing round results into Elasticsearch")
		return repo

	default:
		logrus.Info("using in-memory results repository (history is lost on restart)")
		return results.NewMemoryRepository()
	}
}
