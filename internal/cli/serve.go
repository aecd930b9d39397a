package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/offermaster/auth"
	"github.com/diewo77/offermaster/internal/db"
	"github.com/diewo77/offermaster/internal/guard"
	"github.com/diewo77/offermaster/internal/logger"
	"github.com/diewo77/offermaster/internal/mailer"
	"github.com/diewo77/offermaster/internal/metrics"
	"github.com/diewo77/offermaster/internal/server"
	"github.com/diewo77/offermaster/internal/storage"
)

func (e *env) logger() (*zap.Logger, error) {
	return logger.New(e.cfg.App.Dev, e.cfg.App.LogLevel)
}

func (e *env) connect(log *zap.Logger) (*gorm.DB, error) {
	conn, err := db.Connect(e.cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}

func newMigrateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := e.logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			conn, err := e.connect(log)
			if err != nil {
				return err
			}
			if err := db.Migrate(conn, e.cfg.Database, true); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			log.Info("migrations completed")
			return nil
		},
	}
}

func newSeedCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the starter catalog and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := e.logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			conn, err := e.connect(log)
			if err != nil {
				return err
			}
			if err := db.Seed(conn); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			log.Info("seeding completed")
			return nil
		},
	}
}

func newServeCommand(e *env) *cobra.Command {
	var migrateOnly, seedOnly bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := e.logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			conn, err := e.connect(log)
			if err != nil {
				return err
			}
			if migrateOnly || e.cfg.App.Migrations {
				if err := db.Migrate(conn, e.cfg.Database, true); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				log.Info("migrations completed")
				if migrateOnly {
					return nil
				}
			}
			if seedOnly || e.cfg.App.Seed {
				if err := db.Seed(conn); err != nil {
					return fmt.Errorf("seeding failed: %w", err)
				}
				log.Info("seeding completed")
				if seedOnly {
					return nil
				}
			}
			return e.serve(cmd.Context(), conn, log)
		},
	}
	cmd.Flags().BoolVar(&migrateOnly, "migrate-only", false, "run DB migrations and exit")
	cmd.Flags().BoolVar(&seedOnly, "seed-only", false, "run DB seed and exit")
	return cmd
}

func (e *env) store(ctx context.Context, log *zap.Logger) (storage.Store, error) {
	sc := e.cfg.Storage
	if sc.Endpoint == "" {
		log.Warn("no object storage configured, keeping uploads in memory")
		return storage.NewMemory(e.cfg.App.APIURL + "/files"), nil
	}
	m, err := storage.NewMinio(sc)
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	if err := m.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("object storage bucket: %w", err)
	}
	return m, nil
}

func (e *env) mailer(log *zap.Logger) mailer.Sender {
	if e.cfg.Mail.Host == "" {
		log.Warn("no SMTP host configured, mails are only logged")
		return mailer.Log{}
	}
	return mailer.NewSMTP(e.cfg.Mail)
}

func (e *env) locker(ctx context.Context, log *zap.Logger) (guard.Locker, func(), error) {
	rc := e.cfg.Redis
	if rc.Addr == "" {
		return guard.NewKeyed(), func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: rc.Addr, Password: rc.Password, DB: rc.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis: %w", err)
	}
	log.Info("submission guard backed by redis", zap.String("addr", rc.Addr))
	return guard.NewRedisGuard(rdb, "offermaster:", 30*time.Second), func() { _ = rdb.Close() }, nil
}

func (e *env) serve(ctx context.Context, conn *gorm.DB, log *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := e.store(ctx, log)
	if err != nil {
		return err
	}
	lock, closeLock, err := e.locker(ctx, log)
	if err != nil {
		return err
	}
	defer closeLock()

	handler := server.New(server.Deps{
		DB:          conn,
		Log:         log,
		Metrics:     metrics.NewRegistry(),
		Tokens:      auth.NewTokens(e.cfg.Auth.JWTSecret, e.cfg.Auth.TokenTTL),
		Store:       store,
		Mail:        e.mailer(log),
		Guard:       lock,
		FrontendURL: e.cfg.App.FrontendURL,
		ResetTTL:    e.cfg.Auth.ResetTTL,
	})

	sc := e.cfg.Server
	srv := &http.Server{
		Addr:         ":" + sc.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(sc.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(sc.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(sc.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", sc.Port), zap.Bool("dev", e.cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	log.Info("server stopped gracefully")
	return nil
}
