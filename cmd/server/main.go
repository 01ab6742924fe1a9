package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/sessions"

	"studentrecords/internal/auth"
	"studentrecords/internal/config"
	"studentrecords/internal/database"
	"studentrecords/internal/handler"
	"studentrecords/internal/logger"
	"studentrecords/internal/repository"
	"studentrecords/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(serve())
}

// serve runs the server until SIGINT or SIGTERM and returns the exit code.
func serve() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		logger.LogError("database init failed", err)
		return 1
	}
	defer database.Close(db)

	if err := database.MigrateUp(db.DB); err != nil {
		logger.LogError("migration failed", err)
		return 1
	}

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		logger.LogError("session store init failed", err, "backend", cfg.SessionBackend)
		return 1
	}
	defer closeStore()

	userRepo := repository.NewUserRepository(db)
	router := handler.NewRouter(handler.Deps{
		Credentials: auth.NewService(userRepo, 0),
		Students:    repository.NewStudentRepository(db),
		Courses:     repository.NewCourseRepository(db),
		Marks:       repository.NewMarkRepository(db),
		Sessions:    session.NewManager(store),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		logger.LogInfo("server started", "port", cfg.ServerPort, "session_backend", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError("server failed", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.LogInfo("shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogError("graceful shutdown failed", err)
		return 1
	}
	return 0
}

// newSessionStore picks the session backend. The returned func releases
// whatever the store holds open.
func newSessionStore(ctx context.Context, cfg *config.Config) (sessions.Store, func(), error) {
	secret := []byte(cfg.SessionSecret)

	switch cfg.SessionBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		logger.LogInfo("redis connected", "addr", cfg.RedisAddr)
		return session.NewRedisStore(client, cfg.SessionMaxAge, secret), func() { client.Close() }, nil
	case "cookie", "":
		return session.NewCookieStore(secret, cfg.SessionMaxAge), func() {}, nil
	default:
		return nil, nil, errors.New("unknown session backend " + cfg.SessionBackend)
	}
}
