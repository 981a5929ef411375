// cmd/filmorate/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"filmorate/internal/api"
	"filmorate/internal/service"
	"filmorate/internal/store"
)

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("FILMORATE_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func connectToDB(dbURL string, logger *slog.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	logger.Info("Connected to PostgreSQL database.")
	return db, nil
}

// buildStorages wires either the PostgreSQL stores or the in-memory ones,
// depending on whether FILMORATE_DATABASE_URL is set.
func buildStorages(logger *slog.Logger) (store.FilmStorage, store.UserStorage, store.GenreStorage, store.MpaStorage, func(), error) {
	dbURL := os.Getenv("FILMORATE_DATABASE_URL")
	if dbURL == "" {
		logger.Warn("FILMORATE_DATABASE_URL not set, using in-memory storage. Data will not survive a restart.")
		genres := store.NewMemoryGenreStore()
		mpa := store.NewMemoryMpaStore()
		films := store.NewMemoryFilmStore(genres, mpa, logger)
		users := store.NewMemoryUserStore(logger)
		return films, users, genres, mpa, func() {}, nil
	}

	db, err := connectToDB(dbURL, logger)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	closer := func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close PostgreSQL connection", slog.String("error", err.Error()))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.EnsureSchema(ctx, db, logger); err != nil {
		closer()
		return nil, nil, nil, nil, nil, err
	}

	genres := store.NewPostgresGenreStore(db, logger)
	mpa := store.NewPostgresMpaStore(db, logger)
	filmGenres := store.NewPostgresFilmGenreStore(db, logger)
	likes := store.NewPostgresLikeStore(db, logger)
	friendships := store.NewPostgresFriendshipStore(db, logger)
	films := store.NewPostgresFilmStore(db, genres, mpa, filmGenres, likes, logger)
	users := store.NewPostgresUserStore(db, friendships, logger)
	return films, users, genres, mpa, closer, nil
}

func main() {
	logger := newLogger()
	validate := validator.New()

	httpPort := os.Getenv("FILMORATE_HTTP_PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	films, users, genres, mpa, closeStorage, err := buildStorages(logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStorage()

	filmService := service.NewFilmService(films, users, logger)
	userService := service.NewUserService(users, logger)

	handler := api.NewHandler(filmService, userService, genres, mpa, logger, validate)
	router := api.NewRouter(handler)

	srv := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", slog.String("port", httpPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server ListenAndServe() failed", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}
}
