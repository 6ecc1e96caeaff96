package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/mbaudet/applytrack/internal/ai"
	"github.com/mbaudet/applytrack/internal/api"
	"github.com/mbaudet/applytrack/internal/app"
	"github.com/mbaudet/applytrack/internal/fetch"
	"github.com/mbaudet/applytrack/internal/profile"
	"github.com/mbaudet/applytrack/internal/store"
)

func main() {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var repo store.Repository
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pg, err := store.NewPostgres(dbURL)
		if err != nil {
			slog.Error("failed to connect to store", "error", err)
			os.Exit(1)
		}
		defer pg.Close()

		// Run schema migrations to ensure tables and indexes exist
		workDir, _ := os.Getwd()
		schemaPath := filepath.Join(workDir, "internal", "store", "schema.sql")
		if err := pg.RunMigrations(schemaPath); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		repo = pg
	} else {
		slog.Warn("DATABASE_URL not set, using in-memory store")
		repo = store.NewMemory()
	}

	userProfile := profile.Default()
	if path := os.Getenv("PROFILE_PATH"); path != "" {
		loaded, err := profile.Load(path)
		if err != nil {
			slog.Error("failed to load profile", "path", path, "error", err)
			os.Exit(1)
		}
		userProfile = loaded
	}

	// Auto-detects the provider from ANALYSIS_API_URL / AI_PROVIDER
	aiClient := ai.NewClient(userProfile)
	fetcher := fetch.New(os.Getenv("FETCH_USER_AGENT"))

	service := app.New(repo, aiClient, fetcher, userProfile, logger)
	srv := api.NewServer(repo, service)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "port", port)
	if err := http.ListenAndServe(":"+port, srv.Router()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
