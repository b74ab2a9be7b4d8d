package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/llm"
	"resume-builder/internal/llm/gemini"
	"resume-builder/internal/resumes"
	"resume-builder/internal/review"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

var newGeminiClient = gemini.NewClient

// App holds shared dependencies and the wired router.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Tokens         *auth.Issuer
	Reviewer       *review.Normalizer
	UsersRepo      users.Repo
	ResumesRepo    resumes.Repo
	UsersService   *users.Service
	ResumesService *resumes.Service
	UsersHandler   *users.Handler
	ResumesHandler *resumes.Handler
}

// Build prepares dependencies and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	secret, err := auth.ResolveSecret(cfg.Env, cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewIssuer(secret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := buildLLM(ctx, cfg)

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Tokens:   tokens,
		Reviewer: review.NewNormalizer(client),
	}
	buildServices(app)

	var pinger health.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Verifier:      tokens,
		Health:        health.NewService(pinger),
		UserHandler:   app.UsersHandler,
		ResumeHandler: app.ResumesHandler,
	})

	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			closeDB(sqlDB)
			sqlDB = nil
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_storage", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// buildLLM returns nil when no usable Gemini client can be made; reviews then
// fail with a toast while CRUD keeps working.
func buildLLM(ctx context.Context, cfg config.Config) llm.Client {
	if cfg.GeminiAPIKey == "" {
		telemetry.Warn("bootstrap.ai_review_disabled", map[string]any{"reason": "GEMINI_API_KEY empty"})
		return nil
	}
	client, err := newGeminiClient(ctx, cfg.GeminiAPIKey, gemini.Options{
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
	})
	if err != nil {
		telemetry.Warn("bootstrap.ai_review_disabled", map[string]any{"error": err.Error()})
		return nil
	}
	telemetry.Info("bootstrap.ai_review_enabled", map[string]any{"model": client.Model()})
	return client
}

func buildServices(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
	}

	app.UsersService = users.NewService(app.UsersRepo, app.Tokens, users.NewPasswordHasher(app.Config.BcryptCost))
	app.ResumesService = resumes.NewService(app.ResumesRepo, app.Reviewer, app.Config.DefaultResumeTemplate)
	app.UsersHandler = users.NewHandler(app.UsersService)
	app.ResumesHandler = resumes.NewHandler(app.ResumesService)
}

func closeDB(sqlDB *sql.DB) {
	if sqlDB == nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		telemetry.Warn("bootstrap.db_close_failed", map[string]any{"error": err.Error()})
	}
}
