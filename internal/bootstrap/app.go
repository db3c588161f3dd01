package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"puente-backend/internal/catalog"
	"puente-backend/internal/generation"
	openai "puente-backend/internal/generation/openai"
	"puente-backend/internal/generation/remote"
	"puente-backend/internal/preferences"
	"puente-backend/internal/render"
	"puente-backend/internal/shared/config"
	"puente-backend/internal/shared/server"
	"puente-backend/internal/shared/server/middleware"
	"puente-backend/internal/shared/storage/db"
	"puente-backend/internal/web"
	"puente-backend/internal/workspace"
)

// App holds shared dependencies.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Catalog     catalog.Catalog
	Generator   generation.Generator
	Preferences preferences.Store
	Workspaces  *workspace.Registry
	WebHandler  *web.Handler
}

// Build prepares dependencies and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}

	gen, err := BuildGenerator(cfg)
	if err != nil {
		return nil, err
	}

	prefs, sqlDB, err := buildPreferences(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		Catalog:     cat,
		Generator:   gen,
		Preferences: prefs,
		Workspaces:  workspace.NewRegistry(WorkspaceFactory(cat, gen)),
	}
	app.WebHandler = web.NewHandler(app.Workspaces, app.Preferences, app.Catalog)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:  app.Config,
		Web:     app.WebHandler,
		Limiter: middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases the database, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// WorkspaceFactory builds workspaces that share one renderer and generator.
func WorkspaceFactory(cat catalog.Catalog, gen generation.Generator) workspace.Factory {
	renderer := render.NewMarkdown()
	return func(clientID string) *workspace.Workspace {
		return workspace.New(workspace.Options{
			ID:        clientID,
			Catalog:   cat,
			Generator: gen,
			Renderer:  renderer,
		})
	}
}

// BuildGenerator selects the generation adapter named by cfg.Generator.
func BuildGenerator(cfg config.Config) (generation.Generator, error) {
	switch cfg.Generator {
	case "placeholder":
		return generation.Placeholder{}, nil
	case "openai":
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.OpenAIBaseURL)
		if err != nil {
			if config.IsDevLike(cfg.Env) {
				log.Printf("bootstrap: openai generator unavailable; using placeholder: %v", err)
				return generation.Placeholder{}, nil
			}
			return nil, err
		}
		return client, nil
	default:
		client, err := remote.NewClient(cfg.GenerationAPIURL, cfg.GenerationTimeout)
		if err != nil {
			if config.IsDevLike(cfg.Env) {
				log.Printf("bootstrap: GENERATION_API_URL invalid; generation disabled: %v", err)
				return generation.Unconfigured{}, nil
			}
			return nil, err
		}
		return client, nil
	}
}

func buildPreferences(ctx context.Context, cfg config.Config) (preferences.Store, *sql.DB, error) {
	switch cfg.PrefsStore {
	case "postgres":
		sqlDB, err := openMigrated(ctx, cfg, db.DialectPostgres)
		if err != nil {
			return degrade(cfg, err)
		}
		return preferences.NewPGStore(sqlDB), sqlDB, nil
	case "sqlite":
		sqlDB, err := openMigrated(ctx, cfg, db.DialectSQLite)
		if err != nil {
			return degrade(cfg, err)
		}
		return preferences.NewSQLiteStore(sqlDB), sqlDB, nil
	default:
		log.Printf("bootstrap: using in-memory preference store")
		return preferences.NewMemoryStore(), nil, nil
	}
}

func openMigrated(ctx context.Context, cfg config.Config, dialect string) (*sql.DB, error) {
	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	var (
		sqlDB *sql.DB
		err   error
	)
	switch dialect {
	case db.DialectSQLite:
		sqlDB, err = db.OpenSQLite(ctx, cfg.SQLitePath, opts)
	default:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres preference store")
		}
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB, dialect); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

// degrade falls back to memory in dev-like environments and fails otherwise.
func degrade(cfg config.Config, err error) (preferences.Store, *sql.DB, error) {
	if config.IsDevLike(cfg.Env) {
		log.Printf("bootstrap: preference store unavailable; using in-memory store: %v", err)
		return preferences.NewMemoryStore(), nil, nil
	}
	return nil, nil, err
}
