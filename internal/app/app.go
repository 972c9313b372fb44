package app

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/apprende-client/internal/config"
	"github.com/yungbote/apprende-client/internal/data/db"
	apphttp "github.com/yungbote/apprende-client/internal/http"
	"github.com/yungbote/apprende-client/internal/observability"
	"github.com/yungbote/apprende-client/internal/platform/logger"
)

// App is the development course API: storage, services and the gin router.
type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      *config.Config
	Repos    Repos
	Services Services

	store        *db.Service
	otelShutdown func(context.Context) error
}

func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: cfg.Telemetry.ServiceName + "-devapi",
		Environment: cfg.Env,
		Enabled:     cfg.Telemetry.Enabled,
	})
	metrics := observability.Init(log)

	store, err := db.Open(cfg.DevAPI.DatabaseURL, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrateAll(store.DB()); err != nil {
		_ = store.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := store.DB()

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, publicURL(cfg.DevAPI), reposet)
	if err != nil {
		_ = store.Close()
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset, metrics)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		store:        store,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves the API until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("dev api listening", "addr", a.Cfg.DevAPI.Addr, "public_url", publicURL(a.Cfg.DevAPI))
	srv := &apphttp.Server{Engine: a.Router}
	return srv.Run(ctx, a.Cfg.DevAPI.Addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.Log.Warn("close database", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

// publicURL is the base that uploaded file URLs are built on; it falls back to the listen address.
func publicURL(cfg config.DevAPIConfig) string {
	if cfg.PublicURL != "" {
		return cfg.PublicURL
	}
	host, port, err := net.SplitHostPort(cfg.Addr)
	if err != nil {
		return "http://localhost:8000"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + strings.TrimSpace(net.JoinHostPort(host, port))
}
