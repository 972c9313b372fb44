package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yungbote/apprende-client/internal/clients/courseapi"
	"github.com/yungbote/apprende-client/internal/config"
	"github.com/yungbote/apprende-client/internal/data/localstore"
	"github.com/yungbote/apprende-client/internal/observability"
	"github.com/yungbote/apprende-client/internal/platform/logger"
	"github.com/yungbote/apprende-client/internal/session"
)

// App is the client core shared by the CLI and the terminal views: one session, one API client.
type App struct {
	Cfg     *config.Config
	Log     *logger.Logger
	Session *session.Store
	API     *courseapi.Client

	store        *localstore.Store
	otelShutdown func(context.Context) error
}

type Options struct {
	// HTTPClient overrides the transport, for tests.
	HTTPClient *http.Client
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	appLog := log.With("component", "ClientApp")

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Env,
		Enabled:     cfg.Telemetry.Enabled,
	})
	if observability.Enabled() {
		observability.Init(log)
	}

	store, err := localstore.Open(cfg.StatePath(), log)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	sess := session.New(store, log)
	if err := sess.Open(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	api, err := courseapi.New(courseapi.Options{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout.Duration,
		UserAgent:  cfg.API.UserAgent,
		Session:    sess,
		Logger:     log,
		HTTPClient: opts.HTTPClient,
	})
	if err != nil {
		_ = sess.Close()
		_ = store.Close()
		return nil, fmt.Errorf("init course api client: %w", err)
	}
	appLog.Debug("client ready", "api", api.BaseURL(), "state", cfg.StatePath(), "signed_in", sess.Authenticated())

	return &App{
		Cfg:          cfg,
		Log:          appLog,
		Session:      sess,
		API:          api,
		store:        store,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	_ = a.Session.Close()
	return a.store.Close()
}

func (a *App) pageSize() int {
	if a.Cfg != nil && a.Cfg.API.PageSize > 0 {
		return a.Cfg.API.PageSize
	}
	return 100
}
