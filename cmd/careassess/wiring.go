package main

import (
	"context"
	"fmt"
	"os"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-careassess/components/assessment"
	"github.com/goliatone/go-careassess/internal/delivery/firebase"
	"github.com/goliatone/go-careassess/internal/delivery/s3archive"
	"github.com/goliatone/go-careassess/internal/delivery/telegram"
	"github.com/goliatone/go-careassess/internal/storage/postgres"
	"github.com/goliatone/go-careassess/internal/storage/sqlite"
	pkgassessment "github.com/goliatone/go-careassess/pkg/assessment"
	"github.com/goliatone/go-careassess/pkg/brand"
	"github.com/goliatone/go-careassess/pkg/config"
	"github.com/goliatone/go-careassess/pkg/lead"
	"github.com/goliatone/go-careassess/pkg/logging"
	"github.com/goliatone/go-careassess/pkg/render"
	"github.com/goliatone/go-careassess/pkg/renderers/html"
)

// app holds the collaborators shared by the commands.
type app struct {
	catalog *pkgassessment.Catalog
	repo    lead.Repository
	leads   *lead.Service
	closers []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp opens the lead repository and wires every enabled delivery sink.
// The repository is the only required route.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	catalog, err := loadCatalog(cfg.Assessment)
	if err != nil {
		return nil, err
	}
	a := &app{catalog: catalog}

	repo, closeRepo, err := openRepository(ctx, cfg.Leads)
	if err != nil {
		return nil, err
	}
	a.repo = repo
	a.closers = append(a.closers, closeRepo)

	routes := []lead.Route{{Sink: lead.NewRepositorySink(cfg.Leads.Repository, repo), Required: true}}
	sinks, err := deliverySinks(ctx, cfg.Delivery)
	if err != nil {
		a.Close()
		return nil, err
	}
	for _, sink := range sinks {
		routes = append(routes, lead.Route{Sink: sink})
	}

	dispatcher := lead.NewDispatcher(routes,
		lead.WithSinkTimeout(cfg.Leads.SinkTimeout),
		lead.WithDispatchLogger(logging.Named(log, "dispatch")),
	)
	a.leads = lead.NewService(catalog, dispatcher, lead.WithLogger(logging.Named(log, "leads")))
	log.Info("lead delivery configured",
		zap.String("repository", cfg.Leads.Repository),
		zap.Strings("routes", dispatcher.Routes()),
	)
	return a, nil
}

func loadCatalog(cfg config.AssessmentConfig) (*pkgassessment.Catalog, error) {
	if cfg.ContentDir == "" {
		return pkgassessment.DefaultCatalog()
	}
	catalog, err := pkgassessment.LoadCatalogFS(os.DirFS(cfg.ContentDir))
	if err != nil {
		return nil, fmt.Errorf("load content from %s: %w", cfg.ContentDir, err)
	}
	return catalog, nil
}

func openRepository(ctx context.Context, cfg config.LeadsConfig) (lead.Repository, func(), error) {
	switch cfg.Repository {
	case config.RepositorySQLite:
		repo, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	case config.RepositoryPostgres:
		pool := postgres.DefaultPoolConfig()
		if cfg.MaxConns > 0 {
			pool.MaxConns = cfg.MaxConns
			pool.MinConns = min(pool.MinConns, cfg.MaxConns)
		}
		repo, err := postgres.Connect(ctx, cfg.DatabaseURL, pool)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	default:
		return lead.NewMemoryRepository(), func() {}, nil
	}
}

func deliverySinks(ctx context.Context, cfg config.DeliveryConfig) ([]lead.Sink, error) {
	var sinks []lead.Sink
	if cfg.Firebase.Enabled {
		sink, err := firebase.New(ctx, firebase.Config{
			CredentialsFile: cfg.Firebase.CredentialsFile,
			DatabaseURL:     cfg.Firebase.DatabaseURL,
			Ref:             cfg.Firebase.Ref,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	if cfg.S3.Enabled {
		sink, err := s3archive.New(ctx, s3archive.Config{
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	if cfg.Telegram.Enabled {
		sink, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.TelegramChatID())
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	return sinks, nil
}

func themeConfig(variant string) (*theme.RendererConfig, error) {
	selector, err := brand.NewSelector()
	if err != nil {
		return nil, err
	}
	selection, err := selector.Select(brand.ThemeName, variant)
	if err != nil {
		return nil, err
	}
	return brand.RendererConfig(selection), nil
}

func renderers(cfg config.AssessmentConfig, themeCfg *theme.RendererConfig) (*render.Registry, error) {
	opts := []html.Option{html.WithTheme(themeCfg)}
	if cfg.TemplatesDir != "" {
		opts = append(opts, html.WithTemplatesDir(cfg.TemplatesDir))
	}
	return assessment.DefaultRenderers(opts...)
}
