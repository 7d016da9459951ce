package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	careassess "github.com/goliatone/go-careassess"
	"github.com/goliatone/go-careassess/components/assessment"
	"github.com/goliatone/go-careassess/pkg/config"
	"github.com/goliatone/go-careassess/pkg/logging"
	"github.com/goliatone/go-careassess/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the assessment wizard and JSON API",
	Long: `Starts the HTTP server. The wizard is served at server.base_path, the
JSON API under server.api_path and the stylesheet under /assets/.

Leads go to the configured repository and then to every enabled delivery
sink (Firebase, S3, Telegram). Only the repository write must succeed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	handler, store, err := newHandler(a, cfg, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		store.Run(gctx, cfg.Session.SweepInterval)
		return nil
	})
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Server.Addr), zap.String("wizard", cfg.Server.BasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newHandler builds the routed handler and the session store whose sweeper
// the caller runs.
func newHandler(a *app, cfg *config.Config, log *zap.Logger) (http.Handler, *session.MemoryStore, error) {
	themeCfg, err := themeConfig(cfg.Assessment.ThemeVariant)
	if err != nil {
		return nil, nil, err
	}
	registry, err := renderers(cfg.Assessment, themeCfg)
	if err != nil {
		return nil, nil, err
	}
	store := session.NewMemoryStore(
		session.WithTTL(cfg.Session.TTL),
		session.WithLogger(logging.Named(log, "sessions")),
	)

	mux := http.NewServeMux()
	if _, err := careassess.Mount(mux, "",
		assessment.WithRoutePath(cfg.Server.BasePath),
		assessment.WithAPIPath(cfg.Server.APIPath),
		assessment.WithCookie(cfg.Session.CookieName, cfg.Session.SecureCookie),
		assessment.WithGuard(assessment.APIKeyGuard(cfg.Server.APIKey)),
		assessment.WithCatalog(a.catalog),
		assessment.WithSessions(store),
		assessment.WithLeads(a.leads),
		assessment.WithRenderers(registry),
		assessment.WithTheme(themeCfg),
		assessment.WithLogger(logging.Named(log, "http")),
	); err != nil {
		return nil, nil, err
	}
	if strings.Trim(cfg.Server.BasePath, "/") != "" {
		mux.Handle("GET /{$}", http.RedirectHandler(cfg.Server.BasePath, http.StatusFound))
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux, store, nil
}
