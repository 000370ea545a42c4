package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-board/internal/config"
	"github.com/vancomm/minesweeper-board/internal/middleware"
	"github.com/vancomm/minesweeper-board/internal/session"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	logger *logrus.Logger
	config *config.Config
	router *http.ServeMux
	store  *session.Store
	jwt    *config.JWT
	ws     *config.WebSocket
}

func New(logger *logrus.Logger, cfg *config.Config) (*App, error) {
	jwt, err := config.NewJWT(cfg.JWT, cfg.Development())
	if err != nil {
		return nil, err
	}

	ws, err := config.NewWebSocket()
	if err != nil {
		return nil, err
	}

	app := &App{
		logger: logger,
		config: cfg,
		router: http.NewServeMux(),
		store:  session.NewStore(createRand(), cfg.Session.TTL, logger),
		jwt:    jwt,
		ws:     ws,
	}

	app.loadRoutes()

	return app, nil
}

// Handler is the router behind the middleware chain, mounted at the
// configured base path.
func (a *App) Handler() http.Handler {
	var h http.Handler = a.router
	if base := strings.TrimSuffix(a.config.BasePath, "/"); base != "" {
		h = http.StripPrefix(base, h)
	}
	return middleware.Wrap(
		h,
		middleware.Auth(a.jwt),
		middleware.Cors(a.config.CorsOrigins),
		middleware.Logging(a.logger),
	)
}

// Start serves until ctx is done or the listener fails, sweeping expired
// sessions in the background.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Infof("ready to serve @ %s", a.config.Addr)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(ctx)
	})
	g.Go(func() error {
		return a.store.Run(gCtx, a.config.Session.SweepInterval)
	})

	return g.Wait()
}
