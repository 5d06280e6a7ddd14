package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/logging"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/prometheus"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
)

type HTTPServerComponent struct {
	*core.BaseComponent
	Metrics *prometheus.Component `infra:"dep:prometheus?"`

	cfg       *HTTPServerConfig
	container *core.Container
	router    chi.Router
	server    *http.Server
	listener  net.Listener
	extras    []RouteRegisterFunc
	started   bool
}

func NewHTTPServerComponent(cfg *HTTPServerConfig, c *core.Container) *HTTPServerComponent {
	return &HTTPServerComponent{
		BaseComponent: core.NewBaseComponent(consts.COMPONENT_HTTP_SERVER, consts.COMPONENT_LOGGING),
		cfg:           cfg,
		container:     c,
	}
}

func (hc *HTTPServerComponent) AddRouteRegistrar(fn RouteRegisterFunc) error {
	if fn == nil {
		return nil
	}
	if hc.started {
		return fmt.Errorf("cannot register route: http_server already started (use BeforeStart hook)")
	}
	hc.extras = append(hc.extras, fn)
	return nil
}

// Addr is the bound listener address, empty before Start.
func (hc *HTTPServerComponent) Addr() string {
	if hc.listener == nil {
		return ""
	}
	return hc.listener.Addr().String()
}

func (hc *HTTPServerComponent) Start(ctx context.Context) error {
	if err := hc.BaseComponent.Start(ctx); err != nil {
		return err
	}
	if hc.cfg == nil || !hc.cfg.Enabled {
		return errors.New("http_server component enabled flag mismatch")
	}

	handler, err := hc.BuildHandler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", hc.cfg.Address)
	if err != nil {
		return fmt.Errorf("http_server listen %s: %w", hc.cfg.Address, err)
	}
	hc.listener = ln
	hc.server = &http.Server{
		ReadTimeout:  hc.cfg.ReadTimeout,
		WriteTimeout: hc.cfg.WriteTimeout,
		IdleTimeout:  hc.cfg.IdleTimeout,
		Handler:      handler,
	}

	go func() {
		logging.Infof(ctx, "http_server listening on %s", ln.Addr().String())
		if err := hc.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Errorf(ctx, "http_server server error: %v", err)
		}
	}()

	hc.started = true
	return nil
}

// BuildHandler assembles middlewares, built-in endpoints and every registered
// route without listening.
func (hc *HTTPServerComponent) BuildHandler() (http.Handler, error) {
	hc.cfg.applyDefaults()

	hc.router = chi.NewRouter()
	hc.setupMiddlewares()

	if hc.cfg.EnableHealth {
		hc.router.Get("/healthz", hc.healthHandler)
	}

	if err := hc.registerAllRoutes(); err != nil {
		return nil, err
	}
	return hc.router, nil
}

func (hc *HTTPServerComponent) Stop(ctx context.Context) error {
	defer hc.BaseComponent.Stop(ctx)
	if !hc.started || hc.server == nil {
		return nil
	}
	hc.started = false
	stopCtx, cancel := context.WithTimeout(ctx, hc.cfg.GracefulTimeout)
	defer cancel()
	if err := hc.server.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("http_server graceful shutdown failed: %w", err)
	}
	logging.Infof(ctx, "http_server server stopped")
	return nil
}

func (hc *HTTPServerComponent) HealthCheck() error {
	if err := hc.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	if !hc.started {
		return fmt.Errorf("http_server server not started")
	}
	return nil
}

// healthHandler runs HealthCheck on every other registered component and
// answers 503 listing the failures.
func (hc *HTTPServerComponent) healthHandler(w http.ResponseWriter, r *http.Request) {
	var failures []string
	if hc.container != nil {
		comps := hc.container.ListRegistered()
		names := make([]string, 0, len(comps))
		for name := range comps {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if name == hc.Name() {
				continue
			}
			if err := comps[name].HealthCheck(); err != nil {
				failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			}
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if len(failures) > 0 {
		logging.Warnf(r.Context(), "healthz failing: %s", strings.Join(failures, "; "))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(strings.Join(failures, "\n")))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (hc *HTTPServerComponent) setupMiddlewares() {
	hc.router.Use(middleware.RequestID)
	hc.router.Use(middleware.RealIP)
	hc.router.Use(middleware.Recoverer)
	hc.router.Use(middleware.Timeout(hc.cfg.RequestTimeout))

	// server span from W3C traceparent
	serviceName := hc.cfg.ServiceName
	if serviceName == "" {
		serviceName = consts.COMPONENT_HTTP_SERVER
	}
	hc.router.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(hc.router)))
	hc.router.Use(accessLog)

	if hc.Metrics != nil {
		m := &httpMetrics{
			requests: hc.Metrics.NewCounter("http_requests_total", "HTTP requests by method, route and status.",
				[]string{"method", "route", "status"}),
			duration: hc.Metrics.NewHistogram("http_request_duration_seconds", "HTTP request latency.",
				[]string{"method", "route"}, nil),
		}
		hc.router.Use(m.instrument)
	}
}

func (hc *HTTPServerComponent) registerAllRoutes() error {
	registrars := append(snapshot(), hc.extras...)
	for _, fn := range registrars {
		if err := fn(hc.router, hc.container); err != nil {
			return fmt.Errorf("route register failed: %w", err)
		}
	}
	return nil
}
