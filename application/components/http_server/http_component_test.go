package http_server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/gormdb"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/prometheus"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
)

func TestBuildHandlerServesHealthAndRoutes(t *testing.T) {
	hc := NewHTTPServerComponent(&HTTPServerConfig{Enabled: true, EnableHealth: true}, core.NewContainer())
	_ = hc.AddRouteRegistrar(func(r chi.Router, c *core.Container) error {
		r.Get("/ping/{id}", func(w http.ResponseWriter, req *http.Request) {
			_, _ = w.Write([]byte(chi.URLParam(req, "id")))
		})
		return nil
	})
	h, err := hc.BuildHandler()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz got %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping/42", nil))
	if rec.Body.String() != "42" {
		t.Fatalf("route param got %q", rec.Body.String())
	}
	if hc.cfg.Address != ":8080" || hc.cfg.RequestTimeout == 0 {
		t.Fatalf("defaults not applied: %+v", hc.cfg)
	}
}

func TestMetricsMiddlewareLabelsByRoutePattern(t *testing.T) {
	metrics := prometheus.NewComponent(&prometheus.Config{Enabled: true})
	hc := NewHTTPServerComponent(&HTTPServerConfig{Enabled: true}, core.NewContainer())
	hc.Metrics = metrics
	_ = hc.AddRouteRegistrar(func(r chi.Router, c *core.Container) error {
		r.Delete("/items/{id}", func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		return nil
	})
	h, err := hc.BuildHandler()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, id := range []string{"1", "2"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/items/"+id, nil))
	}

	mfs, err := metrics.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var found bool
	for _, mf := range mfs {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["route"] == "/items/{id}" && labels["status"] == "204" && m.GetCounter().GetValue() == 2 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected http_requests_total{route=/items/{id},status=204} == 2")
	}
}

func TestHealthzReportsStoppedDatasource(t *testing.T) {
	comp, err := gormdb.NewFactory().Create(&gormdb.Config{Enabled: true, LogLevel: "silent", DataSources: map[string]*gormdb.DataSourceConfig{
		"tasks": {Driver: gormdb.DriverSQLite, Database: filepath.Join(t.TempDir(), "h.db")},
	}})
	if err != nil {
		t.Fatalf("create gorm: %v", err)
	}
	gc := comp.(*gormdb.GormComponent)
	ctx := context.Background()
	if err := gc.Start(ctx); err != nil {
		t.Fatalf("start gorm: %v", err)
	}
	c := core.NewContainer()
	if err := c.Register(gc.Name(), gc); err != nil {
		t.Fatalf("register: %v", err)
	}
	hc := NewHTTPServerComponent(&HTTPServerConfig{Enabled: true, EnableHealth: true}, c)
	h, err := hc.BuildHandler()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthy datasource got %d %q", rec.Code, rec.Body.String())
	}

	_ = gc.Stop(ctx)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "gorm_db") {
		t.Fatalf("stopped datasource got %d %q", rec.Code, rec.Body.String())
	}
}

func TestAccessLogEchoesTraceFlags(t *testing.T) {
	tid, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	sid, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	h := accessLog(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	for flags, want := range map[trace.TraceFlags]string{
		0:                  "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-00",
		trace.FlagsSampled: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
	} {
		sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: tid, SpanID: sid, TraceFlags: flags})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(trace.ContextWithSpanContext(req.Context(), sc))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("traceparent"); got != want {
			t.Fatalf("flags %v: traceparent %q, want %q", flags, got, want)
		}
	}
}
