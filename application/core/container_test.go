package core

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type recordingComponent struct {
	*BaseComponent
	log      *[]string
	startErr error
}

func newRecording(name string, log *[]string, deps ...string) *recordingComponent {
	return &recordingComponent{BaseComponent: NewBaseComponent(name, deps...), log: log}
}

func (r *recordingComponent) Start(ctx context.Context) error {
	if r.startErr != nil {
		return r.startErr
	}
	*r.log = append(*r.log, "start:"+r.Name())
	return r.BaseComponent.Start(ctx)
}

func (r *recordingComponent) Stop(ctx context.Context) error {
	*r.log = append(*r.log, "stop:"+r.Name())
	return r.BaseComponent.Stop(ctx)
}

func TestSortComponentsByDependencies(t *testing.T) {
	var log []string
	c := NewContainer()
	_ = c.Register("ctrl", newRecording("ctrl", &log, "svc"))
	_ = c.Register("svc", newRecording("svc", &log, "dao", "logging"))
	_ = c.Register("dao", newRecording("dao", &log, "logging"))
	_ = c.Register("logging", newRecording("logging", &log))

	ordered, err := c.SortComponentsByDependencies()
	if err != nil {
		t.Fatalf("sort failed: %v", err)
	}
	var names []string
	for _, comp := range ordered {
		names = append(names, comp.Name())
	}
	if got := strings.Join(names, ","); got != "logging,dao,svc,ctrl" {
		t.Fatalf("unexpected order %s", got)
	}
}

func TestSortDetectsCycle(t *testing.T) {
	var log []string
	c := NewContainer()
	_ = c.Register("a", newRecording("a", &log, "b"))
	_ = c.Register("b", newRecording("b", &log, "a"))
	if _, err := c.SortComponentsByDependencies(); err == nil || !strings.Contains(err.Error(), "circular") {
		t.Fatalf("expected circular dependency error, got %v", err)
	}
}

func TestValidateDependenciesReportsMissing(t *testing.T) {
	var log []string
	c := NewContainer()
	_ = c.Register("svc", newRecording("svc", &log, "dao"))
	_, err := c.ValidateDependencies()
	if err == nil || !strings.Contains(err.Error(), "svc -> [dao]") {
		t.Fatalf("expected missing dao, got %v", err)
	}
}

func TestResolveAs(t *testing.T) {
	var log []string
	c := NewContainer()
	_ = c.Register("dao", newRecording("dao", &log))
	if _, err := ResolveAs[*recordingComponent](c, "dao"); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if _, err := ResolveAs[*Container](c, "dao"); err == nil {
		t.Fatalf("expected type mismatch error")
	}
	if _, err := ResolveAs[*recordingComponent](c, "missing"); err == nil {
		t.Fatalf("expected not found error")
	}
}

func TestLifecycleStartStopOrder(t *testing.T) {
	var log []string
	c := NewContainer()
	_ = c.Register("svc", newRecording("svc", &log, "dao"))
	_ = c.Register("dao", newRecording("dao", &log))

	lm := NewLifecycleManager(c)
	if err := lm.StartAll(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	lm.StopAll(context.Background())
	lm.StopAll(context.Background())

	want := "start:dao,start:svc,stop:svc,stop:dao"
	if got := strings.Join(log, ","); got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestLifecycleRollsBackOnStartFailure(t *testing.T) {
	var log []string
	c := NewContainer()
	failing := newRecording("svc", &log, "dao")
	failing.startErr = errors.New("boom")
	_ = c.Register("svc", failing)
	_ = c.Register("dao", newRecording("dao", &log))

	lm := NewLifecycleManager(c)
	if err := lm.StartAll(context.Background()); err == nil {
		t.Fatalf("expected start error")
	}
	if got := strings.Join(log, ","); got != "start:dao,stop:dao" {
		t.Fatalf("unexpected rollback sequence %s", got)
	}
}
