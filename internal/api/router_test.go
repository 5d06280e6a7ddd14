package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/controller"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/mapper"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/model"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/service"
)

// stubDao 内存存储，统计 Save 次数
type stubDao struct {
	*core.BaseComponent
	rows   map[int64]*model.Task
	nextID int64
	saves  int
	err    error
	now    time.Time
}

func newStubDao() *stubDao {
	return &stubDao{
		BaseComponent: core.NewBaseComponent("task_dao"),
		rows:          map[int64]*model.Task{},
		now:           time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (d *stubDao) Save(_ context.Context, t *model.Task) (*model.Task, error) {
	d.saves++
	if d.err != nil {
		return nil, d.err
	}
	d.now = d.now.Add(time.Second)
	rec := t.Clone()
	if rec.ID == 0 {
		d.nextID++
		rec.ID = d.nextID
		rec.CreatedAt = d.now
	}
	rec.UpdatedAt = d.now
	d.rows[rec.ID] = rec
	return rec.Clone(), nil
}

func (d *stubDao) FindByID(_ context.Context, id int64) (*model.Task, bool, error) {
	if d.err != nil {
		return nil, false, d.err
	}
	t, ok := d.rows[id]
	if !ok {
		return nil, false, nil
	}
	return t.Clone(), true, nil
}

func (d *stubDao) FindAll(context.Context) ([]*model.Task, error) {
	if d.err != nil {
		return nil, d.err
	}
	out := make([]*model.Task, 0, len(d.rows))
	for _, t := range d.rows {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *stubDao) Delete(ctx context.Context, t *model.Task) error { return d.DeleteByID(ctx, t.ID) }

func (d *stubDao) DeleteByID(_ context.Context, id int64) error {
	delete(d.rows, id)
	return nil
}

func (d *stubDao) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := d.rows[id]
	return ok, nil
}

func (d *stubDao) Count(context.Context) (int64, error) { return int64(len(d.rows)), nil }

func newRouter(t *testing.T) (http.Handler, *stubDao) {
	t.Helper()
	d := newStubDao()
	svc := service.NewTaskService()
	svc.Dao = d
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	ctrl := controller.NewTaskController(time.UTC)
	ctrl.Svc = svc
	r := chi.NewRouter()
	Mount(r, ctrl)
	return r, d
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) mapper.TaskResponse {
	t.Helper()
	var resp mapper.TaskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestTaskLifecycleScenario(t *testing.T) {
	h, _ := newRouter(t)

	rec := do(t, h, http.MethodPost, "/tasks", `{"title":"Initial Task","description":"Initial Description","completed":false}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rec.Code, rec.Body)
	}
	created := decodeTask(t, rec)
	if created.ID == 0 || created.CreatedAt == nil || !created.CreatedAt.Equal(*created.UpdatedAt) {
		t.Fatalf("bad created task %+v", created)
	}
	path := "/tasks/" + jsonInt(created.ID)

	rec = do(t, h, http.MethodGet, path, "")
	if rec.Code != http.StatusOK || decodeTask(t, rec).Title != "Initial Task" {
		t.Fatalf("get status=%d body=%s", rec.Code, rec.Body)
	}

	rec = do(t, h, http.MethodPut, path, `{"title":"Updated Task","description":"Updated Description","completed":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", rec.Code, rec.Body)
	}
	updated := decodeTask(t, rec)
	if !updated.Completed || updated.Title != "Updated Task" || !updated.CreatedAt.Equal(*created.CreatedAt) {
		t.Fatalf("bad updated task %+v", updated)
	}

	rec = do(t, h, http.MethodGet, "/tasks", "")
	var list []mapper.TaskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("list len=%d err=%v body=%s", len(list), err, rec.Body)
	}

	rec = do(t, h, http.MethodDelete, path, "")
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("delete status=%d body=%q", rec.Code, rec.Body)
	}
	if rec = do(t, h, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status=%d", rec.Code)
	}
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestCreateRejectsNullFieldsWithoutSaving(t *testing.T) {
	h, d := newRouter(t)
	for _, body := range []string{
		`{"title":null,"description":"d","completed":false}`,
		`{"description":"d","completed":false}`,
		`{"title":"t","description":"d","completed":null}`,
		`{"title":"t","description":"d"`,
		`[1,2]`,
		`{"title":"t","description":"d","completed":false}}`,
		`{"title":"t","description":"d","completed":false}]`,
		"",
	} {
		rec := do(t, h, http.MethodPost, "/tasks", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status=%d, want 400", body, rec.Code)
		}
	}
	if d.saves != 0 {
		t.Fatalf("save called %d times", d.saves)
	}
}

func TestCreateAcceptsEmptyStrings(t *testing.T) {
	h, _ := newRouter(t)
	rec := do(t, h, http.MethodPost, "/tasks", `{"title":"","description":"","completed":false}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body)
	}
	if got := decodeTask(t, rec); got.Title != "" || got.Description != "" || got.Completed {
		t.Fatalf("fields changed: %+v", got)
	}
}

func TestListEmptyIsArray(t *testing.T) {
	h, _ := newRouter(t)
	rec := do(t, h, http.MethodGet, "/tasks", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body)
	}
}

func TestMissingIDsAre404(t *testing.T) {
	h, d := newRouter(t)
	valid := `{"title":"t","description":"d","completed":true}`
	for _, tc := range []struct{ method, body string }{
		{http.MethodGet, ""},
		{http.MethodPut, valid},
		{http.MethodDelete, ""},
	} {
		if rec := do(t, h, tc.method, "/tasks/999", tc.body); rec.Code != http.StatusNotFound {
			t.Fatalf("%s status=%d, want 404", tc.method, rec.Code)
		}
	}
	if d.saves != 0 {
		t.Fatalf("update of missing id reached save")
	}
}

func TestUpdateValidatesBeforeLookup(t *testing.T) {
	h, d := newRouter(t)
	if rec := do(t, h, http.MethodPut, "/tasks/999", `{"title":"t"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/tasks/abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id status=%d, want 400", rec.Code)
	}
	if d.saves != 0 {
		t.Fatalf("save called")
	}
}

func TestPersistenceFailureIsGeneric500(t *testing.T) {
	h, d := newRouter(t)
	d.err = errors.New("dial tcp 10.0.0.5:3306: connection refused")
	rec := do(t, h, http.MethodGet, "/tasks", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.5") {
		t.Fatalf("internal error leaked: %s", rec.Body)
	}
	rec = do(t, h, http.MethodPost, "/tasks", `{"title":"t","description":"d","completed":false}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("create status=%d, want 500", rec.Code)
	}
}
