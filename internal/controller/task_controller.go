package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/logging"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
	bizConsts "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/mapper"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/service"
)

type TaskController struct {
	*core.BaseComponent
	Svc    *service.TaskService `infra:"dep:task_service"`
	mapper *mapper.Mapper
}

// NewTaskController renders response timestamps in loc.
func NewTaskController(loc *time.Location) *TaskController {
	return &TaskController{
		BaseComponent: core.NewBaseComponent(bizConsts.COMP_CTRL_TASK),
		mapper:        mapper.New(loc),
	}
}

func (c *TaskController) Start(ctx context.Context) error { return c.BaseComponent.Start(ctx) }
func (c *TaskController) Stop(ctx context.Context) error  { return c.BaseComponent.Stop(ctx) }

// ---- handlers ----

// POST /tasks
func (c *TaskController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req mapper.TaskRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	task, err := mapper.ToInternal(&req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	saved, err := c.Svc.Create(ctx, task)
	if err != nil {
		c.writeServiceError(ctx, w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, c.mapper.ToExternal(saved))
}

// GET /tasks
func (c *TaskController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := c.Svc.List(ctx)
	if err != nil {
		c.writeServiceError(ctx, w, "list", err)
		return
	}
	writeJSON(w, http.StatusOK, c.mapper.ToExternalList(list))
}

// GET /tasks/{id}
func (c *TaskController) Get(w http.ResponseWriter, r *http.Request, rawID string) {
	ctx := r.Context()
	id, err := parseID(rawID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	task, err := c.Svc.Get(ctx, id)
	if err != nil {
		c.writeServiceError(ctx, w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, c.mapper.ToExternal(task))
}

// PUT /tasks/{id}
// The body is validated before the lookup, so a bad body on an absent id is 400.
func (c *TaskController) Update(w http.ResponseWriter, r *http.Request, rawID string) {
	ctx := r.Context()
	id, err := parseID(rawID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	var req mapper.TaskRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	changes, err := mapper.ToInternal(&req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	saved, err := c.Svc.Update(ctx, id, changes)
	if err != nil {
		c.writeServiceError(ctx, w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, c.mapper.ToExternal(saved))
}

// DELETE /tasks/{id}
func (c *TaskController) Delete(w http.ResponseWriter, r *http.Request, rawID string) {
	ctx := r.Context()
	id, err := parseID(rawID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}
	if err := c.Svc.Delete(ctx, id); err != nil {
		c.writeServiceError(ctx, w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps not-found to 404; anything else is logged and
// answered with a generic 500.
func (c *TaskController) writeServiceError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrTaskNotFound) {
		writeJSON(w, http.StatusNotFound, apiError{Error: "task not found"})
		return
	}
	logging.Errorf(ctx, "%s task failed: %v", op, err)
	writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal server error"})
}
