package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/components/http_server"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/application/core"
	bizConsts "github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/consts"
	"github.com/grand-thief-cash/chaos/app/projects/taskmanager/internal/controller"
)

func init() {
	http_server.RegisterRoutes(func(r chi.Router, c *core.Container) error {
		ctrl, err := core.ResolveAs[*controller.TaskController](c, bizConsts.COMP_CTRL_TASK)
		if err != nil {
			return err
		}
		Mount(r, ctrl)
		return nil
	})
}

// Mount attaches the /tasks routes to r.
func Mount(r chi.Router, ctrl *controller.TaskController) {
	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", ctrl.Create)
		r.Get("/", ctrl.List)

		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
			ctrl.Get(w, req, chi.URLParam(req, "id"))
		})
		r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
			ctrl.Update(w, req, chi.URLParam(req, "id"))
		})
		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
			ctrl.Delete(w, req, chi.URLParam(req, "id"))
		})
	})
}
