package routes

import (
	"net/http"

	"oxypace/oxypace/config"
	"oxypace/oxypace/controllers"
	"oxypace/oxypace/middlewares"
	"oxypace/oxypace/types"

	"github.com/go-chi/chi/v5"
)

func ContactRoutes(ctrl *controllers.ContactController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(cfg))

	r.Post("/", handleJSON(func(r *http.Request) (any, int, error) {
		userID, err := currentUser(r)
		if err != nil {
			return nil, http.StatusUnauthorized, err
		}
		var req types.ContactRequest
		if err := decode(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		msg, err := ctrl.Submit(r.Context(), userID, req)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return msg, http.StatusCreated, nil
	}))

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.RequireAdmin)

		gr.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
			msgs, err := ctrl.List(r.Context(), r.URL.Query().Get("status"))
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return msgs, http.StatusOK, nil
		}))

		gr.Put("/{id}/status", handleJSON(func(r *http.Request) (any, int, error) {
			id, err := uuidParam(r, "id")
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			var req types.ContactStatusRequest
			if err := decode(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			msg, err := ctrl.UpdateStatus(r.Context(), id, req)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return msg, http.StatusOK, nil
		}))
	})

	return r
}
