package routes

import (
	"net/http"

	"oxypace/oxypace/config"
	"oxypace/oxypace/controllers"
	"oxypace/oxypace/middlewares"
	"oxypace/oxypace/types"

	"github.com/go-chi/chi/v5"
)

func PortalRoutes(ctrl *controllers.PortalController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
		portals, err := ctrl.ListPortals(r.Context())
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return portals, http.StatusOK, nil
	}))

	r.With(middlewares.AuthMiddleware(cfg)).Post("/", handleJSON(func(r *http.Request) (any, int, error) {
		id, err := currentUser(r)
		if err != nil {
			return nil, http.StatusUnauthorized, err
		}
		var req types.CreatePortalRequest
		if err := decode(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		portal, err := ctrl.CreatePortal(r.Context(), id, req)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return portal, http.StatusCreated, nil
	}))

	r.Get("/{slug}", handleJSON(func(r *http.Request) (any, int, error) {
		portal, err := ctrl.GetPortal(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return portal, http.StatusOK, nil
	}))

	r.Get("/{slug}/posts", handleJSON(func(r *http.Request) (any, int, error) {
		filter, err := pageFilter(r)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		posts, err := ctrl.ListPortalPosts(r.Context(), chi.URLParam(r, "slug"), filter)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return posts, http.StatusOK, nil
	}))

	return r
}
