package routes

import (
	"net/http"

	"oxypace/oxypace/config"
	"oxypace/oxypace/controllers"
	"oxypace/oxypace/middlewares"
	"oxypace/oxypace/types"

	"github.com/go-chi/chi/v5"
)

func UserRoutes(ctrl *controllers.UserController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Get("/me", handleJSON(func(r *http.Request) (any, int, error) {
			id, err := currentUser(r)
			if err != nil {
				return nil, http.StatusUnauthorized, err
			}
			user, err := ctrl.GetUser(r.Context(), id)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return user, http.StatusOK, nil
		}))

		gr.Put("/me", handleJSON(func(r *http.Request) (any, int, error) {
			id, err := currentUser(r)
			if err != nil {
				return nil, http.StatusUnauthorized, err
			}
			var req types.UpdateProfileRequest
			if err := decode(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			user, err := ctrl.UpdateProfile(r.Context(), id, req)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return user, http.StatusOK, nil
		}))

		gr.Delete("/me", handleJSON(func(r *http.Request) (any, int, error) {
			id, err := currentUser(r)
			if err != nil {
				return nil, http.StatusUnauthorized, err
			}
			if err := ctrl.DeleteAccount(r.Context(), id); err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return nil, http.StatusNoContent, nil
		}))

		gr.With(middlewares.RequireAdmin).Put("/{username}/verify", handleJSON(func(r *http.Request) (any, int, error) {
			var req types.VerifyUserRequest
			if err := decode(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			user, err := ctrl.SetVerified(r.Context(), chi.URLParam(r, "username"), req.Verified)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return user, http.StatusOK, nil
		}))
	})

	r.Get("/{username}", handleJSON(func(r *http.Request) (any, int, error) {
		profile, err := ctrl.GetProfile(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return profile, http.StatusOK, nil
	}))

	r.Get("/{username}/posts", handleJSON(func(r *http.Request) (any, int, error) {
		filter, err := pageFilter(r)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		posts, err := ctrl.ListUserPosts(r.Context(), chi.URLParam(r, "username"), filter)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return posts, http.StatusOK, nil
	}))

	return r
}
