package routes

import (
	"net/http"

	"oxypace/oxypace/controllers"
	"oxypace/oxypace/types"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.RegisterRequest
		if err := decode(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		res, err := ctrl.Register(r.Context(), req)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return res, http.StatusCreated, nil
	}))
	r.Post("/login", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.LoginRequest
		if err := decode(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		res, err := ctrl.Login(r.Context(), req)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return res, http.StatusOK, nil
	}))
	return r
}
