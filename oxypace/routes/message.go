package routes

import (
	"net/http"
	"strconv"

	"oxypace/oxypace/config"
	"oxypace/oxypace/controllers"
	"oxypace/oxypace/middlewares"
	"oxypace/oxypace/types"
	"oxypace/oxypace/utils/errs"

	"github.com/go-chi/chi/v5"
)

func MessageRoutes(ctrl *controllers.MessageController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(cfg))

	r.Post("/", handleJSON(func(r *http.Request) (any, int, error) {
		userID, err := currentUser(r)
		if err != nil {
			return nil, http.StatusUnauthorized, err
		}
		var req types.SendMessageRequest
		if err := decode(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		msg, err := ctrl.SendMessage(r.Context(), userID, req)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return msg, http.StatusCreated, nil
	}))

	r.Get("/conversations", handleJSON(func(r *http.Request) (any, int, error) {
		userID, err := currentUser(r)
		if err != nil {
			return nil, http.StatusUnauthorized, err
		}
		convs, err := ctrl.Conversations(r.Context(), userID)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return convs, http.StatusOK, nil
	}))

	r.Get("/unread", handleJSON(func(r *http.Request) (any, int, error) {
		userID, err := currentUser(r)
		if err != nil {
			return nil, http.StatusUnauthorized, err
		}
		count, err := ctrl.UnreadCount(r.Context(), userID)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]int64{"unread": count}, http.StatusOK, nil
	}))

	r.Get("/{userID}", handleJSON(func(r *http.Request) (any, int, error) {
		userID, err := currentUser(r)
		if err != nil {
			return nil, http.StatusUnauthorized, err
		}
		otherID, err := uuidParam(r, "userID")
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
				return nil, http.StatusBadRequest, errs.BadRequest("limit must be a positive integer")
			}
		}
		msgs, err := ctrl.Thread(r.Context(), userID, otherID, limit)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return msgs, http.StatusOK, nil
	}))

	return r
}
