package routes

import (
	"net/http"

	"oxypace/oxypace/config"
	"oxypace/oxypace/controllers"
	"oxypace/oxypace/middlewares"
	"oxypace/oxypace/types"

	"github.com/go-chi/chi/v5"
)

func PostRoutes(ctrl *controllers.PostController, comments *controllers.CommentController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Get("/", handleJSON(func(r *http.Request) (any, int, error) {
		filter, err := pageFilter(r)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		posts, err := ctrl.ListPosts(r.Context(), r.URL.Query().Get("portal"), filter)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return posts, http.StatusOK, nil
	}))

	r.Get("/{id}", handleJSON(func(r *http.Request) (any, int, error) {
		id, err := uuidParam(r, "id")
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		post, err := ctrl.GetPost(r.Context(), id)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return post, http.StatusOK, nil
	}))

	r.Get("/{id}/comments", handleJSON(func(r *http.Request) (any, int, error) {
		id, err := uuidParam(r, "id")
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		list, err := comments.ListComments(r.Context(), id)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return list, http.StatusOK, nil
	}))

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Post("/", handleJSON(func(r *http.Request) (any, int, error) {
			userID, err := currentUser(r)
			if err != nil {
				return nil, http.StatusUnauthorized, err
			}
			var req types.CreatePostRequest
			if err := decode(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			post, err := ctrl.CreatePost(r.Context(), userID, req)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return post, http.StatusCreated, nil
		}))

		gr.Put("/{id}", handleJSON(func(r *http.Request) (any, int, error) {
			userID, err := currentUser(r)
			if err != nil {
				return nil, http.StatusUnauthorized, err
			}
			id, err := uuidParam(r, "id")
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			var req types.UpdatePostRequest
			if err := decode(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			post, err := ctrl.UpdatePost(r.Context(), userID, id, req)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return post, http.StatusOK, nil
		}))

		gr.Delete("/{id}", handleJSON(func(r *http.Request) (any, int, error) {
			userID, err := currentUser(r)
			if err != nil {
				return nil, http.StatusUnauthorized, err
			}
			id, err := uuidParam(r, "id")
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			if err := ctrl.DeletePost(r.Context(), userID, middlewares.Role(r.Context()), id); err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return nil, http.StatusNoContent, nil
		}))

		gr.Post("/{id}/comments", handleJSON(func(r *http.Request) (any, int, error) {
			userID, err := currentUser(r)
			if err != nil {
				return nil, http.StatusUnauthorized, err
			}
			id, err := uuidParam(r, "id")
			if err != nil {
				return nil, http.StatusBadRequest, err
			}
			var req types.CreateCommentRequest
			if err := decode(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			comment, err := comments.CreateComment(r.Context(), userID, id, req)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return comment, http.StatusCreated, nil
		}))
	})

	return r
}

func CommentRoutes(ctrl *controllers.CommentController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(cfg))
	r.Delete("/{id}", handleJSON(func(r *http.Request) (any, int, error) {
		userID, err := currentUser(r)
		if err != nil {
			return nil, http.StatusUnauthorized, err
		}
		id, err := uuidParam(r, "id")
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		if err := ctrl.DeleteComment(r.Context(), userID, middlewares.Role(r.Context()), id); err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return nil, http.StatusNoContent, nil
	}))
	return r
}
