package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"oxypace/oxypace/middlewares"
	"oxypace/oxypace/sources/psql/dao"
	"oxypace/oxypace/utils/errs"
	"oxypace/oxypace/utils/logging"
	"oxypace/oxypace/validation"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// generic wrapper to reduce boilerplate
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, status, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil && status != http.StatusNoContent {
		json.NewEncoder(w).Encode(v)
	}
}

// writeErr maps controller errors onto a status and a JSON body. Unknown
// errors are logged and hidden behind a generic 500.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, verr)
		return
	}
	status := errs.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logging.ErrorLogger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("trace_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, status, map[string]string{"error": "internal server error"})
		return
	}
	msg := err.Error()
	var e *errs.Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads and validates a JSON body, returning a plain nil on success.
func decode(r *http.Request, dst any) error {
	if verr := validation.DecodeAndValidate(r, dst); verr != nil {
		return verr
	}
	return nil
}

func currentUser(r *http.Request) (uuid.UUID, error) {
	id, ok := middlewares.UserID(r.Context())
	if !ok {
		return uuid.Nil, errs.Unauthorized("unauthorized")
	}
	return id, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, errs.BadRequest(name + " must be a valid id")
	}
	return id, nil
}

// pageFilter reads the limit and before query parameters.
func pageFilter(r *http.Request) (dao.PostFilter, error) {
	var filter dao.PostFilter
	q := r.URL.Query()
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return filter, errs.BadRequest("limit must be a positive integer")
		}
		filter.Limit = min(limit, dao.MaxPageSize)
	}
	if raw := q.Get("before"); raw != "" {
		before, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errs.BadRequest("before must be an RFC3339 timestamp")
		}
		filter.Before = &before
	}
	return filter, nil
}
