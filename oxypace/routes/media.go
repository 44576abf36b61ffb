package routes

import (
	"io"
	"net/http"
	"strconv"

	"oxypace/oxypace/config"
	"oxypace/oxypace/controllers"
	"oxypace/oxypace/middlewares"
	"oxypace/oxypace/utils/errs"
	"oxypace/oxypace/utils/logging"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// multipart overhead allowed on top of the file itself
const uploadSlack = 1 << 20

func MediaRoutes(ctrl *controllers.MediaController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.With(middlewares.AuthMiddleware(cfg)).Post("/", handleJSON(func(r *http.Request) (any, int, error) {
		r.Body = http.MaxBytesReader(nil, r.Body, controllers.MaxUploadSize+uploadSlack)
		if err := r.ParseMultipartForm(controllers.MaxUploadSize + uploadSlack); err != nil {
			return nil, http.StatusBadRequest, errs.BadRequest("expected a multipart upload under 10 MB")
		}
		defer r.MultipartForm.RemoveAll()
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, http.StatusBadRequest, errs.BadRequest("file is required")
		}
		defer file.Close()
		res, err := ctrl.Upload(r.Context(), file)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return res, http.StatusCreated, nil
	}))

	r.Get("/{key}", func(w http.ResponseWriter, r *http.Request) {
		obj, err := ctrl.Open(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		defer obj.Close()
		if obj.ContentType != "" {
			w.Header().Set("Content-Type", obj.ContentType)
		}
		if obj.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
		}
		if obj.ETag != "" {
			w.Header().Set("ETag", `"`+obj.ETag+`"`)
		}
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, obj); err != nil {
			logging.ErrorLogger.Warn("media stream interrupted", zap.Error(err))
		}
	})

	return r
}
