package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/tumblera/tumblera-backend/api/middleware"
	"github.com/tumblera/tumblera-backend/api/responses"
	"github.com/tumblera/tumblera-backend/pkg/config"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
	"github.com/tumblera/tumblera-backend/pkg/logger"
)

// ImageUploader is the storage surface behind the media endpoint.
type ImageUploader interface {
	UploadDesignImage(ctx context.Context, owner, fileName, contentType string, body io.Reader) (string, error)
}

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// MediaUpload stores a design image and returns its public URL. The upload
// is keyed to the storefront session so guests can attach images too.
func MediaUpload(uploader ImageUploader, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if uploader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "image storage is not configured"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		maxBytes := int64(media.MaxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file exceeds upload limit"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if !allowedImageTypes[contentType] {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "only png, jpeg, and webp images are accepted"))
			return
		}

		owner := middleware.UserEmailFromContext(r.Context())
		if owner == "" {
			owner = sessionID
		}

		publicURL, err := uploader.UploadDesignImage(r.Context(), owner, header.Filename, contentType, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"url": publicURL})
	}
}
