package controllers

import (
	"net/http"

	"github.com/tumblera/tumblera-backend/api/middleware"
	"github.com/tumblera/tumblera-backend/api/responses"
	"github.com/tumblera/tumblera-backend/api/validators"
	profilessvc "github.com/tumblera/tumblera-backend/internal/profiles"
	"github.com/tumblera/tumblera-backend/pkg/logger"
)

// ProfileFetch returns the checkout prefill for the signed-in customer.
func ProfileFetch(svc profilessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := middleware.UserEmailFromContext(r.Context())

		prefill, err := svc.Get(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, prefill)
	}
}

type profileSaveRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ProfileSave stores the prefill, last writer wins.
func ProfileSave(svc profilessvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := middleware.UserEmailFromContext(r.Context())

		var payload profileSaveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prefill := profilessvc.Prefill{
			Name:    payload.Name,
			Phone:   payload.Phone,
			Address: payload.Address,
		}
		if err := svc.Save(r.Context(), email, prefill); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, prefill)
	}
}
