package controllers

import (
	"net/http"

	"github.com/tumblera/tumblera-backend/api/middleware"
	"github.com/tumblera/tumblera-backend/api/responses"
	"github.com/tumblera/tumblera-backend/api/validators"
	checkoutsvc "github.com/tumblera/tumblera-backend/internal/checkout"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
	"github.com/tumblera/tumblera-backend/pkg/logger"
)

type checkoutRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	Notes   string `json:"notes"`
}

// CheckoutSubmit places the order for the session's cart. Guests check out
// with just the contact form; a signed-in customer's email is attached to
// the order for their history.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkoutsvc.SubmitInput{
			SessionID: sessionID,
			Contact: checkoutsvc.Contact{
				Name:    payload.Name,
				Email:   payload.Email,
				Phone:   payload.Phone,
				Address: payload.Address,
				Notes:   payload.Notes,
			},
		}
		if email := middleware.UserEmailFromContext(r.Context()); email != "" {
			input.UserID = &email
		}

		receipt, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

// CheckoutReceipt returns the ephemeral receipt stored by the last
// successful submit for this session.
func CheckoutReceipt(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		receipt, err := svc.Receipt(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, receipt)
	}
}
