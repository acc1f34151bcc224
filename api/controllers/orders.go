package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tumblera/tumblera-backend/api/middleware"
	"github.com/tumblera/tumblera-backend/api/responses"
	"github.com/tumblera/tumblera-backend/api/validators"
	orderssvc "github.com/tumblera/tumblera-backend/internal/orders"
	"github.com/tumblera/tumblera-backend/pkg/enums"
	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
	"github.com/tumblera/tumblera-backend/pkg/logger"
)

// OrdersListMine returns the signed-in customer's order history.
func OrdersListMine(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := middleware.UserEmailFromContext(r.Context())

		records, err := svc.ListMine(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

// SellerOrdersList returns every order for the seller dashboard.
func SellerOrdersList(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := enums.ActorRole(middleware.RoleFromContext(r.Context()))

		records, err := svc.ListAll(r.Context(), role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, records)
	}
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SellerOrderUpdateStatus transitions one order's fulfillment status.
func SellerOrderUpdateStatus(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := enums.ActorRole(middleware.RoleFromContext(r.Context()))

		orderID, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		updated, err := svc.UpdateStatus(r.Context(), role, orderID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}
