package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tumblera/tumblera-backend/api/controllers"
	"github.com/tumblera/tumblera-backend/api/middleware"
	authsvc "github.com/tumblera/tumblera-backend/internal/auth"
	cartsvc "github.com/tumblera/tumblera-backend/internal/cart"
	checkoutsvc "github.com/tumblera/tumblera-backend/internal/checkout"
	orderssvc "github.com/tumblera/tumblera-backend/internal/orders"
	profilessvc "github.com/tumblera/tumblera-backend/internal/profiles"
	"github.com/tumblera/tumblera-backend/pkg/auth/session"
	"github.com/tumblera/tumblera-backend/pkg/config"
	"github.com/tumblera/tumblera-backend/pkg/db"
	"github.com/tumblera/tumblera-backend/pkg/enums"
	"github.com/tumblera/tumblera-backend/pkg/logger"
	"github.com/tumblera/tumblera-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Sessions session.Checker

	Auth     authsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Orders   orderssvc.Service
	Profiles profilessvc.Service
	Uploader controllers.ImageUploader
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SessionID(logg))

		r.Route("/design", func(r chi.Router) {
			r.Get("/options", controllers.DesignOptions())
			r.Post("/preview", controllers.DesignPreview(logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", controllers.AuthSignUp(deps.Auth, logg))
			r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.Post("/seller/login", controllers.SellerLogin(deps.Auth, logg))
			r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).Post("/logout", controllers.AuthLogout(deps.Auth, logg))
		})

		// Cart and checkout accept guests; a bearer token only enriches the
		// request with the customer's identity.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.Cart, logg))
				r.Post("/", controllers.CartAdd(deps.Cart, logg))
				r.Delete("/", controllers.CartClear(deps.Cart, logg))
				r.Delete("/{itemId}", controllers.CartRemove(deps.Cart, logg))
				r.Get("/totals", controllers.CartTotals(deps.Cart, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", controllers.CheckoutSubmit(deps.Checkout, logg))
				r.Get("/receipt", controllers.CheckoutReceipt(deps.Checkout, logg))
			})

			r.Post("/media/upload", controllers.MediaUpload(deps.Uploader, cfg.Media, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Get("/orders", controllers.OrdersListMine(deps.Orders, logg))

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", controllers.ProfileFetch(deps.Profiles, logg))
				r.Put("/", controllers.ProfileSave(deps.Profiles, logg))
			})

			r.Route("/seller/orders", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.ActorRoleSeller), logg))
				r.Get("/", controllers.SellerOrdersList(deps.Orders, logg))
				r.Patch("/{orderId}/status", controllers.SellerOrderUpdateStatus(deps.Orders, logg))
			})
		})
	})

	return r
}
