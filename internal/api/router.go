package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// NewRouter mounts every route under the configured base path.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.HTTP.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorEnvelope{Message: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorEnvelope{Message: "Method not allowed"})
	})

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)

	r.Route(h.cfg.HTTP.BasePath, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			limit := httprate.Limit(
				h.cfg.HTTP.AuthRateLimit.Requests,
				h.cfg.HTTP.AuthRateLimit.Window,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					h.writeError(w, r, errRateLimited)
				}),
			)
			r.With(limit).Post("/register", h.Register)
			r.With(limit).Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/refresh-token", h.RefreshToken)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/top-rated", h.TopRated)
			r.Get("/{id}", h.GetUser)

			r.Group(func(r chi.Router) {
				r.Use(h.RequireAuth)
				r.Get("/me", h.Me)
				r.Patch("/profile", h.UpdateProfile)
				r.Patch("/{id}/status", h.SetUserStatus)
			})
		})

		r.Route("/booking", func(r chi.Router) {
			r.With(h.OptionalAuth).Post("/create", h.CreateBooking)

			r.Group(func(r chi.Router) {
				r.Use(h.RequireAuth)
				r.Get("/all", h.ListBookings)
				r.Get("/user/{userId}", h.ListCustomerBookings)
				r.Get("/provider/{providerId}", h.ListProviderBookings)
				r.Get("/provider/{providerId}/stats", h.ProviderStats)
				r.Get("/provider/{providerId}/export", h.ExportProviderBookings)
				r.Patch("/status/{id}", h.SetBookingStatus)

				r.Post("/modifications", h.CreateModification)
				r.Get("/modifications/{id}", h.ListModifications)
				r.Patch("/modifications/{id}", h.UpdateModification)
				r.Delete("/modifications/{id}", h.DeleteModification)

				r.Get("/{id}", h.GetBooking)
				r.Patch("/{id}", h.UpdateBooking)
				r.Delete("/{id}", h.DeleteBooking)
			})
		})

		r.Route("/service", func(r chi.Router) {
			r.Get("/categories", h.ListCategories)
			r.Get("/categories/{id}", h.GetCategory)
			r.Get("/subCategories/{categoryId}", h.ListSubCategories)
			r.Get("/certifications/{userId}", h.ListCertifications)
			r.Get("/packages/{userId}", h.ListPackages)
			r.Get("/portfolios/{userId}", h.ListPortfolios)
			r.Get("/reviews", h.ListReviews)
			r.Get("/reviews/{userId}", h.ListUserReviews)
			r.Get("/reviews/provider/{providerId}", h.ListProviderReviews)
			r.Get("/review/{id}", h.GetReview)

			r.Group(func(r chi.Router) {
				r.Use(h.RequireAuth)

				r.Post("/createCategory", h.CreateCategory)
				r.Patch("/categories/{id}", h.UpdateCategory)
				r.Delete("/categories/{id}", h.DeleteCategory)

				r.Post("/createSubCategory", h.CreateSubCategory)
				r.Patch("/updateSubCategory/{id}", h.UpdateSubCategory)
				r.Delete("/deleteSubCategory/{id}", h.DeleteSubCategory)

				r.Post("/createCertification", h.CreateCertification)
				r.Patch("/updateCertification/{id}", h.UpdateCertification)
				r.Delete("/deleteCertification/{id}", h.DeleteCertification)

				r.Post("/createPackage", h.CreatePackage)
				r.Patch("/updatePackage/{id}", h.UpdatePackage)
				r.Delete("/deletePackage/{id}", h.DeletePackage)

				r.Post("/portfolioCreate", h.CreatePortfolio)
				r.Patch("/updatePortfolio/{id}", h.UpdatePortfolio)
				r.Delete("/deletePortfolio/{id}", h.DeletePortfolio)

				r.Post("/createReview", h.CreateReview)
				r.Patch("/updateReview/{id}", h.UpdateReview)
				r.Delete("/deleteReview/{id}", h.DeleteReview)
			})
		})
	})

	return r
}
