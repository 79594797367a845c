// Package competitionregistration предоставляет маршруты основного приложения.
package competitionregistration

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/batchcreate"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/batchlist"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/batchremove"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/batchswitch"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/batchupdate"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/bulkstatus"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/competitioncreate"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/competitionremove"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/competitionupdate"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/participantexport"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/participants"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/posterupload"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/pricingexport"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/pricinglist"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/pricingreplace"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/admin/toggleregistration"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/auth/resetconfirm"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/auth/resetrequest"
	batchcurrent "github.com/magabrotheeeer/competition-registration/internal/http/handlers/batch/current"
	competitionlist "github.com/magabrotheeeer/competition-registration/internal/http/handlers/competition/list"
	competitionread "github.com/magabrotheeeer/competition-registration/internal/http/handlers/competition/read"
	profileread "github.com/magabrotheeeer/competition-registration/internal/http/handlers/profile/read"
	profileupdate "github.com/magabrotheeeer/competition-registration/internal/http/handlers/profile/update"
	registrationcreate "github.com/magabrotheeeer/competition-registration/internal/http/handlers/registration/create"
	registrationlist "github.com/magabrotheeeer/competition-registration/internal/http/handlers/registration/list"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/registration/proofurl"
	registrationread "github.com/magabrotheeeer/competition-registration/internal/http/handlers/registration/read"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/registration/submissions"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/registration/submitwork"
	"github.com/magabrotheeeer/competition-registration/internal/http/handlers/registration/uploadproof"
	"github.com/magabrotheeeer/competition-registration/internal/http/middlewarectx"
	"github.com/magabrotheeeer/competition-registration/internal/lib/jwt"
	adminservice "github.com/magabrotheeeer/competition-registration/internal/services/admin"
	authservice "github.com/magabrotheeeer/competition-registration/internal/services/auth"
	batchservice "github.com/magabrotheeeer/competition-registration/internal/services/batch"
	competitionservice "github.com/magabrotheeeer/competition-registration/internal/services/competition"
	pricingservice "github.com/magabrotheeeer/competition-registration/internal/services/pricing"
	profileservice "github.com/magabrotheeeer/competition-registration/internal/services/profile"
	registrationservice "github.com/magabrotheeeer/competition-registration/internal/services/registration"
)

// Services бизнес-сервисы, используемые маршрутами приложения.
type Services struct {
	Auth         *authservice.Service
	Profile      *profileservice.Service
	Batch        *batchservice.Service
	Pricing      *pricingservice.Service
	Competition  *competitionservice.Service
	Registration *registrationservice.Service
	Admin        *adminservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	limiter := rate.NewLimiter(rate.Limit(100), 200)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/reset-request", resetrequest.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/reset-confirm", resetconfirm.New(logger, s.Auth).ServeHTTP)
		r.Get("/competitions", competitionlist.New(logger, s.Competition).ServeHTTP)
		r.Get("/competitions/{id}", competitionread.New(logger, s.Competition).ServeHTTP)
		r.Get("/batches/current", batchcurrent.New(logger, s.Batch).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, limiter))
			r.Get("/profile", profileread.New(logger, s.Profile).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, s.Profile).ServeHTTP)
			r.Post("/registrations", registrationcreate.New(logger, s.Registration).ServeHTTP)
			r.Get("/registrations", registrationlist.New(logger, s.Registration).ServeHTTP)
			r.Get("/registrations/{id}", registrationread.New(logger, s.Registration).ServeHTTP)
			r.Post("/registrations/{id}/payment-proof", uploadproof.New(logger, s.Registration).ServeHTTP)
			r.Get("/registrations/{id}/payment-proof", proofurl.New(logger, s.Registration).ServeHTTP)
			r.Post("/registrations/{id}/submissions", submitwork.New(logger, s.Registration).ServeHTTP)
			r.Get("/registrations/{id}/submissions", submissions.New(logger, s.Registration).ServeHTTP)

			// Административная группа
			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Get("/batches", batchlist.New(logger, s.Batch).ServeHTTP)
				r.Post("/batches", batchcreate.New(logger, s.Admin).ServeHTTP)
				r.Put("/batches/{id}", batchupdate.New(logger, s.Admin).ServeHTTP)
				r.Delete("/batches/{id}", batchremove.New(logger, s.Admin).ServeHTTP)
				r.Post("/batches/{id}/switch", batchswitch.New(logger, s.Admin).ServeHTTP)
				r.Post("/registration/toggle", toggleregistration.New(logger, s.Admin).ServeHTTP)
				r.Post("/competitions", competitioncreate.New(logger, s.Competition).ServeHTTP)
				r.Put("/competitions/{id}", competitionupdate.New(logger, s.Competition).ServeHTTP)
				r.Delete("/competitions/{id}", competitionremove.New(logger, s.Competition).ServeHTTP)
				r.Post("/competitions/{id}/poster", posterupload.New(logger, s.Competition).ServeHTTP)
				r.Get("/pricing", pricinglist.New(logger, s.Pricing).ServeHTTP)
				r.Put("/pricing", pricingreplace.New(logger, s.Pricing).ServeHTTP)
				r.Get("/pricing/export", pricingexport.New(logger, s.Admin).ServeHTTP)
				r.Get("/participants", participants.New(logger, s.Admin).ServeHTTP)
				r.Get("/participants/export", participantexport.New(logger, s.Admin).ServeHTTP)
				r.Post("/registrations/status", bulkstatus.New(logger, s.Admin).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
