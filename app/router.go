package app

import (
	"context"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"market-directory/internal/auth"
	"market-directory/internal/directory"
	"market-directory/internal/httpjson"
	"market-directory/internal/observability"
	"market-directory/internal/stock"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Logger      *observability.Logger
	Responder   *httpjson.Responder
	Auth        *auth.Handler
	Tokens      auth.TokenVerifier
	Limiter     *auth.RateLimiter
	Directory   *directory.Handler
	Stock       *stock.Handler
	DB          Pinger
	CORSOrigins []string

	// TrustProxyHeaders rewrites RemoteAddr from X-Forwarded-For, X-Real-IP
	// or True-Client-IP. Off, the limiter keys on the socket address.
	TrustProxyHeaders bool
}

var endpointDocs = map[string]string{
	"/api/companies":                                "GET - Get all companies",
	"/api/companies/<company_id>":                   "GET - Get company details by ID",
	"/api/companies/<company_id>/locations":         "GET - Get all locations for a specific company ID",
	"/api/register":                                 "POST - Register a new user",
	"/api/login":                                    "POST - Login an existing user",
	"/api/stock/<symbol>":                           "GET - Get generated stock prices for a company symbol",
	"/api/stock_prices/<company_name>/<time_frame>": "GET - Get generated prices for a company over 5y, 1y, 6m, 1m or 1d",
	"/health":                                       "GET - Service and database health",
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(func(next http.Handler) http.Handler { return observability.RecoverMiddleware(d.Logger, next) })
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	if d.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(func(next http.Handler) http.Handler { return observability.RequestLoggingMiddleware(d.Logger, next) })
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", observability.RequestIDHeader},
		ExposedHeaders: []string{observability.RequestIDHeader, "Retry-After"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpjson.WriteError(w, http.StatusNotFound, "Could not find resource")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpjson.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", healthHandler(d.DB))
	r.Get("/api/api-docs", apiDocs)
	r.Get("/api/companies", d.Directory.ListCompanies)

	r.Group(func(r chi.Router) {
		r.Use(d.Limiter.Middleware)
		r.Post("/api/register", d.Auth.Register)
		r.Post("/api/login", d.Auth.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(d.Tokens, d.Responder))
		r.Get("/api/companies/{id}", d.Directory.GetCompany)
		r.Get("/api/companies/{id}/locations", d.Directory.ListLocations)
		r.Get("/api/stock/{symbol}", d.Stock.Symbol)
		r.Get("/api/stock_prices/{company}/{time_frame}", d.Stock.CompanyPrices)
	})

	return r
}

func apiDocs(w http.ResponseWriter, r *http.Request) {
	httpjson.WriteJSON(w, http.StatusOK, map[string]any{"endpoints": endpointDocs})
}

func healthHandler(database Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]any{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)}
		if err := database.PingContext(ctx); err != nil {
			if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
				hub.AddBreadcrumb(&sentry.Breadcrumb{Category: "health", Message: err.Error(), Level: sentry.LevelWarning}, nil)
			}
			status = http.StatusServiceUnavailable
			body = map[string]any{"status": "degraded", "time": time.Now().UTC().Format(time.RFC3339)}
		}

		httpjson.WriteJSON(w, status, body)
	}
}
