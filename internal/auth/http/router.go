package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tradutor-app/auth/internal/auth/domain"
	"github.com/tradutor-app/auth/internal/auth/mail"
	"github.com/tradutor-app/auth/internal/auth/service"
	"github.com/tradutor-app/auth/internal/auth/store"
	"github.com/tradutor-app/auth/pkg/httpx"
	"github.com/tradutor-app/auth/pkg/jwtx"
	"github.com/tradutor-app/auth/pkg/slogx"

	_ "github.com/tradutor-app/auth/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	issuer       *jwtx.Issuer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	TokenService   *service.TokenService
	AccountService *service.AccountService
	ResetService   *service.ResetService

	Mailer   mail.Mailer
	ResetURL string
}

func NewRouter(
	issuer *jwtx.Issuer,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPasswordReset()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Tradutor Authentication Service API
//	@version		0.1.0
//	@description	Token issuance and password reset for the Tradutor platform.
//	@description
//	@description				Access and refresh tokens are self-contained HMAC-signed JWTs carrying a
//	@description				token_type claim. Password reset links are single-use and expire quickly.
//	@description
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /register - strict rate limit by IP (public account creation)
	registerHandler := &RegisterHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /refresh - lenient rate limit (legitimate clients refresh often)
	refreshHandler := &RefreshHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /userinfo - authenticated, lenient rate limit
	userInfoHandler := &UserInfoHandler{AccountService: r.AccountService}
	r.Mux.Handle("GET /v1/auth/userinfo",
		httpx.Chain(userInfoHandler,
			httpx.AuthnMiddleware(r.issuer),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerPasswordReset() {
	// POST /forgot-password - strict rate limit by IP (triggers outbound mail)
	forgotHandler := &ForgotPasswordHandler{
		AccountService: r.AccountService,
		ResetService:   r.ResetService,
		Mailer:         r.Mailer,
		ResetURL:       r.ResetURL,
		Logger:         r.logger,
	}
	r.Mux.Handle("POST /v1/auth/forgot-password",
		httpx.Chain(forgotHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /reset-password - strict rate limit by IP (secret guessing)
	resetHandler := &ResetPasswordHandler{ResetService: r.ResetService}
	r.Mux.Handle("POST /v1/auth/reset-password",
		httpx.Chain(resetHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminAccountsHandler{AccountService: r.AccountService}

	// Admin endpoints - authenticated, role-gated, lenient rate limit
	securedGet := httpx.Chain(http.HandlerFunc(h.HandleGet),
		httpx.AuthnMiddleware(r.issuer),
		httpx.RequireRole(domain.RoleAdmin),
		httpx.RateLimitByIP(httpx.LenientLimit),
	)
	securedSetActive := httpx.Chain(http.HandlerFunc(h.HandleSetActive),
		httpx.AuthnMiddleware(r.issuer),
		httpx.RequireRole(domain.RoleAdmin),
		httpx.RateLimitByIP(httpx.LenientLimit),
	)

	r.Mux.Handle("GET /v1/admin/accounts/{id}", securedGet)
	r.Mux.Handle("PUT /v1/admin/accounts/{id}/active", securedSetActive)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
