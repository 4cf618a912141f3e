package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/todo/domain"
	"github.com/aussiebroadwan/taskboard/internal/todo/service"
	"github.com/aussiebroadwan/taskboard/internal/todo/store"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// RateLimits holds the per-route limit profiles.
type RateLimits struct {
	Strict   httpx.RateLimitConfig
	Moderate httpx.RateLimitConfig
	Lenient  httpx.RateLimitConfig
	Public   httpx.RateLimitConfig

	// TrustProxyHeaders keys anonymous buckets on X-Forwarded-For and
	// X-Real-IP. Only set it behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// DefaultRateLimits returns the httpx profiles, including any environment
// overrides.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   httpx.StrictLimit,
		Moderate: httpx.ModerateLimit,
		Lenient:  httpx.LenientLimit,
		Public:   httpx.PublicLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux     *http.ServeMux
	handler http.Handler

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AuthService    *service.AuthService
	TodoService    *service.TodoService
	TrashService   *service.TrashService
	HolidayService *service.HolidayService

	RateLimits RateLimits
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		RateLimits:   DefaultRateLimits(),
	}

	r.handler = httpx.Chain(r.Mux,
		slogx.HTTPMiddleware(r.logger),
		httpx.SecureHeaders(),
		httpx.MaxBodyBytes(httpx.DefaultMaxBodyBytes),
	)

	return r
}

// ApplyRoutes registers every route. Services must be set first.
func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerTodos()
	r.registerTrash()
	r.registerHolidays()
	r.registerSystem()

	r.Mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
}

// ServeHTTP runs req through the global middleware chain built by NewRouter.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

// authed wraps h with the auth gate and a per-user rate limit.
func (r *Router) authed(h http.HandlerFunc, limit httpx.RateLimitConfig, extra ...httpx.Middleware) http.Handler {
	mws := []httpx.Middleware{httpx.AuthnMiddleware(r.verifier, r.AuthService)}
	mws = append(mws, extra...)
	mws = append(mws, httpx.RateLimitByUser(limit, r.RateLimits.TrustProxyHeaders))
	return httpx.Chain(h, mws...)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential endpoints are brute force targets: strict, by IP.
	strict := httpx.RateLimitByIP(r.RateLimits.Strict, r.RateLimits.TrustProxyHeaders)
	r.Mux.Handle("POST /api/auth/register", httpx.Chain(http.HandlerFunc(h.HandleRegister), strict))
	r.Mux.Handle("POST /api/auth/login", httpx.Chain(http.HandlerFunc(h.HandleLogin), strict))
	r.Mux.Handle("POST /api/auth/refresh", httpx.Chain(http.HandlerFunc(h.HandleRefresh), strict))

	public := httpx.RateLimitByIP(r.RateLimits.Public, r.RateLimits.TrustProxyHeaders)
	r.Mux.Handle("POST /api/auth/logout", httpx.Chain(http.HandlerFunc(h.HandleLogout), public))
}

func (r *Router) registerTodos() {
	h := &TodoHandler{TodoService: r.TodoService}

	r.Mux.Handle("GET /api/todos", r.authed(h.HandleList, r.RateLimits.Lenient))
	r.Mux.Handle("GET /api/todos/{id}", r.authed(h.HandleGet, r.RateLimits.Lenient))

	r.Mux.Handle("POST /api/todos", r.authed(h.HandleCreate, r.RateLimits.Moderate))
	r.Mux.Handle("PUT /api/todos/{id}", r.authed(h.HandleUpdate, r.RateLimits.Moderate))
	r.Mux.Handle("PATCH /api/todos/{id}/complete", r.authed(h.HandleToggle, r.RateLimits.Moderate))
	r.Mux.Handle("DELETE /api/todos/{id}", r.authed(h.HandleDelete, r.RateLimits.Moderate))
	r.Mux.Handle("PATCH /api/todos/{id}/restore", r.authed(h.HandleRestore, r.RateLimits.Moderate))
}

func (r *Router) registerTrash() {
	h := &TrashHandler{TrashService: r.TrashService}

	r.Mux.Handle("GET /api/trash", r.authed(h.HandleList, r.RateLimits.Lenient))
	r.Mux.Handle("DELETE /api/trash/{id}", r.authed(h.HandlePurge, r.RateLimits.Moderate))
	r.Mux.Handle("PATCH /api/trash/{id}/restore", r.authed(h.HandleRestore, r.RateLimits.Moderate))
}

func (r *Router) registerHolidays() {
	h := &HolidayHandler{HolidayService: r.HolidayService}

	public := httpx.RateLimitByIP(r.RateLimits.Public, r.RateLimits.TrustProxyHeaders)
	r.Mux.Handle("GET /api/holidays", httpx.Chain(http.HandlerFunc(h.HandleList), public))
	r.Mux.Handle("GET /api/holidays/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), public))

	admin := httpx.RequireRole(string(domain.RoleAdmin))
	r.Mux.Handle("POST /api/holidays", r.authed(h.HandleCreate, r.RateLimits.Moderate, admin))
	r.Mux.Handle("PUT /api/holidays/{id}", r.authed(h.HandleUpdate, r.RateLimits.Moderate, admin))
	r.Mux.Handle("DELETE /api/holidays/{id}", r.authed(h.HandleDelete, r.RateLimits.Moderate, admin))
}

func (r *Router) registerSystem() {
	public := httpx.RateLimitByIP(r.RateLimits.Public, r.RateLimits.TrustProxyHeaders)

	r.Mux.Handle("GET /api/health", httpx.Chain(HealthHandler(), public))
	r.Mux.Handle("GET /livez", httpx.Chain(LivezHandler(r.startTime, r.buildVersion), public))
	r.Mux.Handle("GET /readyz", httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store), public))
}
