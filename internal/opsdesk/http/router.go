package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/service"
	"github.com/aussiebroadwan/opsdesk/internal/opsdesk/store"
	"github.com/aussiebroadwan/opsdesk/pkg/httpx"
	"github.com/aussiebroadwan/opsdesk/pkg/jwtx"
	"github.com/aussiebroadwan/opsdesk/pkg/slogx"

	_ "github.com/aussiebroadwan/opsdesk/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	AuthService       *service.AuthService
	BootstrapService  *service.BootstrapService
	UserService       *service.UserService
	DepartmentService *service.DepartmentService
	AssetService      *service.AssetService
	ItemService       *service.ItemService
	TicketService     *service.TicketService
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
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerDepartments()
	r.registerAssets()
	r.registerItems()
	r.registerTickets()
	r.registerSystem()
	r.registerBootstrap()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			OpsDesk API
//	@version		0.1.0
//	@description	Internal operations desk tracking assets, deployable items, tickets,
//	@description	departments and users. Mutating endpoints require a Bearer token; the
//	@description	caller's role decides which resources they may change.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/opsdesk
//
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
	// POST /auth/signin - strict rate limit by IP (authentication attempts)
	signinHandler := &SigninHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/auth/signin",
		httpx.Chain(signinHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerBootstrap() {
	// POST /bootstrap - very strict rate limit by IP (one-time setup endpoint)
	bootstrapHandler := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(bootstrapHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	// User management is admin only
	policy := httpx.NewPolicy("admin")

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.Authorize(r.verifier, policy),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/users", secured(h.HandleCreate))
	r.Mux.Handle("GET /v1/users", secured(h.HandleList))
	r.Mux.Handle("GET /v1/users/{id}", secured(h.HandleGet))
	r.Mux.Handle("PATCH /v1/users/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/users/{id}", secured(h.HandleDelete))
}

func (r *Router) registerDepartments() {
	h := &DepartmentsHandler{DepartmentService: r.DepartmentService}

	// Department changes are admin only; reads pass through ungated
	policy := httpx.NewPolicy("admin")

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.Authorize(r.verifier, policy),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/departments", secured(h.HandleCreate))
	r.Mux.Handle("GET /v1/departments", secured(h.HandleList))
	r.Mux.Handle("GET /v1/departments/{id}", secured(h.HandleGet))
	r.Mux.Handle("PATCH /v1/departments/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/departments/{id}", secured(h.HandleDelete))
}

func (r *Router) registerAssets() {
	h := &AssetsHandler{AssetService: r.AssetService}
	items := &ItemsHandler{ItemService: r.ItemService}

	// Asset catalogue changes need admin or manager; reads pass through
	policy := httpx.NewPolicy("admin", "manager")

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.Authorize(r.verifier, policy),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/assets", secured(h.HandleCreate))
	r.Mux.Handle("GET /v1/assets", secured(h.HandleList))
	r.Mux.Handle("GET /v1/assets/{id}", secured(h.HandleGet))
	r.Mux.Handle("PATCH /v1/assets/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/assets/{id}", secured(h.HandleDelete))

	r.Mux.Handle("POST /v1/assets/{id}/items", secured(h.HandleCreateItems))
	r.Mux.Handle("GET /v1/assets/{id}/items", secured(items.HandleListByAsset))

	r.Mux.Handle("POST /v1/assets/{id}/images", secured(h.HandleAddImages))
	r.Mux.Handle("DELETE /v1/assets/{id}/images/{imgIndex}", secured(h.HandleRemoveImage))
}

func (r *Router) registerItems() {
	h := &ItemsHandler{ItemService: r.ItemService}

	// Item changes need admin or manager, matching the asset catalogue
	policy := httpx.NewPolicy("admin", "manager")

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.Authorize(r.verifier, policy),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/items/{id}", secured(h.HandleGet))
	r.Mux.Handle("PATCH /v1/items/{id}", secured(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/items/{id}", secured(h.HandleDelete))
}

func (r *Router) registerTickets() {
	h := &TicketsHandler{TicketService: r.TicketService}

	// Any authenticated user may raise and work tickets
	policy := httpx.NewPolicy()

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.Authorize(r.verifier, policy),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/tickets", secured(h.HandleCreate))
	r.Mux.Handle("GET /v1/tickets", secured(h.HandleList))
	r.Mux.Handle("GET /v1/tickets/{id}", secured(h.HandleGet))
	r.Mux.Handle("PATCH /v1/tickets/{id}", secured(h.HandleUpdate))

	r.Mux.Handle("POST /v1/tickets/{id}/images", secured(h.HandleAddImages))
	r.Mux.Handle("DELETE /v1/tickets/{id}/images/{imgIndex}", secured(h.HandleRemoveImage))
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
