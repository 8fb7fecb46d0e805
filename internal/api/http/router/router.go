package router

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	httpctx "github.com/dtroode/catalog-server/internal/api/http/context"
	"github.com/dtroode/catalog-server/internal/api/http/handler"
	"github.com/dtroode/catalog-server/internal/api/http/middleware"
	"github.com/dtroode/catalog-server/internal/logger"
	"github.com/dtroode/catalog-server/internal/service"
)

// Options holds the transport settings of the router.
type Options struct {
	AllowedOrigins []string
	AssetsPrefix   string
	MaxUploadSize  int64
}

// Router represents the HTTP router of the catalog API.
// It wires handlers to routes and sets up the middleware chain.
type Router struct {
	authService    *service.Auth
	productService *service.Product
	userService    *service.User
	assets         *service.Assets
	contextManager *httpctx.Manager
	opts           Options
	logger         *logger.Logger
}

// New creates new Router instance.
func New(
	authService *service.Auth,
	productService *service.Product,
	userService *service.User,
	assets *service.Assets,
	contextManager *httpctx.Manager,
	opts Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		productService: productService,
		userService:    userService,
		assets:         assets,
		contextManager: contextManager,
		opts:           opts,
		logger:         logger,
	}
}

// Register builds the route table and returns the root handler.
//
// Requests pass through request id tagging, access logging and CORS before
// reaching the routes. Protected routes are additionally wrapped with bearer
// authentication.
func (r *Router) Register() http.Handler {
	m := mux.NewRouter()
	m.NotFoundHandler = http.HandlerFunc(handler.NotFound)
	m.MethodNotAllowedHandler = http.HandlerFunc(handler.MethodNotAllowed)

	authenticate := middleware.NewAuthenticate(r.authService, r.contextManager, r.logger)

	m.HandleFunc("/", handler.Root).Methods(http.MethodGet)
	r.registerAuthRoutes(m)
	r.registerProductRoutes(m, authenticate.Handle)
	r.registerUserRoutes(m, authenticate.Handle)
	r.registerAssetRoutes(m)

	cors := handlers.CORS(
		handlers.AllowedOrigins(r.opts.AllowedOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
		handlers.AllowCredentials(),
	)
	logging := middleware.NewLogging(r.contextManager, r.logger)
	requestID := middleware.NewRequestID(r.contextManager)

	return requestID.Handle(logging.Handle(cors(m)))
}

func (r *Router) registerAuthRoutes(m *mux.Router) {
	authHandler := handler.NewAuth(r.authService, r.logger)
	m.HandleFunc("/api/login", authHandler.Login).Methods(http.MethodPost)
}

func (r *Router) registerProductRoutes(m *mux.Router, protect func(http.Handler) http.Handler) {
	h := handler.NewProduct(r.productService, r.opts.MaxUploadSize, r.logger)

	m.HandleFunc("/api/products", h.List).Methods(http.MethodGet)
	m.Handle("/api/products", protect(http.HandlerFunc(h.Create))).Methods(http.MethodPost)
	m.HandleFunc("/api/products/{id:[0-9]+}", h.Get).Methods(http.MethodGet)
	m.Handle("/api/products/{id:[0-9]+}", protect(http.HandlerFunc(h.Update))).Methods(http.MethodPut)
	m.Handle("/api/products/{id:[0-9]+}", protect(http.HandlerFunc(h.Delete))).Methods(http.MethodDelete)
	m.HandleFunc("/api/categories", h.Categories).Methods(http.MethodGet)
}

func (r *Router) registerUserRoutes(m *mux.Router, protect func(http.Handler) http.Handler) {
	h := handler.NewUser(r.userService, r.contextManager, r.logger)

	m.Handle("/api/users", protect(http.HandlerFunc(h.List))).Methods(http.MethodGet)
	m.Handle("/api/users", protect(http.HandlerFunc(h.Create))).Methods(http.MethodPost)
	m.Handle("/api/users/{id:[0-9]+}", protect(http.HandlerFunc(h.Get))).Methods(http.MethodGet)
	m.Handle("/api/users/{id:[0-9]+}", protect(http.HandlerFunc(h.Update))).Methods(http.MethodPut)
	m.Handle("/api/users/{id:[0-9]+}", protect(http.HandlerFunc(h.Delete))).Methods(http.MethodDelete)
	m.Handle("/api/profile", protect(http.HandlerFunc(h.UpdateProfile))).Methods(http.MethodPut)
	m.Handle("/api/change-password", protect(http.HandlerFunc(h.ChangePassword))).Methods(http.MethodPost)
}

func (r *Router) registerAssetRoutes(m *mux.Router) {
	h := handler.NewAsset(r.assets, r.logger)
	m.HandleFunc(r.opts.AssetsPrefix+"/{name}", h.Serve).Methods(http.MethodGet)
}
