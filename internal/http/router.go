package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mdinsert/internal/handlers"
	"mdinsert/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	DocumentService service.DocumentService
	DB              handlers.Pinger
	// AllowedOrigins lists origins granted CORS access. Empty grants none.
	AllowedOrigins []string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(deps.AllowedOrigins))

	healthHandler := handlers.NewHealthHandler(deps.DB)
	preprocessHandler := handlers.NewPreprocessHandler(deps.DocumentService)
	renderHandler := handlers.NewRenderHandler(deps.DocumentService)
	documentHandler := handlers.NewDocumentHandler(deps.DocumentService)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Route("/v1", func(r chi.Router) {
			r.Method(http.MethodPost, "/preprocess", preprocessHandler)
			r.Method(http.MethodPost, "/render", renderHandler)

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", documentHandler.List)
				r.Route("/{name}", func(r chi.Router) {
					r.Put("/", documentHandler.Save)
					r.Get("/", documentHandler.Get)
					r.Delete("/", documentHandler.Delete)
					r.Get("/render", documentHandler.Render)
					r.Get("/html", documentHandler.HTML)
				})
			})
		})
	})

	return r
}
