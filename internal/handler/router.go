package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	catalogHandler "github.com/nightsky-edu/astrolearn/backend/internal/handler/catalog"
	chatHandler "github.com/nightsky-edu/astrolearn/backend/internal/handler/chat"
	credentialHandler "github.com/nightsky-edu/astrolearn/backend/internal/handler/credentials"
	wsHandler "github.com/nightsky-edu/astrolearn/backend/internal/handler/ws"
	middlewarePkg "github.com/nightsky-edu/astrolearn/backend/internal/middleware"
	"github.com/nightsky-edu/astrolearn/backend/internal/model/knowledge"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/credential"
	"github.com/nightsky-edu/astrolearn/backend/internal/service/orchestrator"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(orch *orchestrator.Orchestrator, catalog knowledge.Catalog, creds *credential.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		chatHandler.New(orch).RegisterRoutes(api)
		catalogHandler.New(catalog).RegisterRoutes(api)
		credentialHandler.New(creds).RegisterRoutes(api)
		wsHandler.New(orch.Store()).RegisterRoutes(api)
	})

	return r
}
