package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/hisaab-profiles/internal/handlers"
	"github.com/GregMSThompson/hisaab-profiles/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(chimiddleware.RequestID)
	r.Use(lm.LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	ph := handlers.NewProfileHandlers(deps)
	pth := handlers.NewParticipantHandlers(deps)

	r.Mount("/profiles", ph.ProfileRoutes())
	r.Mount("/participants", pth.ParticipantRoutes())
	r.Handle("/ws", deps.RenderHub)
	return r
}
