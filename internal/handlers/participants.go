package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/hisaab-profiles/internal/dto"
	"github.com/GregMSThompson/hisaab-profiles/internal/response"
)

type participantService interface {
	List(ctx context.Context) []string
	Add(ctx context.Context, name string) ([]string, error)
	Remove(ctx context.Context, name string) ([]string, error)
}

type participantHandlers struct {
	ResponseHandler response.ResponseHandler
	ParticipantSvc  participantService
}

func NewParticipantHandlers(deps *Deps) *participantHandlers {
	return &participantHandlers{
		ResponseHandler: deps.ResponseHandler,
		ParticipantSvc:  deps.ParticipantSvc,
	}
}

func (h *participantHandlers) ParticipantRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Add)
	r.Delete("/{name}", h.Remove)
	return r
}

func (h *participantHandlers) List(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.ParticipantSvc.List(r.Context()))
}

func (h *participantHandlers) Add(w http.ResponseWriter, r *http.Request) {
	var req dto.ParticipantRequest
	if err := decode(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	names, err := h.ParticipantSvc.Add(r.Context(), req.Name)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, names)
}

// Remove drops the name from the list; its profile is kept.
func (h *participantHandlers) Remove(w http.ResponseWriter, r *http.Request) {
	names, err := h.ParticipantSvc.Remove(r.Context(), pathParam(r, "name"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, names)
}
