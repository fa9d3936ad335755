package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/hisaab-profiles/internal/dto"
	"github.com/GregMSThompson/hisaab-profiles/internal/errs"
	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/internal/response"
	"github.com/GregMSThompson/hisaab-profiles/internal/services"
)

type profileStore interface {
	Profiles() models.ProfileCollection
	Get(key string) (models.Profile, bool)
	GetOrDefault(key string) models.Profile
	GetBankList(key string) []string
	LoadAll(ctx context.Context) services.Source
	Select(ctx context.Context, key string)
	Selected() (string, bool)
	ClearSelection(ctx context.Context)
}

type profileService interface {
	SaveProfile(ctx context.Context, key string, req dto.SaveProfileRequest) (dto.SaveProfileResult, error)
	UpdateDetails(ctx context.Context, key string, req dto.UpdateProfileRequest) (dto.SaveProfileResult, error)
	UploadPhoto(ctx context.Context, key, photoData string) (dto.SaveProfileResult, error)
	RemovePhoto(ctx context.Context, key string) (dto.SaveProfileResult, error)
}

type profileHandlers struct {
	ResponseHandler response.ResponseHandler
	Store           profileStore
	ProfileSvc      profileService
}

func NewProfileHandlers(deps *Deps) *profileHandlers {
	return &profileHandlers{
		ResponseHandler: deps.ResponseHandler,
		Store:           deps.ProfileStore,
		ProfileSvc:      deps.ProfileSvc,
	}
}

func (h *profileHandlers) ProfileRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListProfiles)
	r.Post("/reload", h.Reload)
	r.Get("/selection", h.GetSelection) // must be before /{key}
	r.Put("/selection", h.Select)
	r.Delete("/selection", h.ClearSelection)
	r.Get("/{key}", h.GetProfile)
	r.Put("/{key}", h.SaveProfile)
	r.Patch("/{key}", h.UpdateDetails)
	r.Put("/{key}/photo", h.UploadPhoto)
	r.Delete("/{key}/photo", h.RemovePhoto)
	r.Get("/{key}/banks", h.GetBankList)
	r.Get("/{key}/color", h.GetColor)
	return r
}

// keyParam returns the decoded {key} path segment.
func keyParam(r *http.Request) string {
	return pathParam(r, "key")
}

// pathParam returns a decoded URL param. chi matches against RawPath when it
// is set, leaving segments escaped; otherwise they are already decoded and
// must not be unescaped again.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.NewValidationError("invalid request body")
	}
	return nil
}

func (h *profileHandlers) ListProfiles(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.Store.Profiles())
}

// GetProfile returns the stored profile, or the default one for an unknown
// key unless strict=true is set.
func (h *profileHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	key := keyParam(r)
	if r.URL.Query().Get("strict") == "true" {
		p, ok := h.Store.Get(key)
		if !ok {
			h.ResponseHandler.HandleError(w, r, errs.NewNotFoundError("profile not found"))
			return
		}
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, p)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.Store.GetOrDefault(key))
}

func (h *profileHandlers) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveProfileRequest
	if err := decode(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	res, err := h.ProfileSvc.SaveProfile(r.Context(), keyParam(r), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *profileHandlers) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if err := decode(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	res, err := h.ProfileSvc.UpdateDetails(r.Context(), keyParam(r), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *profileHandlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	var req dto.PhotoRequest
	if err := decode(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	res, err := h.ProfileSvc.UploadPhoto(r.Context(), keyParam(r), req.PhotoData)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *profileHandlers) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	res, err := h.ProfileSvc.RemovePhoto(r.Context(), keyParam(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

func (h *profileHandlers) GetBankList(w http.ResponseWriter, r *http.Request) {
	key := keyParam(r)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.BankListResponse{
		Key:   key,
		Banks: h.Store.GetBankList(key),
	})
}

func (h *profileHandlers) GetColor(w http.ResponseWriter, r *http.Request) {
	key := keyParam(r)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.ColorResponse{
		Key:   key,
		Color: services.DeriveDisplayColor(key),
	})
}

func (h *profileHandlers) Reload(w http.ResponseWriter, r *http.Request) {
	src := h.Store.LoadAll(r.Context())
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.ReloadResponse{
		Source: src.String(),
		Count:  len(h.Store.Profiles()),
	})
}

func (h *profileHandlers) GetSelection(w http.ResponseWriter, r *http.Request) {
	key, ok := h.Store.Selected()
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.SelectionResponse{Key: key, Selected: ok})
}

func (h *profileHandlers) Select(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectionRequest
	if err := decode(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	key := strings.TrimSpace(req.Key)
	if key == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("key is required"))
		return
	}
	h.Store.Select(r.Context(), key)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.SelectionResponse{Key: key, Selected: true})
}

func (h *profileHandlers) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.Store.ClearSelection(r.Context())
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.SelectionResponse{})
}
