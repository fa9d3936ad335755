package handlers

import (
	"context"
	"net/http"

	"github.com/GregMSThompson/hisaab-profiles/internal/dto"
	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/internal/services"
)

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":true}`))
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, _, _ string) {
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

type stubProfileStore struct {
	profiles    models.ProfileCollection
	selected    string
	loadSource  services.Source
	loadCalled  bool
	selectCalls []string
}

func (s *stubProfileStore) Profiles() models.ProfileCollection { return s.profiles.Clone() }

func (s *stubProfileStore) Get(key string) (models.Profile, bool) {
	p, ok := s.profiles[key]
	return p, ok
}

func (s *stubProfileStore) GetOrDefault(key string) models.Profile {
	if p, ok := s.profiles[key]; ok {
		return p
	}
	return models.Profile{Name: key}
}

func (s *stubProfileStore) GetBankList(key string) []string {
	return services.ParseBankList(s.profiles[key].Bank)
}

func (s *stubProfileStore) LoadAll(context.Context) services.Source {
	s.loadCalled = true
	return s.loadSource
}

func (s *stubProfileStore) Select(_ context.Context, key string) {
	s.selected = key
	s.selectCalls = append(s.selectCalls, key)
}

func (s *stubProfileStore) Selected() (string, bool) { return s.selected, s.selected != "" }

func (s *stubProfileStore) ClearSelection(context.Context) { s.selected = "" }

type stubProfileService struct {
	key       string
	saveReq   dto.SaveProfileRequest
	updateReq dto.UpdateProfileRequest
	photo     string
	removed   bool
	result    dto.SaveProfileResult
	err       error
}

func (s *stubProfileService) SaveProfile(_ context.Context, key string, req dto.SaveProfileRequest) (dto.SaveProfileResult, error) {
	s.key, s.saveReq = key, req
	return s.result, s.err
}

func (s *stubProfileService) UpdateDetails(_ context.Context, key string, req dto.UpdateProfileRequest) (dto.SaveProfileResult, error) {
	s.key, s.updateReq = key, req
	return s.result, s.err
}

func (s *stubProfileService) UploadPhoto(_ context.Context, key, photo string) (dto.SaveProfileResult, error) {
	s.key, s.photo = key, photo
	return s.result, s.err
}

func (s *stubProfileService) RemovePhoto(_ context.Context, key string) (dto.SaveProfileResult, error) {
	s.key, s.removed = key, true
	return s.result, s.err
}

type stubParticipantService struct {
	names   []string
	added   string
	removed string
	err     error
}

func (s *stubParticipantService) List(context.Context) []string { return s.names }

func (s *stubParticipantService) Add(_ context.Context, name string) ([]string, error) {
	s.added = name
	if s.err != nil {
		return nil, s.err
	}
	return append(s.names, name), nil
}

func (s *stubParticipantService) Remove(_ context.Context, name string) ([]string, error) {
	s.removed = name
	return []string{}, s.err
}
