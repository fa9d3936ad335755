package handlers

import (
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/hisaab-profiles/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	ProfileStore    profileStore
	ProfileSvc      profileService
	ParticipantSvc  participantService
	RenderHub       http.Handler
}
