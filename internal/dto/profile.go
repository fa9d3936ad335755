package dto

import "github.com/GregMSThompson/hisaab-profiles/internal/models"

// SaveProfileRequest carries every field of a full profile save.
type SaveProfileRequest struct {
	Name      string `json:"name"`
	Mobile    string `json:"mobile"`
	Bank      string `json:"bank"`
	IBAN      string `json:"iban"`
	PhotoData string `json:"photoData"`
}

// UpdateProfileRequest edits contact details; nil fields keep their value.
type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Mobile *string `json:"mobile"`
	Bank   *string `json:"bank"`
	IBAN   *string `json:"iban"`
}

type PhotoRequest struct {
	PhotoData string `json:"photoData"`
}

// SaveProfileResult is returned by every write. Synced is false when the
// remote write failed and only the local copy was updated.
type SaveProfileResult struct {
	Key     string         `json:"key"`
	Profile models.Profile `json:"profile"`
	Synced  bool           `json:"synced"`
}

type BankListResponse struct {
	Key   string   `json:"key"`
	Banks []string `json:"banks"`
}

type ColorResponse struct {
	Key   string `json:"key"`
	Color string `json:"color"`
}

type SelectionRequest struct {
	Key string `json:"key"`
}

type SelectionResponse struct {
	Key      string `json:"key,omitempty"`
	Selected bool   `json:"selected"`
}

type ReloadResponse struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

type ParticipantRequest struct {
	Name string `json:"name"`
}
