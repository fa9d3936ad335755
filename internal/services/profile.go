package services

import (
	"context"
	"strings"
	"time"

	"github.com/GregMSThompson/hisaab-profiles/internal/dto"
	"github.com/GregMSThompson/hisaab-profiles/internal/errs"
	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/pkg/helpers"
	"github.com/GregMSThompson/hisaab-profiles/pkg/logger"
)

// MaxPhotoLength caps the encoded photo so a profile stays a small document.
const MaxPhotoLength = 100000

// characters rejected in document ids / database paths
const illegalKeyChars = "/.#$[]"

type profilePSStore interface {
	Save(ctx context.Context, key string, data models.Profile) bool
	Get(key string) (models.Profile, bool)
	GetOrDefault(key string) models.Profile
}

type profileService struct {
	store profilePSStore
	now   func() time.Time
}

func NewProfileService(store profilePSStore) *profileService {
	return &profileService{store: store, now: time.Now}
}

// ValidateKey rejects keys that cannot be used as a document id.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errs.NewValidationError("profile name is required")
	}
	if strings.ContainsAny(key, illegalKeyChars) {
		return errs.NewValidationError("profile name must not contain any of " + illegalKeyChars)
	}
	return nil
}

func validatePhoto(photo string) error {
	if len(photo) > MaxPhotoLength {
		return errs.NewValidationError("photo is too large, use an image under 100KB")
	}
	if photo != "" && !strings.HasPrefix(photo, "data:image/") {
		return errs.NewValidationError("photo must be an image data URL")
	}
	return nil
}

// SaveProfile replaces every field of the profile at key.
func (s *profileService) SaveProfile(ctx context.Context, key string, req dto.SaveProfileRequest) (dto.SaveProfileResult, error) {
	if err := ValidateKey(key); err != nil {
		return dto.SaveProfileResult{}, err
	}
	if err := validatePhoto(req.PhotoData); err != nil {
		return dto.SaveProfileResult{}, err
	}
	return s.save(ctx, key, models.Profile{
		Name:      req.Name,
		Mobile:    req.Mobile,
		Bank:      req.Bank,
		IBAN:      req.IBAN,
		PhotoData: req.PhotoData,
	}), nil
}

// UpdateDetails edits the contact fields and keeps the stored photo.
func (s *profileService) UpdateDetails(ctx context.Context, key string, req dto.UpdateProfileRequest) (dto.SaveProfileResult, error) {
	if err := ValidateKey(key); err != nil {
		return dto.SaveProfileResult{}, err
	}

	p := s.store.GetOrDefault(key)
	if req.Name != nil {
		p.Name = helpers.TrimmedOr(req.Name, key)
	}
	if req.Mobile != nil {
		p.Mobile = strings.TrimSpace(*req.Mobile)
	}
	if req.Bank != nil {
		p.Bank = strings.TrimSpace(*req.Bank)
	}
	if req.IBAN != nil {
		p.IBAN = strings.TrimSpace(*req.IBAN)
	}
	return s.save(ctx, key, p), nil
}

func (s *profileService) UploadPhoto(ctx context.Context, key, photoData string) (dto.SaveProfileResult, error) {
	if err := ValidateKey(key); err != nil {
		return dto.SaveProfileResult{}, err
	}
	if photoData == "" {
		return dto.SaveProfileResult{}, errs.NewValidationError("photo is required")
	}
	if err := validatePhoto(photoData); err != nil {
		return dto.SaveProfileResult{}, err
	}

	p := s.store.GetOrDefault(key)
	p.PhotoData = photoData
	return s.save(ctx, key, p), nil
}

func (s *profileService) RemovePhoto(ctx context.Context, key string) (dto.SaveProfileResult, error) {
	if err := ValidateKey(key); err != nil {
		return dto.SaveProfileResult{}, err
	}

	p := s.store.GetOrDefault(key)
	p.PhotoData = ""
	return s.save(ctx, key, p), nil
}

// save stamps the edit time before handing the record to the store, so a
// copy kept locally after a failed remote write is still dated.
func (s *profileService) save(ctx context.Context, key string, p models.Profile) dto.SaveProfileResult {
	p.LastUpdated = s.now().UTC().Format(timestampLayout)
	synced := s.store.Save(ctx, key, p)
	if !synced {
		logger.FromContext(ctx).Warn("profile kept locally only", "profile", key)
	}
	stored, _ := s.store.Get(key)
	return dto.SaveProfileResult{Key: key, Profile: stored, Synced: synced}
}
