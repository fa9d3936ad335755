package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/hisaab-profiles/internal/dto"
	"github.com/GregMSThompson/hisaab-profiles/internal/errs"
	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/pkg/helpers"
)

type stubProfileStore struct {
	profiles  models.ProfileCollection
	saveCalls int
	lastKey   string
	lastData  models.Profile
	synced    bool
}

func newStubProfileStore(synced bool) *stubProfileStore {
	return &stubProfileStore{profiles: models.ProfileCollection{}, synced: synced}
}

func (s *stubProfileStore) Save(_ context.Context, key string, data models.Profile) bool {
	s.saveCalls++
	s.lastKey = key
	s.lastData = data
	s.profiles[key] = data
	return s.synced
}

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

func assertValidation(t *testing.T, err error) {
	t.Helper()
	var verr *errs.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T %v", err, err)
	}
}

func TestValidateKey(t *testing.T) {
	for _, key := range []string{"", "   ", "a/b", "Dr. Ali", "x#1", "$pay", "arr[0]"} {
		if err := ValidateKey(key); err == nil {
			t.Fatalf("ValidateKey(%q) accepted an invalid key", key)
		}
	}
	for _, key := range []string{"Ali", "Zubair Ahmed", "عائشہ"} {
		if err := ValidateKey(key); err != nil {
			t.Fatalf("ValidateKey(%q) = %v", key, err)
		}
	}
}

func TestSaveProfileRejectsBeforeWrite(t *testing.T) {
	store := newStubProfileStore(true)
	svc := NewProfileService(store)
	ctx := helpers.TestCtx()

	_, err := svc.SaveProfile(ctx, "a/b", dto.SaveProfileRequest{})
	assertValidation(t, err)

	_, err = svc.SaveProfile(ctx, "Ali", dto.SaveProfileRequest{PhotoData: "data:image/png;base64," + strings.Repeat("A", MaxPhotoLength)})
	assertValidation(t, err)

	_, err = svc.SaveProfile(ctx, "Ali", dto.SaveProfileRequest{PhotoData: "https://example.com/a.png"})
	assertValidation(t, err)

	if store.saveCalls != 0 {
		t.Fatalf("store written despite invalid input")
	}
}

func TestSaveProfileReportsSync(t *testing.T) {
	store := newStubProfileStore(false)
	svc := NewProfileService(store)

	res, err := svc.SaveProfile(helpers.TestCtx(), "Ali", dto.SaveProfileRequest{Name: "Ali", Bank: "HBL"})
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if res.Synced {
		t.Fatalf("Synced should be false when the remote write failed")
	}
	if res.Key != "Ali" || res.Profile.Bank != "HBL" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestUpdateDetailsTrimsAndKeepsPhoto(t *testing.T) {
	store := newStubProfileStore(true)
	store.profiles["Ali"] = models.Profile{Name: "Ali", Mobile: "0300", PhotoData: "data:image/png;base64,AAAA"}
	svc := NewProfileService(store)

	res, err := svc.UpdateDetails(helpers.TestCtx(), "Ali", dto.UpdateProfileRequest{
		Name: helpers.Ptr("   "),
		Bank: helpers.Ptr("  HBL, Meezan "),
		IBAN: helpers.Ptr(" PK36SCBL0000001123456702 "),
	})
	if err != nil {
		t.Fatalf("UpdateDetails: %v", err)
	}
	if !res.Synced {
		t.Fatalf("expected synced result")
	}

	got := store.lastData
	if got.Name != "Ali" {
		t.Fatalf("blank name should fall back to key, got %q", got.Name)
	}
	if got.Mobile != "0300" {
		t.Fatalf("nil mobile should keep existing value, got %q", got.Mobile)
	}
	if got.Bank != "HBL, Meezan" || got.IBAN != "PK36SCBL0000001123456702" {
		t.Fatalf("fields not trimmed: %+v", got)
	}
	if got.PhotoData == "" {
		t.Fatalf("existing photo dropped")
	}
}

func TestUpdateDetailsNewProfile(t *testing.T) {
	store := newStubProfileStore(true)
	svc := NewProfileService(store)

	if _, err := svc.UpdateDetails(helpers.TestCtx(), "Sara", dto.UpdateProfileRequest{Mobile: helpers.Ptr("0321")}); err != nil {
		t.Fatalf("UpdateDetails: %v", err)
	}
	if store.lastData.Name != "Sara" || store.lastData.Mobile != "0321" {
		t.Fatalf("unexpected saved profile: %+v", store.lastData)
	}
}

func TestUploadPhoto(t *testing.T) {
	store := newStubProfileStore(true)
	store.profiles["Ali"] = models.Profile{Name: "Ali", Bank: "HBL"}
	svc := NewProfileService(store)
	ctx := helpers.TestCtx()

	_, err := svc.UploadPhoto(ctx, "Ali", "")
	assertValidation(t, err)

	_, err = svc.UploadPhoto(ctx, "Ali", "data:image/jpeg;base64,"+strings.Repeat("B", MaxPhotoLength))
	assertValidation(t, err)
	if store.saveCalls != 0 {
		t.Fatalf("oversized photo reached the store")
	}

	photo := "data:image/jpeg;base64,/9j/4AAQ"
	res, err := svc.UploadPhoto(ctx, "Ali", photo)
	if err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}
	if res.Profile.PhotoData != photo || res.Profile.Bank != "HBL" {
		t.Fatalf("unexpected profile: %+v", res.Profile)
	}
}

func TestRemovePhoto(t *testing.T) {
	store := newStubProfileStore(true)
	store.profiles["Ali"] = models.Profile{Name: "Ali", Mobile: "0300", PhotoData: "data:image/png;base64,AAAA"}
	svc := NewProfileService(store)

	res, err := svc.RemovePhoto(helpers.TestCtx(), "Ali")
	if err != nil {
		t.Fatalf("RemovePhoto: %v", err)
	}
	if res.Profile.PhotoData != "" || res.Profile.Mobile != "0300" {
		t.Fatalf("unexpected profile: %+v", res.Profile)
	}
}

func TestEditsStampLastUpdatedWhenRemoteFails(t *testing.T) {
	store := newStubProfileStore(false)
	store.profiles["Ali"] = models.Profile{Name: "Ali", LastUpdated: "2020-01-01T00:00:00.000Z"}
	svc := NewProfileService(store)
	svc.now = func() time.Time { return fixedNow }
	ctx := helpers.TestCtx()
	want := "2025-03-03T09:30:15.250Z"

	res, err := svc.UpdateDetails(ctx, "Ali", dto.UpdateProfileRequest{Mobile: helpers.Ptr("0300")})
	if err != nil {
		t.Fatalf("UpdateDetails: %v", err)
	}
	if res.Synced {
		t.Fatalf("expected unsynced result")
	}
	if got := res.Profile.LastUpdated; got != want {
		t.Fatalf("UpdateDetails lastUpdated = %q, want %q", got, want)
	}

	res, err = svc.UploadPhoto(ctx, "Sara", "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}
	if res.Profile.LastUpdated != want {
		t.Fatalf("UploadPhoto lastUpdated = %q, want %q", res.Profile.LastUpdated, want)
	}

	res, err = svc.RemovePhoto(ctx, "Sara")
	if err != nil {
		t.Fatalf("RemovePhoto: %v", err)
	}
	if res.Profile.LastUpdated != want {
		t.Fatalf("RemovePhoto lastUpdated = %q, want %q", res.Profile.LastUpdated, want)
	}
}
