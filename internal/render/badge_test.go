package render

import (
	"testing"
	"time"

	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/internal/services"
)

func TestSizePixels(t *testing.T) {
	cases := map[Size]int{
		SizeSmall:  30,
		SizeMedium: 40,
		SizeLarge:  80,
		"huge":     40,
		"":         40,
	}
	for size, want := range cases {
		if got := size.Pixels(); got != want {
			t.Errorf("%q.Pixels() = %d, want %d", size, got, want)
		}
	}
}

func TestNewBadgeInitialsAndColor(t *testing.T) {
	b := NewBadge("ali", models.Profile{}, false, SizeSmall)
	if b.Initial != "A" {
		t.Errorf("initial: got %q, want A", b.Initial)
	}
	if b.Color != services.DeriveDisplayColor("ali") {
		t.Errorf("color: got %q", b.Color)
	}
	if b.HasPhoto || b.PhotoData != "" || b.SizePx != 30 {
		t.Errorf("unexpected badge: %+v", b)
	}

	if got := NewBadge("ümit", models.Profile{}, false, SizeSmall).Initial; got != "Ü" {
		t.Errorf("unicode initial: got %q", got)
	}
	if got := NewBadge("", models.Profile{}, false, SizeSmall).Initial; got != "" {
		t.Errorf("empty initial: got %q", got)
	}
}

func TestNewBadgePhoto(t *testing.T) {
	p := models.Profile{Name: "Sara", PhotoData: "data:image/png;base64,AAAA"}
	b := NewBadge("Sara", p, true, SizeLarge)
	if !b.HasPhoto || b.PhotoData != p.PhotoData || b.SizePx != 80 {
		t.Fatalf("unexpected badge: %+v", b)
	}
}

func TestBuildSnapshot(t *testing.T) {
	profiles := models.ProfileCollection{
		"Sara": {Name: "Sara", Bank: "HBL, Meezan"},
		"Ali":  {Name: "", Mobile: "0300", PhotoData: "data:image/png;base64,AAAA"},
	}
	now := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.FixedZone("PKT", 5*3600))

	snap := BuildSnapshot(profiles, []string{"Ali", "Zubair"}, "Zubair", now)

	if len(snap.Profiles) != 2 || snap.Profiles[0].Key != "Ali" || snap.Profiles[1].Key != "Sara" {
		t.Fatalf("profiles not sorted by key: %+v", snap.Profiles)
	}
	if snap.Profiles[0].Name != "Ali" {
		t.Errorf("blank name should render as key, got %q", snap.Profiles[0].Name)
	}
	if got := snap.Profiles[1].Banks; len(got) != 2 || got[0] != "hbl" || got[1] != "meezan" {
		t.Errorf("banks: got %v", got)
	}
	if !snap.Profiles[0].Badge.HasPhoto || snap.Profiles[0].Badge.SizePx != 80 {
		t.Errorf("card badge: %+v", snap.Profiles[0].Badge)
	}

	if len(snap.Participants) != 2 {
		t.Fatalf("participants: %+v", snap.Participants)
	}
	if !snap.Participants[0].HasProfile || snap.Participants[1].HasProfile {
		t.Errorf("hasProfile flags: %+v", snap.Participants)
	}
	if snap.Participants[1].Badge.SizePx != 30 {
		t.Errorf("participant badge size: %d", snap.Participants[1].Badge.SizePx)
	}

	if snap.Selected == nil || snap.Selected.Name != "Zubair" || snap.Selected.Badge.HasPhoto {
		t.Errorf("selected default card: %+v", snap.Selected)
	}
	if snap.GeneratedAt.Location() != time.UTC {
		t.Errorf("generatedAt not UTC: %v", snap.GeneratedAt)
	}
}

func TestBuildSnapshotEmpty(t *testing.T) {
	snap := BuildSnapshot(models.ProfileCollection{}, nil, "", time.Now())
	if snap.Profiles == nil || snap.Participants == nil {
		t.Fatalf("empty snapshot should have non-nil lists")
	}
	if snap.Selected != nil {
		t.Fatalf("unexpected selection: %+v", snap.Selected)
	}
}
