package services

import (
	"errors"
	"reflect"
	"testing"

	"github.com/GregMSThompson/hisaab-profiles/internal/models"
)

func TestResolveCollection(t *testing.T) {
	remote := models.ProfileCollection{"Ali": {Name: "Ali"}}
	cached := models.ProfileCollection{"Sara": {Name: "Sara"}}
	offline := errors.New("offline")

	cases := []struct {
		name       string
		remote     FetchResult
		cached     CacheResult
		want       models.ProfileCollection
		wantSource Source
	}{
		{"remote wins", FetchResult{Profiles: remote}, CacheResult{Profiles: cached}, remote, SourceRemote},
		{"empty remote uses cache", FetchResult{Profiles: models.ProfileCollection{}}, CacheResult{Profiles: cached}, cached, SourceCache},
		{"nil remote uses cache", FetchResult{}, CacheResult{Profiles: cached}, cached, SourceCache},
		{"remote error uses cache", FetchResult{Profiles: remote, Err: offline}, CacheResult{Profiles: cached}, cached, SourceCache},
		{"both unusable", FetchResult{Err: offline}, CacheResult{Err: errors.New("corrupt")}, models.ProfileCollection{}, SourceEmpty},
		{"empty cache", FetchResult{Err: offline}, CacheResult{Profiles: models.ProfileCollection{}}, models.ProfileCollection{}, SourceEmpty},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, src := ResolveCollection(tc.remote, tc.cached)
			if src != tc.wantSource {
				t.Fatalf("source = %v, want %v", src, tc.wantSource)
			}
			if got == nil {
				t.Fatalf("resolved collection is nil")
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("collection = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestSourceString(t *testing.T) {
	if SourceRemote.String() != "remote" || SourceCache.String() != "cache" || SourceEmpty.String() != "empty" {
		t.Fatalf("unexpected source names")
	}
}
