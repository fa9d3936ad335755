package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/pkg/helpers"
)

func TestParticipantsListFallbacks(t *testing.T) {
	ctx := helpers.TestCtx()

	svc := NewParticipantService(newMemCache(), nil)
	if got := svc.List(ctx); got == nil || len(got) != 0 {
		t.Fatalf("no cache, no defaults: got %#v", got)
	}

	svc = NewParticipantService(newMemCache(), []string{"Ali", "Sara"})
	if got := svc.List(ctx); !reflect.DeepEqual(got, []string{"Ali", "Sara"}) {
		t.Fatalf("defaults: got %#v", got)
	}

	cache := newMemCache()
	cache.data[ParticipantsCacheKey] = "not json"
	svc = NewParticipantService(cache, []string{"Ali"})
	if got := svc.List(ctx); !reflect.DeepEqual(got, []string{"Ali"}) {
		t.Fatalf("corrupt cache: got %#v", got)
	}

	cache = newMemCache()
	cache.getErr = errors.New("io")
	svc = NewParticipantService(cache, []string{"Ali"})
	if got := svc.List(ctx); !reflect.DeepEqual(got, []string{"Ali"}) {
		t.Fatalf("cache error: got %#v", got)
	}
}

func TestParticipantsAddAndRemove(t *testing.T) {
	cache := newMemCache()
	svc := NewParticipantService(cache, []string{"Ali"})
	ctx := helpers.TestCtx()

	var seen [][]string
	svc.OnChange(func(_ context.Context, names []string) { seen = append(seen, names) })

	if _, err := svc.Add(ctx, "  "); err == nil {
		t.Fatalf("blank name accepted")
	}

	names, err := svc.Add(ctx, " Sara ")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Ali", "Sara"}) {
		t.Fatalf("after add: %#v", names)
	}
	if _, err := svc.Add(ctx, "Sara"); err != nil {
		t.Fatalf("duplicate Add: %v", err)
	}
	if got := svc.List(ctx); !reflect.DeepEqual(got, []string{"Ali", "Sara"}) {
		t.Fatalf("duplicate added: %#v", got)
	}

	names, err = svc.Remove(ctx, "Ali")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Sara"}) {
		t.Fatalf("after remove: %#v", names)
	}
	if cache.data[ParticipantsCacheKey] != `["Sara"]` {
		t.Fatalf("cache = %s", cache.data[ParticipantsCacheKey])
	}
	if len(seen) != 2 {
		t.Fatalf("listener calls = %d, want 2", len(seen))
	}
}

func TestRemoveParticipantKeepsProfile(t *testing.T) {
	cache := newMemCache()
	profiles := newTestStore(&fakeRemote{}, cache)
	participants := NewParticipantService(cache, []string{"Ali"})
	ctx := helpers.TestCtx()

	profiles.Save(ctx, "Ali", models.Profile{Name: "Ali", Bank: "HBL"})
	if _, err := participants.Remove(ctx, "Ali"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if _, ok := profiles.Get("Ali"); !ok {
		t.Fatalf("profile deleted with its participant entry")
	}
	if _, ok := cache.snapshot(t)["Ali"]; !ok {
		t.Fatalf("cached profile deleted with its participant entry")
	}
}

func TestParticipantsWriteError(t *testing.T) {
	cache := newMemCache()
	cache.setErr = errors.New("disk full")
	svc := NewParticipantService(cache, nil)

	if _, err := svc.Add(helpers.TestCtx(), "Ali"); err == nil {
		t.Fatalf("expected write error")
	}
}
