package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/hisaab-profiles/internal/errs"
	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/pkg/helpers"
)

func TestClassifyFirestore(t *testing.T) {
	var ext *errs.ExternalServiceError
	err := classifyFirestore("read", "failed", status.Error(codes.Unavailable, "down"))
	if !errors.As(err, &ext) || !ext.Transient || ext.Service != "firestore" {
		t.Fatalf("unavailable: got %T %v", err, err)
	}

	err = classifyFirestore("read", "failed", context.DeadlineExceeded)
	if !errors.As(err, &ext) || !ext.Transient {
		t.Fatalf("deadline: got %T %v", err, err)
	}

	var dbErr *errs.DatabaseError
	err = classifyFirestore("write", "failed", status.Error(codes.PermissionDenied, "no"))
	if !errors.As(err, &dbErr) || dbErr.Operation != "write" {
		t.Fatalf("permission denied: got %T %v", err, err)
	}
}

func TestFirestoreProfileStoreWithEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx, cancel := context.WithCancel(helpers.TestCtx())
	defer cancel()

	client, err := firestore.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	defer client.Close()

	collection := "sharedProfiles-" + time.Now().Format("150405.000000")
	store := NewFirestoreProfileStore(client, collection)

	empty, err := store.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll on empty collection: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty collection, got %d", len(empty))
	}

	updates := make(chan models.ProfileCollection, 8)
	if err := store.Subscribe(ctx, func(c models.ProfileCollection) { updates <- c }); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	ali := models.Profile{Name: "Ali", Bank: "HBL, Meezan", LastUpdated: "2025-01-15T10:00:00.000Z"}
	if err := store.Set(ctx, "Ali", ali); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if got["Ali"] != ali {
		t.Fatalf("FetchAll[Ali] = %+v, want %+v", got["Ali"], ali)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-updates:
			if _, ok := c["Ali"]; ok {
				return
			}
		case <-deadline:
			t.Fatalf("listener never delivered the saved profile")
		}
	}
}
