package bootstrap

import (
	"context"
	"os"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/hisaab-profiles/pkg/logger"
)

// InitFirestore opens a Firestore client. An empty projectID is detected
// from the environment; FIRESTORE_EMULATOR_HOST is honoured by the client.
func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	if host := os.Getenv("FIRESTORE_EMULATOR_HOST"); host != "" {
		logger.FromContext(ctx).Info("using firestore emulator", "host", host)
	}
	return firestore.NewClient(ctx, projectID)
}
