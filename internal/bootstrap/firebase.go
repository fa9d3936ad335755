package bootstrap

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
)

// InitDatabase opens the Realtime Database at databaseURL.
func InitDatabase(ctx context.Context, projectID, databaseURL string) (*db.Client, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:   projectID,
		DatabaseURL: databaseURL,
	})
	if err != nil {
		return nil, err
	}
	return app.Database(ctx)
}
