package store

import (
	"context"
	"errors"
	"time"

	"firebase.google.com/go/v4/db"
	"firebase.google.com/go/v4/errorutils"

	"github.com/GregMSThompson/hisaab-profiles/internal/errs"
	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/pkg/logger"
)

// rtdbProfileStore keeps profiles as children of one Realtime Database path,
// the layout the browser clients write to.
type rtdbProfileStore struct {
	client   *db.Client
	path     string
	interval time.Duration
}

func NewRTDBProfileStore(client *db.Client, path string, interval time.Duration) *rtdbProfileStore {
	return &rtdbProfileStore{client: client, path: path, interval: interval}
}

func (s *rtdbProfileStore) ref() *db.Ref {
	return s.client.NewRef(s.path)
}

func (s *rtdbProfileStore) FetchAll(ctx context.Context) (models.ProfileCollection, error) {
	var out models.ProfileCollection
	if err := s.ref().Get(ctx, &out); err != nil {
		return nil, classifyRTDB("read", "failed to fetch profiles", err)
	}
	if out == nil {
		out = models.ProfileCollection{}
	}
	return out, nil
}

func (s *rtdbProfileStore) Set(ctx context.Context, key string, p models.Profile) error {
	if err := s.ref().Child(key).Set(ctx, p); err != nil {
		return classifyRTDB("write", "failed to save profile", err)
	}
	return nil
}

// Subscribe delivers the collection once on attach, then polls with the
// node's ETag and delivers again whenever it changes. The admin SDK has no
// streaming listener.
func (s *rtdbProfileStore) Subscribe(ctx context.Context, fn func(models.ProfileCollection)) error {
	var initial models.ProfileCollection
	etag, err := s.ref().GetWithETag(ctx, &initial)
	if err != nil {
		return classifyRTDB("read", "failed to attach profile listener", err)
	}
	fn(orEmpty(initial))

	go func() {
		log := logger.FromContext(ctx)
		t := time.NewTicker(s.interval)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				var next models.ProfileCollection
				changed, newETag, err := s.ref().GetIfChanged(ctx, etag, &next)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Warn("profile poll failed", "path", s.path, "error", err)
					continue
				}
				if !changed {
					continue
				}
				etag = newETag
				fn(orEmpty(next))
			}
		}
	}()
	return nil
}

func orEmpty(c models.ProfileCollection) models.ProfileCollection {
	if c == nil {
		return models.ProfileCollection{}
	}
	return c
}

func classifyRTDB(op, message string, err error) error {
	if errorutils.IsUnavailable(err) || errorutils.IsDeadlineExceeded(err) || errors.Is(err, context.DeadlineExceeded) {
		return errs.NewExternalServiceError("rtdb", message, true, err)
	}
	return errs.NewDatabaseError(op, message, err)
}
