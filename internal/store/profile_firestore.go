package store

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/hisaab-profiles/internal/errs"
	"github.com/GregMSThompson/hisaab-profiles/internal/models"
	"github.com/GregMSThompson/hisaab-profiles/pkg/logger"
)

// firestoreProfileStore keeps one document per profile key in a single
// top-level collection.
type firestoreProfileStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreProfileStore(client *firestore.Client, collection string) *firestoreProfileStore {
	return &firestoreProfileStore{client: client, collection: collection}
}

func (s *firestoreProfileStore) coll() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

func (s *firestoreProfileStore) FetchAll(ctx context.Context) (models.ProfileCollection, error) {
	docs, err := s.coll().Documents(ctx).GetAll()
	if err != nil {
		return nil, classifyFirestore("read", "failed to fetch profiles", err)
	}
	return decodeProfiles(docs)
}

// Set overwrites the whole document; fields missing from p are removed.
func (s *firestoreProfileStore) Set(ctx context.Context, key string, p models.Profile) error {
	if _, err := s.coll().Doc(key).Set(ctx, p); err != nil {
		return classifyFirestore("write", "failed to save profile", err)
	}
	return nil
}

// Subscribe attaches a snapshot listener to the collection. fn receives the
// full collection on attach and after every change until ctx is cancelled.
func (s *firestoreProfileStore) Subscribe(ctx context.Context, fn func(models.ProfileCollection)) error {
	it := s.coll().Snapshots(ctx)

	go func() {
		defer it.Stop()
		log := logger.FromContext(ctx)
		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
					return
				}
				log.Error("profile listener stopped", "collection", s.collection, "error", err)
				return
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Warn("failed to read profile snapshot", "error", err)
				continue
			}
			coll, err := decodeProfiles(docs)
			if err != nil {
				log.Warn("failed to decode profile snapshot", "error", err)
				continue
			}
			fn(coll)
		}
	}()
	return nil
}

func decodeProfiles(docs []*firestore.DocumentSnapshot) (models.ProfileCollection, error) {
	out := make(models.ProfileCollection, len(docs))
	for _, d := range docs {
		var p models.Profile
		if err := d.DataTo(&p); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse profile "+d.Ref.ID, err)
		}
		out[d.Ref.ID] = p
	}
	return out, nil
}

func classifyFirestore(op, message string, err error) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return errs.NewExternalServiceError("firestore", message, true, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.NewExternalServiceError("firestore", message, true, err)
	}
	return errs.NewDatabaseError(op, message, err)
}
