package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GoSim-25-26J-441/price-bati-backend/internal/projects/domain"
)

// FirestoreOptions configures the Firebase Admin app behind the store.
type FirestoreOptions struct {
	CredentialsPath string
	ProjectID       string
	Collection      string
}

// FirestoreStore reads and writes project documents in a Firestore collection,
// keyed by record id.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// OpenFirestore initializes the Firebase Admin SDK and returns a store bound to
// the configured collection.
func OpenFirestore(ctx context.Context, opt FirestoreOptions) (*FirestoreStore, error) {
	if opt.CredentialsPath == "" {
		return nil, fmt.Errorf("%w: FIREBASE_CREDENTIALS is required", ErrStoreUnavailable)
	}

	var fbCfg *firebase.Config
	if opt.ProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: opt.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, option.WithCredentialsFile(opt.CredentialsPath))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to initialize Firebase app: %v", ErrStoreUnavailable, err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get Firestore client: %v", ErrStoreUnavailable, err)
	}

	return NewFirestoreStore(client, opt.Collection), nil
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreStore{client: client, collection: collection}
}

func (s *FirestoreStore) FetchAll(ctx context.Context) ([]domain.ProjectRecord, error) {
	it := s.client.Collection(s.collection).Documents(ctx)
	defer it.Stop()

	out := make([]domain.ProjectRecord, 0, 64)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stream %s: %w", s.collection, err)
		}

		rec, err := decodeSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *FirestoreStore) FetchOne(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if !snap.Exists() {
		return nil, domain.ErrProjectNotFound
	}

	rec, err := decodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *FirestoreStore) Insert(ctx context.Context, rec domain.ProjectRecord) error {
	if _, err := s.client.Collection(s.collection).Doc(rec.ID).Set(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert project %s: %w", rec.ID, err)
	}
	return nil
}

// Ping reads at most one document; an empty collection is healthy.
func (s *FirestoreStore) Ping(ctx context.Context) error {
	it := s.client.Collection(s.collection).Limit(1).Documents(ctx)
	defer it.Stop()

	_, err := it.Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func decodeSnapshot(snap *firestore.DocumentSnapshot) (domain.ProjectRecord, error) {
	var rec domain.ProjectRecord
	if err := snap.DataTo(&rec); err != nil {
		return rec, fmt.Errorf("failed to decode project %s: %w", snap.Ref.ID, err)
	}
	if rec.ID == "" {
		rec.ID = snap.Ref.ID
	}
	return rec, nil
}
