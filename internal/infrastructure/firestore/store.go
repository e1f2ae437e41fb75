// Package firestore stores documents in Cloud Firestore through the
// Firebase Admin SDK.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"horizon/internal/domain/document"
	"horizon/internal/shared/apperrors"
)

// createdAtField holds the creation time inside each stored document.
const createdAtField = "_createdAt"

// Store implements document.Store on a Firestore database. Listing with
// filters orders by creation time and needs a composite index per
// filtered field.
type Store struct {
	client *firestore.Client
	now    func() time.Time
}

var _ document.Store = (*Store)(nil)

// NewStore initializes a Firebase app and opens its Firestore client.
// An empty credentialsFile falls back to application default credentials.
func NewStore(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firestore client: %w", err)
	}

	return &Store{client: client, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Create(ctx context.Context, collection, id string, fields map[string]any) (*document.Document, error) {
	if id == "" {
		id = document.NewID()
	}

	createdAt := s.now().UTC()
	data := maps.Clone(fields)
	if data == nil {
		data = map[string]any{}
	}
	data[createdAtField] = createdAt

	if _, err := s.client.Collection(collection).Doc(id).Create(ctx, data); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, apperrors.Wrap(apperrors.ErrAlreadyExists, "firestore.create", err)
		}
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, "firestore.create", err)
	}

	return toDocument(id, data), nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*document.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "firestore.get", nil)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return toDocument(snap.Ref.ID, snap.Data()), nil
}

func (s *Store) List(ctx context.Context, collection string, filters ...document.Filter) ([]*document.Document, error) {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, "==", f.Value)
	}
	q = q.OrderBy(createdAtField, firestore.Asc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []*document.Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}
		docs = append(docs, toDocument(snap.Ref.ID, snap.Data()))
	}
	return docs, nil
}

// toDocument splits the stored creation time out of the raw data.
func toDocument(id string, data map[string]any) *document.Document {
	fields := maps.Clone(data)
	if fields == nil {
		fields = map[string]any{}
	}

	var createdAt time.Time
	if ts, ok := fields[createdAtField].(time.Time); ok {
		createdAt = ts.UTC()
	}
	delete(fields, createdAtField)

	return &document.Document{ID: id, CreatedAt: createdAt, Fields: fields}
}
