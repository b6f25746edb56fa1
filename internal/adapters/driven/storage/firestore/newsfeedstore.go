package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/medalpine/medrag/internal/core/domain"
	"github.com/medalpine/medrag/internal/core/ports/driven"
)

// Ensure NewsfeedStore implements the interface.
var _ driven.NewsfeedStore = (*NewsfeedStore)(nil)

// NewsfeedStore persists per-specialty newsfeed digests in Firestore.
type NewsfeedStore struct {
	client *firestore.Client
}

// NewNewsfeedStore creates a Firestore-backed newsfeed store.
func NewNewsfeedStore(client *firestore.Client) *NewsfeedStore {
	return &NewsfeedStore{client: client}
}

// Get returns the cached entry for a specialty.
func (s *NewsfeedStore) Get(ctx context.Context, specialty string) (*domain.NewsfeedEntry, error) {
	snap, err := s.client.Collection(newsfeedCollection).Doc(specialty).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("firestore: get newsfeed %q: %w", specialty, err)
	}

	var entry domain.NewsfeedEntry
	if err := snap.DataTo(&entry); err != nil {
		return nil, fmt.Errorf("firestore: decode newsfeed %q: %w", specialty, err)
	}
	return &entry, nil
}

// Put overwrites the entry for a specialty.
func (s *NewsfeedStore) Put(ctx context.Context, specialty string, entry domain.NewsfeedEntry) error {
	_, err := s.client.Collection(newsfeedCollection).Doc(specialty).Set(ctx, entry)
	if err != nil {
		return fmt.Errorf("firestore: put newsfeed %q: %w", specialty, err)
	}
	return nil
}
