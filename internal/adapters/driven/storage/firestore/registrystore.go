package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/medalpine/medrag/internal/core/ports/driven"
)

// Ensure RegistryStore implements the interface.
var _ driven.RegistryStore = (*RegistryStore)(nil)

// registryDoc is the persisted registry record layout.
type registryDoc struct {
	PMCIDs []string `firestore:"pmcids"`
}

// RegistryStore persists per-specialty indexed-paper sets in Firestore.
//
// AddIndexed is a read-union-write; two concurrent indexing runs for
// the same specialty can lose an update. Accepted limitation: single
// writer per specialty is the expected deployment.
type RegistryStore struct {
	client *firestore.Client
}

// NewRegistryStore creates a Firestore-backed registry store.
func NewRegistryStore(client *firestore.Client) *RegistryStore {
	return &RegistryStore{client: client}
}

// Indexed returns the set of IDs already indexed for a specialty.
func (s *RegistryStore) Indexed(ctx context.Context, specialty string) (map[string]struct{}, error) {
	snap, err := s.client.Collection(registryCollection).Doc(specialty).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("firestore: get registry %q: %w", specialty, err)
	}

	var doc registryDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore: decode registry %q: %w", specialty, err)
	}

	set := make(map[string]struct{}, len(doc.PMCIDs))
	for _, id := range doc.PMCIDs {
		set[id] = struct{}{}
	}
	return set, nil
}

// AddIndexed unions ids into the specialty's registry document.
func (s *RegistryStore) AddIndexed(ctx context.Context, specialty string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	existing, err := s.Indexed(ctx, specialty)
	if err != nil {
		return err
	}
	for _, id := range ids {
		existing[id] = struct{}{}
	}

	merged := make([]string, 0, len(existing))
	for id := range existing {
		merged = append(merged, id)
	}

	_, err = s.client.Collection(registryCollection).Doc(specialty).Set(ctx, registryDoc{PMCIDs: merged})
	if err != nil {
		return fmt.Errorf("firestore: update registry %q: %w", specialty, err)
	}
	return nil
}
