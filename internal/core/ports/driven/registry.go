package driven

import "context"

// RegistryStore persists the per-specialty set of already-indexed
// accession IDs. The set grows monotonically: updates are unions, and
// entries are created lazily on the first successful index.
//
// Concurrent indexing runs for the same specialty can race on the
// read-union-write update; that lost-update window is an accepted
// limitation of the design.
type RegistryStore interface {
	// Indexed returns the set of IDs already indexed for a specialty.
	// A missing entry yields an empty set, never an error.
	Indexed(ctx context.Context, specialty string) (map[string]struct{}, error)

	// AddIndexed unions ids into the specialty's entry, creating the
	// entry if absent. Calling with no ids is a no-op.
	AddIndexed(ctx context.Context, specialty string, ids []string) error
}
