// Package firestore provides production implementations of the
// persistent store ports backed by Cloud Firestore. One document per
// specialty in the "indexed_papers" and "newsfeed" collections.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// Collection names in the backing Firestore project.
const (
	registryCollection = "indexed_papers"
	newsfeedCollection = "newsfeed"
)

// Config holds Firestore connection settings.
type Config struct {
	// ProjectID is the GCP project (required).
	ProjectID string

	// CredentialsFile optionally points at a service-account key file.
	// When empty, application-default credentials apply.
	CredentialsFile string
}

// NewClient creates a Firestore client for the configured project.
func NewClient(ctx context.Context, cfg Config) (*firestore.Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore: project ID is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: create client: %w", err)
	}
	return client, nil
}
