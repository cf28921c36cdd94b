// Package blobstore abstracts the object storage holding uploaded files. The
// repository layer only tracks opaque blob URLs; this package owns turning
// payloads into URLs and URLs back into deletable object keys.
package blobstore

import "context"

// Store is the object-storage contract consumed by the entity repositories.
type Store interface {
	// Put uploads payload under folder with a collision-resistant object
	// name derived from filename, returning the public URL.
	Put(ctx context.Context, folder, filename, contentType string, payload []byte) (string, error)
	// DeleteMany removes the blobs behind the given URLs as a best-effort
	// batch. A non-nil error summarizes partial failures; callers treat it
	// as cleanup debt, never as a reason to abort the entity mutation.
	DeleteMany(ctx context.Context, urls []string) error
}

// Config identifies the bucket and the per-field folders, passed in at
// construction instead of read from process-global state.
type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	CustomDomain    string
	PathStyleAccess bool

	Folders Folders
}

// Folders maps each file-bearing entity field to its storage prefix.
type Folders struct {
	Hero       string
	Images     string
	Documents  string
	Developers string
}
