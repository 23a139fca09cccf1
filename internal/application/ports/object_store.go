package ports

import (
	"context"
	"time"
)

type (
	ListOptions struct {
		Limit    int
		Offset   int
		SortDesc bool
	}
	ObjectEntry struct {
		Key       string
		CreatedAt time.Time
		SizeBytes uint64
	}
)

// ObjectStore is the remote storage collaborator. Namespace selects the
// bucket a collection lives in.
type ObjectStore interface {
	List(ctx context.Context, namespace string, opts ListOptions) ([]ObjectEntry, error)
	Upload(ctx context.Context, namespace, key, contentType string, body []byte) (string, error)
	PublicURL(namespace, key string) string
	Delete(ctx context.Context, namespace, key string) error
}
