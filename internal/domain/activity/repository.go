package activity

import (
	"context"
)

type Repository interface {
	Insert(ctx context.Context, e Event) error
	FetchRecent(ctx context.Context, limit int) (Events, error)
}
