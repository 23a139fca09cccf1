package user

import (
	"context"
)

type Repository interface {
	FetchByUsername(ctx context.Context, username string) (*User, error)
	FetchByID(ctx context.Context, uuid UUID) (*User, error)
}
