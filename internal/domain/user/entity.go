package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("user not found")

type (
	UUID = uuid.UUID
	User struct {
		UUID         UUID
		Username     string
		PasswordHash string

		CreatedAt time.Time
	}
)
