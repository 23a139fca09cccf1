package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	UUID         uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
