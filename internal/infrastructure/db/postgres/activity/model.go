package activity

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	EventID      uuid.UUID
	OccurredAt   time.Time
	Action       string
	Kind         string
	StorageKey   string
	OriginalName string
	SizeBytes    int64
	Actor        string
}
