package activity

import (
	"time"

	"github.com/google/uuid"

	"media-gallery-api/internal/domain/media"
)

type Action string

const (
	ActionFileUploaded       Action = "file_uploaded"
	ActionFileDeleted        Action = "file_deleted"
	ActionCollectionReloaded Action = "collection_reloaded"
)

func (a Action) Valid() bool {
	switch a {
	case ActionFileUploaded, ActionFileDeleted, ActionCollectionReloaded:
		return true
	}
	return false
}

type (
	// Event records one gallery mutation. StorageKey and OriginalName are
	// empty for collection-wide actions.
	Event struct {
		ID           uuid.UUID  `json:"id"`
		OccurredAt   time.Time  `json:"occurred_at"`
		Action       Action     `json:"action"`
		Kind         media.Kind `json:"kind"`
		StorageKey   string     `json:"storage_key,omitempty"`
		OriginalName string     `json:"original_name,omitempty"`
		SizeBytes    uint64     `json:"size_bytes"`
		Actor        string     `json:"actor,omitempty"`
	}
	Events []Event
)

func NewEvent(action Action, kind media.Kind, f *media.StoredFile, actor string) Event {
	e := Event{
		ID:         uuid.New(),
		OccurredAt: time.Now().UTC(),
		Action:     action,
		Kind:       kind,
		Actor:      actor,
	}
	if f != nil {
		e.StorageKey = f.Identifier
		e.OriginalName = f.OriginalName
		e.SizeBytes = f.SizeBytes
	}
	return e
}
