package activity

import (
	"math"

	domain "media-gallery-api/internal/domain/activity"
	"media-gallery-api/internal/domain/media"
)

func toDBModel(e domain.Event) Event {
	size := int64(math.MaxInt64)
	if e.SizeBytes < math.MaxInt64 {
		size = int64(e.SizeBytes)
	}
	return Event{
		EventID:      e.ID,
		OccurredAt:   e.OccurredAt,
		Action:       string(e.Action),
		Kind:         string(e.Kind),
		StorageKey:   e.StorageKey,
		OriginalName: e.OriginalName,
		SizeBytes:    size,
		Actor:        e.Actor,
	}
}

func fromDBModel(m *Event) domain.Event {
	var size uint64
	if m.SizeBytes > 0 {
		size = uint64(m.SizeBytes)
	}
	return domain.Event{
		ID:           m.EventID,
		OccurredAt:   m.OccurredAt,
		Action:       domain.Action(m.Action),
		Kind:         media.Kind(m.Kind),
		StorageKey:   m.StorageKey,
		OriginalName: m.OriginalName,
		SizeBytes:    size,
		Actor:        m.Actor,
	}
}
