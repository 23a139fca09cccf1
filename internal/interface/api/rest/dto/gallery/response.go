package gallery

import (
	"time"

	"github.com/google/uuid"

	"media-gallery-api/internal/application/collection"
)

type (
	File struct {
		Identifier   string    `json:"identifier"`
		DisplayURL   string    `json:"display_url"`
		OriginalName string    `json:"original_name"`
		UploadedAt   time.Time `json:"uploaded_at"`
		SizeBytes    uint64    `json:"size_bytes"`
		ContentKind  string    `json:"content_kind"`
	}
	Files []File

	Filter struct {
		StartDate string `json:"start_date,omitempty"`
		EndDate   string `json:"end_date,omitempty"`
	}

	View struct {
		Kind          string                `json:"kind"`
		Items         Files                 `json:"items"`
		CurrentPage   int                   `json:"current_page"`
		TotalPages    int                   `json:"total_pages"`
		ItemsPerPage  int                   `json:"items_per_page"`
		FilteredCount int                   `json:"filtered_count"`
		TotalCount    int                   `json:"total_count"`
		StartItem     int                   `json:"start_item"`
		EndItem       int                   `json:"end_item"`
		Pages         []collection.PageLink `json:"pages"`
		Filter        Filter                `json:"filter"`
		IsLoading     bool                  `json:"is_loading"`
		ReloadError   string                `json:"reload_error,omitempty"`
	}

	UploadFailure struct {
		Name  string `json:"name"`
		Error string `json:"error"`
	}
	UploadResponse struct {
		Stored   Files           `json:"stored"`
		Failures []UploadFailure `json:"failures"`
	}

	Event struct {
		ID           uuid.UUID `json:"id"`
		OccurredAt   time.Time `json:"occurred_at"`
		Action       string    `json:"action"`
		Kind         string    `json:"kind"`
		StorageKey   string    `json:"storage_key,omitempty"`
		OriginalName string    `json:"original_name,omitempty"`
		SizeBytes    uint64    `json:"size_bytes"`
		Actor        string    `json:"actor,omitempty"`
	}
	ActivityResponse struct {
		Data []Event `json:"data"`
	}
)
