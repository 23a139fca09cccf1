package gallery

import (
	"media-gallery-api/internal/application/collection"
	"media-gallery-api/internal/domain/activity"
	"media-gallery-api/internal/domain/media"
)

func ToResponseFile(f media.StoredFile) File {
	return File{
		Identifier:   f.Identifier,
		DisplayURL:   f.DisplayURL,
		OriginalName: f.OriginalName,
		UploadedAt:   f.UploadedAt,
		SizeBytes:    f.SizeBytes,
		ContentKind:  f.ContentKind.String(),
	}
}

func ToResponseFiles(c media.Collection) Files {
	fs := make(Files, len(c))
	for idx, f := range c {
		fs[idx] = ToResponseFile(f)
	}

	return fs
}

func ToResponseView(v collection.View) View {
	out := View{
		Kind:          v.Kind.String(),
		Items:         ToResponseFiles(v.Items),
		CurrentPage:   v.CurrentPage,
		TotalPages:    v.TotalPages,
		ItemsPerPage:  v.ItemsPerPage,
		FilteredCount: v.FilteredCount,
		TotalCount:    v.TotalCount,
		StartItem:     v.StartItem,
		EndItem:       v.EndItem,
		Pages:         v.Pages,
		IsLoading:     v.IsLoading,
	}
	if out.Pages == nil {
		out.Pages = []collection.PageLink{}
	}
	if v.Filter.HasStart() {
		out.Filter.StartDate = v.Filter.Start.Format(media.DateLayout)
	}
	if v.Filter.HasEnd() {
		out.Filter.EndDate = v.Filter.End.Format(media.DateLayout)
	}

	return out
}

func ToUploadResponse(stored media.Collection, failures []collection.UploadFailure) UploadResponse {
	resp := UploadResponse{
		Stored:   ToResponseFiles(stored),
		Failures: make([]UploadFailure, len(failures)),
	}
	for idx, f := range failures {
		resp.Failures[idx] = UploadFailure{Name: f.Name, Error: f.Err.Error()}
	}

	return resp
}

func ToResponseEvents(events activity.Events) []Event {
	out := make([]Event, len(events))
	for idx, e := range events {
		out[idx] = Event{
			ID:           e.ID,
			OccurredAt:   e.OccurredAt,
			Action:       string(e.Action),
			Kind:         e.Kind.String(),
			StorageKey:   e.StorageKey,
			OriginalName: e.OriginalName,
			SizeBytes:    e.SizeBytes,
			Actor:        e.Actor,
		}
	}

	return out
}
