package collection

import (
	"media-gallery-api/internal/domain/media"
)

// Apply returns the entries of files whose UploadedAt lies inside r, newest
// first. The input is not modified.
func Apply(files media.Collection, r media.DateRange) media.Collection {
	out := make(media.Collection, 0, len(files))
	for _, f := range files {
		if r.Contains(f.UploadedAt) {
			out = append(out, f)
		}
	}
	out.SortNewestFirst()

	return out
}
