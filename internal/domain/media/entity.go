package media

import (
	"errors"
	"mime"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

var (
	ErrUnsupportedKind     = errors.New("unsupported content kind")
	ErrContentTypeRejected = errors.New("content type not accepted for this collection")
)

type (
	Kind string

	StoredFile struct {
		Identifier   string
		DisplayURL   string
		OriginalName string
		UploadedAt   time.Time
		SizeBytes    uint64
		ContentKind  Kind
	}
	// Collection is kept sorted newest first and never holds two entries
	// with the same Identifier.
	Collection []StoredFile
)

const (
	KindImage Kind = "images"
	KindSound Kind = "sounds"
)

// not every host ships a mime.types with audio entries
var knownExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".mp3":  "audio/mpeg",
}

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindImage, KindSound:
		return Kind(s), nil
	}
	return "", ErrUnsupportedKind
}

// DefaultContentType is what the kind falls back to when the uploader did not say.
func (k Kind) DefaultContentType() string {
	if k == KindSound {
		return "audio/mpeg"
	}
	return "image/jpeg"
}

func (k Kind) String() string { return string(k) }

// ResolveContentType returns the effective content type of an incoming file,
// or ErrContentTypeRejected when it does not belong to the kind. An empty or
// generic declared type is inferred from the file extension.
func (k Kind) ResolveContentType(name, declared string) (string, error) {
	ct, _, err := mime.ParseMediaType(declared)
	if err != nil || ct == "" || ct == "application/octet-stream" {
		ext := strings.ToLower(filepath.Ext(name))
		byExt := mime.TypeByExtension(ext)
		if byExt == "" {
			byExt = knownExtensions[ext]
		}
		ct, _, _ = mime.ParseMediaType(byExt)
	}

	prefix := "image/"
	if k == KindSound {
		prefix = "audio/"
	}
	if !strings.HasPrefix(ct, prefix) {
		return "", ErrContentTypeRejected
	}

	return ct, nil
}

// Ref exposes the entry as a remote-only file reference.
func (f StoredFile) Ref() RemoteFile {
	return RemoteFile{
		Metadata: Metadata{
			Name:        f.OriginalName,
			ContentType: f.ContentKind.DefaultContentType(),
			SizeBytes:   f.SizeBytes,
		},
		URL: f.DisplayURL,
	}
}

// SortNewestFirst orders by UploadedAt descending; equal timestamps keep their relative order.
func (c Collection) SortNewestFirst() {
	slices.SortStableFunc(c, func(a, b StoredFile) int {
		return b.UploadedAt.Compare(a.UploadedAt)
	})
}

func (c Collection) Index(identifier string) int {
	return slices.IndexFunc(c, func(f StoredFile) bool { return f.Identifier == identifier })
}

func (c Collection) Contains(identifier string) bool { return c.Index(identifier) >= 0 }

func (c Collection) Clone() Collection {
	if c == nil {
		return Collection{}
	}
	return slices.Clone(c)
}
