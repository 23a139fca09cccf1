package collection

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"media-gallery-api/internal/domain/media"
)

const maxBaseNameLen = 100

var windowsReserved = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

type UploadFailure struct {
	Name string
	Err  error
}

// Upload stores every file on its own; one failure only drops that file.
// Stored files are added to the collection and returned in input order.
func (m *Manager) Upload(ctx context.Context, files []media.LocalFile) (media.Collection, []UploadFailure) {
	type result struct {
		stored media.StoredFile
		err    error
	}
	results := make([]result, len(files))

	g := new(errgroup.Group)
	g.SetLimit(m.opts.UploadConcurrency)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			results[i].stored, results[i].err = m.uploadOne(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	var (
		stored   = make(media.Collection, 0, len(files))
		failures []UploadFailure
	)
	for i, r := range results {
		if r.err != nil {
			m.logger.Warn("upload failed", zap.String("file_name", files[i].Name), zap.Error(r.err))
			m.count("gallery_upload_failed_total")
			failures = append(failures, UploadFailure{Name: files[i].Name, Err: r.err})
			continue
		}
		m.previews.Add(r.stored.Identifier, files[i])
		m.count("gallery_files_uploaded_total")
		stored = append(stored, r.stored)
	}

	m.AddFiles(stored...)

	return stored, failures
}

func (m *Manager) uploadOne(ctx context.Context, f media.LocalFile) (media.StoredFile, error) {
	ct, err := m.kind.ResolveContentType(f.Name, f.ContentType)
	if err != nil {
		return media.StoredFile{}, fmt.Errorf("%s (%s): %w", f.Name, f.ContentType, err)
	}

	now := m.now().UTC()
	key, err := m.store.Upload(ctx, m.opts.Namespace, newStorageKey(f.Name, now), ct, f.Content)
	if err != nil {
		return media.StoredFile{}, fmt.Errorf("upload %s: %w", f.Name, err)
	}

	return media.StoredFile{
		Identifier:   key,
		DisplayURL:   m.store.PublicURL(m.opts.Namespace, key),
		OriginalName: f.Name,
		UploadedAt:   now,
		SizeBytes:    uint64(len(f.Content)),
		ContentKind:  m.kind,
	}, nil
}

// newStorageKey: "<YYYYMMDDTHHMMSS.nnnnnnnnnZ>-<sanitized name>"
func newStorageKey(name string, at time.Time) string {
	return at.Format("20060102T150405.000000000Z") + "-" + sanitizeFileName(name)
}

// sanitizeFileName reduces a user supplied name to a lowercase ASCII slug with its extension
func sanitizeFileName(original string) string {
	if original == "" {
		return "file"
	}

	s := strings.TrimSpace(original)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)

	if s == "." || s == ".." || s == "/" || s == "" {
		return "file"
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, _ = transform.String(t, s)

	ext := strings.ToLower(path.Ext(s))
	base := strings.TrimSuffix(s, path.Ext(s))

	// keep [a-z0-9], collapse '-', '_', dots and spaces into one '-'
	var b strings.Builder
	b.Grow(len(base))
	prevDash := false
	for _, r := range base {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		}
	}
	base = strings.Trim(b.String(), "-")

	if base == "" {
		base = "file"
	}
	if _, bad := windowsReserved[base]; bad {
		base = "_" + base
	}

	for utf8.RuneCountInString(base)+len(ext) > maxBaseNameLen {
		_, size := utf8.DecodeLastRuneInString(base)
		if size <= 0 || size > len(base) {
			break
		}
		base = base[:len(base)-size]
	}

	return base + ext
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
