package collection

import (
	"context"
	"fmt"
	"path"
	"regexp"

	"go.uber.org/zap"

	"media-gallery-api/internal/application/ports"
	"media-gallery-api/internal/domain/media"
)

// keyStampRe matches the timestamp prefix newStorageKey puts in front of the original name.
var keyStampRe = regexp.MustCompile(`^\d{8}T\d{6}\.\d{9}Z-`)

// Load replaces the collection with the newest ListLimit objects of the
// namespace. On failure the current collection is kept and the error is
// logged and returned. When loads overlap, only the most recently started
// one is applied. Identifiers removed within the tombstone TTL stay hidden.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	m.loadSeq++
	token := m.loadSeq
	m.inflight++
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inflight--
		m.mu.Unlock()
	}()

	entries, err := m.store.List(ctx, m.opts.Namespace, ports.ListOptions{
		Limit:    m.opts.ListLimit,
		Offset:   0,
		SortDesc: true,
	})
	if err != nil {
		m.logger.Error("error loading files", zap.String("namespace", m.opts.Namespace), zap.Error(err))
		m.count("gallery_load_failed_total")
		return fmt.Errorf("list %s: %w", m.opts.Namespace, err)
	}

	loaded := make(media.Collection, 0, len(entries))
	for _, e := range entries {
		if loaded.Contains(e.Key) {
			continue
		}
		uploadedAt := e.CreatedAt
		if uploadedAt.IsZero() {
			uploadedAt = m.now()
		}
		loaded = append(loaded, media.StoredFile{
			Identifier:   e.Key,
			DisplayURL:   m.store.PublicURL(m.opts.Namespace, e.Key),
			OriginalName: originalName(e.Key),
			UploadedAt:   uploadedAt,
			SizeBytes:    e.SizeBytes,
			ContentKind:  m.kind,
		})
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if token != m.loadSeq {
		m.logger.Debug("discarding superseded listing", zap.Uint64("token", token), zap.Uint64("latest", m.loadSeq))
		return nil
	}

	files := make(media.Collection, 0, len(loaded))
	for _, f := range loaded {
		if m.tombstones.Contains(f.Identifier) {
			continue
		}
		files = append(files, f)
	}
	files.SortNewestFirst()

	m.files = files
	m.recomputeLocked()
	m.count("gallery_loads_total")

	return nil
}

func originalName(key string) string {
	base := path.Base(key)
	if name := keyStampRe.ReplaceAllString(base, ""); name != "" {
		return name
	}
	return base
}
