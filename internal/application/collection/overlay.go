package collection

import (
	"context"

	"go.uber.org/zap"

	"media-gallery-api/internal/domain/media"
)

// AddFiles puts entries in front of the collection without waiting for a
// resync. An entry whose identifier is already present replaces it.
func (m *Manager) AddFiles(entries ...media.StoredFile) {
	if len(entries) == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	merged := make(media.Collection, 0, len(entries)+len(m.files))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Identifier]; dup {
			continue
		}
		seen[e.Identifier] = struct{}{}
		e.ContentKind = m.kind
		merged = append(merged, e)
		m.tombstones.Remove(e.Identifier)
	}
	for _, f := range m.files {
		if _, replaced := seen[f.Identifier]; !replaced {
			merged = append(merged, f)
		}
	}
	merged.SortNewestFirst()

	m.files = merged
	m.recomputeLocked()
}

// RemoveFile drops the entry locally right away and fires the storage delete
// in the background. A failed remote delete is logged and never rolls the
// local removal back. Unknown identifiers are ignored.
func (m *Manager) RemoveFile(ctx context.Context, identifier string) (media.StoredFile, bool) {
	m.mu.Lock()
	removed, ok := m.removeLocked(identifier)
	m.mu.Unlock()

	if ok {
		m.deleteRemote(ctx, identifier)
	}

	return removed, ok
}

// RemoveAt removes the entry shown at a position of the current page.
func (m *Manager) RemoveAt(ctx context.Context, relativeIndex int) (media.StoredFile, error) {
	m.mu.Lock()
	abs, err := m.pager.AbsoluteIndex(relativeIndex, len(m.filtered))
	if err != nil {
		m.mu.Unlock()
		return media.StoredFile{}, err
	}
	target := m.filtered[abs]
	m.removeLocked(target.Identifier)
	m.mu.Unlock()

	m.deleteRemote(ctx, target.Identifier)

	return target, nil
}

func (m *Manager) removeLocked(identifier string) (media.StoredFile, bool) {
	idx := m.files.Index(identifier)
	if idx < 0 {
		return media.StoredFile{}, false
	}

	removed := m.files[idx]
	m.files = append(m.files[:idx:idx], m.files[idx+1:]...)
	m.tombstones.Add(identifier, struct{}{})
	m.previews.Remove(identifier)
	m.recomputeLocked()

	return removed, true
}

func (m *Manager) deleteRemote(ctx context.Context, identifier string) {
	ctx = context.WithoutCancel(ctx)

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()

		if err := m.store.Delete(ctx, m.opts.Namespace, identifier); err != nil {
			// alert
			m.logger.Error("remote delete failed", zap.String("key", identifier), zap.Error(err))
			m.count("gallery_remote_delete_failed_total")
			return
		}
		m.count("gallery_remote_deleted_total")
	}()
}
