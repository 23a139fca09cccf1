package collection

import (
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"media-gallery-api/internal/application/ports"
	"media-gallery-api/internal/domain/media"
)

const (
	DefaultListLimit         = 100
	DefaultTombstoneTTL      = 30 * time.Second
	defaultTombstoneSize     = 1024
	defaultPreviewSize       = 32
	defaultPreviewTTL        = 10 * time.Minute
	defaultUploadConcurrency = 4
)

type (
	Options struct {
		// Namespace is the bucket the collection lives in.
		Namespace         string
		ListLimit         int
		ItemsPerPage      int
		TombstoneTTL      time.Duration
		PreviewTTL        time.Duration
		PreviewSize       int
		UploadConcurrency int
	}

	// Manager owns one collection: the synced listing with local mutations
	// applied, the active date filter and the pagination state. All state
	// changes are serialized by mu; storage calls never run under it.
	Manager struct {
		kind     media.Kind
		opts     Options
		store    ports.ObjectStore
		logger   *zap.Logger
		mCounter *prometheus.CounterVec
		now      func() time.Time

		mu       sync.Mutex
		files    media.Collection
		filter   media.DateRange
		filtered media.Collection
		pager    Paginator
		loadSeq  uint64
		inflight int

		tombstones *expirable.LRU[string, struct{}]
		previews   *expirable.LRU[string, media.LocalFile]
		pending    sync.WaitGroup
	}

	View struct {
		Kind          media.Kind
		Items         media.Collection
		CurrentPage   int
		TotalPages    int
		ItemsPerPage  int
		FilteredCount int
		TotalCount    int
		StartItem     int
		EndItem       int
		Pages         []PageLink
		Filter        media.DateRange
		IsLoading     bool
	}
)

func New(
	kind media.Kind,
	store ports.ObjectStore,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
	opts Options,
) (*Manager, error) {
	if _, err := media.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("%s collection: empty namespace", kind)
	}
	if opts.ListLimit <= 0 {
		opts.ListLimit = DefaultListLimit
	}
	if opts.ItemsPerPage == 0 {
		opts.ItemsPerPage = DefaultItemsPerPage
	}
	if opts.TombstoneTTL <= 0 {
		opts.TombstoneTTL = DefaultTombstoneTTL
	}
	if opts.PreviewTTL <= 0 {
		opts.PreviewTTL = defaultPreviewTTL
	}
	if opts.PreviewSize <= 0 {
		opts.PreviewSize = defaultPreviewSize
	}
	if opts.UploadConcurrency <= 0 {
		opts.UploadConcurrency = defaultUploadConcurrency
	}

	pager, err := NewPaginator(opts.ItemsPerPage)
	if err != nil {
		return nil, fmt.Errorf("%s collection: %w", kind, err)
	}

	return &Manager{
		kind:       kind,
		opts:       opts,
		store:      store,
		logger:     logger.With(zap.String("collection", kind.String())),
		mCounter:   mCounter,
		now:        time.Now,
		files:      media.Collection{},
		filtered:   media.Collection{},
		pager:      pager,
		tombstones: expirable.NewLRU[string, struct{}](defaultTombstoneSize, nil, opts.TombstoneTTL),
		previews:   expirable.NewLRU[string, media.LocalFile](opts.PreviewSize, nil, opts.PreviewTTL),
	}, nil
}

func (m *Manager) Kind() media.Kind { return m.kind }

func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inflight > 0
}

// View snapshots what the presentation layer renders: the current page only.
func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := len(m.filtered)
	lo, hi := m.pager.Bounds(count)

	v := View{
		Kind:          m.kind,
		Items:         m.filtered[lo:hi].Clone(),
		CurrentPage:   m.pager.CurrentPage(),
		TotalPages:    m.pager.TotalPages(count),
		ItemsPerPage:  m.pager.ItemsPerPage(),
		FilteredCount: count,
		TotalCount:    len(m.files),
		Pages:         m.pager.Window(count),
		Filter:        m.filter,
		IsLoading:     m.inflight > 0,
	}
	if hi > lo {
		v.StartItem, v.EndItem = lo+1, hi
	}

	return v
}

// Files returns the whole merged collection, unfiltered.
func (m *Manager) Files() media.Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files.Clone()
}

// Filtered returns the whole filtered subset across all pages.
func (m *Manager) Filtered() media.Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filtered.Clone()
}

func (m *Manager) SetDateFilter(r media.DateRange) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.filter = r
	m.recomputeLocked()
}

func (m *Manager) ClearDateFilter() { m.SetDateFilter(media.DateRange{}) }

func (m *Manager) SetPage(page int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pager.SetPage(page, len(m.filtered))
}

func (m *Manager) SetItemsPerPage(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pager.SetItemsPerPage(n)
}

// Resolve finds the entry by identifier. Freshly uploaded files whose bytes
// are still cached come back as a LocalFile, everything else as a RemoteFile.
func (m *Manager) Resolve(identifier string) (media.FileRef, bool) {
	m.mu.Lock()
	idx := m.files.Index(identifier)
	if idx < 0 {
		m.mu.Unlock()
		return nil, false
	}
	f := m.files[idx]
	m.mu.Unlock()

	if local, ok := m.previews.Get(identifier); ok {
		return local, true
	}
	return f.Ref(), true
}

// Wait blocks until detached remote deletes have finished.
func (m *Manager) Wait() { m.pending.Wait() }

// recomputeLocked re-derives the filtered subset and clamps the page; mu must be held.
func (m *Manager) recomputeLocked() {
	m.filtered = Apply(m.files, m.filter)
	m.pager.Clamp(len(m.filtered))
}

func (m *Manager) count(result string) {
	if m.mCounter != nil {
		m.mCounter.WithLabelValues(result).Inc()
	}
}
