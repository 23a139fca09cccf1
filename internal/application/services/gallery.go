package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"media-gallery-api/internal/application/collection"
	"media-gallery-api/internal/application/ports"
	"media-gallery-api/internal/domain/activity"
	"media-gallery-api/internal/domain/media"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrFileTooLarge = errors.New("file too large")
	ErrEmptyFile    = errors.New("file is empty")
	ErrNoFiles      = errors.New("no files provided")
)

type (
	UploadResult struct {
		Stored   media.Collection
		Failures []collection.UploadFailure
	}

	// GalleryService fronts the per-kind collection managers and reports
	// every mutation as an activity event.
	GalleryService struct {
		managers       map[media.Kind]*collection.Manager
		publisher      ports.EventPublisher
		activityRepo   activity.Repository
		logger         *zap.Logger
		mCounter       *prometheus.CounterVec
		endOfDay       bool
		maxUploadBytes int64
	}

	GalleryOptions struct {
		EndOfDayInclusive bool
		MaxUploadBytes    int64
	}
)

func NewGalleryService(
	managers []*collection.Manager,
	publisher ports.EventPublisher,
	activityRepo activity.Repository,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
	opts GalleryOptions,
) *GalleryService {
	byKind := make(map[media.Kind]*collection.Manager, len(managers))
	for _, m := range managers {
		byKind[m.Kind()] = m
	}

	return &GalleryService{
		managers:       byKind,
		publisher:      publisher,
		activityRepo:   activityRepo,
		logger:         logger,
		mCounter:       mCounter,
		endOfDay:       opts.EndOfDayInclusive,
		maxUploadBytes: opts.MaxUploadBytes,
	}
}

func (gs *GalleryService) manager(kind media.Kind) (*collection.Manager, error) {
	m, ok := gs.managers[kind]
	if !ok {
		return nil, media.ErrUnsupportedKind
	}
	return m, nil
}

func (gs *GalleryService) View(kind media.Kind) (collection.View, error) {
	m, err := gs.manager(kind)
	if err != nil {
		return collection.View{}, err
	}
	return m.View(), nil
}

// LoadAll performs the initial fetch of every collection. Failures are
// logged by the managers and leave the collection empty.
func (gs *GalleryService) LoadAll(ctx context.Context) {
	for kind, m := range gs.managers {
		if err := m.Load(ctx); err != nil {
			gs.logger.Warn("initial load failed", zap.String("kind", kind.String()), zap.Error(err))
		}
	}
}

// Reload refetches the listing. A failed fetch keeps the previous
// collection; the returned view is valid either way.
func (gs *GalleryService) Reload(ctx context.Context, kind media.Kind, actor string) (collection.View, error) {
	m, err := gs.manager(kind)
	if err != nil {
		return collection.View{}, err
	}

	loadErr := m.Load(ctx)
	if loadErr == nil {
		gs.emit(activity.NewEvent(activity.ActionCollectionReloaded, kind, nil, actor))
	}

	return m.View(), loadErr
}

func (gs *GalleryService) SetDateFilter(kind media.Kind, start, end string) (collection.View, error) {
	m, err := gs.manager(kind)
	if err != nil {
		return collection.View{}, err
	}

	r, err := media.ParseDateRange(start, end, gs.endOfDay)
	if err != nil {
		return collection.View{}, err
	}
	m.SetDateFilter(r)

	return m.View(), nil
}

func (gs *GalleryService) ClearDateFilter(kind media.Kind) (collection.View, error) {
	m, err := gs.manager(kind)
	if err != nil {
		return collection.View{}, err
	}
	m.ClearDateFilter()

	return m.View(), nil
}

func (gs *GalleryService) SetPage(kind media.Kind, page int) (collection.View, error) {
	m, err := gs.manager(kind)
	if err != nil {
		return collection.View{}, err
	}
	m.SetPage(page)

	return m.View(), nil
}

func (gs *GalleryService) SetItemsPerPage(kind media.Kind, n int) (collection.View, error) {
	m, err := gs.manager(kind)
	if err != nil {
		return collection.View{}, err
	}
	if err = m.SetItemsPerPage(n); err != nil {
		return collection.View{}, err
	}

	return m.View(), nil
}

// UploadFiles reads and stores every part on its own. Unreadable or
// oversized parts are reported as failures next to storage rejections.
func (gs *GalleryService) UploadFiles(
	ctx context.Context,
	kind media.Kind,
	headers []*multipart.FileHeader,
	actor string,
) (UploadResult, error) {
	m, err := gs.manager(kind)
	if err != nil {
		return UploadResult{}, err
	}
	if len(headers) == 0 {
		return UploadResult{}, ErrNoFiles
	}

	var (
		files    = make([]media.LocalFile, 0, len(headers))
		failures []collection.UploadFailure
	)
	for _, h := range headers {
		f, err := gs.readLocalFile(h)
		if err != nil {
			gs.count("gallery_upload_failed_total")
			failures = append(failures, collection.UploadFailure{Name: h.Filename, Err: err})
			continue
		}
		files = append(files, f)
	}

	var stored media.Collection
	if len(files) > 0 {
		var uploadFailures []collection.UploadFailure
		stored, uploadFailures = m.Upload(ctx, files)
		failures = append(failures, uploadFailures...)
	}

	for i := range stored {
		gs.emit(activity.NewEvent(activity.ActionFileUploaded, kind, &stored[i], actor))
	}

	if stored == nil {
		stored = media.Collection{}
	}

	return UploadResult{Stored: stored, Failures: failures}, nil
}

func (gs *GalleryService) readLocalFile(h *multipart.FileHeader) (media.LocalFile, error) {
	if h.Size == 0 {
		return media.LocalFile{}, ErrEmptyFile
	}
	if gs.maxUploadBytes > 0 && h.Size > gs.maxUploadBytes {
		return media.LocalFile{}, ErrFileTooLarge
	}

	f, err := h.Open()
	if err != nil {
		return media.LocalFile{}, fmt.Errorf("open %s: %w", h.Filename, err)
	}
	defer f.Close()

	var r io.Reader = f
	if gs.maxUploadBytes > 0 {
		r = io.LimitReader(f, gs.maxUploadBytes+1)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return media.LocalFile{}, fmt.Errorf("read %s: %w", h.Filename, err)
	}
	if gs.maxUploadBytes > 0 && int64(len(b)) > gs.maxUploadBytes {
		return media.LocalFile{}, ErrFileTooLarge
	}

	return media.NewLocalFile(filepath.Base(h.Filename), h.Header.Get("Content-Type"), b), nil
}

func (gs *GalleryService) RemoveFile(ctx context.Context, kind media.Kind, key, actor string) error {
	m, err := gs.manager(kind)
	if err != nil {
		return err
	}

	removed, ok := m.RemoveFile(ctx, key)
	if !ok {
		return ErrFileNotFound
	}
	gs.emit(activity.NewEvent(activity.ActionFileDeleted, kind, &removed, actor))

	return nil
}

func (gs *GalleryService) RemoveAt(ctx context.Context, kind media.Kind, index int, actor string) (media.StoredFile, error) {
	m, err := gs.manager(kind)
	if err != nil {
		return media.StoredFile{}, err
	}

	removed, err := m.RemoveAt(ctx, index)
	if err != nil {
		return media.StoredFile{}, err
	}
	gs.emit(activity.NewEvent(activity.ActionFileDeleted, kind, &removed, actor))

	return removed, nil
}

func (gs *GalleryService) Resolve(kind media.Kind, key string) (media.FileRef, error) {
	m, err := gs.manager(kind)
	if err != nil {
		return nil, err
	}

	ref, ok := m.Resolve(key)
	if !ok {
		return nil, ErrFileNotFound
	}
	return ref, nil
}

func (gs *GalleryService) RecentActivity(ctx context.Context, limit int) (activity.Events, error) {
	return gs.activityRepo.FetchRecent(ctx, limit)
}

// Wait drains the background deletes of every collection.
func (gs *GalleryService) Wait() {
	for _, m := range gs.managers {
		m.Wait()
	}
}

// emit never blocks a request; a full publisher buffer drops the event.
func (gs *GalleryService) emit(e activity.Event) {
	if gs.publisher == nil {
		return
	}

	select {
	case gs.publisher.GetInputChan() <- e:
	default:
		gs.logger.Warn("activity event dropped",
			zap.String("action", string(e.Action)),
			zap.String("event_id", e.ID.String()),
		)
		gs.count("gallery_activity_dropped_total")
	}
}

func (gs *GalleryService) count(result string) {
	if gs.mCounter != nil {
		gs.mCounter.WithLabelValues(result).Inc()
	}
}
