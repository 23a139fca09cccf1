package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"media-gallery-api/internal/application/collection"
	"media-gallery-api/internal/application/ports"
	"media-gallery-api/internal/domain/activity"
	"media-gallery-api/internal/domain/media"
	"media-gallery-api/internal/infrastructure/mq"
)

type fakeStore struct {
	ListFunc func(ctx context.Context, namespace string, opts ports.ListOptions) ([]ports.ObjectEntry, error)
}

func (f *fakeStore) List(ctx context.Context, namespace string, opts ports.ListOptions) ([]ports.ObjectEntry, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, namespace, opts)
	}
	return nil, nil
}

func (f *fakeStore) Upload(_ context.Context, _, key, _ string, _ []byte) (string, error) {
	return key, nil
}

func (f *fakeStore) PublicURL(namespace, key string) string {
	return "https://cdn.test/" + namespace + "/" + key
}

func (f *fakeStore) Delete(context.Context, string, string) error { return nil }

type fakePublisher struct {
	ch chan mq.Event
}

func (f *fakePublisher) GetInputChan() chan mq.Event { return f.ch }

func (f *fakePublisher) drain() []activity.Event {
	var out []activity.Event
	for {
		select {
		case e := <-f.ch:
			out = append(out, e)
		default:
			return out
		}
	}
}

type part struct {
	name, contentType string
	body              []byte
}

func fileHeaders(t *testing.T, parts ...part) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, p.name))
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["files"]
}

func newGallery(t *testing.T, store ports.ObjectStore, opts GalleryOptions) (*GalleryService, *fakePublisher) {
	t.Helper()

	var managers []*collection.Manager
	for _, kind := range []media.Kind{media.KindImage, media.KindSound} {
		m, err := collection.New(kind, store, zap.NewNop(), nil, collection.Options{Namespace: "gallery-" + kind.String()})
		require.NoError(t, err)
		managers = append(managers, m)
	}

	pub := &fakePublisher{ch: make(chan mq.Event, 16)}
	return NewGalleryService(managers, pub, nil, zap.NewNop(), nil, opts), pub
}

func TestGalleryService_UnknownKind(t *testing.T) {
	gs, _ := newGallery(t, &fakeStore{}, GalleryOptions{})

	_, err := gs.View(media.Kind("videos"))
	assert.ErrorIs(t, err, media.ErrUnsupportedKind)

	err = gs.RemoveFile(context.Background(), media.Kind("videos"), "k", "alice")
	assert.ErrorIs(t, err, media.ErrUnsupportedKind)
}

func TestGalleryService_UploadFilesIsolatesFailures(t *testing.T) {
	gs, pub := newGallery(t, &fakeStore{}, GalleryOptions{MaxUploadBytes: 16})

	headers := fileHeaders(t,
		part{name: "cat.png", contentType: "image/png", body: []byte("png-bytes")},
		part{name: "empty.jpg", contentType: "image/jpeg"},
		part{name: "huge.jpg", contentType: "image/jpeg", body: bytes.Repeat([]byte("x"), 32)},
		part{name: "song.mp3", contentType: "audio/mpeg", body: []byte("id3")},
	)

	res, err := gs.UploadFiles(context.Background(), media.KindImage, headers, "alice")
	require.NoError(t, err)

	require.Len(t, res.Stored, 1)
	assert.Equal(t, "cat.png", res.Stored[0].OriginalName)
	assert.Equal(t, uint64(9), res.Stored[0].SizeBytes)

	require.Len(t, res.Failures, 3)
	assert.ErrorIs(t, res.Failures[0].Err, ErrEmptyFile)
	assert.ErrorIs(t, res.Failures[1].Err, ErrFileTooLarge)
	assert.Equal(t, "song.mp3", res.Failures[2].Name)
	assert.ErrorIs(t, res.Failures[2].Err, media.ErrContentTypeRejected)

	events := pub.drain()
	require.Len(t, events, 1)
	assert.Equal(t, activity.ActionFileUploaded, events[0].Action)
	assert.Equal(t, media.KindImage, events[0].Kind)
	assert.Equal(t, res.Stored[0].Identifier, events[0].StorageKey)
	assert.Equal(t, "alice", events[0].Actor)

	view, err := gs.View(media.KindImage)
	require.NoError(t, err)
	assert.Equal(t, 1, view.TotalCount)

	ref, err := gs.Resolve(media.KindImage, res.Stored[0].Identifier)
	require.NoError(t, err)
	local, ok := ref.(media.LocalFile)
	require.True(t, ok)
	assert.Equal(t, []byte("png-bytes"), local.Content)
}

func TestGalleryService_UploadNothing(t *testing.T) {
	gs, _ := newGallery(t, &fakeStore{}, GalleryOptions{})

	_, err := gs.UploadFiles(context.Background(), media.KindSound, nil, "alice")
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestGalleryService_RemoveEmitsEvent(t *testing.T) {
	gs, pub := newGallery(t, &fakeStore{}, GalleryOptions{})
	m := gs.managers[media.KindSound]
	m.AddFiles(media.StoredFile{Identifier: "a.mp3", OriginalName: "a.mp3", SizeBytes: 7, UploadedAt: time.Now()})

	require.NoError(t, gs.RemoveFile(context.Background(), media.KindSound, "a.mp3", "bob"))
	assert.ErrorIs(t, gs.RemoveFile(context.Background(), media.KindSound, "a.mp3", "bob"), ErrFileNotFound)
	gs.Wait()

	events := pub.drain()
	require.Len(t, events, 1)
	assert.Equal(t, activity.ActionFileDeleted, events[0].Action)
	assert.Equal(t, "a.mp3", events[0].OriginalName)
	assert.Equal(t, uint64(7), events[0].SizeBytes)

	_, err := gs.Resolve(media.KindSound, "a.mp3")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestGalleryService_RemoveAtOutOfRange(t *testing.T) {
	gs, pub := newGallery(t, &fakeStore{}, GalleryOptions{})

	_, err := gs.RemoveAt(context.Background(), media.KindImage, 0, "bob")
	assert.ErrorIs(t, err, collection.ErrPositionOutOfRange)
	assert.Empty(t, pub.drain())
}

func TestGalleryService_Reload(t *testing.T) {
	fail := false
	store := &fakeStore{ListFunc: func(context.Context, string, ports.ListOptions) ([]ports.ObjectEntry, error) {
		if fail {
			return nil, errors.New("timeout")
		}
		return []ports.ObjectEntry{{Key: "a.jpg", CreatedAt: time.Now()}}, nil
	}}
	gs, pub := newGallery(t, store, GalleryOptions{})

	view, err := gs.Reload(context.Background(), media.KindImage, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, view.TotalCount)

	fail = true
	view, err = gs.Reload(context.Background(), media.KindImage, "alice")
	require.Error(t, err)
	assert.Equal(t, 1, view.TotalCount, "failed reload keeps the previous collection")
	assert.False(t, view.IsLoading)

	events := pub.drain()
	require.Len(t, events, 1)
	assert.Equal(t, activity.ActionCollectionReloaded, events[0].Action)
	assert.Empty(t, events[0].StorageKey)
}

func TestGalleryService_DateFilterEndOfDay(t *testing.T) {
	afternoon := time.Date(2025, time.May, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		endOfDay bool
		want     int
	}{
		{"midnight end excludes same day", false, 0},
		{"end of day includes same day", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs, _ := newGallery(t, &fakeStore{}, GalleryOptions{EndOfDayInclusive: tt.endOfDay})
			gs.managers[media.KindImage].AddFiles(media.StoredFile{Identifier: "a", UploadedAt: afternoon})

			view, err := gs.SetDateFilter(media.KindImage, "2025-05-10", "2025-05-10")
			require.NoError(t, err)
			assert.Equal(t, tt.want, view.FilteredCount)

			view, err = gs.ClearDateFilter(media.KindImage)
			require.NoError(t, err)
			assert.Equal(t, 1, view.FilteredCount)
		})
	}
}

func TestGalleryService_Validation(t *testing.T) {
	gs, _ := newGallery(t, &fakeStore{}, GalleryOptions{})

	_, err := gs.SetDateFilter(media.KindImage, "10/05/2025", "")
	assert.Error(t, err)

	_, err = gs.SetItemsPerPage(media.KindImage, 40)
	assert.ErrorIs(t, err, collection.ErrInvalidItemsPerPage)

	view, err := gs.SetItemsPerPage(media.KindImage, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, view.ItemsPerPage)

	view, err = gs.SetPage(media.KindImage, 9)
	require.NoError(t, err)
	assert.Equal(t, 1, view.CurrentPage)
}

func TestGalleryService_EmitNeverBlocks(t *testing.T) {
	gs, _ := newGallery(t, &fakeStore{}, GalleryOptions{})
	gs.publisher = &fakePublisher{ch: make(chan mq.Event)}

	done := make(chan struct{})
	go func() {
		gs.emit(activity.NewEvent(activity.ActionCollectionReloaded, media.KindImage, nil, ""))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a full publisher")
	}
}
