package media

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.ParseInLocation(DateLayout, s, time.UTC)
	return t
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("images")
	require.NoError(t, err)
	assert.Equal(t, KindImage, k)

	k, err = ParseKind("sounds")
	require.NoError(t, err)
	assert.Equal(t, KindSound, k)

	_, err = ParseKind("videos")
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestKind_ResolveContentType(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		file     string
		declared string
		want     string
		wantErr  bool
	}{
		{"declared image", KindImage, "a.png", "image/png", "image/png", false},
		{"declared with params", KindImage, "a.png", "image/png; charset=binary", "image/png", false},
		{"image by extension", KindImage, "photo.JPG", "", "image/jpeg", false},
		{"octet stream falls back", KindSound, "song.mp3", "application/octet-stream", "audio/mpeg", false},
		{"audio into images", KindImage, "song.mp3", "audio/mpeg", "", true},
		{"image into sounds", KindSound, "a.png", "image/png", "", true},
		{"unknown extension", KindImage, "notes.txt", "", "", true},
		{"no extension", KindSound, "track", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.kind.ResolveContentType(tt.file, tt.declared)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrContentTypeRejected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollection_SortNewestFirstIsStable(t *testing.T) {
	t0 := day("2024-01-01")
	c := Collection{
		{Identifier: "old", UploadedAt: t0},
		{Identifier: "tie-a", UploadedAt: t0.Add(time.Hour)},
		{Identifier: "tie-b", UploadedAt: t0.Add(time.Hour)},
		{Identifier: "new", UploadedAt: t0.Add(2 * time.Hour)},
	}
	c.SortNewestFirst()

	ids := make([]string, 0, len(c))
	for _, f := range c {
		ids = append(ids, f.Identifier)
	}
	assert.Equal(t, []string{"new", "tie-a", "tie-b", "old"}, ids)
	assert.Equal(t, 1, c.Index("tie-a"))
	assert.False(t, c.Contains("missing"))
}

func TestCollection_CloneIsIndependent(t *testing.T) {
	var nilColl Collection
	assert.NotNil(t, nilColl.Clone())

	c := Collection{{Identifier: "a"}}
	cp := c.Clone()
	cp[0].Identifier = "b"
	assert.Equal(t, "a", c[0].Identifier)
}

func TestStoredFile_Ref(t *testing.T) {
	f := StoredFile{
		Identifier:   "k",
		DisplayURL:   "https://cdn/k",
		OriginalName: "k.mp3",
		SizeBytes:    7,
		ContentKind:  KindSound,
	}
	ref := f.Ref()
	assert.Equal(t, "https://cdn/k", ref.URL)
	assert.Equal(t, Metadata{Name: "k.mp3", ContentType: "audio/mpeg", SizeBytes: 7}, ref.Meta())
}

func TestNewLocalFile(t *testing.T) {
	lf := NewLocalFile("a.png", "image/png", []byte("abc"))
	assert.Equal(t, uint64(3), lf.Meta().SizeBytes)

	var ref FileRef = lf
	_, isLocal := ref.(LocalFile)
	assert.True(t, isLocal)
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		endOfDay bool
		want     DateRange
		wantErr  bool
	}{
		{name: "both empty", want: DateRange{}},
		{name: "start only", start: "2024-03-01", want: DateRange{Start: day("2024-03-01")}},
		{name: "end at midnight", end: "2024-03-05", want: DateRange{End: day("2024-03-05")}},
		{
			name:     "end of day",
			end:      "2024-03-05",
			endOfDay: true,
			want:     DateRange{End: day("2024-03-06").Add(-time.Nanosecond)},
		},
		{name: "bad start", start: "03/01/2024", wantErr: true},
		{name: "bad end", end: "2024-13-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateRange(tt.start, tt.end, tt.endOfDay)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := DateRange{Start: day("2024-03-01"), End: day("2024-03-05")}

	assert.True(t, r.Contains(day("2024-03-01")))
	assert.True(t, r.Contains(day("2024-03-05")))
	assert.False(t, r.Contains(day("2024-03-05").Add(time.Minute)))
	assert.False(t, r.Contains(day("2024-02-29")))

	inverted := DateRange{Start: day("2024-03-05"), End: day("2024-03-01")}
	assert.False(t, inverted.Contains(day("2024-03-03")))

	assert.True(t, DateRange{}.IsEmpty())
	assert.True(t, DateRange{}.Contains(time.Now()))
}
