package media

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

type fakeUploader struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeUploader) Upload(ctx context.Context, file File, kind entrymodels.MediaKind) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, file.Name)
	f.mu.Unlock()

	if err := f.fail[file.Name]; err != nil {
		return "", err
	}
	body, _ := io.ReadAll(file.Body)
	return "https://cdn.example/" + ResourceType(kind) + "/" + file.Name + "?" + string(body), nil
}

func TestUploadBatchKeepsInputOrder(t *testing.T) {
	up := &fakeUploader{}
	files := []File{textFile("one.jpg", "1"), textFile("two.jpg", "2"), textFile("three.jpg", "3")}

	items, err := UploadBatch(context.Background(), up, entrymodels.MediaImage, files)
	require.NoError(t, err)

	require.Len(t, items, 3)
	for i, name := range []string{"one.jpg", "two.jpg", "three.jpg"} {
		assert.Equal(t, entrymodels.MediaImage, items[i].Kind)
		assert.Equal(t, name, items[i].Name)
		assert.Contains(t, items[i].URL, name)
	}
	assert.Len(t, up.calls, 3)
}

func TestUploadBatchAudioItems(t *testing.T) {
	items, err := UploadBatch(context.Background(), &fakeUploader{}, entrymodels.MediaAudio, []File{textFile("talk.mp3", "a")})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, entrymodels.MediaAudio, items[0].Kind)
	assert.Contains(t, items[0].URL, "/video/")
}

func TestUploadBatchIsAllOrNothing(t *testing.T) {
	boom := &UploadError{Status: 500, Body: "boom"}
	up := &fakeUploader{fail: map[string]error{"two.jpg": boom}}
	files := []File{textFile("one.jpg", "1"), textFile("two.jpg", "2"), textFile("three.jpg", "3")}

	items, err := UploadBatch(context.Background(), up, entrymodels.MediaImage, files)

	assert.Nil(t, items)
	var upErr *UploadError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, 500, upErr.Status)
	assert.Contains(t, err.Error(), "two.jpg")
}

func TestUploadBatchEmpty(t *testing.T) {
	items, err := UploadBatch(context.Background(), &fakeUploader{}, entrymodels.MediaImage, nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}
