package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/sir_venger/media_lite/internal/models"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, string, string) {
	t.Helper()
	root := t.TempDir()
	videos := filepath.Join(root, "videos")
	images := filepath.Join(root, "images")
	return New(videos, images, opts...), videos, images
}

func TestStore_PutCreatesDirAndFile(t *testing.T) {
	s, videos, _ := newTestStore(t)
	ctx := context.Background()

	payload := bytes.Repeat([]byte("0123456789"), 100)
	name, err := s.Put(ctx, models.KindVideo, ".MP4", bytes.NewReader(payload))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".mp4"), name)

	got, err := os.ReadFile(filepath.Join(videos, name))
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	size, err := s.StatSize(ctx, models.KindVideo, name)
	require.NoError(t, err)
	assert.EqualValues(t, len(payload), size)

	entries, err := os.ReadDir(videos)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not survive a successful put")
}

func TestStore_PutFailedWriteLeavesNothing(t *testing.T) {
	s, videos, _ := newTestStore(t)

	_, err := s.Put(context.Background(), models.KindVideo, ".mp4", io.MultiReader(
		strings.NewReader("partial"),
		iotest.ErrReader(errors.New("connection reset")),
	))
	require.Error(t, err)

	entries, err := os.ReadDir(videos)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_PutCanceledContext(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Put(ctx, models.KindImage, ".png", strings.NewReader("x"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestStore_ConcurrentPutsHaveUniqueNames(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	const n = 64
	var (
		mu    sync.Mutex
		names = make(map[string]struct{}, n)
	)
	eg, egCtx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			name, err := s.Put(egCtx, models.KindImage, ".jpg", strings.NewReader("img"))
			if err != nil {
				return err
			}
			mu.Lock()
			names[name] = struct{}{}
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	assert.Len(t, names, n)

	u, err := s.Usage(ctx, models.KindImage)
	require.NoError(t, err)
	assert.Equal(t, models.Usage{Files: n, Bytes: 3 * n}, u)
}

func TestStore_OpenReadWindow(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	payload := make([]byte, 1000)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	name, err := s.Put(ctx, models.KindVideo, ".mp4", bytes.NewReader(payload))
	require.NoError(t, err)

	rc, err := s.OpenRead(ctx, models.KindVideo, name, &models.ByteRange{Start: 200, End: 499})
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, payload[200:500], got)

	rc, err = s.OpenRead(ctx, models.KindVideo, name, nil)
	require.NoError(t, err)
	got, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, payload, got)
}

func TestStore_NotFound(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.StatSize(ctx, models.KindVideo, "missing.mp4")
	require.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.OpenRead(ctx, models.KindVideo, "missing.mp4", nil)
	require.ErrorIs(t, err, models.ErrNotFound)

	err = s.Delete(ctx, models.KindImage, "missing.png")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_DeleteTwice(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	name, err := s.Put(ctx, models.KindImage, ".png", strings.NewReader("png"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, models.KindImage, name))
	require.ErrorIs(t, s.Delete(ctx, models.KindImage, name), models.ErrNotFound)
}

func TestStore_RejectsUnsafeNames(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"", ".", "..", "../secret", "a/b.mp4", `a\b.mp4`, ".hidden.upload"} {
		_, err := s.StatSize(ctx, models.KindVideo, name)
		assert.ErrorIs(t, err, models.ErrInvalidName, name)
	}
}

func TestStore_StatDirectoryIsNotFound(t *testing.T) {
	s, videos, _ := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Join(videos, "sub"), 0o755))

	_, err := s.StatSize(context.Background(), models.KindVideo, "sub")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestStore_SweepRemovesStaleUploads(t *testing.T) {
	s, videos, _ := newTestStore(t)
	require.NoError(t, os.MkdirAll(videos, 0o755))

	stale := filepath.Join(videos, ".123"+tempSuffix)
	fresh := filepath.Join(videos, ".456"+tempSuffix)
	kept := filepath.Join(videos, "kept.mp4")
	for _, p := range []string{stale, fresh, kept} {
		require.NoError(t, os.WriteFile(p, []byte("data"), 0o644))
	}
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(kept, old, old))

	res, err := s.Sweep(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Removed: 1, Bytes: 4}, res)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "stale upload must be removed")
	assert.FileExists(t, fresh)
	assert.FileExists(t, kept)
}

func TestStore_StartSweeperStops(t *testing.T) {
	s, _, _ := newTestStore(t)

	ran := make(chan struct{}, 1)
	stop := s.StartSweeper(time.Hour, 10*time.Millisecond, func(SweepResult, error) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not run")
	}
	stop()
	stop()
}

func TestNewName(t *testing.T) {
	a := NewName(".mp4")
	b := NewName(".mp4")
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 32+len(".mp4"))
	assert.True(t, a < b, "names are time ordered: %s %s", a, b)
}

func TestCleanExt(t *testing.T) {
	assert.Equal(t, ".mp4", CleanExt(".MP4"))
	assert.Equal(t, ".jpeg", CleanExt("photo.jpeg"))
	assert.Equal(t, "", CleanExt(""))
	assert.Equal(t, "", CleanExt("noext"))
	assert.Equal(t, "", CleanExt("."))
	assert.Equal(t, "", CleanExt("./../x"))
	assert.Equal(t, "", CleanExt(".mp4/../../x"))
}

func TestStore_PutValidatesGeneratedName(t *testing.T) {
	s, _, _ := newTestStore(t, WithNames(func(string) string { return "../escape.mp4" }))

	_, err := s.Put(context.Background(), models.KindVideo, ".mp4", strings.NewReader("x"))
	require.ErrorIs(t, err, models.ErrInvalidName)
}
