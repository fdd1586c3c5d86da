package mediaclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sir_venger/media_lite/internal/models"
)

func TestStatusError_Unwrap(t *testing.T) {
	assert.ErrorIs(t, &StatusError{Code: http.StatusNotFound}, models.ErrNotFound)
	assert.ErrorIs(t, &StatusError{Code: http.StatusRequestedRangeNotSatisfiable}, models.ErrRangeNotSatisfiable)
	assert.ErrorIs(t, &StatusError{Code: http.StatusBadRequest}, models.ErrMissingFile)

	err := &StatusError{Code: http.StatusInternalServerError, Body: "boom"}
	assert.False(t, errors.Is(err, models.ErrNotFound))
	assert.Contains(t, err.Error(), "500")
}

func TestRange(t *testing.T) {
	assert.Equal(t, "bytes=200-499", Range(200, 499))
	assert.Equal(t, "bytes=900-", Range(900, -1))
}

func TestFilenameFromURL(t *testing.T) {
	name, err := FilenameFromURL("http://localhost:3000/videos/abc.mp4")
	require.NoError(t, err)
	assert.Equal(t, "abc.mp4", name)

	_, err = FilenameFromURL("http://localhost:3000/videos/")
	require.Error(t, err)
}

func TestUpload_SendsMultipartField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload-image", r.URL.Path)
		f, h, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "cat.png", h.Filename)
		assert.Equal(t, "meow", string(data))
		_, _ = w.Write([]byte(`{"photoUrl":"http://x/images/1.png"}`))
	}))
	t.Cleanup(srv.Close)

	var progress bytes.Buffer
	cl := New(srv.URL+"/", WithProgress(&progress))
	link, err := cl.UploadImage(context.Background(), "cat.png", strings.NewReader("meow"), 4)
	require.NoError(t, err)
	assert.Equal(t, "http://x/images/1.png", link)
	assert.Contains(t, progress.String(), "Uploading cat.png")
	assert.Contains(t, progress.String(), " ok\n")
}

func TestUpload_ServerRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "No video uploaded.", http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL).UploadVideo(context.Background(), "a.mp4", bytes.NewReader(make([]byte, 1<<10)), 1<<10)
	require.ErrorIs(t, err, models.ErrMissingFile)
}

func TestFetchVideo_SendsRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos/a.mp4", r.URL.Path)
		assert.Equal(t, "bytes=2-3", r.Header.Get("Range"))
		w.Header().Set("Content-Range", "bytes 2-3/10")
		w.Header().Set("Content-Type", "video/mp4")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte("23"))
	}))
	t.Cleanup(srv.Close)

	var progress bytes.Buffer
	d, err := New(srv.URL, WithProgress(&progress)).FetchVideo(context.Background(), "a.mp4", Range(2, 3))
	require.NoError(t, err)
	body, err := io.ReadAll(d.Body)
	require.NoError(t, err)
	require.NoError(t, d.Body.Close())

	assert.Equal(t, http.StatusPartialContent, d.Status)
	assert.Equal(t, "bytes 2-3/10", d.ContentRange)
	assert.Equal(t, "video/mp4", d.ContentType)
	assert.Equal(t, "23", string(body))
	assert.Contains(t, progress.String(), "Downloading a.mp4")
}

func TestProgressBar_Line(t *testing.T) {
	var out bytes.Buffer
	bar := newProgressBar(&out, "x", 2048)
	bar.current = 1024
	assert.Contains(t, bar.lineLocked(), " 50% 1.0 KB/2.0 KB")

	unknown := newProgressBar(&out, "y", -1)
	unknown.current = 10
	assert.Equal(t, "y 10 B transferred", unknown.lineLocked())

	var nilBar *progressBar
	nilBar.Add(1)
	nilBar.Finish(nil)
	assert.Nil(t, newProgressBar(nil, "z", 1))
}
