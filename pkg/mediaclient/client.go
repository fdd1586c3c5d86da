// Package mediaclient реализует HTTP-клиент медиа-сервиса: загрузка, скачивание
// (в том числе по диапазонам) и удаление ассетов.
package mediaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/sir_venger/media_lite/internal/models"
	"github.com/sir_venger/media_lite/pkg/mediaproto"
)

// StatusError: неожиданный ответ сервиса.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("media service: %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// Unwrap сопоставляет статус доменной ошибке, чтобы работал errors.Is.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusBadRequest:
		return models.ErrMissingFile
	case http.StatusNotFound:
		return models.ErrNotFound
	case http.StatusRequestedRangeNotSatisfiable:
		return models.ErrRangeNotSatisfiable
	default:
		return nil
	}
}

// Download: открытый ответ на скачивание. Body нужно закрыть.
type Download struct {
	Body         io.ReadCloser
	Status       int
	Size         int64
	ContentType  string
	ContentRange string
}

type Client struct {
	base     string
	c        *http.Client
	progress io.Writer
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет HTTP-клиент.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.c = c
	}
}

// WithProgress включает вывод индикатора передачи в w.
func WithProgress(w io.Writer) Option {
	return func(cl *Client) {
		cl.progress = w
	}
}

// New создаёт клиент для сервиса по адресу baseURL.
func New(baseURL string, opts ...Option) *Client {
	cl := &Client{
		base: strings.TrimRight(baseURL, "/"),
		c:    &http.Client{},
	}
	for _, opt := range opts {
		opt(cl)
	}

	return cl
}

// Range форматирует заголовок Range; end < 0 означает "до конца файла".
func Range(start, end int64) string {
	if end < 0 {
		return fmt.Sprintf("bytes=%d-", start)
	}

	return fmt.Sprintf("bytes=%d-%d", start, end)
}

// UploadVideo загружает видео и возвращает URL для скачивания.
func (cl *Client) UploadVideo(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	var out mediaproto.VideoUploaded
	if err := cl.upload(ctx, mediaproto.PathUploadVideo, mediaproto.FieldVideo, filename, r, size, &out); err != nil {
		return "", err
	}

	return out.VideoURL, nil
}

// UploadImage загружает изображение и возвращает URL для скачивания.
func (cl *Client) UploadImage(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	var out mediaproto.ImageUploaded
	if err := cl.upload(ctx, mediaproto.PathUploadImage, mediaproto.FieldImage, filename, r, size, &out); err != nil {
		return "", err
	}

	return out.PhotoURL, nil
}

// upload стримит multipart-форму через pipe, не собирая тело в памяти.
func (cl *Client) upload(ctx context.Context, path, field, filename string, r io.Reader, size int64, out any) error {
	bar := newProgressBar(cl.progress, "Uploading "+filename, size)
	if bar != nil {
		r = &progressReader{r: r, bar: bar}
	}

	pr, pw := io.Pipe()
	// Закрытие читателя разблокирует горутину, если сервер ответил, не дочитав тело.
	defer pr.Close()
	mw := multipart.NewWriter(pw)
	go func() {
		fw, err := mw.CreateFormFile(field, filename)
		if err == nil {
			_, err = io.Copy(fw, r)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.base+path, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		bar.Finish(err)
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := cl.c.Do(req)
	if err != nil {
		_ = pr.CloseWithError(err)
		bar.Finish(err)
		return err
	}
	defer resp.Body.Close()

	if err = checkStatus(resp, http.StatusOK); err != nil {
		bar.Finish(err)
		return err
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// FetchVideo открывает видео; rangeHeader может быть пустым (весь файл).
func (cl *Client) FetchVideo(ctx context.Context, filename, rangeHeader string) (*Download, error) {
	return cl.fetch(ctx, mediaproto.PathVideos, filename, rangeHeader)
}

// FetchImage открывает изображение целиком.
func (cl *Client) FetchImage(ctx context.Context, filename string) (*Download, error) {
	return cl.fetch(ctx, mediaproto.PathImages, filename, "")
}

func (cl *Client) fetch(ctx context.Context, prefix, filename, rangeHeader string) (*Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cl.base+prefix+"/"+url.PathEscape(filename), nil)
	if err != nil {
		return nil, err
	}
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	resp, err := cl.c.Do(req)
	if err != nil {
		return nil, err
	}
	if err = checkStatus(resp, http.StatusOK, http.StatusPartialContent); err != nil {
		resp.Body.Close()
		return nil, err
	}

	bar := newProgressBar(cl.progress, "Downloading "+filename, resp.ContentLength)
	return &Download{
		Body:         withProgress(resp.Body, bar),
		Status:       resp.StatusCode,
		Size:         resp.ContentLength,
		ContentType:  resp.Header.Get("Content-Type"),
		ContentRange: resp.Header.Get("Content-Range"),
	}, nil
}

// Delete удаляет ассет. Отсутствующий файл возвращает ошибку с models.ErrNotFound.
func (cl *Client) Delete(ctx context.Context, kind models.Kind, filename string) error {
	prefix := mediaproto.PathDeleteVideo
	if kind == models.KindImage {
		prefix = mediaproto.PathDeleteImage
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, cl.base+prefix+"/"+url.PathEscape(filename), nil)
	if err != nil {
		return err
	}

	resp, err := cl.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp, http.StatusOK)
}

// Ping проверяет доступность сервиса через GET /.
func (cl *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cl.base+mediaproto.PathRoot, nil)
	if err != nil {
		return err
	}

	resp, err := cl.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err = checkStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var st mediaproto.Status
	if err = json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return err
	}
	if st.Message != mediaproto.MessageOK {
		return fmt.Errorf("unexpected status message %q", st.Message)
	}

	return nil
}

// FilenameFromURL возвращает имя файла из URL, который вернула загрузка.
func FilenameFromURL(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", err
	}

	i := strings.LastIndexByte(u.Path, '/')
	if i < 0 || i == len(u.Path)-1 {
		return "", fmt.Errorf("no filename in %q", link)
	}

	return u.Path[i+1:], nil
}

func checkStatus(resp *http.Response, ok ...int) error {
	for _, code := range ok {
		if resp.StatusCode == code {
			return nil
		}
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}
