package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sir_venger/media_lite/internal/models"
)

const (
	tempPrefix = "."
	tempSuffix = ".upload"
)

// Store хранит ассеты на локальном диске: по одному плоскому каталогу на тип.
// Имена файлов уникальны и не переиспользуются, поэтому внутренних блокировок нет.
type Store struct {
	dirs  map[models.Kind]string
	names NameFunc
}

// Option настраивает Store.
type Option func(*Store)

// WithNames подменяет генератор имён (используется в тестах).
func WithNames(fn NameFunc) Option {
	return func(s *Store) {
		s.names = fn
	}
}

// New создаёт хранилище поверх каталогов для видео и изображений.
// Каталоги создаются лениво при первой записи.
func New(videoDir, imageDir string, opts ...Option) *Store {
	s := &Store{
		dirs: map[models.Kind]string{
			models.KindVideo: videoDir,
			models.KindImage: imageDir,
		},
		names: NewName,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Dir возвращает каталог для типа ассета.
func (s *Store) Dir(kind models.Kind) (string, error) {
	dir, ok := s.dirs[kind]
	if !ok {
		return "", fmt.Errorf("unknown asset kind %q", kind)
	}

	return dir, nil
}

// Put записывает поток во временный файл и атомарно переименовывает его в
// итоговое имя. Возвращённое имя указывает на полностью записанный файл.
func (s *Store) Put(ctx context.Context, kind models.Kind, ext string, r io.Reader) (string, error) {
	dir, err := s.Dir(kind)
	if err != nil {
		return "", err
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", kind, err)
	}

	name := s.names(ext)
	if err = checkName(name); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*"+tempSuffix)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	// После успешного Rename удаление временного пути ничего не делает.
	defer os.Remove(tmp.Name())

	if _, err = io.Copy(tmp, &ctxReader{ctx: ctx, r: r}); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("sync %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	if err = os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("commit %s: %w", name, err)
	}

	return name, nil
}

// StatSize возвращает текущий размер файла.
func (s *Store) StatSize(_ context.Context, kind models.Kind, name string) (int64, error) {
	path, err := s.path(kind, name)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, mapNotExist(err)
	}
	if !info.Mode().IsRegular() {
		return 0, models.ErrNotFound
	}

	return info.Size(), nil
}

// OpenRead открывает файл на чтение. Если window задан, поток ограничен
// байтами [Start, End] включительно. Вызывающий обязан закрыть поток.
func (s *Store) OpenRead(_ context.Context, kind models.Kind, name string, window *models.ByteRange) (io.ReadCloser, error) {
	path, err := s.path(kind, name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, mapNotExist(err)
	}
	if window == nil {
		return f, nil
	}

	if window.Start < 0 || window.End < window.Start {
		_ = f.Close()
		return nil, fmt.Errorf("%w: bytes %s", models.ErrRangeNotSatisfiable, window)
	}

	return &sectionReadCloser{
		SectionReader: io.NewSectionReader(f, window.Start, window.Len()),
		f:             f,
	}, nil
}

// Delete удаляет файл.
func (s *Store) Delete(_ context.Context, kind models.Kind, name string) error {
	path, err := s.path(kind, name)
	if err != nil {
		return err
	}

	if err = os.Remove(path); err != nil {
		return mapNotExist(err)
	}

	return nil
}

// Usage считает количество и суммарный размер файлов по типу.
// Незавершённые загрузки не учитываются.
func (s *Store) Usage(_ context.Context, kind models.Kind) (models.Usage, error) {
	dir, err := s.Dir(kind)
	if err != nil {
		return models.Usage{}, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Usage{}, nil
		}
		return models.Usage{}, err
	}

	var u models.Usage
	for _, e := range entries {
		if !e.Type().IsRegular() || isTemp(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Файл могли удалить между ReadDir и Info.
			continue
		}
		u.Files++
		u.Bytes += info.Size()
	}

	return u, nil
}

func (s *Store) path(kind models.Kind, name string) (string, error) {
	dir, err := s.Dir(kind)
	if err != nil {
		return "", err
	}
	if err = checkName(name); err != nil {
		return "", err
	}

	return filepath.Join(dir, name), nil
}

// checkName не пускает за пределы каталога типа и скрывает временные файлы.
func checkName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", models.ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`), strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q", models.ErrInvalidName, name)
	case strings.HasPrefix(name, tempPrefix):
		return fmt.Errorf("%w: %q", models.ErrInvalidName, name)
	}

	return nil
}

func isTemp(name string) bool {
	return strings.HasPrefix(name, tempPrefix) && strings.HasSuffix(name, tempSuffix)
}

func mapNotExist(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", models.ErrNotFound, err)
	}

	return err
}

type sectionReadCloser struct {
	*io.SectionReader
	f *os.File
}

func (s *sectionReadCloser) Close() error {
	return s.f.Close()
}

// ctxReader прерывает копирование при отмене контекста запроса.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}
