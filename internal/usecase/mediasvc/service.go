package mediasvc

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/sir_venger/media_lite/internal/models"
)

const defaultBufferSize = 64 << 10

type (
	// BlobStore: хранилище содержимого ассетов.
	BlobStore interface {
		Put(ctx context.Context, kind models.Kind, ext string, r io.Reader) (string, error)
		StatSize(ctx context.Context, kind models.Kind, name string) (int64, error)
		OpenRead(ctx context.Context, kind models.Kind, name string, window *models.ByteRange) (io.ReadCloser, error)
		Delete(ctx context.Context, kind models.Kind, name string) error
		Usage(ctx context.Context, kind models.Kind) (models.Usage, error)
	}

	// Service объединяет операции по загрузке, удалению и выдаче ассетов.
	Service interface {
		Upload(ctx context.Context, kind models.Kind, originalName string, r io.Reader) (models.Asset, error)
		Delete(ctx context.Context, kind models.Kind, name string) error
		Plan(ctx context.Context, kind models.Kind, name, rangeHeader string) (models.ResponsePlan, error)
		Stream(ctx context.Context, plan models.ResponsePlan, w io.Writer) (int64, error)
		Usage(ctx context.Context) (map[models.Kind]models.Usage, error)
	}
)

type Deps struct {
	Store      BlobStore
	Log        *slog.Logger
	BufferSize int
}

type Media struct {
	Deps
	bufs sync.Pool
}

// New конструирует сервис с заданными зависимостями.
func New(deps Deps) *Media {
	if deps.Log == nil {
		deps.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if deps.BufferSize <= 0 {
		deps.BufferSize = defaultBufferSize
	}

	m := &Media{Deps: deps}
	m.bufs.New = func() any {
		b := make([]byte, m.BufferSize)
		return &b
	}

	return m
}

var _ Service = (*Media)(nil)

// Delete удаляет ассет. Повторное удаление возвращает models.ErrNotFound.
func (s *Media) Delete(ctx context.Context, kind models.Kind, name string) error {
	if err := s.Store.Delete(ctx, kind, name); err != nil {
		return err
	}

	s.Log.InfoContext(ctx, "asset deleted", "kind", kind, "filename", name)
	return nil
}

// Usage собирает статистику занятого места по всем типам ассетов.
func (s *Media) Usage(ctx context.Context) (map[models.Kind]models.Usage, error) {
	out := make(map[models.Kind]models.Usage, 2)
	for _, kind := range []models.Kind{models.KindVideo, models.KindImage} {
		u, err := s.Store.Usage(ctx, kind)
		if err != nil {
			return nil, err
		}
		out[kind] = u
	}

	return out, nil
}
