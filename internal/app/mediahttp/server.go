package mediahttp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sir_venger/media_lite/internal/config"
	"github.com/sir_venger/media_lite/internal/models"
	"github.com/sir_venger/media_lite/internal/repo/blob"
	"github.com/sir_venger/media_lite/internal/usecase/mediasvc"
	"github.com/sir_venger/media_lite/pkg/mediaproto"
)

// Sweeper очищает незавершённые загрузки: по запросу и по расписанию.
type Sweeper interface {
	Sweep(ctx context.Context, ttl time.Duration) (blob.SweepResult, error)
	StartSweeper(ttl, every time.Duration, onDone func(blob.SweepResult, error)) func()
}

type Server struct {
	Media   mediasvc.Service
	Sweeper Sweeper
	Cfg     *config.Config
	Log     *slog.Logger
}

// NewServer конструктор: собирает хранилище, сервис и роутер.
func NewServer(cfg *config.Config, log *slog.Logger) (http.Handler, *Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	store := blob.New(cfg.VideoDir, cfg.ImageDir)
	srv := &Server{
		Media:   mediasvc.New(mediasvc.Deps{Store: store, Log: log.With("component", "mediasvc")}),
		Sweeper: store,
		Cfg:     cfg,
		Log:     log,
	}

	return srv.routes(), srv, nil
}

// routes регистрирует обработчики загрузки, выдачи, удаления и служебные.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Logging(s.Log))
	r.Use(middleware.Recoverer)

	r.Get(mediaproto.PathRoot, s.root)
	r.Get(mediaproto.PathHealth, s.health)
	r.Post(mediaproto.PathSweep, s.sweep)

	r.Post(mediaproto.PathUploadVideo, s.upload(models.KindVideo, mediaproto.FieldVideo, videoMessages))
	r.Post(mediaproto.PathUploadImage, s.upload(models.KindImage, mediaproto.FieldImage, imageMessages))

	r.Delete(mediaproto.PathDeleteVideo+"/{filename}", s.delete(models.KindVideo, videoMessages))
	r.Delete(mediaproto.PathDeleteImage+"/{filename}", s.delete(models.KindImage, imageMessages))

	video := s.serve(models.KindVideo, videoMessages)
	r.Get(mediaproto.PathVideos+"/{filename}", video)
	r.Head(mediaproto.PathVideos+"/{filename}", video)

	image := s.serve(models.KindImage, imageMessages)
	r.Get(mediaproto.PathImages+"/{filename}", image)
	r.Head(mediaproto.PathImages+"/{filename}", image)

	return r
}

// StartSweeper запускает фоновую очистку по настройкам конфига.
// Возвращённая функция останавливает её.
func (s *Server) StartSweeper() func() {
	return s.Sweeper.StartSweeper(s.Cfg.SweepTTL, s.Cfg.SweepInterval, func(res blob.SweepResult, err error) {
		if err != nil {
			s.Log.Error("sweep failed", "err", err)
			return
		}
		if res.Removed > 0 {
			s.Log.Info("sweep done", "removed", res.Removed, "bytes", res.Bytes)
		}
	})
}
