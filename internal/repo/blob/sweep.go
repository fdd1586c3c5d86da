package blob

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sir_venger/media_lite/internal/models"
)

// SweepResult: итог одного прохода очистки.
type SweepResult struct {
	Removed int   `json:"removed"`
	Bytes   int64 `json:"bytes"`
}

// Sweep удаляет временные файлы незавершённых загрузок, которые старше ttl.
// Такие файлы остаются после падения процесса посреди записи.
func (s *Store) Sweep(ctx context.Context, ttl time.Duration) (SweepResult, error) {
	var (
		res  SweepResult
		errs []error
	)
	now := time.Now()

	for _, kind := range []models.Kind{models.KindVideo, models.KindImage} {
		dir := s.dirs[kind]
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}

		for _, e := range entries {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			if !e.Type().IsRegular() || !isTemp(e.Name()) {
				continue
			}

			info, err := e.Info()
			if err != nil {
				continue
			}
			if now.Sub(info.ModTime()) < ttl {
				continue
			}

			if err = os.Remove(filepath.Join(dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
				continue
			}
			res.Removed++
			res.Bytes += info.Size()
		}
	}

	return res, errors.Join(errs...)
}

// StartSweeper стартует периодическую очистку. Возвращённая функция
// останавливает фоновую горутину; повторные вызовы безопасны.
func (s *Store) StartSweeper(ttl, every time.Duration, onDone func(SweepResult, error)) func() {
	if every <= 0 || ttl <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	ticker := time.NewTicker(every)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				res, err := s.Sweep(ctx, ttl)
				if onDone != nil {
					onDone(res, err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
