package mediasvc

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sir_venger/media_lite/internal/models"
	"github.com/sir_venger/media_lite/pkg/httprange"
)

const fallbackContentType = "application/octet-stream"

// Plan решает, как отвечать на запрос чтения ассета:
//   - файла нет: ошибка models.ErrNotFound;
//   - Range не передан: 200 и весь файл;
//   - Range корректен: 206 и окно [start, end];
//   - Range некорректен или вне файла: 416 без тела.
//
// Диапазоны учитываются только для видео, изображения всегда отдаются целиком.
func (s *Media) Plan(ctx context.Context, kind models.Kind, name, rangeHeader string) (models.ResponsePlan, error) {
	size, err := s.Store.StatSize(ctx, kind, name)
	if err != nil {
		return models.ResponsePlan{}, err
	}

	plan := models.ResponsePlan{
		Status: http.StatusOK,
		Header: http.Header{},
		Asset:  models.Asset{Kind: kind, Filename: name, Size: size},
	}
	plan.Header.Set("Content-Type", contentType(kind, name))
	if kind == models.KindVideo {
		plan.Header.Set("Accept-Ranges", "bytes")
	}

	if kind != models.KindVideo || strings.TrimSpace(rangeHeader) == "" {
		plan.Header.Set("Content-Length", strconv.FormatInt(size, 10))
		return plan, nil
	}

	window, err := httprange.Parse(rangeHeader, size)
	if err != nil {
		if !errors.Is(err, models.ErrMalformedRange) && !errors.Is(err, models.ErrRangeNotSatisfiable) {
			return models.ResponsePlan{}, err
		}
		s.Log.DebugContext(ctx, "range rejected", "filename", name, "range", rangeHeader, "err", err)

		plan.Status = http.StatusRequestedRangeNotSatisfiable
		plan.Header = http.Header{}
		plan.Header.Set("Content-Range", httprange.UnsatisfiedRange(size))
		plan.Reason = err.Error()
		return plan, nil
	}

	plan.Status = http.StatusPartialContent
	plan.Window = &window
	plan.Header.Set("Content-Range", httprange.ContentRange(window, size))
	plan.Header.Set("Content-Length", strconv.FormatInt(window.Len(), 10))

	return plan, nil
}

// contentType для видео фиксирован, для изображений выводится из расширения.
func contentType(kind models.Kind, name string) string {
	if kind == models.KindVideo {
		return models.VideoContentType
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}

	return fallbackContentType
}
