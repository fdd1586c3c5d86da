package httperrors

import (
	"errors"
	"net/http"

	"github.com/sir_venger/media_lite/internal/models"
)

// Status подбирает HTTP-статус для доменной ошибки.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrMissingFile):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrInvalidName):
		return http.StatusNotFound
	case errors.Is(err, models.ErrMalformedRange), errors.Is(err, models.ErrRangeNotSatisfiable):
		return http.StatusRequestedRangeNotSatisfiable
	default:
		return http.StatusInternalServerError
	}
}

// Write отвечает клиенту текстом msg со статусом, соответствующим err.
// Подробности внутренних ошибок наружу не отдаются.
func Write(w http.ResponseWriter, err error, msg string) {
	http.Error(w, msg, Status(err))
}

// Messages: тексты ответов для одного типа ассета.
type Messages struct {
	Missing     string
	NotFound    string
	Deleted     string
	DeleteError string
	Unsatisfied string
	Internal    string
}

// Pick выбирает текст ответа по ошибке.
func (m Messages) Pick(err error) string {
	switch Status(err) {
	case http.StatusBadRequest:
		return m.Missing
	case http.StatusNotFound:
		return m.NotFound
	case http.StatusRequestedRangeNotSatisfiable:
		return m.Unsatisfied
	default:
		return m.Internal
	}
}
