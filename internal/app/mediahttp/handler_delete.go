package mediahttp

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/sir_venger/media_lite/internal/models"
	"github.com/sir_venger/media_lite/pkg/httperrors"
)

// delete удаляет ассет: 200 при успехе, 404 если файла нет, 500 при ошибке диска.
func (s *Server) delete(kind models.Kind, msgs httperrors.Messages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := filenameParam(r)
		if err != nil {
			httperrors.Write(w, err, msgs.NotFound)
			return
		}

		if err = s.Media.Delete(r.Context(), kind, name); err != nil {
			msg := msgs.NotFound
			if httperrors.Status(err) == http.StatusInternalServerError {
				s.Log.ErrorContext(r.Context(), "delete failed", "kind", kind, "filename", name, "err", err)
				msg = msgs.DeleteError
			}
			httperrors.Write(w, err, msg)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(msgs.Deleted))
	}
}

// filenameParam достаёт имя файла из пути; chi отдаёт сегмент в исходном кодировании.
func filenameParam(r *http.Request) (string, error) {
	name, err := url.PathUnescape(chi.URLParam(r, "filename"))
	if err != nil || name == "" {
		return "", models.ErrInvalidName
	}

	return name, nil
}
