package mediahttp

import (
	"net/http"

	"github.com/sir_venger/media_lite/internal/models"
	"github.com/sir_venger/media_lite/internal/usecase/mediasvc"
	"github.com/sir_venger/media_lite/pkg/httperrors"
)

// serve отдаёт ассет по плану сервиса: 200 целиком, 206 диапазон, 416 без тела.
// Range учитывается только для видео.
func (s *Server) serve(kind models.Kind, msgs httperrors.Messages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := filenameParam(r)
		if err != nil {
			httperrors.Write(w, err, msgs.NotFound)
			return
		}

		var rangeHeader string
		if kind == models.KindVideo {
			rangeHeader = r.Header.Get("Range")
		}

		plan, err := s.Media.Plan(r.Context(), kind, name, rangeHeader)
		if err != nil {
			if httperrors.Status(err) == http.StatusInternalServerError {
				s.Log.ErrorContext(r.Context(), "stat failed", "kind", kind, "filename", name, "err", err)
			}
			httperrors.Write(w, err, msgs.Pick(err))
			return
		}

		for k, v := range plan.Header {
			w.Header()[k] = v
		}
		if !plan.HasBody() {
			http.Error(w, msgs.Unsatisfied, plan.Status)
			return
		}

		w.WriteHeader(plan.Status)
		if r.Method == http.MethodHead {
			return
		}

		n, err := s.Media.Stream(r.Context(), plan, w)
		switch {
		case err == nil:
		case mediasvc.IsClientGone(r.Context(), err):
			s.Log.DebugContext(r.Context(), "client went away", "filename", name, "sent", n, "err", err)
		default:
			// Заголовки уже отправлены, остаётся только оборвать ответ.
			s.Log.ErrorContext(r.Context(), "stream failed", "filename", name, "sent", n, "err", err)
			panic(http.ErrAbortHandler)
		}
	}
}
