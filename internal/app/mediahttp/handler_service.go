package mediahttp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sir_venger/media_lite/internal/models"
	"github.com/sir_venger/media_lite/pkg/mediaproto"
)

const manualSweepTTL = 24 * time.Hour

// healthStats: payload ответа /health.
type healthStats struct {
	OK     bool         `json:"ok"`
	Videos models.Usage `json:"videos"`
	Images models.Usage `json:"images"`
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, mediaproto.Status{Message: mediaproto.MessageOK})
}

// health возвращает агрегированную статистику по каталогам ассетов.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	usage, err := s.Media.Usage(r.Context())
	if err != nil {
		s.Log.ErrorContext(r.Context(), "usage failed", "err", err)
		http.Error(w, "storage unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, healthStats{
		OK:     true,
		Videos: usage[models.KindVideo],
		Images: usage[models.KindImage],
	})
}

// sweep вручную запускает очистку незавершённых загрузок.
func (s *Server) sweep(w http.ResponseWriter, r *http.Request) {
	ttl := s.Cfg.SweepTTL
	if ttl <= 0 {
		ttl = manualSweepTTL
	}

	res, err := s.Sweeper.Sweep(r.Context(), ttl)
	if err != nil {
		s.Log.ErrorContext(r.Context(), "sweep failed", "err", err)
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
