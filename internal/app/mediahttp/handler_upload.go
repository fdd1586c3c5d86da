package mediahttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/sir_venger/media_lite/internal/models"
	"github.com/sir_venger/media_lite/internal/usecase/mediasvc"
	"github.com/sir_venger/media_lite/pkg/httperrors"
	"github.com/sir_venger/media_lite/pkg/mediaproto"
)

// upload принимает multipart-форму и стримит файл из поля field прямо в хранилище,
// не буферизуя его целиком.
func (s *Server) upload(kind models.Kind, field string, msgs httperrors.Messages) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		part, err := filePart(r, field)
		if err != nil {
			s.Log.DebugContext(r.Context(), "upload rejected", "kind", kind, "err", err)
			httperrors.Write(w, err, msgs.Missing)
			return
		}
		defer part.Close()

		asset, err := s.Media.Upload(r.Context(), kind, part.FileName(), part)
		if err != nil {
			if mediasvc.IsClientGone(r.Context(), err) {
				s.Log.DebugContext(r.Context(), "upload aborted by client", "kind", kind, "err", err)
			} else {
				s.Log.ErrorContext(r.Context(), "upload failed", "kind", kind, "err", err)
			}
			httperrors.Write(w, err, msgs.Internal)
			return
		}

		link := s.assetURL(r, kind, asset.Filename)
		var body any = mediaproto.VideoUploaded{VideoURL: link}
		if kind == models.KindImage {
			body = mediaproto.ImageUploaded{PhotoURL: link}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}

// filePart находит в multipart-теле часть с файлом в поле field.
func filePart(r *http.Request, field string) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMissingFile, err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: field %q", models.ErrMissingFile, field)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrMissingFile, err)
		}
		if part.FormName() == field && part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}

// assetURL строит URL для скачивания: из public_base_url, если он задан,
// иначе из схемы и хоста запроса.
func (s *Server) assetURL(r *http.Request, kind models.Kind, name string) string {
	base := strings.TrimRight(s.Cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}

	prefix := mediaproto.PathVideos
	if kind == models.KindImage {
		prefix = mediaproto.PathImages
	}

	return base + prefix + "/" + url.PathEscape(name)
}
