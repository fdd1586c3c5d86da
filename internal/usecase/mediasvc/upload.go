package mediasvc

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/sir_venger/media_lite/internal/models"
)

// Upload сохраняет поток как новый ассет. Расширение берётся из исходного
// имени файла клиента, само имя генерирует хранилище.
func (s *Media) Upload(ctx context.Context, kind models.Kind, originalName string, r io.Reader) (models.Asset, error) {
	if !kind.Valid() {
		return models.Asset{}, fmt.Errorf("unknown asset kind %q", kind)
	}
	if r == nil {
		return models.Asset{}, models.ErrMissingFile
	}

	cr := &countingReader{r: r}
	name, err := s.Store.Put(ctx, kind, filepath.Ext(originalName), cr)
	if err != nil {
		return models.Asset{}, fmt.Errorf("store %s: %w", kind, err)
	}

	asset := models.Asset{Kind: kind, Filename: name, Size: cr.n}
	s.Log.InfoContext(ctx, "asset uploaded", "kind", kind, "filename", name, "size", asset.Size)

	return asset, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
