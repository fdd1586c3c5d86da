package mediasvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"

	"github.com/sir_venger/media_lite/internal/models"
)

// Stream копирует тело ответа по плану из хранилища в w порциями фиксированного
// размера. Файл закрывается на любом пути выхода, в том числе при обрыве
// соединения клиентом. Для планов без тела ничего не делает.
func (s *Media) Stream(ctx context.Context, plan models.ResponsePlan, w io.Writer) (int64, error) {
	if !plan.HasBody() {
		return 0, nil
	}

	want := plan.Asset.Size
	if plan.Window != nil {
		if !plan.Window.Valid(plan.Asset.Size) {
			return 0, fmt.Errorf("%w: bytes %s of %d", models.ErrRangeNotSatisfiable, plan.Window, plan.Asset.Size)
		}
		want = plan.Window.Len()
	}

	rc, err := s.Store.OpenRead(ctx, plan.Asset.Kind, plan.Asset.Filename, plan.Window)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	bp := s.bufs.Get().(*[]byte)
	defer s.bufs.Put(bp)

	n, err := io.CopyBuffer(onlyWriter{w}, &ctxReader{ctx: ctx, r: io.LimitReader(rc, want)}, *bp)
	if err != nil {
		return n, err
	}
	if n < want {
		// Файл укоротился или был удалён между stat и чтением.
		return n, fmt.Errorf("short stream: %d of %d bytes: %w", n, want, io.ErrUnexpectedEOF)
	}

	return n, nil
}

// IsClientGone сообщает, что копирование прервано из-за ухода клиента,
// а не из-за ошибки сервера.
func IsClientGone(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return true
	}

	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, http.ErrAbortHandler)
}

// onlyWriter скрывает ReaderFrom у ResponseWriter, чтобы копирование шло через
// наш буфер и проверку контекста.
type onlyWriter struct {
	io.Writer
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}
