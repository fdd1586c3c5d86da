package mediaclient

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const (
	progressBarWidth     = 32
	progressRenderPeriod = 120 * time.Millisecond
)

// progressBar рисует ASCII-индикатор передачи файла в out.
// Нулевой указатель безопасен: все методы превращаются в no-op.
type progressBar struct {
	out       io.Writer
	label     string
	total     int64
	current   int64
	lastDraw  time.Time
	lastWidth int
	done      bool
	mu        sync.Mutex
}

// newProgressBar возвращает nil, если вывод прогресса выключен.
func newProgressBar(out io.Writer, label string, total int64) *progressBar {
	if out == nil {
		return nil
	}

	return &progressBar{out: out, label: label, total: total}
}

func (p *progressBar) Add(n int64) {
	if p == nil || n <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	p.current += n
	if time.Since(p.lastDraw) >= progressRenderPeriod {
		p.drawLocked("", false)
	}
}

// Finish завершает строку отметкой об успехе или ошибке.
func (p *progressBar) Finish(err error) {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	p.done = true

	suffix := " ok"
	if err != nil {
		suffix = fmt.Sprintf(" failed: %v", err)
	}
	p.drawLocked(suffix, true)
}

func (p *progressBar) drawLocked(suffix string, final bool) {
	line := p.lineLocked() + suffix
	pad := ""
	if p.lastWidth > len(line) {
		pad = strings.Repeat(" ", p.lastWidth-len(line))
	}
	p.lastWidth = len(line)
	p.lastDraw = time.Now()

	end := ""
	if final {
		end = "\n"
	}
	fmt.Fprintf(p.out, "\r%s%s%s", line, pad, end)
}

func (p *progressBar) lineLocked() string {
	var b strings.Builder
	b.Grow(len(p.label) + 64)
	b.WriteString(p.label)
	b.WriteByte(' ')

	if p.total <= 0 {
		b.WriteString(humanBytes(p.current))
		b.WriteString(" transferred")
		return b.String()
	}

	ratio := min(float64(p.current)/float64(p.total), 1)
	filled := min(int(ratio*progressBarWidth+0.5), progressBarWidth)
	b.WriteByte('[')
	b.WriteString(strings.Repeat("=", filled))
	b.WriteString(strings.Repeat(" ", progressBarWidth-filled))
	fmt.Fprintf(&b, "] %3d%% %s/%s", int(ratio*100+0.5), humanBytes(p.current), humanBytes(p.total))

	return b.String()
}

// progressReader считает прочитанные байты и закрывает индикатор на EOF или ошибке.
type progressReader struct {
	r   io.Reader
	bar *progressBar
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.bar.Add(int64(n))
	if err == io.EOF {
		p.bar.Finish(nil)
	} else if err != nil {
		p.bar.Finish(err)
	}
	return n, err
}

// progressReadCloser: то же для тела ответа, которое нужно закрыть.
type progressReadCloser struct {
	progressReader
	c io.Closer
}

func (p *progressReadCloser) Close() error {
	err := p.c.Close()
	p.bar.Finish(err)
	return err
}

func withProgress(rc io.ReadCloser, bar *progressBar) io.ReadCloser {
	if bar == nil {
		return rc
	}

	return &progressReadCloser{progressReader: progressReader{r: rc, bar: bar}, c: rc}
}

func humanBytes(v int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB", "PB"}
	value := float64(v)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d %s", v, units[unit])
	}

	return fmt.Sprintf("%.1f %s", value, units[unit])
}
