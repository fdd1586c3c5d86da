// Package httprange разбирает заголовок Range и формирует Content-Range для ответов 206/416.
package httprange

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sir_venger/media_lite/internal/models"
)

const unitPrefix = "bytes="

// Parse разбирает значение заголовка Range относительно файла размером size.
// Поддерживаются формы "bytes=A-B", "bytes=A-" и "bytes=-N". Из списка
// диапазонов через запятую учитывается только первый.
//
// Синтаксические ошибки возвращают models.ErrMalformedRange, выход за границы
// файла: models.ErrRangeNotSatisfiable. Пустой заголовок должен обрабатываться
// вызывающей стороной как «диапазон не запрошен».
func Parse(header string, size int64) (models.ByteRange, error) {
	header = strings.TrimSpace(header)
	if !strings.HasPrefix(header, unitPrefix) {
		return models.ByteRange{}, fmt.Errorf("%w: unit must be bytes", models.ErrMalformedRange)
	}

	ranges := strings.TrimPrefix(header, unitPrefix)
	if i := strings.IndexByte(ranges, ','); i >= 0 {
		ranges = ranges[:i]
	}

	startStr, endStr, ok := strings.Cut(strings.TrimSpace(ranges), "-")
	if !ok {
		return models.ByteRange{}, fmt.Errorf("%w: %q has no dash", models.ErrMalformedRange, ranges)
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	if startStr == "" {
		return parseSuffix(endStr, size)
	}

	start, err := parseBound(startStr)
	if err != nil {
		return models.ByteRange{}, err
	}

	end := size - 1
	if endStr != "" {
		if end, err = parseBound(endStr); err != nil {
			return models.ByteRange{}, err
		}
	}

	r := models.ByteRange{Start: start, End: end}
	if !r.Valid(size) {
		return models.ByteRange{}, fmt.Errorf("%w: bytes %s of %d", models.ErrRangeNotSatisfiable, r, size)
	}

	return r, nil
}

// parseSuffix обрабатывает форму "bytes=-N": последние N байт файла.
func parseSuffix(endStr string, size int64) (models.ByteRange, error) {
	if endStr == "" {
		return models.ByteRange{}, fmt.Errorf("%w: both bounds are empty", models.ErrMalformedRange)
	}

	n, err := parseBound(endStr)
	if err != nil {
		return models.ByteRange{}, err
	}
	if n == 0 || size == 0 {
		return models.ByteRange{}, fmt.Errorf("%w: suffix %d of %d", models.ErrRangeNotSatisfiable, n, size)
	}

	n = min(n, size)
	return models.ByteRange{Start: size - n, End: size - 1}, nil
}

// parseBound принимает только десятичные неотрицательные числа без знака.
func parseBound(s string) (int64, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: bound %q is not a number", models.ErrMalformedRange, s)
		}
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Число не влезает в int64: такой диапазон всё равно за пределами файла.
		return 0, fmt.Errorf("%w: bound %q overflows", models.ErrRangeNotSatisfiable, s)
	}

	return v, nil
}

// ContentRange форматирует заголовок Content-Range для ответа 206.
func ContentRange(r models.ByteRange, size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, size)
}

// UnsatisfiedRange форматирует заголовок Content-Range для ответа 416.
func UnsatisfiedRange(size int64) string {
	return fmt.Sprintf("bytes */%d", size)
}
