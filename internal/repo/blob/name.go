package blob

import (
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxExtLen = 16

// NameFunc генерирует уникальное имя файла с заданным расширением.
type NameFunc func(ext string) string

// NewName возвращает имя вида <uuidv7-hex><ext>. UUIDv7 содержит миллисекундную
// метку времени и 74 случайных бита, так что параллельные загрузки не пересекаются,
// а имена сортируются по времени создания.
func NewName(ext string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	return hex.EncodeToString(id[:]) + CleanExt(ext)
}

// CleanExt нормализует расширение исходного файла: оставляет только точку,
// латиницу и цифры, иначе расширение отбрасывается.
func CleanExt(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = filepath.Ext(ext)
	}
	if len(ext) < 2 || len(ext) > maxExtLen {
		return ""
	}

	for _, c := range ext[1:] {
		ok := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
		if !ok {
			return ""
		}
	}

	return strings.ToLower(ext)
}
