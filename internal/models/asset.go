package models

import (
	"fmt"
	"net/http"
)

// Kind: логический тип ассета; каждому типу соответствует свой каталог.
type Kind string

const (
	KindVideo Kind = "video"
	KindImage Kind = "image"
)

// VideoContentType: единственный MIME-тип, которым отдаются видео.
const VideoContentType = "video/mp4"

// Valid сообщает, известен ли тип.
func (k Kind) Valid() bool {
	return k == KindVideo || k == KindImage
}

// Asset описывает сохранённый файл. Размер не кешируется и берётся из хранилища.
type Asset struct {
	Kind     Kind   `json:"kind"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// ByteRange: включающий интервал [Start, End] байтов файла.
type ByteRange struct {
	Start int64
	End   int64
}

// Len возвращает количество байтов в интервале.
func (r ByteRange) Len() int64 {
	return r.End - r.Start + 1
}

// Valid проверяет инвариант 0 <= Start <= End < size.
func (r ByteRange) Valid(size int64) bool {
	return r.Start >= 0 && r.Start <= r.End && r.End < size
}

func (r ByteRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// ResponsePlan: решение о том, как ответить на один запрос чтения.
// Window == nil означает отдачу файла целиком (или отсутствие тела для 416).
type ResponsePlan struct {
	Status int
	Header http.Header
	Window *ByteRange
	Asset  Asset
	Reason string
}

// HasBody сообщает, нужно ли стримить содержимое файла.
func (p ResponsePlan) HasBody() bool {
	return p.Status == http.StatusOK || p.Status == http.StatusPartialContent
}

// Usage агрегирует занятое место по одному типу ассетов.
type Usage struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}
