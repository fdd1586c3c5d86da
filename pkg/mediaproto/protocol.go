// Package mediaproto описывает протокол HTTP-взаимодействия с медиа-сервисом:
// маршруты, имена полей multipart-форм и ключи JSON-ответов.
package mediaproto

// Маршруты REST API.
const (
	PathRoot        = "/"
	PathHealth      = "/health"
	PathSweep       = "/admin/sweep"
	PathUploadVideo = "/upload-video"
	PathUploadImage = "/upload-image"
	PathDeleteVideo = "/delete-video"
	PathDeleteImage = "/delete-image"
	PathVideos      = "/videos"
	PathImages      = "/images"
)

// Поля multipart-форм загрузки.
const (
	FieldVideo = "video"
	FieldImage = "image"
)

// Тела ответов.
type (
	VideoUploaded struct {
		VideoURL string `json:"videoUrl"`
	}

	ImageUploaded struct {
		PhotoURL string `json:"photoUrl"`
	}

	Status struct {
		Message string `json:"message"`
	}
)

// MessageOK: тело ответа GET /.
const MessageOK = "Ok!"
