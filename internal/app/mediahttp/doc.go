// Package mediahttp реализует HTTP-интерфейс медиа-сервиса поверх локального диска.
// Основные эндпоинты:
//   - POST /upload-video, POST /upload-image: принимают multipart-поле video/image,
//     сохраняют файл и возвращают URL для скачивания.
//   - GET|HEAD /videos/{filename}: отдаёт видео целиком (200) или диапазон байтов
//     по заголовку Range (206/416).
//   - GET|HEAD /images/{filename}: отдаёт изображение целиком.
//   - DELETE /delete-video/{filename}, DELETE /delete-image/{filename}: удаляют файл.
//   - GET /health отдаёт статистику занятого места, POST /admin/sweep запускает ручную очистку
//     незавершённых загрузок, GET /: простая проверка доступности.
package mediahttp
