package handlers

import (
	"net/http"

	"github.com/munera-collective/munera-platform/internal/errors"
	service "github.com/munera-collective/munera-platform/internal/services"
)

// 10 MiB, matching the largest image the admin pages accept.
const maxUploadSize = 10 << 20

// readUpload pulls the named multipart file out of r. The returned func closes it.
func readUpload(w http.ResponseWriter, r *http.Request, field string) (*service.Upload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, nil, errors.BadRequestError("Invalid multipart form").WithDetail(err.Error())
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, errors.BadRequestError("Missing file field '" + field + "'").WithError(err)
	}

	if header.Size > maxUploadSize {
		file.Close()
		return nil, nil, errors.BadRequestError("File is too large")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	upload := &service.Upload{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}

	return upload, func() { file.Close() }, nil
}
