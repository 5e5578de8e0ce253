package utils

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	appErrors "github.com/munera-collective/munera-platform/internal/errors"
)

// ParseID reads the named path value as a UUID.
func ParseID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, appErrors.BadRequestError("Invalid " + name + " format").WithDetail(raw)
	}

	return id, nil
}

// ParsePagination reads page and pageSize, falling back to 1 and defaultSize.
func ParsePagination(r *http.Request, defaultSize int) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = defaultSize
	}

	return page, pageSize
}
