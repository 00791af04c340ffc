package util

import (
	"strconv"

	"github.com/Skotchmaster/dairy_shop/internal/transport"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// Calculate normalizes page and size and returns the row offset and limit.
// Sizes above MaxPageSize are clamped, not rejected.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	from = (page - 1) * size
	return from, size
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func NewMeta(page, offset, limit int, total int64) transport.Meta {
	if page < 1 {
		page = 1
	}
	return transport.Meta{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset+limit) < total,
	}
}
