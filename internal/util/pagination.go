package util

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type SortOrder struct {
	Column string
	Desc   bool
}

// PageRequest is a zero-based page window plus whitelisted sort columns.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return v
	}
	return def
}

func Calculate(page, size int) (offset int, limit int) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page * size, size
}

// ParsePageRequest reads page, size and every sort=field[,dir] from q.
// Sort fields missing from columns are dropped.
func ParsePageRequest(q url.Values, columns map[string]string) PageRequest {
	page := ParseIntDefault(q.Get("page"), 0)
	size := ParseIntDefault(q.Get("size"), DefaultPageSize)
	offset, limit := Calculate(page, size)

	pr := PageRequest{Page: offset / limit, Size: limit}
	for _, raw := range q["sort"] {
		field, dir, _ := strings.Cut(raw, ",")
		col, ok := columns[strings.TrimSpace(field)]
		if !ok {
			continue
		}
		pr.Sort = append(pr.Sort, SortOrder{
			Column: col,
			Desc:   strings.EqualFold(strings.TrimSpace(dir), "desc"),
		})
	}
	return pr
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// OrderBy renders the sort as SQL; fallback is used when nothing was requested.
func (p PageRequest) OrderBy(fallback string) string {
	if len(p.Sort) == 0 {
		return fallback
	}
	parts := make([]string, 0, len(p.Sort)+1)
	for _, s := range p.Sort {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, s.Column+" "+dir)
	}
	if fallback != "" {
		parts = append(parts, fallback)
	}
	return strings.Join(parts, ", ")
}

func TotalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
