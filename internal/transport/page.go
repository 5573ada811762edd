package transport

import (
	"github.com/Skotchmaster/catalog/internal/util"
)

// Page is the paginated list envelope.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Size             int   `json:"size"`
	Number           int   `json:"number"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

func NewPage[T any](content []T, total int64, pr util.PageRequest) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := util.TotalPages(total, pr.Size)
	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             pr.Size,
		Number:           pr.Page,
		NumberOfElements: len(content),
		First:            pr.Page == 0,
		Last:             pr.Page >= totalPages-1,
		Empty:            len(content) == 0,
	}
}

func MapPage[S, T any](items []S, total int64, pr util.PageRequest, conv func(*S) T) Page[T] {
	out := make([]T, 0, len(items))
	for i := range items {
		out = append(out, conv(&items[i]))
	}
	return NewPage(out, total, pr)
}
