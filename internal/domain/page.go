package domain

import "math"

// PageRequest addresses a zero-based page of a listing
type PageRequest struct {
	Page int
	Size int
}

// Offset returns the number of rows preceding the page. Only meaningful
// when Valid reports true.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// Valid reports whether the page index and size are in range and the offset
// fits in an int
func (p PageRequest) Valid() bool {
	return p.Page >= 0 && p.Size >= 1 && p.Page <= math.MaxInt/p.Size
}

// Page is one slice of a sorted listing together with totals for the whole
// listing
type Page[T any] struct {
	Content          []T  `json:"content"`
	TotalElements    int  `json:"totalElements"`
	TotalPages       int  `json:"totalPages"`
	Number           int  `json:"number"`
	Size             int  `json:"size"`
	NumberOfElements int  `json:"numberOfElements"`
	First            bool `json:"first"`
	Last             bool `json:"last"`
	Empty            bool `json:"empty"`
}

// NewPage builds a Page from the rows of one page and the total row count
func NewPage[T any](content []T, total int, req PageRequest) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = total / req.Size
		if total%req.Size > 0 {
			totalPages++
		}
	}

	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           req.Page,
		Size:             req.Size,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Last:             req.Page+1 >= totalPages,
		Empty:            len(content) == 0,
	}
}
