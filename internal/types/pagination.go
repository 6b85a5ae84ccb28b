package types

const MaxPageSize = 100

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Page is the list envelope. Next and Previous are absolute URLs or null.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
