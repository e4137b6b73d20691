// Package service implements the application core: account lifecycle,
// session rotation, owned-resource CRUD and attachment storage. Handlers
// stay thin and all rules live here, with actor identity passed in
// explicitly on every call
package service

import gonanoid "github.com/matoous/go-nanoid/v2"

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newID() (string, error) {
	return gonanoid.Generate(idCharset, 16)
}

// Pagination is the metadata returned next to every list result
type Pagination struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int    `json:"total_pages"`
	Search     string `json:"search,omitempty"`
}

func makePagination(page, limit int, total int64, search string) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		Search:     search,
	}
}
