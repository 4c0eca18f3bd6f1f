package utils

import (
	"net/url"
	"strconv"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ClampPerPage - kosong/negatif pakai default, terlalu besar dipotong
func ClampPerPage(perPage int) int {
	if perPage < 1 {
		return DefaultPerPage
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// PageWindow returns OFFSET and LIMIT for a 1-based page.
func PageWindow(page, perPage int) (offset, limit int) {
	limit = ClampPerPage(perPage)
	if page < 1 {
		return 0, limit
	}
	return (page - 1) * limit, limit
}

func TotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// PageFromQuery reads ?page= and ?per_page=; kosong atau tidak valid pakai default.
func PageFromQuery(q url.Values) (page, perPage int) {
	return positiveOr(q.Get("page"), 1), positiveOr(q.Get("per_page"), DefaultPerPage)
}

func positiveOr(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
