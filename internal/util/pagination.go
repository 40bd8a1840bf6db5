package util

import (
	"errors"
	"math"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*size inside an int for every allowed size.
	MaxPage = math.MaxInt / MaxPageSize
)

var ErrBadPage = errors.New("page and size must be positive integers and page at most " + strconv.Itoa(MaxPage))

// Page is an offset window. A zero Limit means unpaged.
type Page struct {
	Offset int
	Limit  int
}

// Calculate turns a 1-based page number and a size into a window.
func Calculate(page, size int) Page {
	page = max(1, min(page, MaxPage))
	if size <= 0 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)
	return Page{Offset: (page - 1) * size, Limit: size}
}

// ParsePage reads raw page and size query values. When both are empty the
// result is unpaged.
func ParsePage(page, size string) (Page, error) {
	if page == "" && size == "" {
		return Page{}, nil
	}
	p, err := positive(page, 1)
	if err != nil {
		return Page{}, err
	}
	if p > MaxPage {
		return Page{}, ErrBadPage
	}
	s, err := positive(size, DefaultPageSize)
	if err != nil {
		return Page{}, err
	}
	return Calculate(p, s), nil
}

func positive(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, ErrBadPage
	}
	return n, nil
}
