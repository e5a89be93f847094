// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tomtom215/admissions/internal/models"
)

// PageSize is the fixed number of results per page.
const PageSize = 10

const (
	pageParam = "page"
	lastPage  = "last"

	// maxPage is the largest page whose row offset fits in an int.
	maxPage = math.MaxInt/PageSize + 1
)

// PaginatedResponse is the list document of the paginated reports.
type PaginatedResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// pageRequest is the parsed ?page parameter. last is set for ?page=last,
// which resolves once the total is known.
type pageRequest struct {
	number int
	last   bool
}

// parsePage reads ?page. Absent means 1. Anything but a positive integer
// up to maxPage or "last" is ErrInvalidPage.
func parsePage(r *http.Request) (pageRequest, error) {
	raw := r.URL.Query().Get(pageParam)
	switch raw {
	case "":
		return pageRequest{number: 1}, nil
	case lastPage:
		return pageRequest{last: true}, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxPage {
		return pageRequest{}, ErrInvalidPage
	}
	return pageRequest{number: n}, nil
}

// numPages returns the page count for total results. An empty set still
// has one (empty) page.
func numPages(total int64) int {
	if total <= 0 {
		return 1
	}
	return int((total + PageSize - 1) / PageSize)
}

// offset is the row offset of page n.
func offset(n int) int {
	return (n - 1) * PageSize
}

// buildPage wraps one page of results with absolute next and previous
// links. It returns ErrInvalidPage when n is past the last page.
func buildPage[T any](r *http.Request, n int, page models.Page[T]) (PaginatedResponse[T], error) {
	pages := numPages(page.Count)
	if n > pages {
		return PaginatedResponse[T]{}, ErrInvalidPage
	}

	resp := PaginatedResponse[T]{
		Count:   page.Count,
		Results: page.Results,
	}
	if resp.Results == nil {
		resp.Results = []T{}
	}
	if n < pages {
		next := pageURL(r, n+1)
		resp.Next = &next
	}
	if n > 1 {
		prev := pageURL(r, n-1)
		resp.Previous = &prev
	}
	return resp, nil
}

// pageURL returns the absolute URL of page n of the current request. The
// link to page 1 drops the page parameter. Other query parameters are kept.
func pageURL(r *http.Request, n int) string {
	q := r.URL.Query()
	if n <= 1 {
		q.Del(pageParam)
	} else {
		q.Set(pageParam, strconv.Itoa(n))
	}

	u := url.URL{
		Scheme:   requestScheme(r),
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
