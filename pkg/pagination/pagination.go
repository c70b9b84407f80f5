// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination turns ?page= and ?limit= into LIMIT/OFFSET values and
// builds the "meta" block of list responses.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// limitKeys are read in order; page_size is accepted for DRF-style clients.
var limitKeys = []string{"limit", "page_size"}

// Params is a 1-indexed page request.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the number of rows before the requested page.
func (p Params) Offset() int {
	return (max(p.Page, 1) - 1) * p.Limit
}

// Meta is the pagination block of a list response.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewMeta describes page out of total rows.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	meta.HasNext = page < meta.TotalPages
	return meta
}

// FromRequest reads the page request of r. See [FromQuery].
func FromRequest(r *http.Request) Params {
	return FromQuery(r.URL.Query())
}

// FromQuery parses the page request from query values.
//
// Malformed or out-of-range values fall back to the defaults instead of
// failing the request.
func FromQuery(values url.Values) Params {
	params := Params{
		Page:  positive(values.Get("page"), DefaultPage),
		Limit: DefaultLimit,
	}

	for _, key := range limitKeys {
		if raw := values.Get(key); raw != "" {
			params.Limit = positive(raw, DefaultLimit)
			break
		}
	}
	if params.Limit > MaxLimit {
		params.Limit = DefaultLimit
	}

	return params
}

func positive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
