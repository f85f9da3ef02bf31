package pagination

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 15
	MaxLimit     = 200
)

// Query parameter aliases, in precedence order.
var (
	OffsetKeys = []string{"page[offset]", "offset", "_offset"}
	LimitKeys  = []string{"page[limit]", "limit", "_count"}
)

// Params holds the offset/limit window of a paginated request.
type Params struct {
	Limit  int
	Offset int
}

// Parse builds a window from raw strings. A missing, non-numeric or negative
// offset becomes 0. A missing, non-numeric or non-positive limit becomes
// DefaultLimit, and anything above maxLimit is clamped to it. A maxLimit <= 0
// means MaxLimit.
func Parse(rawOffset, rawLimit string, maxLimit int) Params {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}

	offset, err := strconv.Atoi(strings.TrimSpace(rawOffset))
	if err != nil || offset < 0 {
		offset = 0
	}

	limit, err := strconv.Atoi(strings.TrimSpace(rawLimit))
	if err != nil || limit <= 0 {
		limit = DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return Params{Limit: limit, Offset: offset}
}

// FromValues resolves the offset and limit aliases from a query string.
func FromValues(values url.Values, maxLimit int) Params {
	return Parse(firstOf(values, OffsetKeys), firstOf(values, LimitKeys), maxLimit)
}

// FromContext extracts pagination parameters from the echo context.
func FromContext(c echo.Context, maxLimit int) Params {
	return FromValues(c.QueryParams(), maxLimit)
}

func firstOf(values url.Values, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(values.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

// Bounds returns the [start, end) indexes of the window over a slice of
// length n. Both are clamped to n, so an offset past the end yields an
// empty range.
func (p Params) Bounds(n int) (int, int) {
	start := p.Offset
	if start > n {
		start = n
	}
	end := n
	if start < n-p.Limit {
		end = start + p.Limit
	}
	return start, end
}

// Window returns the part of items covered by p.
func Window[T any](items []T, p Params) []T {
	start, end := p.Bounds(len(items))
	return items[start:end]
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset < total-p.Limit
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}

// NextOffset returns the offset for the next page, saturating at
// math.MaxInt.
func (p Params) NextOffset() int {
	if p.Offset > math.MaxInt-p.Limit {
		return math.MaxInt
	}
	return p.Offset + p.Limit
}

// PreviousOffset returns the offset for the previous page.
// Returns 0 if the result would be negative.
func (p Params) PreviousOffset() int {
	prev := p.Offset - p.Limit
	if prev < 0 {
		return 0
	}
	return prev
}

// Links holds the self/next/prev URLs of a page.
type Links struct {
	Self string `json:"self"`
	Next string `json:"next,omitempty"`
	Prev string `json:"prev,omitempty"`
}

// Links builds page links for basePath. filters are carried over into every
// link; any pagination keys they contain are replaced.
func (p Params) Links(basePath string, filters url.Values, total int) *Links {
	links := &Links{Self: pageURL(basePath, filters, p.Offset, p.Limit)}
	if p.HasNext(total) {
		links.Next = pageURL(basePath, filters, p.NextOffset(), p.Limit)
	}
	if p.HasPrevious() {
		links.Prev = pageURL(basePath, filters, p.PreviousOffset(), p.Limit)
	}
	return links
}

func pageURL(basePath string, filters url.Values, offset, limit int) string {
	q := url.Values{}
	for k, v := range filters {
		if isPageKey(k) {
			continue
		}
		q[k] = v
	}
	q.Set("page[offset]", strconv.Itoa(offset))
	q.Set("page[limit]", strconv.Itoa(limit))
	return fmt.Sprintf("%s?%s", basePath, q.Encode())
}

func isPageKey(k string) bool {
	for _, key := range OffsetKeys {
		if k == key {
			return true
		}
	}
	for _, key := range LimitKeys {
		if k == key {
			return true
		}
	}
	return false
}
