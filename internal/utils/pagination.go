package utils

import "strconv"

// Pagination defaults and bounds shared by every listing endpoint.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageParams is a parsed page/limit pair, always clamped to sane values.
type PageParams struct {
	Page  int
	Limit int
}

// ParsePage builds PageParams from raw query values. Missing or malformed
// values fall back to page 1 and the default page size; the limit is capped
// at MaxPageSize.
func ParsePage(pageStr, limitStr string) PageParams {
	p := PageParams{Page: 1, Limit: DefaultPageSize}
	if n, err := strconv.Atoi(pageStr); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p PageParams) Offset() int { return (p.Page - 1) * p.Limit }
