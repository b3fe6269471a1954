package params

import (
	"strconv"

	"arena-booking-api/core/constants"

	"github.com/labstack/echo/v4"
)

// QueryParams holds common list query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
}

// NewQueryParams extracts paging parameters from the request, falling back to defaults.
func NewQueryParams(c echo.Context) *QueryParams {
	p := &QueryParams{PageNumber: 1, PageSize: constants.DefaultPageSize}
	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 0 {
		p.PageNumber = n
	}
	if n, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && n > 0 && n <= 100 {
		p.PageSize = n
	}
	return p
}
