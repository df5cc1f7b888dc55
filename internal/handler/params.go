package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"inventory-service/internal/store"
)

const dateLayout = "2006-01-02"

// pageFromQuery reads skip/limit query parameters, falling back to the store
// defaults on absent or malformed values.
func pageFromQuery(c echo.Context) store.Page {
	page := store.Page{Skip: 0, Limit: store.DefaultLimit}
	if v := c.QueryParam("skip"); v != "" {
		if skip, err := strconv.Atoi(v); err == nil && skip >= 0 {
			page.Skip = skip
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			page.Limit = limit
		}
	}
	return page
}

// idFromParam parses a numeric path parameter.
func idFromParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// parseDate parses a calendar date in YYYY-MM-DD form.
func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

// startOfDay and endOfDay expand a calendar date to cover the full day span
// when filtering a timestamped field.
func startOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

func endOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), d.Location())
}

// dateRangeFromQuery reads optional start_date/end_date query parameters and
// expands them to day bounds. A nil result means the bound was not supplied.
func dateRangeFromQuery(c echo.Context) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if v := c.QueryParam("start_date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return nil, nil, err
		}
		s := startOfDay(d)
		start = &s
	}
	if v := c.QueryParam("end_date"); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return nil, nil, err
		}
		e := endOfDay(d)
		end = &e
	}
	return start, end, nil
}
