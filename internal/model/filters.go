package model

import (
	"net/url"
	"strconv"
)

// SearchFilters is the transient filter state behind the booking table and
// the sales widgets. Dates are plain calendar dates (YYYY-MM-DD); they are
// expanded to full-day boundaries when encoded for the search endpoint.
type SearchFilters struct {
	Status    BookingStatus
	StartDate string
	EndDate   string
	Page      int
	Size      int
}

// Values encodes the filters as query parameters for /admin/bookings/search.
// Empty fields are omitted rather than sent blank.
func (f SearchFilters) Values() url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(f.Page))
	params.Set("size", strconv.Itoa(f.Size))

	if f.Status != "" {
		params.Set("status", string(f.Status))
	}
	if f.StartDate != "" {
		params.Set("startDate", f.StartDate+"T00:00:00")
	}
	if f.EndDate != "" {
		params.Set("endDate", f.EndDate+"T23:59:59")
	}

	return params
}

// SalesValues encodes only the sales-relevant subset for /admin/sales.
func (f SearchFilters) SalesValues() url.Values {
	params := url.Values{}
	if f.Status != "" {
		params.Set("status", string(f.Status))
	}
	if f.StartDate != "" {
		params.Set("startDate", f.StartDate+"T00:00:00")
	}
	if f.EndDate != "" {
		params.Set("endDate", f.EndDate+"T23:59:59")
	}
	return params
}
