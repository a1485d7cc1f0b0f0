package metrics

import (
	"sort"
	"time"

	"github.com/sowlstudios/admin-console/internal/model"
)

// Bucket granularity thresholds for the active date-range span, in days.
const (
	dailySpanDays  = 7
	weeklySpanDays = 31
)

// DeriveSalesSeries groups bookings into time buckets by creation date and
// sums their amounts per bucket. Only bookings with a positive amount
// contribute. Granularity follows the filtered range span: daily buckets up
// to a week, weekly up to a month, monthly beyond; no range means daily.
//
// Buckets are sorted by label order. Since labels are strings this is an
// approximation of chronological order, accepted until the server grows a
// native aggregate.
func DeriveSalesSeries(bookings []model.Booking, filters model.SearchFilters) []model.SalesPoint {
	if len(bookings) == 0 {
		return nil
	}

	granularity := rangeGranularity(filters)

	groups := make(map[string]float64)
	for _, booking := range bookings {
		if booking.Amount <= 0 {
			continue
		}
		label := bucketLabel(booking.CreatedAt, granularity)
		groups[label] += booking.Amount
	}

	if len(groups) == 0 {
		return nil
	}

	series := make([]model.SalesPoint, 0, len(groups))
	for period, amount := range groups {
		series = append(series, model.SalesPoint{Period: period, Amount: amount})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Period < series[j].Period
	})
	return series
}

type granularity int

const (
	granularityDaily granularity = iota
	granularityWeekly
	granularityMonthly
)

func rangeGranularity(filters model.SearchFilters) granularity {
	if filters.StartDate == "" || filters.EndDate == "" {
		return granularityDaily
	}

	start, errStart := time.Parse("2006-01-02", filters.StartDate)
	end, errEnd := time.Parse("2006-01-02", filters.EndDate)
	if errStart != nil || errEnd != nil || end.Before(start) {
		return granularityDaily
	}

	days := int(end.Sub(start).Hours() / 24)
	switch {
	case days <= dailySpanDays:
		return granularityDaily
	case days <= weeklySpanDays:
		return granularityWeekly
	default:
		return granularityMonthly
	}
}

func bucketLabel(created time.Time, g granularity) string {
	switch g {
	case granularityWeekly:
		// Weeks start on Sunday.
		weekStart := created.AddDate(0, 0, -int(created.Weekday()))
		return "Week of " + weekStart.Format("Jan 2")
	case granularityMonthly:
		return created.Format("Jan 2006")
	default:
		return created.Format("Jan 2")
	}
}
