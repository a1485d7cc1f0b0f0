package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sowlstudios/admin-console/internal/model"
)

func booking(createdAt time.Time, amount float64) model.Booking {
	return model.Booking{
		ID:        1,
		Amount:    amount,
		Status:    model.BookingStatusCompleted,
		CreatedAt: createdAt,
	}
}

func TestDeriveSalesSeriesGranularity(t *testing.T) {
	jan5 := time.Date(2025, 1, 5, 14, 0, 0, 0, time.UTC)
	jan20 := time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)
	mar2 := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filters  model.SearchFilters
		bookings []model.Booking
		labels   []string
	}{
		{
			name:     "range up to a week buckets daily",
			filters:  model.SearchFilters{StartDate: "2025-01-01", EndDate: "2025-01-07"},
			bookings: []model.Booking{booking(jan5, 100)},
			labels:   []string{"Jan 5"},
		},
		{
			name:     "range up to a month buckets weekly",
			filters:  model.SearchFilters{StartDate: "2025-01-01", EndDate: "2025-01-31"},
			bookings: []model.Booking{booking(jan20, 100)},
			// Jan 20 2025 is a Monday; the week starts Sunday Jan 19.
			labels: []string{"Week of Jan 19"},
		},
		{
			name:     "longer range buckets monthly",
			filters:  model.SearchFilters{StartDate: "2025-01-01", EndDate: "2025-03-31"},
			bookings: []model.Booking{booking(jan5, 100), booking(mar2, 50)},
			labels:   []string{"Jan 2025", "Mar 2025"},
		},
		{
			name:     "no range defaults to daily",
			filters:  model.SearchFilters{},
			bookings: []model.Booking{booking(jan5, 100)},
			labels:   []string{"Jan 5"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			series := DeriveSalesSeries(tc.bookings, tc.filters)
			got := make([]string, 0, len(series))
			for _, point := range series {
				got = append(got, point.Period)
			}
			assert.Equal(t, tc.labels, got)
		})
	}
}

func TestDeriveSalesSeriesSkipsNonPositiveAmounts(t *testing.T) {
	jan5 := time.Date(2025, 1, 5, 14, 0, 0, 0, time.UTC)

	series := DeriveSalesSeries([]model.Booking{
		booking(jan5, 0),
		booking(jan5, -20),
	}, model.SearchFilters{})

	assert.Nil(t, series)
}

func TestDeriveSalesSeriesSumsPerBucket(t *testing.T) {
	jan5 := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
	jan5Later := time.Date(2025, 1, 5, 17, 0, 0, 0, time.UTC)

	series := DeriveSalesSeries([]model.Booking{
		booking(jan5, 100),
		booking(jan5Later, 150),
	}, model.SearchFilters{})

	require.Len(t, series, 1)
	assert.Equal(t, "Jan 5", series[0].Period)
	assert.Equal(t, 250.0, series[0].Amount)
}

// Bucket amounts must sum to the total of all positive amounts in the set.
func TestDeriveSalesSeriesSumMatchesTotal(t *testing.T) {
	bookings := []model.Booking{
		booking(time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC), 120),
		booking(time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC), 80),
		booking(time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), 300),
		booking(time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC), 0),
		booking(time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC), -50),
	}

	var expected float64
	for _, b := range bookings {
		if b.Amount > 0 {
			expected += b.Amount
		}
	}

	series := DeriveSalesSeries(bookings, model.SearchFilters{StartDate: "2025-01-01", EndDate: "2025-01-07"})

	var got float64
	for _, point := range series {
		got += point.Amount
	}
	assert.Equal(t, expected, got)
}

func TestDeriveSalesSeriesSortedByLabel(t *testing.T) {
	series := DeriveSalesSeries([]model.Booking{
		booking(time.Date(2025, 1, 9, 9, 0, 0, 0, time.UTC), 10),
		booking(time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC), 10),
	}, model.SearchFilters{})

	require.Len(t, series, 2)
	// Label-order sort, an accepted approximation of chronological order.
	assert.True(t, series[0].Period < series[1].Period)
}

func TestDeriveSalesSeriesEmptyInput(t *testing.T) {
	assert.Nil(t, DeriveSalesSeries(nil, model.SearchFilters{}))
}
