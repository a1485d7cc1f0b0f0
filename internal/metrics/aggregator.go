package metrics

import (
	"context"
	"encoding/json"

	"github.com/sowlstudios/admin-console/internal/api"
	apperrors "github.com/sowlstudios/admin-console/internal/errors"
	"github.com/sowlstudios/admin-console/internal/model"
)

// chartFetchSize bounds the raw booking fetch backing the derived series.
const chartFetchSize = 100

// Aggregator fetches the dashboard counters and computes the sales view
// (filtered total plus derived chart series) from one coherent fetch.
type Aggregator struct {
	client *api.Client
}

func NewAggregator(client *api.Client) *Aggregator {
	return &Aggregator{client: client}
}

// FetchStats returns the read-only dashboard counters snapshot.
func (a *Aggregator) FetchStats(ctx context.Context) (*model.DashboardStats, error) {
	var envelope model.Envelope
	if err := a.client.Get(ctx, "/admin/stats", &envelope); err != nil {
		return nil, err
	}

	var stats model.DashboardStats
	if err := json.Unmarshal(envelope.Data, &stats); err != nil {
		return nil, apperrors.Internal("unexpected stats shape").WithCause(err)
	}
	return &stats, nil
}

// FetchSales returns the filtered sales total together with the chart series
// derived from the raw booking list, so the displayed total and the chart
// never reflect different filter states.
func (a *Aggregator) FetchSales(ctx context.Context, filters model.SearchFilters) (*model.SalesReport, error) {
	endpoint := "/admin/sales"
	if params := filters.SalesValues().Encode(); params != "" {
		endpoint += "?" + params
	}

	var raw json.RawMessage
	if err := a.client.Get(ctx, endpoint, &raw); err != nil {
		return nil, err
	}
	total := ParseSalesTotal(raw)

	// The server exposes no sales aggregate per bucket; the series is derived
	// client-side from the raw booking list.
	chartFilters := filters
	chartFilters.Page = 0
	chartFilters.Size = chartFetchSize
	chartFilters.StartDate = ""
	chartFilters.EndDate = ""

	var envelope model.Envelope
	if err := a.client.Get(ctx, "/admin/bookings?"+chartFilters.Values().Encode(), &envelope); err != nil {
		return nil, err
	}

	var page model.Page
	if err := json.Unmarshal(envelope.Data, &page); err != nil {
		return nil, apperrors.Internal("unexpected booking page shape").WithCause(err)
	}

	return &model.SalesReport{
		Total:  total,
		Series: DeriveSalesSeries(page.Content, filters),
	}, nil
}

// ParseSalesTotal extracts the sales total from the evolving shapes the
// backend has been seen to return, in priority order: a bare number, the
// plausible field names on a wrapper object, and the same field names one
// level down under a "data" wrapper. Anything else defaults to zero rather
// than failing.
func ParseSalesTotal(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var bare float64
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0
	}

	if data, ok := obj["data"]; ok {
		if total, ok := totalFromFields(data); ok {
			return total
		}
	}
	if total, ok := totalFromFields(raw); ok {
		return total
	}
	return 0
}

var salesTotalFields = []string{"totalSales", "total", "amount", "totalAmount"}

func totalFromFields(raw json.RawMessage) (float64, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		// A nested bare number counts too.
		var bare float64
		if err := json.Unmarshal(raw, &bare); err == nil {
			return bare, true
		}
		return 0, false
	}

	for _, field := range salesTotalFields {
		if value, ok := obj[field]; ok {
			var total float64
			if err := json.Unmarshal(value, &total); err == nil {
				return total, true
			}
		}
	}
	return 0, false
}
