package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sowlstudios/admin-console/internal/api"
	"github.com/sowlstudios/admin-console/internal/audit"
	"github.com/sowlstudios/admin-console/internal/config"
	apperrors "github.com/sowlstudios/admin-console/internal/errors"
	"github.com/sowlstudios/admin-console/internal/model"
)

// Manager is the paginated, filterable view over the remote booking set.
// It holds the most recently fetched page and the active filters; every
// successful fetch replaces the page wholesale, and a failed fetch leaves
// the prior page on display.
type Manager struct {
	client *api.Client

	mu      sync.Mutex
	filters model.SearchFilters
	page    *model.Page
	detail  *model.Booking
}

func NewManager(client *api.Client) *Manager {
	return &Manager{
		client: client,
		filters: model.SearchFilters{
			Page: 0,
			Size: config.DefaultPageSize,
		},
	}
}

// Filters returns a copy of the active filter state.
func (m *Manager) Filters() model.SearchFilters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filters
}

// Current returns the page held from the last successful fetch, or nil
// before the first one.
func (m *Manager) Current() *model.Page {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.page
}

// SetStatusFilter changes the status filter and resets to the first page so
// the next fetch cannot request a now-out-of-range index.
func (m *Manager) SetStatusFilter(status model.BookingStatus) error {
	if status != "" && !status.Valid() {
		return apperrors.InvalidInput("status", string(status))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters.Status = status
	m.filters.Page = 0
	return nil
}

// SetDateRange changes the inclusive calendar range and resets to page 0.
func (m *Manager) SetDateRange(startDate, endDate string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters.StartDate = startDate
	m.filters.EndDate = endDate
	m.filters.Page = 0
}

// SetPageSize switches to one of the recognized page sizes and resets to
// page 0. Unrecognized sizes fall back to the default.
func (m *Manager) SetPageSize(size int) {
	recognized := false
	for _, s := range config.RecognizedPageSizes {
		if s == size {
			recognized = true
			break
		}
	}
	if !recognized {
		log.Warn().Int("size", size).Msg("unrecognized page size, using default")
		size = config.DefaultPageSize
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters.Size = size
	m.filters.Page = 0
}

// SetPage moves to the given zero-based page index.
func (m *Manager) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters.Page = page
}

// ClearFilters drops status and date filters and resets pagination.
func (m *Manager) ClearFilters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filters = model.SearchFilters{Page: 0, Size: m.filters.Size}
}

// Refresh fetches the page matching the active filters and replaces the held
// page on success. Date-range filters route through the search endpoint,
// plain status/pagination through the list endpoint.
func (m *Manager) Refresh(ctx context.Context) (*model.Page, error) {
	filters := m.Filters()

	var endpoint string
	if filters.StartDate != "" || filters.EndDate != "" {
		endpoint = "/admin/bookings/search?" + filters.Values().Encode()
	} else {
		params := url.Values{}
		params.Set("page", strconv.Itoa(filters.Page))
		params.Set("size", strconv.Itoa(filters.Size))
		if filters.Status != "" {
			params.Set("status", string(filters.Status))
		}
		endpoint = "/admin/bookings?" + params.Encode()
	}

	var envelope model.Envelope
	if err := m.client.Get(ctx, endpoint, &envelope); err != nil {
		return nil, err
	}

	var page model.Page
	if err := json.Unmarshal(envelope.Data, &page); err != nil {
		return nil, apperrors.Internal("unexpected booking page shape").WithCause(err)
	}

	m.mu.Lock()
	m.page = &page
	m.mu.Unlock()

	return &page, nil
}

// Get fetches a single booking by id without touching the held page.
func (m *Manager) Get(ctx context.Context, id int64) (*model.Booking, error) {
	var envelope model.Envelope
	if err := m.client.Get(ctx, fmt.Sprintf("/admin/bookings/%d", id), &envelope); err != nil {
		return nil, err
	}

	var booking model.Booking
	if err := json.Unmarshal(envelope.Data, &booking); err != nil {
		return nil, apperrors.Internal("unexpected booking shape").WithCause(err)
	}
	return &booking, nil
}

// OpenDetail marks the booking with the given id from the current page as
// the open detail view.
func (m *Manager) OpenDetail(id int64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.page != nil {
		for i := range m.page.Content {
			if m.page.Content[i].ID == id {
				b := m.page.Content[i]
				m.detail = &b
				return &b, nil
			}
		}
	}
	return nil, apperrors.NotFound("Booking")
}

// CloseDetail dismisses the open detail view.
func (m *Manager) CloseDetail() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detail = nil
}

// Detail returns a copy of the open detail view, if any.
func (m *Manager) Detail() (model.Booking, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.detail == nil {
		return model.Booking{}, false
	}
	return *m.detail, true
}

// UpdateStatus performs the remote status mutation first. Only on success
// does it patch an open detail view in place and re-fetch the current page;
// the two updates are independent and no ordering is guaranteed between
// them. Status transitions are deliberately free-form.
func (m *Manager) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	if !status.Valid() {
		return apperrors.InvalidInput("status", string(status))
	}

	endpoint := fmt.Sprintf("/admin/bookings/%d/status?status=%s", id, url.QueryEscape(string(status)))
	if err := m.client.Put(ctx, endpoint, nil, nil); err != nil {
		return err
	}

	audit.Log(audit.Event{
		Type:    audit.EventBookingUpdate,
		Details: map[string]any{"bookingId": id, "status": string(status)},
	})

	m.mu.Lock()
	if m.detail != nil && m.detail.ID == id {
		m.detail.Status = status
	}
	m.mu.Unlock()

	if _, err := m.Refresh(ctx); err != nil {
		// The mutation itself succeeded; a failed re-fetch keeps the prior
		// page on display rather than blanking the table.
		log.Error().Err(err).Int64("bookingId", id).Msg("list refresh after status update failed")
	}

	return nil
}

// Delete removes a booking after an explicit confirmation. On success the
// current page index is re-fetched as-is; a now-empty final page is accepted
// rather than auto-decrementing the index.
func (m *Manager) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return apperrors.ValidationError("Deletion requires explicit confirmation")
	}

	if err := m.client.Delete(ctx, fmt.Sprintf("/admin/bookings/%d", id)); err != nil {
		return err
	}

	audit.Log(audit.Event{
		Type:    audit.EventBookingDelete,
		Details: map[string]any{"bookingId": id},
	})

	m.mu.Lock()
	if m.detail != nil && m.detail.ID == id {
		m.detail = nil
	}
	m.mu.Unlock()

	if _, err := m.Refresh(ctx); err != nil {
		log.Error().Err(err).Int64("bookingId", id).Msg("list refresh after delete failed")
	}

	return nil
}
