package console

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/sowlstudios/admin-console/internal/bookings"
	apperrors "github.com/sowlstudios/admin-console/internal/errors"
	"github.com/sowlstudios/admin-console/internal/health"
	"github.com/sowlstudios/admin-console/internal/httputil"
	"github.com/sowlstudios/admin-console/internal/metrics"
	"github.com/sowlstudios/admin-console/internal/model"
	"github.com/sowlstudios/admin-console/internal/session"
	"github.com/sowlstudios/admin-console/internal/sse"
)

// Server exposes the reconciled admin state over a local HTTP listener:
// JSON views of bookings, stats, sales and health, plus an SSE stream of
// completed snapshots. It renders nothing; the front-end does.
type Server struct {
	auth     *session.Auth
	store    *session.Store
	bookings *bookings.Manager
	metrics  *metrics.Aggregator
	poller   *health.Poller
	broker   *sse.Broker
}

func NewServer(
	auth *session.Auth,
	store *session.Store,
	bookingManager *bookings.Manager,
	aggregator *metrics.Aggregator,
	poller *health.Poller,
	broker *sse.Broker,
) *Server {
	return &Server{
		auth:     auth,
		store:    store,
		bookings: bookingManager,
		metrics:  aggregator,
		poller:   poller,
		broker:   broker,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Post("/logout", s.handleLogout)
		r.Get("/session", s.handleSession)

		r.Get("/dashboard/stats", s.handleStats)
		r.Get("/dashboard/sales", s.handleSales)

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", s.handleBookingList)
			r.Get("/{id}", s.handleBookingGet)
			r.Put("/{id}/status", s.handleBookingStatus)
			r.Delete("/{id}", s.handleBookingDelete)
		})

		r.Get("/system/snapshot", s.handleSnapshot)
		r.Post("/system/refresh", s.handleSystemRefresh)
		r.Get("/events", s.handleEvents)
	})

	return r
}

// requireSession rejects protected routes once the session store is empty,
// mirroring the login redirect of the original dashboard shell.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.store.Authenticated() {
			httputil.WriteError(w, apperrors.Unauthorized("Please login"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("console request")
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.WriteError(w, apperrors.ValidationError("Username and password are required"))
		return
	}

	if err := s.auth.Login(r.Context(), req.Username, req.Password); err != nil {
		httputil.WriteError(w, err)
		return
	}

	user, _ := s.store.User()
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(r.Context())
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	user, ok := s.store.User()
	if !ok {
		httputil.WriteError(w, apperrors.Unauthorized("Please login"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.metrics.FetchStats(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSales(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := model.SearchFilters{
		Status:    model.BookingStatus(query.Get("status")),
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
	}
	if filters.Status != "" && !filters.Status.Valid() {
		httputil.WriteError(w, apperrors.InvalidInput("status", string(filters.Status)))
		return
	}

	report, err := s.metrics.FetchSales(r.Context(), filters)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (s *Server) handleBookingList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if status := query.Get("status"); query.Has("status") {
		if err := s.bookings.SetStatusFilter(model.BookingStatus(status)); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	if query.Has("startDate") || query.Has("endDate") {
		s.bookings.SetDateRange(query.Get("startDate"), query.Get("endDate"))
	}
	if raw := query.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, apperrors.InvalidInput("size", raw))
			return
		}
		s.bookings.SetPageSize(size)
	}
	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, apperrors.InvalidInput("page", raw))
			return
		}
		s.bookings.SetPage(page)
	}

	page, err := s.bookings.Refresh(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (s *Server) handleBookingGet(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	booking, err := s.bookings.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, booking)
}

func (s *Server) handleBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	status := model.BookingStatus(r.URL.Query().Get("status"))
	if err := s.bookings.UpdateStatus(r.Context(), id, status); err != nil {
		httputil.WriteError(w, err)
		return
	}

	s.publishBookingsChange()
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleBookingDelete(w http.ResponseWriter, r *http.Request) {
	id, err := bookingID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := s.bookings.Delete(r.Context(), id, confirmed); err != nil {
		httputil.WriteError(w, err)
		return
	}

	s.publishBookingsChange()
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot := s.poller.Snapshot()
	if snapshot == nil {
		// First cycle has not completed yet; run one now.
		snapshot = s.poller.Collect(r.Context())
	}
	httputil.WriteJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleSystemRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot := s.poller.Collect(r.Context())
	httputil.WriteJSON(w, http.StatusOK, snapshot)
}

func (s *Server) publishBookingsChange() {
	if page := s.bookings.Current(); page != nil {
		if err := s.broker.Publish(sse.TypeBookingsChange, page); err != nil {
			log.Error().Err(err).Msg("failed to publish bookings change")
		}
	}
}

func bookingID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.InvalidInput("id", raw)
	}
	return id, nil
}
