package model

// DashboardStats is the read-only counters snapshot from /admin/stats,
// replaced wholesale on every fetch.
type DashboardStats struct {
	TotalBookings     int64            `json:"totalBookings"`
	TodayBookings     int64            `json:"todayBookings"`
	WeeklyBookings    int64            `json:"weeklyBookings"`
	MonthlyBookings   int64            `json:"monthlyBookings"`
	PendingBookings   int64            `json:"pendingBookings"`
	ConfirmedBookings int64            `json:"confirmedBookings"`
	CancelledBookings int64            `json:"cancelledBookings"`
	CompletedBookings int64            `json:"completedBookings"`
	PackageStats      map[string]int64 `json:"packageStats"`
}

// SalesPoint is one bucket of the derived sales chart series.
type SalesPoint struct {
	Period string  `json:"period"`
	Amount float64 `json:"amount"`
}

// SalesReport pairs the filtered sales total with the chart series derived
// from the same fetch, so the two never reflect different filter states.
type SalesReport struct {
	Total  float64      `json:"total"`
	Series []SalesPoint `json:"series"`
}
