package config

import "time"

// HTTP server timeouts for the local console listener
const (
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Per-cycle budget for one full health poll, all sub-fetches included
const HealthCycleTimeout = 25 * time.Second

// Page sizes the booking table recognizes
var RecognizedPageSizes = []int{5, 10, 25, 50}

// DefaultPageSize is used when a caller asks for an unrecognized size
const DefaultPageSize = 10

// KeyMetricNames is the allow-list of actuator metrics fetched in detail.
// Names absent from the advertised metrics index are never requested.
var KeyMetricNames = []string{
	"jvm.memory.used",
	"jvm.memory.max",
	"system.cpu.usage",
	"process.cpu.usage",
	"jvm.threads.live",
	"jvm.gc.pause",
	"http.server.requests",
	"jdbc.connections.active",
	"jdbc.connections.max",
	"system.load.average.1m",
}
