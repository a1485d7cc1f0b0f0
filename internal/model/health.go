package model

import "time"

// ServiceHealth is the custom /health endpoint payload.
type ServiceHealth struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Version   string `json:"version"`
}

// ServiceInfo is the custom /info endpoint payload.
type ServiceInfo struct {
	Application string `json:"application"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Contact     string `json:"contact"`
}

// PlatformHealth mirrors the actuator /health shape: an overall status plus
// per-component statuses (db, diskSpace, ...).
type PlatformHealth struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

type ComponentHealth struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// PlatformInfo carries whatever build/runtime/git metadata the actuator
// /info endpoint advertises. Kept loose; the console only displays it.
type PlatformInfo struct {
	Build map[string]any `json:"build,omitempty"`
	Java  map[string]any `json:"java,omitempty"`
	Git   map[string]any `json:"git,omitempty"`
	App   map[string]any `json:"app,omitempty"`
}

// MetricIndex is the actuator /metrics name index.
type MetricIndex struct {
	Names []string `json:"names"`
}

// MetricDetail is one named metric from /metrics/{name}.
type MetricDetail struct {
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	BaseUnit      string        `json:"baseUnit,omitempty"`
	Measurements  []Measurement `json:"measurements,omitempty"`
	AvailableTags []MetricTag   `json:"availableTags,omitempty"`
}

type Measurement struct {
	Statistic string  `json:"statistic"`
	Value     float64 `json:"value"`
}

type MetricTag struct {
	Tag    string   `json:"tag"`
	Values []string `json:"values"`
}

// Value returns the measurement for the given statistic, or false when the
// metric does not carry it.
func (m MetricDetail) Value(statistic string) (float64, bool) {
	for _, meas := range m.Measurements {
		if meas.Statistic == statistic {
			return meas.Value, true
		}
	}
	return 0, false
}

// EnvironmentInfo is the actuator /env payload.
type EnvironmentInfo struct {
	ActiveProfiles  []string         `json:"activeProfiles,omitempty"`
	PropertySources []PropertySource `json:"propertySources,omitempty"`
}

type PropertySource struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
}

// HealthSnapshot is the wholesale-replaced result of one full poll cycle.
// Sub-fetch failures leave their field nil without blanking the fields other
// sources filled in during the same cycle.
type HealthSnapshot struct {
	Service      *ServiceHealth          `json:"service,omitempty"`
	Info         *ServiceInfo            `json:"info,omitempty"`
	Platform     *PlatformHealth         `json:"platform,omitempty"`
	PlatformInfo *PlatformInfo           `json:"platformInfo,omitempty"`
	Environment  *EnvironmentInfo        `json:"environment,omitempty"`
	Metrics      map[string]MetricDetail `json:"metrics,omitempty"`
	Errors       map[string]string       `json:"errors,omitempty"`
	LastUpdated  time.Time               `json:"lastUpdated"`
}

// OverallStatus collapses the snapshot to a single status string, preferring
// the platform view over the lighter custom health endpoint.
func (s *HealthSnapshot) OverallStatus() string {
	if s.Platform != nil && s.Platform.Status != "" {
		return s.Platform.Status
	}
	if s.Service != nil && s.Service.Status != "" {
		return s.Service.Status
	}
	return string(ComponentStatusUnknown)
}
