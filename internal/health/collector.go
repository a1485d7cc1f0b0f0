package health

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sowlstudios/admin-console/internal/api"
	"github.com/sowlstudios/admin-console/internal/config"
	apperrors "github.com/sowlstudios/admin-console/internal/errors"
	"github.com/sowlstudios/admin-console/internal/model"
)

// Collector performs one multi-endpoint health fetch with per-endpoint
// failure isolation: a failing source records an error entry without
// blanking the fields other sources filled in during the same cycle.
type Collector struct {
	client *api.Client

	mu       sync.RWMutex
	snapshot *model.HealthSnapshot
}

func NewCollector(client *api.Client) *Collector {
	return &Collector{client: client}
}

// Snapshot returns the last completed snapshot, or nil before the first.
func (c *Collector) Snapshot() *model.HealthSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Collect fetches every health source concurrently, then the allow-listed
// metric details advertised by the index, and replaces the held snapshot
// wholesale. LastUpdated is set only once the full cycle has completed.
func (c *Collector) Collect(ctx context.Context) *model.HealthSnapshot {
	snapshot := &model.HealthSnapshot{
		Errors: make(map[string]string),
	}

	var mu sync.Mutex
	fail := func(source string, err error) {
		mu.Lock()
		snapshot.Errors[source] = apperrors.UserMessage(err)
		mu.Unlock()
	}

	var index *model.MetricIndex

	var wg sync.WaitGroup
	settle := func(source string, fetch func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fetch(); err != nil {
				fail(source, err)
			}
		}()
	}

	settle("health", func() error {
		var envelope model.Envelope
		if err := c.client.Get(ctx, "/health", &envelope); err != nil {
			return err
		}
		var service model.ServiceHealth
		if err := json.Unmarshal(envelope.Data, &service); err != nil {
			return apperrors.Internal("unexpected health shape").WithCause(err)
		}
		mu.Lock()
		snapshot.Service = &service
		mu.Unlock()
		return nil
	})

	settle("info", func() error {
		var envelope model.Envelope
		if err := c.client.Get(ctx, "/info", &envelope); err != nil {
			return err
		}
		var info model.ServiceInfo
		if err := json.Unmarshal(envelope.Data, &info); err != nil {
			return apperrors.Internal("unexpected info shape").WithCause(err)
		}
		mu.Lock()
		snapshot.Info = &info
		mu.Unlock()
		return nil
	})

	settle("platform-health", func() error {
		var platform model.PlatformHealth
		if err := c.client.Actuator(ctx, "/health", &platform); err != nil {
			return err
		}
		mu.Lock()
		snapshot.Platform = &platform
		mu.Unlock()
		return nil
	})

	settle("platform-info", func() error {
		var info model.PlatformInfo
		if err := c.client.Actuator(ctx, "/info", &info); err != nil {
			return err
		}
		mu.Lock()
		snapshot.PlatformInfo = &info
		mu.Unlock()
		return nil
	})

	settle("metrics", func() error {
		var idx model.MetricIndex
		if err := c.client.Actuator(ctx, "/metrics", &idx); err != nil {
			return err
		}
		mu.Lock()
		index = &idx
		mu.Unlock()
		return nil
	})

	settle("env", func() error {
		var environment model.EnvironmentInfo
		if err := c.client.Actuator(ctx, "/env", &environment); err != nil {
			return err
		}
		mu.Lock()
		snapshot.Environment = &environment
		mu.Unlock()
		return nil
	})

	wg.Wait()

	if index != nil {
		snapshot.Metrics = c.collectMetrics(ctx, index, fail)
	}

	snapshot.LastUpdated = time.Now()

	c.mu.Lock()
	c.snapshot = snapshot
	c.mu.Unlock()

	return snapshot
}

// collectMetrics fetches detail for the allow-listed metrics, restricted to
// names the index actually advertises. Per-metric failures are isolated.
func (c *Collector) collectMetrics(ctx context.Context, index *model.MetricIndex, fail func(string, error)) map[string]model.MetricDetail {
	advertised := make(map[string]bool, len(index.Names))
	for _, name := range index.Names {
		advertised[name] = true
	}

	var wanted []string
	for _, name := range config.KeyMetricNames {
		if advertised[name] {
			wanted = append(wanted, name)
		}
	}
	if len(wanted) == 0 {
		return nil
	}

	details := make(map[string]model.MetricDetail, len(wanted))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, name := range wanted {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			var detail model.MetricDetail
			if err := c.client.Actuator(ctx, "/metrics/"+name, &detail); err != nil {
				fail("metric:"+name, err)
				return
			}
			mu.Lock()
			details[name] = detail
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	return details
}
