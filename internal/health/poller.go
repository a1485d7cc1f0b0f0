package health

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sowlstudios/admin-console/internal/api"
	"github.com/sowlstudios/admin-console/internal/config"
	"github.com/sowlstudios/admin-console/internal/model"
)

// Poller keeps a wholesale-replaced health snapshot fresh on a fixed
// interval, with manual refresh collapsing into the same fetch routine.
// Its lifecycle is tied to the console session, not to any visible tab.
type Poller struct {
	collector *Collector
	interval  time.Duration

	done chan struct{}
	kick chan struct{}

	onSnapshot func(*model.HealthSnapshot)
}

func NewPoller(client *api.Client, interval time.Duration) *Poller {
	return &Poller{
		collector: NewCollector(client),
		interval:  interval,
		done:      make(chan struct{}),
		kick:      make(chan struct{}, 1),
	}
}

// SetOnSnapshot registers a hook invoked after each completed poll cycle.
// Must be set before Start.
func (p *Poller) SetOnSnapshot(fn func(*model.HealthSnapshot)) {
	p.onSnapshot = fn
}

func (p *Poller) Start() {
	go p.run()
	log.Info().Dur("interval", p.interval).Msg("health poller started")
}

// Stop ends the polling loop. Results of an in-flight cycle arriving after
// Stop are discarded by the closed loop, never written to a torn-down view.
func (p *Poller) Stop() {
	close(p.done)
	log.Info().Msg("health poller stopped")
}

// RefreshNow requests an immediate poll cycle. Overlapping requests collapse
// into one; each cycle replaces the snapshot wholesale, so at worst a stale
// result is overwritten by a newer one.
func (p *Poller) RefreshNow() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Snapshot returns the most recently completed snapshot, or nil before the
// first cycle finishes.
func (p *Poller) Snapshot() *model.HealthSnapshot {
	return p.collector.Snapshot()
}

// Collect runs one cycle synchronously and returns the fresh snapshot.
func (p *Poller) Collect(ctx context.Context) *model.HealthSnapshot {
	snapshot := p.collector.Collect(ctx)
	if p.onSnapshot != nil {
		p.onSnapshot(snapshot)
	}
	return snapshot
}

func (p *Poller) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.cycle()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.cycle()
		case <-p.kick:
			p.cycle()
		}
	}
}

func (p *Poller) cycle() {
	ctx, cancel := context.WithTimeout(context.Background(), config.HealthCycleTimeout)
	defer cancel()

	snapshot := p.Collect(ctx)
	log.Debug().
		Str("status", snapshot.OverallStatus()).
		Int("metricCount", len(snapshot.Metrics)).
		Int("errorCount", len(snapshot.Errors)).
		Msg("health poll cycle completed")
}
