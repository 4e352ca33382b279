package probe

import (
	"sync"
	"time"

	"github.com/icecake0141/paraping/internal/logger"
)

// Config holds configuration for a probing run.
type Config struct {
	Timeout       time.Duration // Per-attempt timeout
	Count         int           // Attempts per host
	SlowThreshold time.Duration // Replies at or above this are classified slow
	MaxParallel   int           // Max concurrently probing hosts
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:       1 * time.Second,
		Count:         4,
		SlowThreshold: 500 * time.Millisecond,
		MaxParallel:   10,
	}
}

// Orchestrator fans a probing run out across hosts. Each host gets its own
// goroutine, gated by a semaphore so at most MaxParallel hosts probe at once;
// the rest queue behind it. Every observation and one completion marker per
// host are delivered on a single channel sized so workers never block on it.
type Orchestrator struct {
	hosts  []string
	prober Prober
	config Config
	log    logger.Logger
}

// NewOrchestrator creates an orchestrator for the given host list.
// Duplicate hosts are kept: each entry probes independently.
func NewOrchestrator(hosts []string, prober Prober, cfg Config, log logger.Logger) *Orchestrator {
	if cfg.MaxParallel <= 0 {
		cfg.MaxParallel = DefaultConfig().MaxParallel
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Orchestrator{
		hosts:  hosts,
		prober: prober,
		config: cfg,
		log:    log,
	}
}

// Run starts the workers and returns the event channel. The channel carries
// exactly Count observations plus one completion marker per host, in
// per-host order, and is closed once every worker has finished.
func (o *Orchestrator) Run() <-chan Event {
	// Buffer holds every possible event so no worker ever blocks waiting
	// for the consumer to drain.
	events := make(chan Event, len(o.hosts)*(o.config.Count+1))
	sem := make(chan struct{}, o.config.MaxParallel)

	var wg sync.WaitGroup
	for i, host := range o.hosts {
		wg.Add(1)
		go func(index int, host string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			o.probeHost(index, host, events)
		}(i, host)
	}

	go func() {
		wg.Wait()
		close(events)
	}()

	return events
}

// probeHost runs the attempt loop for one host. Transport failures are
// absorbed here as fail observations; a failing host never aborts its
// remaining attempts or any other host.
func (o *Orchestrator) probeHost(index int, host string, events chan<- Event) {
	for seq := 1; seq <= o.config.Count; seq++ {
		rtt, ok := o.prober.Probe(host, o.config.Timeout)
		if !ok {
			o.log.Debug("no reply from %s seq=%d", host, seq)
			events <- Event{Index: index, Host: host, Seq: seq, Status: StatusFail}
			continue
		}
		status := Classify(rtt, o.config.SlowThreshold)
		o.log.Debug("reply from %s seq=%d time=%s status=%s", host, seq, rtt, status)
		events <- Event{Index: index, Host: host, Seq: seq, Status: status, RTT: rtt}
	}
	events <- Event{Index: index, Host: host, Done: true}
}
