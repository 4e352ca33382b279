package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/icecake0141/paraping/internal/asn"
	"github.com/icecake0141/paraping/internal/config"
	"github.com/icecake0141/paraping/internal/input"
	"github.com/icecake0141/paraping/internal/logger"
	"github.com/icecake0141/paraping/internal/probe"
	"github.com/icecake0141/paraping/internal/render"
	"github.com/icecake0141/paraping/internal/ui"
)

// asnRetryInterval is how often eligible failed lookups are re-queued.
const asnRetryInterval = 1 * time.Second

// runProbes is the root command body: load settings, collect hosts, run.
func runProbes(cmd *cobra.Command, args []string) error {
	log := logger.Default()

	settings, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := applyFlagOverrides(cmd, &settings); err != nil {
		return err
	}

	hosts := append([]string{}, args...)
	if flagInput != "" {
		fromFile, err := config.LoadHostFile(flagInput)
		if err != nil {
			// Hosts given on the command line still run.
			fmt.Fprintln(os.Stderr, err)
		}
		hosts = append(hosts, fromFile...)
	}

	if err := config.Validate(settings, hosts); err != nil {
		return err
	}

	return run(settings, hosts, log)
}

// hostAddr pairs a host row with its resolved IP address.
type hostAddr struct {
	index int
	ip    string
}

// enricher owns the main-loop side of ASN enrichment: the cache, the set of
// in-flight addresses, and the per-row ASN strings. Only the whois calls
// themselves run on pool workers. submit abstracts Pool.Submit so the
// bookkeeping is testable without a pool.
type enricher struct {
	submit    func(asn.Request) bool
	cache     *asn.Cache
	ttl       time.Duration
	hosts     []string
	ipOf      []string
	asnByHost []string
	pending   map[string]bool
}

func newEnricher(submit func(asn.Request) bool, ttl time.Duration, hosts []string) *enricher {
	return &enricher{
		submit:    submit,
		cache:     asn.NewCache(),
		ttl:       ttl,
		hosts:     hosts,
		ipOf:      make([]string, len(hosts)),
		asnByHost: make([]string, len(hosts)),
		pending:   make(map[string]bool),
	}
}

// noteAddr records a host's resolved address. An address whose lookup already
// succeeded (duplicate hosts, shared IPs) is filled from the cache; anything
// else eligible is queued.
func (e *enricher) noteAddr(a hostAddr) {
	e.ipOf[a.index] = a.ip
	if a.ip == "" {
		return
	}
	if entry, ok := e.cache.Get(a.ip); ok && entry.OK {
		e.asnByHost[a.index] = entry.Value
		return
	}
	e.maybeSubmit(a.index, a.ip)
}

// applyResult caches a lookup outcome and fans a success out to every row
// sharing the address.
func (e *enricher) applyResult(res asn.Result) {
	delete(e.pending, res.IP)
	e.cache.Put(res.IP, res.ASN, res.OK, time.Now())
	if !res.OK {
		return
	}
	for i, ip := range e.ipOf {
		if ip == res.IP {
			e.asnByHost[i] = res.ASN
		}
	}
}

// retry re-queues every known address that is still unresolved and eligible.
func (e *enricher) retry() {
	for i, ip := range e.ipOf {
		if ip == "" || e.asnByHost[i] != "" {
			continue
		}
		e.maybeSubmit(i, ip)
	}
}

// maybeSubmit queues one lookup if the address is neither in flight nor
// excluded by the cache. The address counts as in flight only when the pool
// actually accepted the request; a dropped submission stays eligible.
func (e *enricher) maybeSubmit(index int, ip string) {
	if e.pending[ip] || !e.cache.ShouldRetry(ip, time.Now(), e.ttl) {
		return
	}
	if e.submit(asn.Request{Host: e.hosts[index], IP: ip}) {
		e.pending[ip] = true
	}
}

// run drives one probing session: orchestrator events, optional ASN lookups,
// and keyboard input all drain into a single select loop that owns every
// piece of mutable state.
func run(s config.Settings, hosts []string, log logger.Logger) error {
	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	fmt.Printf("paraping: probing %d host(s), %d probe(s) each (timeout %s, slow >= %s)\n",
		len(hosts), s.Count, s.Timeout, s.SlowThreshold)

	orch := probe.NewOrchestrator(hosts, probe.NewICMPProber(log), probe.Config{
		Timeout:       s.Timeout,
		Count:         s.Count,
		SlowThreshold: s.SlowThreshold,
		MaxParallel:   s.MaxParallel,
	}, log)

	stats := make([]probe.Stats, len(hosts))

	// ASN machinery. The channels stay nil when disabled, so their select
	// cases never fire.
	var (
		pool       *asn.Pool
		cancelASN  context.CancelFunc
		asnResults <-chan asn.Result
		enr        *enricher
		addrs      chan hostAddr
		retryTick  <-chan time.Time
	)
	if s.ASN.Enabled {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		cancelASN = cancel

		pool = asn.NewPool(ctx, asn.NewResolver(s.ASN.Timeout, log), s.ASN.Workers, log)
		asnResults = pool.Results()
		enr = newEnricher(pool.Submit, s.ASN.FailureTTL, hosts)

		addrs = make(chan hostAddr, len(hosts))
		go resolveAddrs(hosts, addrs, log)

		ticker := time.NewTicker(asnRetryInterval)
		defer ticker.Stop()
		retryTick = ticker.C
	}

	// Keyboard. Raw mode only when stdout is a terminal and stdin cooperates;
	// otherwise the run is non-interactive and keys stay nil.
	var keys chan input.Key
	var tty *input.Terminal
	if interactive {
		t, err := input.NewTerminal(os.Stdin)
		if err != nil {
			log.Debug("keyboard disabled: %v", err)
		} else {
			tty = t
			defer tty.Restore()
			keys = make(chan input.Key, 8)
			stop := make(chan struct{})
			defer close(stop)
			go readKeys(input.NewDecoder(tty), keys, stop)
		}
	}

	state := render.NewState(hosts, [render.HeaderLines]string{
		fmt.Sprintf("paraping  %d host(s)  %d probe(s)  timeout %s  slow >= %s",
			len(hosts), s.Count, s.Timeout, s.SlowThreshold),
		"arrows scroll, q quits",
	})

	start := time.Now()
	events := orch.Run()
	if interactive {
		redraw(state)
	}

	remaining := len(hosts)
loop:
	for remaining > 0 {
		select {
		case ev, ok := <-events:
			if !ok {
				break loop
			}
			if ev.Done {
				remaining--
				continue
			}
			stats[ev.Index].Record(ev.Status)
			state.Apply(ev)
			if interactive {
				redraw(state)
			} else if s.Verbose {
				printObservation(ev)
			}

		case addr := <-addrs:
			enr.noteAddr(addr)

		case res, ok := <-asnResults:
			if !ok {
				asnResults = nil
				continue
			}
			enr.applyResult(res)

		case <-retryTick:
			enr.retry()

		case k := <-keys:
			switch {
			case k.Type == input.KeyRune && (k.Rune == 'q' || k.Rune == 3):
				break loop
			case k.Type == input.KeyArrowUp:
				scroll(state, -1)
				redraw(state)
			case k.Type == input.KeyArrowDown:
				scroll(state, 1)
				redraw(state)
			}
		}
	}

	if pool != nil {
		cancelASN()
		pool.Close()
	}
	// Leave raw mode before the summary so LF line endings render normally.
	if tty != nil {
		tty.Restore()
	}

	summaries := make([]ui.HostSummary, len(hosts))
	for i, h := range hosts {
		resolved := ""
		if enr != nil {
			resolved = enr.asnByHost[i]
		}
		summaries[i] = ui.HostSummary{
			Host:    h,
			ASN:     resolved,
			Success: stats[i].Success,
			Slow:    stats[i].Slow,
			Fail:    stats[i].Fail,
			Total:   stats[i].Total,
		}
	}
	ui.RenderSummaryTo(os.Stdout, summaries, time.Since(start))
	return nil
}

// resolveAddrs resolves every host once and posts the results. Hosts that do
// not resolve post an empty IP and simply never get an ASN.
func resolveAddrs(hosts []string, out chan<- hostAddr, log logger.Logger) {
	for i, h := range hosts {
		ips, err := net.LookupIP(h)
		if err != nil || len(ips) == 0 {
			log.Debug("no address for %s: %v", h, err)
			out <- hostAddr{index: i}
			continue
		}
		out <- hostAddr{index: i, ip: ips[0].String()}
	}
}

// readKeys polls the decoder and forwards keystrokes until stop closes.
// ReadKey never blocks, so the loop sleeps briefly between empty polls.
func readKeys(dec *input.Decoder, out chan<- input.Key, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		k, ok := dec.ReadKey()
		if !ok {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		select {
		case out <- k:
		default:
		}
	}
}

func redraw(state *render.State) {
	w, h := input.Size(os.Stdout)
	state.Render(os.Stdout, w, h)
}

func scroll(state *render.State, delta int) {
	w, h := input.Size(os.Stdout)
	layout := render.ComputeLayout(state.Hosts(), w, h, render.HeaderLines)
	state.Scroll(delta, layout.VisibleHosts)
}

// printObservation writes one ping-style line per observation. Used only
// when the dashboard is not drawn.
func printObservation(ev probe.Event) {
	if ev.Status == probe.StatusFail {
		fmt.Printf("No reply from %s: seq=%d\n", ev.Host, ev.Seq)
		return
	}
	fmt.Printf("Reply from %s: seq=%d time=%s status=%s\n", ev.Host, ev.Seq, ev.RTT, ev.Status)
}
