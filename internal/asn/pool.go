package asn

import (
	"context"
	"sync"

	"github.com/icecake0141/paraping/internal/logger"
)

// Lookup is the resolution capability a Pool worker invokes per request.
// *Resolver satisfies it; tests substitute fakes.
type Lookup interface {
	Resolve(ip string) (string, bool)
}

// Request asks a worker to resolve the ASN for a host's IP address.
type Request struct {
	Host string
	IP   string
}

// Result carries the outcome of one request back to the consumer.
type Result struct {
	Host string
	IP   string
	ASN  string // "AS<number>" when OK
	OK   bool
}

// Pool runs a small fixed set of lookup workers fed from a request channel.
// Workers observe cancellation between requests; a request that has already
// been dequeued when the pool shuts down is still resolved, and its result
// posted if anyone is draining.
type Pool struct {
	lookup   Lookup
	requests chan Request
	results  chan Result
	wg       sync.WaitGroup
	log      logger.Logger
}

// NewPool creates a pool with the given number of workers. Workers start
// immediately and run until Close is called or ctx is cancelled.
func NewPool(ctx context.Context, lookup Lookup, workers int, log logger.Logger) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if log == nil {
		log = logger.Noop()
	}

	p := &Pool{
		lookup:   lookup,
		requests: make(chan Request, 64),
		results:  make(chan Result, 64),
		log:      log,
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	return p
}

// Submit queues a lookup request without blocking the caller. It reports
// whether the request was enqueued: a full request channel drops the request
// and returns false, so the caller must leave the address eligible for a
// later retry rather than marking it in flight.
func (p *Pool) Submit(req Request) bool {
	select {
	case p.requests <- req:
		return true
	default:
		p.log.Debug("asn queue full, dropping lookup for %s", req.IP)
		return false
	}
}

// Results returns the channel of completed lookups. It is closed after Close
// (or context cancellation) once every worker has exited.
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Close stops accepting requests and waits for the workers to drain what was
// already queued.
func (p *Pool) Close() {
	close(p.requests)
	p.wg.Wait()
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-p.requests:
			if !ok {
				return
			}
			asn, ok := p.lookup.Resolve(req.IP)
			p.log.Debug("resolved %s -> %q ok=%v", req.IP, asn, ok)
			select {
			case p.results <- Result{Host: req.Host, IP: req.IP, ASN: asn, OK: ok}:
			case <-ctx.Done():
				return
			}
		}
	}
}
