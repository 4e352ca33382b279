// Package asn resolves the autonomous-system number owning an IP address via
// Team Cymru's whois service, with a TTL cache and a small worker pool so
// lookups never slow down probing.
package asn

import (
	"io"
	"net"
	"strings"
	"time"

	"github.com/icecake0141/paraping/internal/logger"
)

const (
	// DefaultWhoisAddr is Team Cymru's IP-to-ASN whois endpoint.
	DefaultWhoisAddr = "whois.cymru.com:43"

	// maxResponseBytes caps how much of the response is read. The verbose
	// single-IP answer is two short lines; anything bigger is garbage.
	maxResponseBytes = 64 * 1024
)

// Resolver performs whois-based ASN lookups.
type Resolver struct {
	Addr    string        // whois endpoint, DefaultWhoisAddr unless overridden
	Timeout time.Duration // per-lookup dial/read/write budget

	log logger.Logger
}

// NewResolver creates a resolver against the default whois endpoint.
func NewResolver(timeout time.Duration, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.Noop()
	}
	return &Resolver{
		Addr:    DefaultWhoisAddr,
		Timeout: timeout,
		log:     log,
	}
}

// Resolve looks up the ASN for an IP address. It returns the normalized
// "AS<number>" string, or ok=false for any failure: timeout, refused
// connection, short or malformed response, or an "NA" answer. Failures are
// cheap and silent; the caller's retry policy decides when to try again.
func (r *Resolver) Resolve(ip string) (string, bool) {
	conn, err := net.DialTimeout("tcp", r.Addr, r.Timeout)
	if err != nil {
		r.log.Debug("whois dial %s: %v", r.Addr, err)
		return "", false
	}
	defer conn.Close()

	deadline := time.Now().Add(r.Timeout)
	if err := conn.SetDeadline(deadline); err != nil {
		return "", false
	}

	// " -v <ip>" asks for the verbose format with a header line.
	if _, err := io.WriteString(conn, " -v "+ip+"\n"); err != nil {
		r.log.Debug("whois write: %v", err)
		return "", false
	}

	data, err := io.ReadAll(io.LimitReader(conn, maxResponseBytes))
	if err != nil {
		r.log.Debug("whois read: %v", err)
		return "", false
	}

	return parseResponse(string(data))
}

// parseResponse extracts the ASN from a verbose whois answer. The first
// non-blank line is the column header; the second is pipe-delimited with the
// AS number as the leading field, possibly prefixed "AS", or "NA" when the
// address maps to no origin.
func parseResponse(response string) (string, bool) {
	var lines []string
	for _, line := range strings.Split(response, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return "", false
	}

	fields := strings.Split(lines[1], "|")
	if len(fields) == 0 {
		return "", false
	}

	asn := strings.TrimSpace(fields[0])
	asn = strings.TrimSpace(strings.TrimPrefix(asn, "AS"))
	if asn == "" || strings.EqualFold(asn, "NA") {
		return "", false
	}
	return "AS" + asn, true
}
