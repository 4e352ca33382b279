package probe

import (
	"math/rand"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/icecake0141/paraping/internal/logger"
)

// protocolICMP is the IANA protocol number for ICMPv4.
const protocolICMP = 1

// Prober performs one reachability check against a host.
//
// Implementations must not return transport errors: a timeout, an unreachable
// host, or a name-resolution failure all report ok=false. The returned rtt is
// only meaningful when ok is true.
type Prober interface {
	Probe(host string, timeout time.Duration) (rtt time.Duration, ok bool)
}

// ICMPProber sends ICMPv4 echo requests. It prefers a raw socket (ip4:icmp)
// and falls back to an unprivileged datagram socket (udp4) when raw sockets
// are not permitted, so it works both as root and as a regular user on
// systems with ping_group_range configured.
type ICMPProber struct {
	id  int
	seq atomic.Uint32
	log logger.Logger

	mu      sync.Mutex
	network string // "" until first socket open decides ip4:icmp vs udp4
}

// NewICMPProber creates an ICMP echo prober.
func NewICMPProber(log logger.Logger) *ICMPProber {
	if log == nil {
		log = logger.Noop()
	}
	return &ICMPProber{
		// 16-bit echo identifier, same trick as any ping: lets us discard
		// replies addressed to other processes on a raw socket.
		id:  rand.Int() & 0xffff,
		log: log,
	}
}

// Probe resolves the host, sends one echo request, and waits up to timeout
// for a matching reply.
func (p *ICMPProber) Probe(host string, timeout time.Duration) (time.Duration, bool) {
	addr, err := net.ResolveIPAddr("ip4", host)
	if err != nil {
		p.log.Debug("resolve %s: %v", host, err)
		return 0, false
	}

	conn, network, err := p.listen()
	if err != nil {
		p.log.Debug("icmp listen: %v", err)
		return 0, false
	}
	defer conn.Close()

	var dst net.Addr = addr
	if network == "udp4" {
		dst = &net.UDPAddr{IP: addr.IP}
	}

	seq := int(p.seq.Add(1)) & 0xffff
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{ID: p.id, Seq: seq, Data: []byte("paraping")},
	}
	wire, err := msg.Marshal(nil)
	if err != nil {
		p.log.Debug("icmp marshal: %v", err)
		return 0, false
	}

	start := time.Now()
	deadline := start.Add(timeout)
	if err := conn.SetReadDeadline(deadline); err != nil {
		return 0, false
	}
	if _, err := conn.WriteTo(wire, dst); err != nil {
		p.log.Debug("send to %s: %v", host, err)
		return 0, false
	}

	buf := make([]byte, 1500)
	for {
		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			// deadline exceeded or socket error: either way, no reply
			p.log.Debug("read for %s: %v", host, err)
			return 0, false
		}

		reply, err := icmp.ParseMessage(protocolICMP, buf[:n])
		if err != nil {
			continue
		}
		if !p.matches(reply, network, seq, peer, addr.IP) {
			continue
		}
		return time.Since(start), true
	}
}

// listen opens the echo socket, remembering which socket type worked so later
// attempts skip the failed raw-socket path. Workers share the prober, so the
// remembered choice is mutex-guarded.
func (p *ICMPProber) listen() (*icmp.PacketConn, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.network != "udp4" {
		conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
		if err == nil {
			p.network = "ip4:icmp"
			return conn, "ip4:icmp", nil
		}
		if !os.IsPermission(err) && p.network == "ip4:icmp" {
			return nil, "", err
		}
	}
	conn, err := icmp.ListenPacket("udp4", "0.0.0.0")
	if err != nil {
		return nil, "", err
	}
	p.network = "udp4"
	return conn, "udp4", nil
}

// matches reports whether a parsed ICMP message is the reply to our request.
// On udp4 sockets the kernel rewrites the echo ID, so only the sequence
// number and peer address are checked there.
func (p *ICMPProber) matches(m *icmp.Message, network string, seq int, peer net.Addr, want net.IP) bool {
	if m.Type != ipv4.ICMPTypeEchoReply {
		return false
	}
	echo, ok := m.Body.(*icmp.Echo)
	if !ok {
		return false
	}
	if echo.Seq != seq {
		return false
	}
	if network == "ip4:icmp" && echo.ID != p.id {
		return false
	}
	if ip := peerIP(peer); ip != nil && !ip.Equal(want) {
		return false
	}
	return true
}

func peerIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPAddr:
		return a.IP
	case *net.UDPAddr:
		return a.IP
	default:
		return nil
	}
}
