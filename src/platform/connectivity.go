package platform

import (
	"context"
	"net"
	"time"
)

// Connectivity answers the single live question the classifier asks:
// is the network currently reachable? Historical link-failure lines are
// only reported when it is not.
type Connectivity interface {
	Online() bool
}

// StaticConnectivity is a fixed answer, for tests and for callers that
// already probed.
type StaticConnectivity bool

func (s StaticConnectivity) Online() bool { return bool(s) }

// ProbeConnectivity checks reachability by dialing a public resolver.
// A TCP dial avoids needing raw-socket privileges for ICMP.
type ProbeConnectivity struct {
	// Address defaults to 1.1.1.1:53.
	Address string
	// Timeout defaults to 2 seconds.
	Timeout time.Duration
}

// Online dials the probe address once.
func (p ProbeConnectivity) Online() bool {
	addr := p.Address
	if addr == "" {
		addr = "1.1.1.1:53"
	}
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 2 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
