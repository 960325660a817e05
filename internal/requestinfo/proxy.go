// internal/requestinfo/proxy.go
//
// Client IP resolution behind reverse proxies.
//
/*
Context
--------
Forwarding headers are client-controlled unless our own proxy wrote them.
Proxies lists the networks (load balancer, ingress) whose X-Forwarded-For
and X-Real-IP we believe.  A request whose peer is outside that list is
keyed on its socket address, whatever headers it carries.

Workflow
--------
  1. peer := host part of r.RemoteAddr.
  2. peer untrusted → peer.
  3. Walk X-Forwarded-For right to left and return the first hop that is
     not itself a trusted proxy.
  4. No usable X-Forwarded-For → X-Real-IP → peer.

Notes
-----
  • A nil Proxies trusts nobody.
  • Entries may be CIDRs ("10.0.0.0/8") or bare addresses ("127.0.0.1").
*/
package requestinfo

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Proxies is the set of networks whose forwarding headers are honoured.
type Proxies []*net.IPNet

// ParseProxies converts CIDRs and bare IPs into Proxies.
func ParseProxies(entries []string) (Proxies, error) {
	var out Proxies
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.Contains(e, "/") {
			ip := net.ParseIP(e)
			if ip == nil {
				return nil, fmt.Errorf("trusted proxy %q: not an IP or CIDR", e)
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			out = append(out, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(e)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Contains reports whether ip belongs to a trusted network.
func (p Proxies) Contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, n := range p {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP returns the address of the first untrusted hop.
func (p Proxies) ClientIP(r *http.Request) net.IP {
	peer := remoteIP(r.RemoteAddr)
	if !p.Contains(peer) {
		return peer
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		var leftmost net.IP
		for i := len(hops) - 1; i >= 0; i-- {
			ip := net.ParseIP(strings.TrimSpace(hops[i]))
			if ip == nil {
				continue
			}
			if !p.Contains(ip) {
				return ip
			}
			leftmost = ip
		}
		if leftmost != nil {
			return leftmost
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-Ip"))); ip != nil {
		return ip
	}
	return peer
}

func remoteIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}
