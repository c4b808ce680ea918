package clientip

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Extractor resolves client addresses. The zero value trusts no proxies.
type Extractor struct {
	trusted []netip.Prefix
}

// New parses trusted proxies given as CIDRs or single addresses.
func New(trustedProxies ...string) (*Extractor, error) {
	e := &Extractor{}
	for _, raw := range trustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if p, err := netip.ParsePrefix(raw); err == nil {
			e.trusted = append(e.trusted, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("clientip: invalid trusted proxy %q", raw)
		}
		e.trusted = append(e.trusted, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return e, nil
}

// FromRequest returns the client address, or "" when the peer address cannot be parsed.
func (e *Extractor) FromRequest(r *http.Request) string {
	peer, ok := parseRemote(r.RemoteAddr)
	if !ok {
		return ""
	}
	if !e.isTrusted(peer) {
		return peer.String()
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			addr = addr.Unmap()
			if !e.isTrusted(addr) {
				return addr.String()
			}
		}
	}

	if xrip := strings.TrimSpace(r.Header.Get("X-Real-IP")); xrip != "" {
		if addr, err := netip.ParseAddr(xrip); err == nil {
			return addr.Unmap().String()
		}
	}

	return peer.String()
}

func (e *Extractor) isTrusted(addr netip.Addr) bool {
	for _, p := range e.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func parseRemote(remote string) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	addr, err := netip.ParseAddr(strings.TrimSpace(host))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
