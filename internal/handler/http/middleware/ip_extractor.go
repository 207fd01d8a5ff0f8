package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
)

// IPExtractor extracts the client IP address of a request.
type IPExtractor interface {
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor uses the TCP peer address only, so clients cannot spoof it.
type RemoteAddrExtractor struct{}

func (RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	addr, err := peerAddr(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}

// TrustedProxyConfig lists the reverse proxies whose forwarding headers are believed.
type TrustedProxyConfig struct {
	Enabled      bool
	AllowedCIDRs []netip.Prefix
}

var errNoTrustedProxies = errors.New("proxy trust is enabled but no trusted proxies are configured")

// ParseTrustedProxies builds a TrustedProxyConfig from IPs or CIDR ranges.
// A single IP becomes a /32 or /128 prefix.
func ParseTrustedProxies(enabled bool, entries []string) (*TrustedProxyConfig, error) {
	cfg := &TrustedProxyConfig{Enabled: enabled}
	if !enabled {
		return cfg, nil
	}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			cfg.AllowedCIDRs = append(cfg.AllowedCIDRs, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid IP or CIDR %q", entry)
		}
		cfg.AllowedCIDRs = append(cfg.AllowedCIDRs, netip.PrefixFrom(addr, addr.BitLen()))
	}
	if len(cfg.AllowedCIDRs) == 0 {
		return nil, errNoTrustedProxies
	}
	return cfg, nil
}

func (c *TrustedProxyConfig) contains(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range c.AllowedCIDRs {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// IsTrusted reports whether remoteAddr ("IP:port" or "IP") is a trusted proxy.
func (c *TrustedProxyConfig) IsTrusted(remoteAddr string) bool {
	addr, err := peerAddr(remoteAddr)
	return err == nil && c.contains(addr)
}

// TrustedProxyExtractor believes forwarding headers only from trusted peers.
// X-Forwarded-For is walked from the right, skipping trusted hops, so entries a client
// prepends itself are never picked. X-Real-IP is the fallback, then the peer address.
type TrustedProxyExtractor struct {
	config TrustedProxyConfig
}

func NewTrustedProxyExtractor(config TrustedProxyConfig) *TrustedProxyExtractor {
	return &TrustedProxyExtractor{config: config}
}

func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	peer, err := peerAddr(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	if !e.config.Enabled {
		return peer.String(), nil
	}

	xff := r.Header.Get("X-Forwarded-For")
	xri := r.Header.Get("X-Real-IP")
	if !e.config.contains(peer) {
		if xff != "" || xri != "" {
			slog.Warn("untrusted peer sent forwarding headers",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", xff),
				slog.String("x_real_ip", xri))
		}
		return peer.String(), nil
	}

	if addr, ok := e.clientFromForwardedFor(xff); ok {
		return addr.String(), nil
	}
	if addr, err := netip.ParseAddr(strings.TrimSpace(xri)); err == nil {
		return addr.Unmap().String(), nil
	}
	return peer.String(), nil
}

func (e *TrustedProxyExtractor) clientFromForwardedFor(xff string) (netip.Addr, bool) {
	hops := strings.Split(xff, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			return netip.Addr{}, false
		}
		if !e.config.contains(addr) {
			return addr.Unmap(), true
		}
	}
	return netip.Addr{}, false
}

// peerAddr parses "host:port", "[v6]:port" or a bare IP.
func peerAddr(s string) (netip.Addr, error) {
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap.Addr().Unmap(), nil
	}
	if addr, err := netip.ParseAddr(strings.Trim(s, "[]")); err == nil {
		return addr.Unmap(), nil
	}
	return netip.Addr{}, fmt.Errorf("invalid address format: %s", s)
}
