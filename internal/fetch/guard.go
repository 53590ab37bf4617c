package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"

	"golang.org/x/net/http/httpproxy"
)

// ErrPrivateAddress is returned for links that resolve to loopback, private,
// link-local or otherwise non-public addresses
var ErrPrivateAddress = errors.New("link points to a non-public address")

// sharedAddressSpace is the carrier-grade NAT range, 100.64.0.0/10
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

func publicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	switch {
	case !addr.IsValid(),
		addr.IsLoopback(),
		addr.IsPrivate(),
		addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(),
		addr.IsMulticast(),
		addr.IsUnspecified(),
		sharedAddressSpace.Contains(addr):
		return false
	}
	return true
}

// hostGuard screens link hosts before any request is made
type hostGuard struct {
	resolver *net.Resolver
}

// check resolves host and fails when any answer is non-public
func (g *hostGuard) check(ctx context.Context, host string) error {
	if addr, err := netip.ParseAddr(host); err == nil {
		if !publicAddr(addr) {
			return fmt.Errorf("%w: %s", ErrPrivateAddress, host)
		}
		return nil
	}

	addrs, err := g.resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", host, err)
	}
	for _, addr := range addrs {
		if !publicAddr(addr) {
			return fmt.Errorf("%w: %s resolves to %s", ErrPrivateAddress, host, addr)
		}
	}
	return nil
}

// dialControl refuses connections to non-public addresses after DNS
// resolution, which also covers redirects and rebinding answers
func dialControl(network, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPrivateAddress, address)
	}
	if !publicAddr(ap.Addr()) {
		return fmt.Errorf("%w: %s", ErrPrivateAddress, ap.Addr())
	}
	return nil
}

// guardClient returns a copy of client whose direct connections go only to
// public addresses. With a proxy in effect the dial goes to the proxy, so
// only the host check in Expand applies.
func guardClient(client *http.Client, proxyConfigured bool) *http.Client {
	if proxyConfigured || environmentProxy() {
		return client
	}
	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		return client
	}

	guarded := transport.Clone()
	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second, Control: dialControl}
	guarded.DialContext = dialer.DialContext

	out := *client
	out.Transport = guarded
	return &out
}

func environmentProxy() bool {
	env := httpproxy.FromEnvironment()
	return env.HTTPProxy != "" || env.HTTPSProxy != ""
}
