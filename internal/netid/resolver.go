package netid

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dalymople/avrsetup/internal/logging"
)

const (
	// DefaultProbeTimeout bounds how long the active probe waits for a reply
	DefaultProbeTimeout = 3 * time.Second

	arpCachePath = "/proc/net/arp"
	zeroMAC      = "00:00:00:00:00:00"
)

// Resolver looks up hardware addresses for hosts on the local network.
// The zero value is usable and resolves with default settings.
type Resolver struct {
	// ProbeTimeout bounds the active ARP probe. Zero means DefaultProbeTimeout.
	ProbeTimeout time.Duration

	// Interface pins probing to a named network interface. When empty the
	// resolver picks the interface whose subnet contains the target.
	Interface string

	// cachePath and probe are replaceable for testing
	cachePath string
	probe     func(ctx context.Context, target net.IP, timeout time.Duration) (net.HardwareAddr, error)
}

// NewResolver creates a resolver with default settings
func NewResolver() *Resolver {
	return &Resolver{
		ProbeTimeout: DefaultProbeTimeout,
	}
}

// Resolve looks up the MAC address for a host given as either an IP address
// or a hostname
func (r *Resolver) Resolve(ctx context.Context, host string) Result {
	if net.ParseIP(host) != nil {
		return r.ByIP(ctx, host)
	}
	return r.ByHostname(ctx, host)
}

// ByIP looks up the MAC address for an IP address. The kernel neighbour
// table is consulted first, then an active ARP probe is sent. ARP only
// covers IPv4, so IPv6 targets come back not found.
func (r *Resolver) ByIP(ctx context.Context, addr string) Result {
	ip := net.ParseIP(addr)
	if ip == nil {
		return errored(fmt.Errorf("invalid IP address %q", addr))
	}

	if mac := r.cached(ip); mac != "" {
		logging.Debug("MAC found in neighbour table",
			zap.String("ip", addr),
			zap.String("mac", mac))
		return found(mac)
	}

	if ip.To4() == nil {
		return notFound()
	}

	probe := r.probe
	if probe == nil {
		probe = r.activeProbe
	}
	timeout := r.ProbeTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	hw, err := probe(ctx, ip, timeout)
	if err != nil {
		if errors.Is(err, ErrNoReply) {
			logging.Debug("No ARP reply", zap.String("ip", addr))
			return notFound()
		}
		return errored(err)
	}

	logging.Debug("MAC resolved by ARP probe",
		zap.String("ip", addr),
		zap.String("mac", hw.String()))
	return found(hw.String())
}

// ByHostname resolves a hostname to its IPv4 addresses and looks each one
// up in turn, stopping at the first hit
func (r *Resolver) ByHostname(ctx context.Context, hostname string) Result {
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip4", hostname)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return notFound()
		}
		return errored(fmt.Errorf("resolving %s: %w", hostname, err))
	}

	var probeErr error
	for _, ip := range ips {
		res := r.ByIP(ctx, ip.String())
		switch res.Status {
		case StatusFound:
			return res
		case StatusError:
			if probeErr == nil {
				probeErr = res.Err
			}
		}
	}
	if probeErr != nil {
		return errored(probeErr)
	}
	return notFound()
}

// activeProbe picks the interface facing the target and broadcasts the ARP
// request out of it
func (r *Resolver) activeProbe(ctx context.Context, target net.IP, timeout time.Duration) (net.HardwareAddr, error) {
	iface, srcIP, err := r.pickInterface(target)
	if err != nil {
		return nil, err
	}
	return probeARP(ctx, iface, srcIP, target, timeout)
}

// cached reads the kernel neighbour table. Returns "" when the address has
// no usable entry or the table cannot be read.
func (r *Resolver) cached(ip net.IP) string {
	path := r.cachePath
	if path == "" {
		path = arpCachePath
	}
	f, err := os.Open(path)
	if err != nil {
		// Non-Linux hosts have no neighbour table file
		return ""
	}
	defer f.Close()

	want := ip.String()
	scanner := bufio.NewScanner(f)
	scanner.Scan() // header row
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || fields[0] != want {
			continue
		}
		// Flags 0x0 marks an incomplete entry
		if fields[2] == "0x0" {
			continue
		}
		if fields[3] == "" || fields[3] == zeroMAC {
			continue
		}
		return fields[3]
	}
	return ""
}

// pickInterface finds the interface and source address to probe from. The
// target must be on a directly attached subnet for ARP to reach it.
func (r *Resolver) pickInterface(target net.IP) (*net.Interface, net.IP, error) {
	if r.Interface != "" {
		iface, err := net.InterfaceByName(r.Interface)
		if err != nil {
			return nil, nil, fmt.Errorf("looking up interface %s: %w", r.Interface, err)
		}
		src, err := interfaceIPv4(iface)
		if err != nil {
			return nil, nil, err
		}
		return iface, src, nil
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, nil, fmt.Errorf("listing network interfaces: %w", err)
	}
	for i := range ifaces {
		iface := &ifaces[i]
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.To4() == nil {
				continue
			}
			if ipNet.Contains(target) {
				return iface, ipNet.IP, nil
			}
		}
	}
	return nil, nil, fmt.Errorf("no interface on the same subnet as %s", target)
}

func interfaceIPv4(iface *net.Interface) (net.IP, error) {
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("reading addresses of %s: %w", iface.Name, err)
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && ipNet.IP.To4() != nil {
			return ipNet.IP, nil
		}
	}
	return nil, fmt.Errorf("interface %s has no IPv4 address", iface.Name)
}
