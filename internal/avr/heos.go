package avr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	// HEOSServiceType is the mDNS service type HEOS-capable receivers
	// advertise. Older receivers without HEOS do not announce it; the ssdp
	// path is the one the setup flow relies on.
	HEOSServiceType = "_heos-audio._tcp"

	// HEOSServiceDomain is the mDNS domain (typically "local.")
	HEOSServiceDomain = "local."

	// DefaultHEOSBrowseTimeout is the default timeout for a HEOS browse
	DefaultHEOSBrowseTimeout = 5 * time.Second
)

// HEOSDevice represents a HEOS announcement seen on the network
type HEOSDevice struct {
	// Name is the mDNS instance name (usually the receiver's friendly name)
	Name string

	// Hostname is the mDNS hostname (e.g. "ACT1234567890.local.")
	Hostname string

	// IP is the IPv4 address
	IP string

	// Port is the announced HEOS control port
	Port int

	// Metadata contains the TXT record data. Common keys: "did", "model",
	// "vers", "networkid"
	Metadata map[string]string

	// DiscoveredAt is when the announcement was received
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *HEOSDevice) String() string {
	model := d.GetMetadata("model")
	if model != "" {
		return fmt.Sprintf("%s (%s) at %s:%d", d.Name, model, d.IP, d.Port)
	}
	return fmt.Sprintf("%s at %s:%d", d.Name, d.IP, d.Port)
}

// GetMetadata retrieves a TXT value by key, or returns empty string if not found
func (d *HEOSDevice) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}

// HEOSBrowser handles mDNS discovery of HEOS announcements
type HEOSBrowser struct {
	// Timeout is the maximum time to wait for announcements
	Timeout time.Duration
}

// NewHEOSBrowser creates a browser with default settings
func NewHEOSBrowser() *HEOSBrowser {
	return &HEOSBrowser{
		Timeout: DefaultHEOSBrowseTimeout,
	}
}

// Browse discovers HEOS-capable receivers on the local network.
// Returns the devices heard within the timeout.
func (b *HEOSBrowser) Browse(ctx context.Context) ([]*HEOSDevice, error) {
	ctx, cancel := context.WithTimeout(ctx, b.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	devices := make([]*HEOSDevice, 0)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			device := parseHEOSEntry(entry)
			if device != nil {
				devices = append(devices, device)
			}
		}
	}()

	err = resolver.Browse(ctx, HEOSServiceType, HEOSServiceDomain, entries)
	if err != nil {
		return nil, fmt.Errorf("failed to browse for HEOS services: %w", err)
	}

	// Wait for the timeout, then for the collector to drain the channel
	<-ctx.Done()
	<-done

	return devices, nil
}

// parseHEOSEntry converts a zeroconf service entry to a HEOSDevice.
// Returns nil for entries without a usable address.
func parseHEOSEntry(entry *zeroconf.ServiceEntry) *HEOSDevice {
	// Get IP address (prefer IPv4)
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	// Parse TXT records into metadata
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &HEOSDevice{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         entry.Port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// BrowseHEOS is a convenience function to browse with a custom timeout
func BrowseHEOS(ctx context.Context, timeout time.Duration) ([]*HEOSDevice, error) {
	browser := NewHEOSBrowser()
	if timeout > 0 {
		browser.Timeout = timeout
	}
	return browser.Browse(ctx)
}
