package avr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/koron/go-ssdp"
	"go.uber.org/zap"

	"github.com/dalymople/avrsetup/internal/logging"
)

// DefaultDiscoveryTimeout is how long an active search waits for responses
const DefaultDiscoveryTimeout = 5 * time.Second

// Discoverer performs active SSDP discovery of receivers on the local
// network. One search sends an M-SEARCH for MediaRenderer devices, fetches
// each responder's device description and keeps supported receivers.
type Discoverer struct {
	// Timeout is how long to collect search responses
	Timeout time.Duration

	// HTTPClient fetches device descriptions
	HTTPClient *http.Client

	// search issues the M-SEARCH; replaceable in tests
	search func(searchType string, waitSec int, localAddr string) ([]ssdp.Service, error)
}

// NewDiscoverer creates a discoverer with default settings
func NewDiscoverer() *Discoverer {
	return &Discoverer{
		Timeout:    DefaultDiscoveryTimeout,
		HTTPClient: &http.Client{Timeout: descriptionTimeout},
		// ssdp.Search takes variadic options the seam does not carry
		search: func(searchType string, waitSec int, localAddr string) ([]ssdp.Service, error) {
			return ssdp.Search(searchType, waitSec, localAddr)
		},
	}
}

// Discover runs one active search and returns the supported receivers found,
// sorted by host. Devices that answer the search but fail the description
// fetch or the manufacturer filter are skipped.
func (d *Discoverer) Discover(ctx context.Context) ([]DiscoveredDevice, error) {
	waitSec := int(d.Timeout.Seconds())
	if waitSec < 1 {
		waitSec = 1
	}

	services, err := d.search(MediaRendererST, waitSec, "")
	if err != nil {
		return nil, fmt.Errorf("ssdp search failed: %w", err)
	}

	logging.Debug("SSDP search finished", zap.Int("responses", len(services)))

	// Receivers answer once per network interface; collapse by host
	byHost := make(map[string]DiscoveredDevice)
	for _, svc := range services {
		host := hostFromLocation(svc.Location)
		if host == "" {
			continue
		}
		if _, ok := byHost[host]; ok {
			continue
		}

		desc, err := fetchDescription(ctx, d.HTTPClient, svc.Location)
		if err != nil {
			logging.Debug("Description fetch failed during discovery",
				zap.String("location", svc.Location), zap.Error(err))
			continue
		}
		if !IsSupportedManufacturer(desc.Manufacturer) {
			logging.Debug("Skipping unsupported device",
				zap.String("host", host),
				zap.String("manufacturer", desc.Manufacturer))
			continue
		}

		byHost[host] = DiscoveredDevice{
			Host:         host,
			FriendlyName: desc.FriendlyName,
			ModelName:    desc.ModelName,
			Manufacturer: desc.Manufacturer,
			SerialNumber: desc.SerialNumber,
			Location:     svc.Location,
			DiscoveredAt: time.Now(),
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}

	devices := make([]DiscoveredDevice, 0, len(byHost))
	for _, dev := range byHost {
		devices = append(devices, dev)
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].Host < devices[j].Host })

	logging.Info("Discovery finished", zap.Int("receivers", len(devices)))
	return devices, nil
}

// Discover is a convenience wrapper running one search with the given timeout
func Discover(ctx context.Context, timeout time.Duration) ([]DiscoveredDevice, error) {
	d := NewDiscoverer()
	if timeout > 0 {
		d.Timeout = timeout
	}
	return d.Discover(ctx)
}

// hostFromLocation extracts the host part of an SSDP location URL
func hostFromLocation(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
