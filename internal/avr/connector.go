package avr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dalymople/avrsetup/internal/logging"
	"github.com/dalymople/avrsetup/internal/netid"
)

const (
	// DefaultTimeout is the default timeout for a single receiver request
	DefaultTimeout = 2 * time.Second

	// maxResponseSize caps how much of a response body is read. Receiver
	// documents are a few KB; anything larger is not a receiver.
	maxResponseSize = 1 << 20
)

// Connector performs the one-shot connect-and-identify call against a
// receiver. It is configured once and used for a single Connect; there is no
// session to keep open and no retry policy.
type Connector struct {
	// Host is the receiver address (IP or hostname)
	Host string

	// Timeout applies to each HTTP request the connect performs
	Timeout time.Duration

	// ShowAllSources is recorded on the resulting receiver handle
	ShowAllSources bool

	// Zone2 and Zone3 request a capability read of the respective zone
	Zone2 bool
	Zone3 bool

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// Port layout, overridable in tests
	statusPortX     int
	statusPortX2016 int
	descPort        int
	aiosPort        int
}

// NewConnector creates a connector for host with the collected settings.
// timeout applies per request; zero means DefaultTimeout.
func NewConnector(host string, timeout time.Duration, showAllSources, zone2, zone3 bool) *Connector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Connector{
		Host:            host,
		Timeout:         timeout,
		ShowAllSources:  showAllSources,
		Zone2:           zone2,
		Zone3:           zone3,
		HTTPClient:      &http.Client{Timeout: timeout},
		statusPortX:     PortAVRX,
		statusPortX2016: PortAVRX2016,
		descPort:        PortDescription,
		aiosPort:        PortAiosDescription,
	}
}

// Connect probes the receiver generations in order, reads back the identity
// fields and returns the receiver handle. Any failure to identify the host as
// a supported receiver is returned as a classified *DeviceError.
func (c *Connector) Connect(ctx context.Context) (*Receiver, error) {
	recv := &Receiver{
		Host:           c.Host,
		ShowAllSources: c.ShowAllSources,
	}

	info, err := c.identify(ctx, recv)
	if err != nil {
		return nil, err
	}

	if err := c.readDescription(ctx, recv, info); err != nil {
		return nil, err
	}

	c.readZones(ctx, recv)

	logging.Debug("Receiver connected",
		zap.String("host", recv.Host),
		zap.String("type", string(recv.Type)),
		zap.String("model", recv.ModelName),
		zap.String("serial", recv.SerialNumber),
	)
	return recv, nil
}

// identify decides the receiver generation by probing the status endpoints.
// Returns the parsed device info for AVR-X generations, nil for legacy.
func (c *Connector) identify(ctx context.Context, recv *Receiver) (*DeviceInfo, error) {
	// AVR-X 2016+ first: those models answer only on port 8080
	if body, err := c.get(ctx, c.statusPortX2016, EndpointDeviceInfo); err == nil {
		if info, perr := ParseDeviceInfo(body); perr == nil {
			recv.Type = ReceiverTypeAVRX2016
			return info, nil
		}
	}

	if body, err := c.get(ctx, c.statusPortX, EndpointDeviceInfo); err == nil {
		if info, perr := ParseDeviceInfo(body); perr == nil {
			recv.Type = ReceiverTypeAVRX
			return info, nil
		}
	}

	// Legacy fallback: the main zone status page is the only identification
	// source on receivers without Deviceinfo.xml
	body, err := c.get(ctx, c.statusPortX, EndpointMainZoneStatus)
	if err != nil {
		return nil, err
	}
	status, err := ParseZoneStatus(body)
	if err != nil {
		return nil, NewParseError("main zone status is not a receiver document", err, c.Host)
	}
	if status.FriendlyName == "" {
		return nil, NewNotReceiverError("main zone status has no receiver name", c.Host)
	}

	recv.Type = ReceiverTypeAVR
	recv.Name = status.FriendlyName
	return nil, nil
}

// readDescription fills identity fields from the UPnP device description.
// For AVR-X generations the description is best effort (Deviceinfo already
// provided the model); legacy receivers require it because it is their only
// source of model and manufacturer.
func (c *Connector) readDescription(ctx context.Context, recv *Receiver, info *DeviceInfo) error {
	if info != nil {
		recv.ModelName = info.ModelName
		if recv.ModelName == "" {
			recv.ModelName = info.ManualModelName
		}
		recv.Manufacturer = info.BrandName()
		if info.MacAddress != "" {
			recv.MacAddress = netid.FormatMAC(info.MacAddress)
		}
	}

	port, path := c.descPort, EndpointDescription
	if recv.Type == ReceiverTypeAVRX2016 {
		port, path = c.aiosPort, EndpointAiosDescription
	}

	body, err := c.get(ctx, port, path)
	if err != nil {
		if recv.Type == ReceiverTypeAVR {
			return NewNotReceiverError("legacy receiver has no device description", c.Host)
		}
		logging.Debug("Device description unavailable",
			zap.String("host", c.Host), zap.Error(err))
		return nil
	}

	desc, err := ParseDescription(body)
	if err != nil {
		if recv.Type == ReceiverTypeAVR {
			return NewParseError("device description did not parse", err, c.Host)
		}
		logging.Debug("Device description did not parse",
			zap.String("host", c.Host), zap.Error(err))
		return nil
	}

	if desc.FriendlyName != "" {
		recv.Name = desc.FriendlyName
	}
	if desc.SerialNumber != "" {
		recv.SerialNumber = desc.SerialNumber
	}
	if desc.Manufacturer != "" {
		recv.Manufacturer = desc.Manufacturer
	}
	if recv.ModelName == "" {
		recv.ModelName = desc.ModelName
	}
	return nil
}

// readZones confirms requested zones by reading their status pages.
// Zone read failures are logged and leave the zone unavailable; they never
// fail the connect.
func (c *Connector) readZones(ctx context.Context, recv *Receiver) {
	port := c.statusPortX
	if recv.Type == ReceiverTypeAVRX2016 {
		port = c.statusPortX2016
	}

	if c.Zone2 {
		recv.Zone2Available = c.zoneAnswers(ctx, port, EndpointZone2Status)
	}
	if c.Zone3 {
		recv.Zone3Available = c.zoneAnswers(ctx, port, EndpointZone3Status)
	}
}

func (c *Connector) zoneAnswers(ctx context.Context, port int, path string) bool {
	body, err := c.get(ctx, port, path)
	if err != nil {
		logging.Warn("Zone status read failed",
			zap.String("host", c.Host), zap.String("endpoint", path), zap.Error(err))
		return false
	}
	if _, err := ParseZoneStatus(body); err != nil {
		logging.Warn("Zone status did not parse",
			zap.String("host", c.Host), zap.String("endpoint", path), zap.Error(err))
		return false
	}
	return true
}

// get performs a single GET against the receiver and returns the body.
// Errors are classified.
func (c *Connector) get(ctx context.Context, port int, path string) ([]byte, error) {
	url := fmt.Sprintf("http://%s:%d%s", c.Host, port, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewNetworkError("failed to create request", err, c.Host)
	}

	resp, err := c.HTTPClient.Do(req)
	logging.LogDeviceProbe(c.Host, path, err)
	if err != nil {
		return nil, NewNetworkError("request failed", err, c.Host)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(resp.StatusCode,
			fmt.Sprintf("unexpected status code: %d", resp.StatusCode), c.Host)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err, c.Host)
	}
	return body, nil
}
