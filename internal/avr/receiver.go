package avr

import (
	"fmt"
	"net/url"
	"time"
)

// ReceiverType identifies the HTTP API generation of a receiver.
type ReceiverType string

const (
	// ReceiverTypeAVR is a legacy receiver without Deviceinfo.xml support
	ReceiverTypeAVR ReceiverType = "avr"

	// ReceiverTypeAVRX is an AVR-X model with Deviceinfo.xml on port 80
	ReceiverTypeAVRX ReceiverType = "avr-x"

	// ReceiverTypeAVRX2016 is a 2016+ AVR-X model with Deviceinfo.xml on port 8080
	ReceiverTypeAVRX2016 ReceiverType = "avr-x-2016"
)

// SupportedManufacturers lists the manufacturer strings accepted from UPnP
// device descriptions. Matching is exact and case sensitive; receivers report
// either spelling of Denon depending on firmware vintage.
var SupportedManufacturers = []string{"Denon", "DENON", "Marantz"}

// IsSupportedManufacturer reports whether the given manufacturer string is on
// the supported list. The comparison is case sensitive.
func IsSupportedManufacturer(manufacturer string) bool {
	for _, m := range SupportedManufacturers {
		if manufacturer == m {
			return true
		}
	}
	return false
}

// Receiver is the in-memory handle returned by a successful Connect.
// It carries the identity fields read back from the device; it is not a
// live connection and holds no resources.
type Receiver struct {
	// Host is the address the receiver was reached at
	Host string

	// Type is the API generation that answered the probe
	Type ReceiverType

	// Name is the friendly name from the UPnP description or the main zone
	// status page (e.g. "Denon AVR-X1500H"). May be empty on sparse firmware.
	Name string

	// ModelName is the model as reported by the device. Feature-limited SKUs
	// carry a leading asterisk (e.g. "*AVR-X1500H"); callers that build an
	// identity from the model strip it.
	ModelName string

	// SerialNumber from the UPnP description. Empty when the description was
	// unavailable; callers fall back to the MAC address for identity.
	SerialNumber string

	// Manufacturer as reported by the device ("Denon", "DENON" or "Marantz")
	Manufacturer string

	// MacAddress as reported by Deviceinfo.xml, canonical colon form.
	// Empty for legacy receivers. Informational only; identity fallback uses
	// network-level resolution instead.
	MacAddress string

	// ShowAllSources mirrors the connector setting for downstream consumers
	ShowAllSources bool

	// Zone2Available and Zone3Available are set when the corresponding zone
	// was requested and its status page answered
	Zone2Available bool
	Zone3Available bool
}

// String returns a human-readable one-line summary of the receiver
func (r *Receiver) String() string {
	return fmt.Sprintf("%s %s (serial: %s, type: %s) at %s",
		r.Manufacturer, r.ModelName, r.SerialNumber, r.Type, r.Host)
}

// DiscoveredDevice is one candidate found by active discovery.
type DiscoveredDevice struct {
	// Host is the IPv4 address or hostname of the device
	Host string

	// FriendlyName from the UPnP description (e.g. "Denon AVR-X1500H")
	FriendlyName string

	// ModelName as reported, asterisk included when present
	ModelName string

	// Manufacturer as reported
	Manufacturer string

	// SerialNumber from the UPnP description, may be empty
	SerialNumber string

	// Location is the description URL from the SSDP response
	Location string

	// DiscoveredAt is when the device answered the search
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *DiscoveredDevice) String() string {
	if d.FriendlyName != "" {
		return fmt.Sprintf("%s at %s", d.FriendlyName, d.Host)
	}
	return fmt.Sprintf("%s %s at %s", d.Manufacturer, d.ModelName, d.Host)
}

// SSDPDiscovery is the payload built from an unsolicited SSDP announcement:
// the device description fields plus the announcement location. This is the
// input to the flow's passive entry point.
type SSDPDiscovery struct {
	// Manufacturer, ModelName and SerialNumber from the device description.
	// Any of them may be empty when the description omits the field.
	Manufacturer string
	ModelName    string
	SerialNumber string

	// Location is the announcement's description URL
	// (e.g. "http://192.168.1.100:8080/description.xml")
	Location string
}

// Host extracts the host part of the announcement location.
// Returns an empty string when the location does not parse as a URL.
func (s *SSDPDiscovery) Host() string {
	u, err := url.Parse(s.Location)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
