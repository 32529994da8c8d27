package avr

import (
	"testing"
)

func TestIsSupportedManufacturer(t *testing.T) {
	tests := []struct {
		manufacturer string
		supported    bool
	}{
		{"Denon", true},
		{"DENON", true},
		{"Marantz", true},
		{"denon", false}, // matching is case sensitive
		{"MARANTZ", false},
		{"Sony Corporation", false},
		{"Samsung Electronics", false},
		{"", false},
		{"Denon ", false}, // no trimming
	}

	for _, tt := range tests {
		t.Run(tt.manufacturer, func(t *testing.T) {
			if got := IsSupportedManufacturer(tt.manufacturer); got != tt.supported {
				t.Errorf("IsSupportedManufacturer(%q) = %v, want %v", tt.manufacturer, got, tt.supported)
			}
		})
	}
}

func TestSSDPDiscoveryHost(t *testing.T) {
	tests := []struct {
		name     string
		location string
		expected string
	}{
		{"Standard description URL", "http://192.168.1.100:8080/description.xml", "192.168.1.100"},
		{"HEOS stack URL", "http://192.168.1.100:60006/upnp/desc/aios_device/aios_device.xml", "192.168.1.100"},
		{"Hostname location", "http://avr-x1500h.local:8080/description.xml", "avr-x1500h.local"},
		{"No port", "http://192.168.1.100/description.xml", "192.168.1.100"},
		{"Unparseable location", "http://bad host/desc.xml", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &SSDPDiscovery{Location: tt.location}
			if got := d.Host(); got != tt.expected {
				t.Errorf("Host() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestReceiverString(t *testing.T) {
	r := &Receiver{
		Host:         "192.168.1.100",
		Type:         ReceiverTypeAVRX2016,
		Manufacturer: "Denon",
		ModelName:    "AVR-X1500H",
		SerialNumber: "0123456789",
	}

	s := r.String()
	if s != "Denon AVR-X1500H (serial: 0123456789, type: avr-x-2016) at 192.168.1.100" {
		t.Errorf("String() = %q", s)
	}
}

func TestDiscoveredDeviceString(t *testing.T) {
	withName := &DiscoveredDevice{
		Host:         "192.168.1.100",
		FriendlyName: "Living Room",
		Manufacturer: "Denon",
		ModelName:    "AVR-X1500H",
	}
	if withName.String() != "Living Room at 192.168.1.100" {
		t.Errorf("String() = %q, want friendly name form", withName.String())
	}

	withoutName := &DiscoveredDevice{
		Host:         "192.168.1.100",
		Manufacturer: "Marantz",
		ModelName:    "SR6012",
	}
	if withoutName.String() != "Marantz SR6012 at 192.168.1.100" {
		t.Errorf("String() = %q, want model form", withoutName.String())
	}
}
