package avr

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func TestParseHEOSEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantName string
		wantIP   string
		wantPort int
	}{
		{
			name: "HEOS receiver with IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "ACT0005CD123456.local.",
				Port:     10101,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.100")},
				Text:     []string{"did=ACT0005CD123456", "model=AVR-X1500H", "vers=3", "networkid=0005cd123456"},
			},
			wantNil:  false,
			wantName: "",
			wantIP:   "192.168.1.100",
			wantPort: 10101,
		},
		{
			name: "IPv6 only receiver",
			entry: &zeroconf.ServiceEntry{
				HostName: "ACT0005CD654321.local.",
				Port:     10101,
				AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
			},
			wantNil:  false,
			wantIP:   "fe80::1",
			wantPort: 10101,
		},
		{
			name: "both families prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				HostName: "ACT0005CDAABBCC.local.",
				Port:     10101,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6: []net.IP{net.ParseIP("fe80::2")},
			},
			wantNil:  false,
			wantIP:   "192.168.1.50",
			wantPort: 10101,
		},
		{
			name: "no address at all",
			entry: &zeroconf.ServiceEntry{
				HostName: "ACT0005CD000000.local.",
				Port:     10101,
				AddrIPv4: []net.IP{},
				AddrIPv6: []net.IP{},
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := parseHEOSEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Errorf("parseHEOSEntry() = %v, want nil", device)
				}
				return
			}

			if device == nil {
				t.Fatal("parseHEOSEntry() = nil, want device")
			}

			if device.IP != tt.wantIP {
				t.Errorf("device.IP = %v, want %v", device.IP, tt.wantIP)
			}

			if device.Port != tt.wantPort {
				t.Errorf("device.Port = %v, want %v", device.Port, tt.wantPort)
			}

			if device.Hostname != tt.entry.HostName {
				t.Errorf("device.Hostname = %v, want %v", device.Hostname, tt.entry.HostName)
			}

			if time.Since(device.DiscoveredAt) > time.Second {
				t.Errorf("device.DiscoveredAt is not recent: %v", device.DiscoveredAt)
			}
		})
	}
}

func TestParseHEOSEntry_Metadata(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		HostName: "ACT0005CD123456.local.",
		Port:     10101,
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.100")},
		Text:     []string{"did=ACT0005CD123456", "model=AVR-X1500H", "flag", "vers=3"},
	}
	entry.Instance = "Living Room"

	device := parseHEOSEntry(entry)
	if device == nil {
		t.Fatal("parseHEOSEntry() = nil, want device")
	}

	if device.Name != "Living Room" {
		t.Errorf("device.Name = %q, want Living Room", device.Name)
	}

	expectedMetadata := map[string]string{
		"did":   "ACT0005CD123456",
		"model": "AVR-X1500H",
		"flag":  "", // Key without value
		"vers":  "3",
	}

	if len(device.Metadata) != len(expectedMetadata) {
		t.Errorf("device.Metadata has %d entries, want %d", len(device.Metadata), len(expectedMetadata))
	}

	for key, expectedValue := range expectedMetadata {
		if actualValue, ok := device.Metadata[key]; !ok {
			t.Errorf("device.Metadata missing key %q", key)
		} else if actualValue != expectedValue {
			t.Errorf("device.Metadata[%q] = %q, want %q", key, actualValue, expectedValue)
		}
	}

	if device.GetMetadata("model") != "AVR-X1500H" {
		t.Errorf("GetMetadata(model) = %q, want AVR-X1500H", device.GetMetadata("model"))
	}

	if device.GetMetadata("missing") != "" {
		t.Errorf("GetMetadata(missing) = %q, want empty", device.GetMetadata("missing"))
	}
}

func TestHEOSDeviceString(t *testing.T) {
	withModel := &HEOSDevice{
		Name: "Living Room",
		IP:   "192.168.1.100",
		Port: 10101,
		Metadata: map[string]string{
			"model": "AVR-X1500H",
		},
	}
	if withModel.String() != "Living Room (AVR-X1500H) at 192.168.1.100:10101" {
		t.Errorf("String() = %q", withModel.String())
	}

	withoutModel := &HEOSDevice{
		Name: "Kitchen",
		IP:   "192.168.1.101",
		Port: 10101,
	}
	if withoutModel.String() != "Kitchen at 192.168.1.101:10101" {
		t.Errorf("String() = %q", withoutModel.String())
	}
}

func TestNewHEOSBrowser(t *testing.T) {
	b := NewHEOSBrowser()

	if b == nil {
		t.Fatal("NewHEOSBrowser() = nil, want browser")
	}

	if b.Timeout != DefaultHEOSBrowseTimeout {
		t.Errorf("Timeout = %v, want %v", b.Timeout, DefaultHEOSBrowseTimeout)
	}
}
