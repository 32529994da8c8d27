package entries

import "time"

// registry represents the entire entries file.
type registry struct {
	Version     int               `yaml:"version"`
	Entries     map[string]*Entry `yaml:"entries,omitempty"` // Keyed by unique ID
	Preferences *Preferences      `yaml:"preferences,omitempty"`
}

// Entry is one paired receiver.
type Entry struct {
	// Title is the display name, taken from the receiver's friendly name
	// at pairing time (e.g. "Denon AVR-X1500H")
	Title string `yaml:"title"`

	// UniqueID identifies the physical device across address changes.
	// It is the model-serial pair, with the MAC address standing in for
	// the serial on receivers that do not report one.
	UniqueID string `yaml:"unique_id"`

	// CreatedAt is when the entry was paired
	CreatedAt time.Time `yaml:"created_at"`

	// Data is everything needed to reconnect to the receiver
	Data EntryData `yaml:"data"`
}

// EntryData is the connection data persisted for a paired receiver.
type EntryData struct {
	Host           string `yaml:"host"`                // Address the receiver was paired at
	MacAddress     string `yaml:"mac,omitempty"`       // Canonical colon form, may be empty
	Timeout        int    `yaml:"timeout"`             // Request timeout in seconds
	ShowAllSources bool   `yaml:"show_all_sources"`    // Include hidden input sources
	Zone2          bool   `yaml:"zone2"`               // Set up additional zone 2
	Zone3          bool   `yaml:"zone3"`               // Set up additional zone 3
	ReceiverType   string `yaml:"type"`                // API generation ("avr", "avr-x", "avr-x-2016")
	Model          string `yaml:"model"`               // Model name, asterisk prefix stripped
	Manufacturer   string `yaml:"manufacturer"`        // "Denon", "DENON" or "Marantz"
	SerialNumber   string `yaml:"serial_number,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	// AutoDiscover runs a discovery scan when the wizard starts
	AutoDiscover bool `yaml:"auto_discover"`

	// DiscoverTimeout is the discovery scan timeout in seconds
	DiscoverTimeout int `yaml:"discover_timeout"`

	// DefaultTimeout is the receiver request timeout prefilled in the
	// settings step, in seconds
	DefaultTimeout int `yaml:"default_timeout"`
}

// newRegistry creates a registry with default values.
func newRegistry() *registry {
	return &registry{
		Version:     1,
		Entries:     make(map[string]*Entry),
		Preferences: defaultPreferences(),
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		AutoDiscover:    true,
		DiscoverTimeout: 5,
		DefaultTimeout:  2,
	}
}
