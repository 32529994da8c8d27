package flow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dalymople/avrsetup/internal/avr"
	"github.com/dalymople/avrsetup/internal/entries"
	"github.com/dalymople/avrsetup/internal/netid"
)

// Settings form defaults.
const (
	DefaultTimeout        = 2
	DefaultShowAllSources = false
	DefaultZone2          = false
	DefaultZone3          = false
)

// Discoverer finds candidate receivers on the local network.
type Discoverer interface {
	Discover(ctx context.Context) ([]avr.DiscoveredDevice, error)
}

// Connector validates reachability of one receiver and reads back its
// identity.
type Connector interface {
	Connect(ctx context.Context) (*avr.Receiver, error)
}

// ConnectorFactory builds a Connector for the host and settings the flow
// has collected.
type ConnectorFactory func(host string, timeout time.Duration, showAllSources, zone2, zone3 bool) Connector

// MACResolver looks up the hardware address behind a host.
type MACResolver interface {
	ByIP(ctx context.Context, addr string) netid.Result
	ByHostname(ctx context.Context, hostname string) netid.Result
}

// EntryStore persists finished entries. *entries.Store satisfies it.
type EntryStore interface {
	Create(e entries.Entry) (*entries.Entry, error)
	UpdateHost(uniqueID, host string) (bool, error)
}

// UserInput is the submission of the user form.
type UserInput struct {
	// Host entered manually; empty runs discovery instead
	Host string `json:"host"`
}

// SelectInput is the submission of the select form.
type SelectInput struct {
	SelectHost string `json:"select_host"`
}

// SettingsInput is the submission of the settings form.
type SettingsInput struct {
	// Timeout is the connection timeout in seconds, minimum 1
	Timeout        int  `json:"timeout"`
	ShowAllSources bool `json:"show_all_sources"`
	Zone2          bool `json:"zone2"`
	Zone3          bool `json:"zone3"`
}

// DefaultSettings returns the settings form defaults. Frontends prefill
// their forms from it; the server decodes submissions over it so omitted
// fields keep their defaults.
func DefaultSettings() SettingsInput {
	return SettingsInput{
		Timeout:        DefaultTimeout,
		ShowAllSources: DefaultShowAllSources,
		Zone2:          DefaultZone2,
		Zone3:          DefaultZone3,
	}
}

// Manager creates and tracks flow instances and owns the collaborators
// they run against. The collaborator fields are wired to the real network
// implementations by NewManager and may be replaced before use.
type Manager struct {
	// Store persists finished entries
	Store EntryStore

	// Discoverer runs the active scan for the user step
	Discoverer Discoverer

	// Connect builds the receiver connector for the connect stage
	Connect ConnectorFactory

	// Resolver performs the best-effort MAC lookup
	Resolver MACResolver

	mu    sync.Mutex
	flows map[string]*Flow
}

// NewManager returns a Manager backed by the real network collaborators.
func NewManager(store EntryStore) *Manager {
	return &Manager{
		Store:      store,
		Discoverer: avr.NewDiscoverer(),
		Connect: func(host string, timeout time.Duration, showAllSources, zone2, zone3 bool) Connector {
			return avr.NewConnector(host, timeout, showAllSources, zone2, zone3)
		},
		Resolver: netid.NewResolver(),
		flows:    make(map[string]*Flow),
	}
}

// NewFlow creates and registers a fresh flow instance.
func (m *Manager) NewFlow() *Flow {
	f := &Flow{
		ID:      uuid.New().String(),
		manager: m,
	}

	m.mu.Lock()
	m.flows[f.ID] = f
	m.mu.Unlock()

	return f
}

// Get returns the registered flow with the given id.
func (m *Manager) Get(id string) (*Flow, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.flows[id]
	return f, ok
}

// Dispose removes a finished or abandoned flow instance.
func (m *Manager) Dispose(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.flows, id)
}

// Flow is one in-progress setup attempt. Handlers mutate the pending
// record step by step until the flow either aborts or becomes an entry.
// A mutex serializes step execution per instance.
type Flow struct {
	// ID identifies the instance towards frontends
	ID string

	manager *Manager

	mu             sync.Mutex
	host           string
	serialNumber   string
	modelName      string
	timeout        int
	showAllSources bool
	zone2          bool
	zone3          bool
	candidates     []avr.DiscoveredDevice
}

// Start returns the first form of the flow.
func (f *Flow) Start() Result {
	return ShowForm{Step: StepUser}
}

// Host returns the receiver host the flow has settled on. Empty until the
// user, select, or discovery announcement step records one.
func (f *Flow) Host() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.host
}

// Candidates returns the receivers offered by the select step. Frontends
// use it to show more than the bare hosts carried in the form result.
func (f *Flow) Candidates() []avr.DiscoveredDevice {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]avr.DiscoveredDevice, len(f.candidates))
	copy(out, f.candidates)
	return out
}

func (f *Flow) candidateHosts() []string {
	hosts := make([]string, 0, len(f.candidates))
	for _, d := range f.candidates {
		hosts = append(hosts, d.Host)
	}
	return hosts
}
