package avr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/koron/go-ssdp"
	"go.uber.org/zap"

	"github.com/dalymople/avrsetup/internal/logging"
)

// MediaRendererST is the SSDP search target receivers answer to. Receivers
// announce several device types; MediaRenderer is the one common to every
// generation.
const MediaRendererST = "urn:schemas-upnp-org:device:MediaRenderer:1"

const (
	// descriptionTimeout bounds a single description fetch during discovery
	descriptionTimeout = 5 * time.Second

	// announceSuppress collapses the announcement bursts receivers send on
	// power-up: repeats for the same location within this window are dropped
	announceSuppress = 30 * time.Second
)

// fetchDescription retrieves and parses the UPnP device description at
// location.
func fetchDescription(ctx context.Context, client *http.Client, location string) (*DeviceDescription, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create description request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("description fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("description fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}

	return ParseDescription(body)
}

// Watcher listens for unsolicited SSDP alive announcements and resolves
// MediaRenderer announcements into SSDPDiscovery payloads. One Watcher per
// process; Start may be called once.
type Watcher struct {
	// HTTPClient fetches device descriptions from announcement locations
	HTTPClient *http.Client

	monitor  *ssdp.Monitor
	payloads chan SSDPDiscovery
	done     chan struct{}

	mu       sync.Mutex
	wg       sync.WaitGroup
	lastSeen map[string]time.Time
	closed   bool
}

// NewWatcher creates a watcher with default settings
func NewWatcher() *Watcher {
	return &Watcher{
		HTTPClient: &http.Client{Timeout: descriptionTimeout},
		payloads:   make(chan SSDPDiscovery, 16),
		done:       make(chan struct{}),
		lastSeen:   make(map[string]time.Time),
	}
}

// Start begins monitoring and returns the payload channel. The channel is
// closed when the context ends or Close is called.
func (w *Watcher) Start(ctx context.Context) (<-chan SSDPDiscovery, error) {
	w.monitor = &ssdp.Monitor{
		Alive: w.onAlive,
	}
	if err := w.monitor.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ssdp monitor: %w", err)
	}

	logging.Info("SSDP monitor started")

	go func() {
		<-ctx.Done()
		w.Close()
	}()

	return w.payloads, nil
}

// Close stops the monitor, waits for in-flight resolutions and closes the
// payload channel. Safe to call more than once.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	if w.monitor != nil {
		_ = w.monitor.Close()
	}
	w.wg.Wait()
	close(w.payloads)
	logging.Info("SSDP monitor stopped")
}

// onAlive handles one alive announcement. Runs on the monitor's goroutine;
// the description fetch is handed off so slow devices cannot stall the
// monitor.
func (w *Watcher) onAlive(m *ssdp.AliveMessage) {
	if m.Type != MediaRendererST {
		return
	}
	if !w.claim(m.Location) {
		return
	}

	logging.Debug("SSDP alive announcement",
		zap.String("location", m.Location),
		zap.String("usn", m.USN),
	)

	go func() {
		defer w.wg.Done()
		w.resolve(m.Location)
	}()
}

// claim suppresses announcement bursts and registers an in-flight resolution
// with the waitgroup. Returns false when closed or recently seen.
func (w *Watcher) claim(location string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false
	}
	if last, ok := w.lastSeen[location]; ok && time.Since(last) < announceSuppress {
		return false
	}
	w.lastSeen[location] = time.Now()
	w.wg.Add(1)
	return true
}

func (w *Watcher) resolve(location string) {
	ctx, cancel := context.WithTimeout(context.Background(), descriptionTimeout)
	defer cancel()

	desc, err := fetchDescription(ctx, w.HTTPClient, location)
	if err != nil {
		logging.Debug("Announcement description fetch failed",
			zap.String("location", location), zap.Error(err))
		return
	}

	payload := SSDPDiscovery{
		Manufacturer: desc.Manufacturer,
		ModelName:    desc.ModelName,
		SerialNumber: desc.SerialNumber,
		Location:     location,
	}

	select {
	case w.payloads <- payload:
	case <-w.done:
	}
}
