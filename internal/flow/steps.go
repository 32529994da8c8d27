package flow

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dalymople/avrsetup/internal/avr"
	"github.com/dalymople/avrsetup/internal/entries"
	"github.com/dalymople/avrsetup/internal/logging"
	"github.com/dalymople/avrsetup/internal/netid"
)

// ConstructUniqueID derives the stable identity "<model>-<serial>" for a
// receiver. Asterisks in the model name mark feature-limited variants of
// the same hardware and are not part of the identity, so they are
// stripped here.
func ConstructUniqueID(modelName, serialNumber string) string {
	return strings.ReplaceAll(modelName, "*", "") + "-" + serialNumber
}

// HandleUser executes the user step. A manually entered host advances to
// the settings form directly; an empty submission runs active discovery
// and branches on the number of receivers found. Discovery failures are
// treated like zero results: the form is re-shown with an inline error.
func (f *Flow) HandleUser(ctx context.Context, input UserInput) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	if input.Host != "" {
		f.host = input.Host
		return ShowForm{Step: StepSettings}
	}

	devices, err := f.manager.Discoverer.Discover(ctx)
	if err != nil {
		logging.Error("Receiver discovery failed", zap.Error(err))
		devices = nil
	}

	if len(devices) == 1 {
		f.host = devices[0].Host
		return ShowForm{Step: StepSettings}
	}
	if len(devices) > 1 {
		f.candidates = devices
		return ShowForm{Step: StepSelect, Hosts: f.candidateHosts()}
	}

	return ShowForm{
		Step:   StepUser,
		Errors: map[string]string{"base": ErrorDiscovery},
	}
}

// HandleSelect executes the select step. The chosen host must be one of
// the discovered candidates; anything else re-shows the form.
func (f *Flow) HandleSelect(ctx context.Context, input SelectInput) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, d := range f.candidates {
		if d.Host == input.SelectHost {
			f.host = input.SelectHost
			return ShowForm{Step: StepSettings}
		}
	}

	return ShowForm{
		Step:   StepSelect,
		Errors: map[string]string{"select_host": ErrorInvalidHost},
		Hosts:  f.candidateHosts(),
	}
}

// HandleSettings executes the settings step and, on valid input, runs the
// connect stage immediately. Connect never renders a form of its own.
func (f *Flow) HandleSettings(ctx context.Context, input SettingsInput) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	if input.Timeout < 1 {
		return ShowForm{
			Step:   StepSettings,
			Errors: map[string]string{"timeout": ErrorInvalidTimeout},
		}
	}

	f.timeout = input.Timeout
	f.showAllSources = input.ShowAllSources
	f.zone2 = input.Zone2
	f.zone3 = input.Zone3

	return f.connect(ctx)
}

// HandleSSDP starts a flow from an unsolicited SSDP announcement.
// Announcements from other manufacturers or without the fields needed for
// an identity are rejected. A device that is already configured gets its
// entry's host refreshed to the announced address; a new device continues
// at the settings form.
func (f *Flow) HandleSSDP(ctx context.Context, payload avr.SSDPDiscovery) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !avr.IsSupportedManufacturer(payload.Manufacturer) {
		logging.Debug("Ignoring announcement from unsupported manufacturer",
			zap.String("manufacturer", payload.Manufacturer),
			zap.String("location", payload.Location))
		return Abort{Reason: AbortWrongManufacturer}
	}

	if payload.ModelName == "" || payload.SerialNumber == "" {
		logging.Debug("Ignoring announcement without model or serial",
			zap.String("location", payload.Location))
		return Abort{Reason: AbortMissingDetails}
	}

	f.modelName = strings.ReplaceAll(payload.ModelName, "*", "")
	f.serialNumber = payload.SerialNumber
	f.host = payload.Host()

	uniqueID := ConstructUniqueID(f.modelName, f.serialNumber)
	updated, err := f.manager.Store.UpdateHost(uniqueID, f.host)
	if err != nil {
		logging.Error("Failed to refresh entry host",
			zap.String("unique_id", uniqueID), zap.Error(err))
	}
	if updated {
		return Abort{Reason: AbortAlreadyConfigured}
	}

	return ShowForm{Step: StepSettings}
}

// connect runs the terminal stage: open the control connection, resolve
// the identity and persist the entry. Callers hold f.mu.
func (f *Flow) connect(ctx context.Context) Result {
	conn := f.manager.Connect(f.host, time.Duration(f.timeout)*time.Second,
		f.showAllSources, f.zone2, f.zone3)

	receiver, err := conn.Connect(ctx)
	if err != nil {
		logging.Error("Receiver connection failed",
			zap.String("host", f.host), zap.Error(err))
		return Abort{Reason: AbortConnectionError}
	}

	mac := f.resolveMAC(ctx, f.host)

	if f.serialNumber == "" {
		f.serialNumber = receiver.SerialNumber
	}
	if f.modelName == "" {
		f.modelName = strings.ReplaceAll(receiver.ModelName, "*", "")
	}

	// The serial number reported by the device, as opposed to the MAC
	// standing in for one below
	reportedSerial := f.serialNumber

	if f.serialNumber == "" {
		logging.Error("Could not get serial number, using the mac address as identification",
			zap.String("host", f.host))
		if mac == "" {
			return Abort{Reason: AbortNoMAC}
		}
		f.serialNumber = mac
	}

	uniqueID := ConstructUniqueID(f.modelName, f.serialNumber)

	entry, err := f.manager.Store.Create(entries.Entry{
		Title:    receiver.Name,
		UniqueID: uniqueID,
		Data: entries.EntryData{
			Host:           f.host,
			MacAddress:     mac,
			Timeout:        f.timeout,
			ShowAllSources: f.showAllSources,
			Zone2:          f.zone2,
			Zone3:          f.zone3,
			ReceiverType:   string(receiver.Type),
			Model:          f.modelName,
			Manufacturer:   receiver.Manufacturer,
			SerialNumber:   reportedSerial,
		},
	})
	if err != nil {
		if errors.Is(err, entries.ErrAlreadyConfigured) {
			return Abort{Reason: AbortAlreadyConfigured}
		}
		logging.Error("Failed to persist entry",
			zap.String("unique_id", uniqueID), zap.Error(err))
		return Abort{Reason: AbortUnknown}
	}

	logging.Info("Setup entry created",
		zap.String("unique_id", entry.UniqueID),
		zap.String("host", entry.Data.Host),
		zap.String("type", entry.Data.ReceiverType))

	return Created{Entry: entry}
}

// resolveMAC performs the best-effort MAC lookup: by IP first, then by
// hostname. Lookup failures are logged and swallowed; the empty string
// means no address was obtained.
func (f *Flow) resolveMAC(ctx context.Context, host string) string {
	res := f.manager.Resolver.ByIP(ctx, host)
	if res.Status != netid.StatusFound {
		if res.Status == netid.StatusError {
			logging.Error("Unable to get mac address",
				zap.String("host", host), zap.Error(res.Err))
		}
		res = f.manager.Resolver.ByHostname(ctx, host)
	}

	switch res.Status {
	case netid.StatusFound:
		return res.MAC
	case netid.StatusError:
		logging.Error("Unable to get mac address",
			zap.String("host", host), zap.Error(res.Err))
	}
	return ""
}
