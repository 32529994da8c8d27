package flow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dalymople/avrsetup/internal/avr"
	"github.com/dalymople/avrsetup/internal/entries"
	"github.com/dalymople/avrsetup/internal/netid"
)

func TestStart(t *testing.T) {
	m, _ := testManager(t)
	f := m.NewFlow()

	res := f.Start()
	form, ok := res.(ShowForm)
	if !ok {
		t.Fatalf("Start() returned %T, want ShowForm", res)
	}
	if form.Step != StepUser {
		t.Errorf("Start() step = %v, want %v", form.Step, StepUser)
	}
	if len(form.Errors) != 0 {
		t.Errorf("Start() errors = %v, want none", form.Errors)
	}
}

func TestHandleUser_ManualHost(t *testing.T) {
	m, _ := testManager(t)
	fd := &fakeDiscoverer{}
	m.Discoverer = fd
	f := m.NewFlow()

	res := f.HandleUser(context.Background(), UserInput{Host: "192.168.1.100"})

	form, ok := res.(ShowForm)
	if !ok {
		t.Fatalf("HandleUser() returned %T, want ShowForm", res)
	}
	if form.Step != StepSettings {
		t.Errorf("HandleUser() step = %v, want %v", form.Step, StepSettings)
	}
	if f.host != "192.168.1.100" {
		t.Errorf("flow host = %v, want 192.168.1.100", f.host)
	}
	if fd.calls != 0 {
		t.Errorf("discovery ran %d times with a manual host, want 0", fd.calls)
	}
}

func TestHandleUser_NoReceiversFound(t *testing.T) {
	m, _ := testManager(t)
	fd := &fakeDiscoverer{}
	m.Discoverer = fd
	f := m.NewFlow()

	res := f.HandleUser(context.Background(), UserInput{})

	form, ok := res.(ShowForm)
	if !ok {
		t.Fatalf("HandleUser() returned %T, want ShowForm", res)
	}
	if form.Step != StepUser {
		t.Errorf("HandleUser() step = %v, want %v", form.Step, StepUser)
	}
	if form.Errors["base"] != ErrorDiscovery {
		t.Errorf("HandleUser() errors = %v, want base=%v", form.Errors, ErrorDiscovery)
	}
	if fd.calls != 1 {
		t.Errorf("discovery ran %d times, want 1", fd.calls)
	}
}

func TestHandleUser_DiscoveryFailure(t *testing.T) {
	m, _ := testManager(t)
	m.Discoverer = &fakeDiscoverer{err: errors.New("network is down")}
	f := m.NewFlow()

	res := f.HandleUser(context.Background(), UserInput{})

	form, ok := res.(ShowForm)
	if !ok {
		t.Fatalf("HandleUser() returned %T, want ShowForm", res)
	}
	if form.Step != StepUser {
		t.Errorf("HandleUser() step = %v, want %v", form.Step, StepUser)
	}
	if form.Errors["base"] != ErrorDiscovery {
		t.Errorf("HandleUser() errors = %v, want base=%v", form.Errors, ErrorDiscovery)
	}
}

func TestHandleUser_SingleReceiver(t *testing.T) {
	m, _ := testManager(t)
	m.Discoverer = &fakeDiscoverer{devices: []avr.DiscoveredDevice{
		{Host: "192.168.1.40", FriendlyName: "Denon AVR-X1500H"},
	}}
	f := m.NewFlow()

	res := f.HandleUser(context.Background(), UserInput{})

	form, ok := res.(ShowForm)
	if !ok {
		t.Fatalf("HandleUser() returned %T, want ShowForm", res)
	}
	if form.Step != StepSettings {
		t.Errorf("HandleUser() step = %v, want %v", form.Step, StepSettings)
	}
	if f.host != "192.168.1.40" {
		t.Errorf("flow host = %v, want 192.168.1.40", f.host)
	}
}

func TestHandleUser_MultipleReceivers(t *testing.T) {
	m, _ := testManager(t)
	m.Discoverer = &fakeDiscoverer{devices: []avr.DiscoveredDevice{
		{Host: "192.168.1.40", FriendlyName: "Denon AVR-X1500H"},
		{Host: "192.168.1.41", FriendlyName: "Marantz SR6012"},
	}}
	f := m.NewFlow()

	res := f.HandleUser(context.Background(), UserInput{})

	form, ok := res.(ShowForm)
	if !ok {
		t.Fatalf("HandleUser() returned %T, want ShowForm", res)
	}
	if form.Step != StepSelect {
		t.Errorf("HandleUser() step = %v, want %v", form.Step, StepSelect)
	}
	wantHosts := []string{"192.168.1.40", "192.168.1.41"}
	if len(form.Hosts) != len(wantHosts) {
		t.Fatalf("HandleUser() hosts = %v, want %v", form.Hosts, wantHosts)
	}
	for i, want := range wantHosts {
		if form.Hosts[i] != want {
			t.Errorf("HandleUser() hosts[%d] = %v, want %v", i, form.Hosts[i], want)
		}
	}
	if f.host != "" {
		t.Errorf("flow host = %v, should stay empty until a choice is made", f.host)
	}
}

func TestHandleSelect_ValidChoice(t *testing.T) {
	m, _ := testManager(t)
	m.Discoverer = &fakeDiscoverer{devices: []avr.DiscoveredDevice{
		{Host: "192.168.1.40"},
		{Host: "192.168.1.41"},
	}}
	f := m.NewFlow()

	if _, ok := f.HandleUser(context.Background(), UserInput{}).(ShowForm); !ok {
		t.Fatal("HandleUser() should show the select form")
	}

	res := f.HandleSelect(context.Background(), SelectInput{SelectHost: "192.168.1.41"})

	form, ok := res.(ShowForm)
	if !ok {
		t.Fatalf("HandleSelect() returned %T, want ShowForm", res)
	}
	if form.Step != StepSettings {
		t.Errorf("HandleSelect() step = %v, want %v", form.Step, StepSettings)
	}
	if f.host != "192.168.1.41" {
		t.Errorf("flow host = %v, want 192.168.1.41", f.host)
	}
}

func TestHandleSelect_UnknownHost(t *testing.T) {
	m, _ := testManager(t)
	m.Discoverer = &fakeDiscoverer{devices: []avr.DiscoveredDevice{
		{Host: "192.168.1.40"},
		{Host: "192.168.1.41"},
	}}
	f := m.NewFlow()
	f.HandleUser(context.Background(), UserInput{})

	res := f.HandleSelect(context.Background(), SelectInput{SelectHost: "10.0.0.1"})

	form, ok := res.(ShowForm)
	if !ok {
		t.Fatalf("HandleSelect() returned %T, want ShowForm", res)
	}
	if form.Step != StepSelect {
		t.Errorf("HandleSelect() step = %v, want %v", form.Step, StepSelect)
	}
	if form.Errors["select_host"] != ErrorInvalidHost {
		t.Errorf("HandleSelect() errors = %v, want select_host=%v", form.Errors, ErrorInvalidHost)
	}
	if len(form.Hosts) != 2 {
		t.Errorf("re-shown select lost its candidates: %v", form.Hosts)
	}
	if f.host != "" {
		t.Errorf("flow host = %v, should stay empty after an invalid choice", f.host)
	}
}

func TestHandleSettings_InvalidTimeout(t *testing.T) {
	m, _ := testManager(t)
	factoryCalls := 0
	m.Connect = func(string, time.Duration, bool, bool, bool) Connector {
		factoryCalls++
		return &fakeConnector{receiver: testReceiver()}
	}
	f := m.NewFlow()
	f.HandleUser(context.Background(), UserInput{Host: "192.168.1.100"})

	for _, timeout := range []int{0, -3} {
		res := f.HandleSettings(context.Background(), SettingsInput{Timeout: timeout})

		form, ok := res.(ShowForm)
		if !ok {
			t.Fatalf("HandleSettings(timeout=%d) returned %T, want ShowForm", timeout, res)
		}
		if form.Step != StepSettings {
			t.Errorf("HandleSettings(timeout=%d) step = %v, want %v", timeout, form.Step, StepSettings)
		}
		if form.Errors["timeout"] != ErrorInvalidTimeout {
			t.Errorf("HandleSettings(timeout=%d) errors = %v, want timeout=%v",
				timeout, form.Errors, ErrorInvalidTimeout)
		}
	}

	if factoryCalls != 0 {
		t.Errorf("connect ran %d times on invalid settings, want 0", factoryCalls)
	}
}

func TestHandleSettings_CreatesEntry(t *testing.T) {
	m, store := testManager(t)
	f := m.NewFlow()
	f.HandleUser(context.Background(), UserInput{Host: "192.168.1.100"})

	res := f.HandleSettings(context.Background(), SettingsInput{Timeout: 2, Zone2: true})

	created, ok := res.(Created)
	if !ok {
		t.Fatalf("HandleSettings() returned %T, want Created", res)
	}

	entry := created.Entry
	if entry.Title != "Denon AVR-X1500H" {
		t.Errorf("entry title = %v, want 'Denon AVR-X1500H'", entry.Title)
	}
	if entry.UniqueID != "AVR-X1500H-0123456789" {
		t.Errorf("entry unique id = %v, want AVR-X1500H-0123456789", entry.UniqueID)
	}
	if entry.Data.Host != "192.168.1.100" {
		t.Errorf("entry host = %v, want 192.168.1.100", entry.Data.Host)
	}
	if entry.Data.MacAddress != "00:05:cd:12:34:56" {
		t.Errorf("entry mac = %v, want 00:05:cd:12:34:56", entry.Data.MacAddress)
	}
	if entry.Data.Timeout != 2 {
		t.Errorf("entry timeout = %v, want 2", entry.Data.Timeout)
	}
	if entry.Data.ShowAllSources {
		t.Error("entry show_all_sources should be false")
	}
	if !entry.Data.Zone2 {
		t.Error("entry zone2 should be true")
	}
	if entry.Data.Zone3 {
		t.Error("entry zone3 should be false")
	}
	if entry.Data.ReceiverType != "avr-x-2016" {
		t.Errorf("entry type = %v, want avr-x-2016", entry.Data.ReceiverType)
	}
	if entry.Data.Model != "AVR-X1500H" {
		t.Errorf("entry model = %v, want AVR-X1500H (asterisk stripped)", entry.Data.Model)
	}
	if entry.Data.Manufacturer != "Denon" {
		t.Errorf("entry manufacturer = %v, want Denon", entry.Data.Manufacturer)
	}
	if entry.Data.SerialNumber != "0123456789" {
		t.Errorf("entry serial = %v, want 0123456789", entry.Data.SerialNumber)
	}

	// And it must be on disk
	if !store.Exists("AVR-X1500H-0123456789") {
		t.Error("created entry not present in the store")
	}
}

func TestConnect_FactoryReceivesSettings(t *testing.T) {
	m, _ := testManager(t)

	var gotHost string
	var gotTimeout time.Duration
	var gotShowAll, gotZone2, gotZone3 bool
	m.Connect = func(host string, timeout time.Duration, showAllSources, zone2, zone3 bool) Connector {
		gotHost = host
		gotTimeout = timeout
		gotShowAll = showAllSources
		gotZone2 = zone2
		gotZone3 = zone3
		return &fakeConnector{receiver: testReceiver()}
	}

	f := m.NewFlow()
	f.HandleUser(context.Background(), UserInput{Host: "10.0.0.9"})
	f.HandleSettings(context.Background(), SettingsInput{
		Timeout:        5,
		ShowAllSources: true,
		Zone3:          true,
	})

	if gotHost != "10.0.0.9" {
		t.Errorf("connector host = %v, want 10.0.0.9", gotHost)
	}
	if gotTimeout != 5*time.Second {
		t.Errorf("connector timeout = %v, want 5s", gotTimeout)
	}
	if !gotShowAll {
		t.Error("connector showAllSources should be true")
	}
	if gotZone2 {
		t.Error("connector zone2 should be false")
	}
	if !gotZone3 {
		t.Error("connector zone3 should be true")
	}
}

func TestConnect_Failure(t *testing.T) {
	m, store := testManager(t)
	m.Connect = connectorFactory(&fakeConnector{err: errors.New("connection refused")})
	f := m.NewFlow()
	f.HandleUser(context.Background(), UserInput{Host: "192.168.1.100"})

	res := f.HandleSettings(context.Background(), DefaultSettings())

	abort, ok := res.(Abort)
	if !ok {
		t.Fatalf("HandleSettings() returned %T, want Abort", res)
	}
	if abort.Reason != AbortConnectionError {
		t.Errorf("abort reason = %v, want %v", abort.Reason, AbortConnectionError)
	}
	if got := store.List(); len(got) != 0 {
		t.Errorf("store has %d entries after a failed connect, want 0", len(got))
	}
}

func TestConnect_SerialFallsBackToMAC(t *testing.T) {
	m, _ := testManager(t)
	receiver := testReceiver()
	receiver.SerialNumber = ""
	m.Connect = connectorFactory(&fakeConnector{receiver: receiver})

	f := m.NewFlow()
	f.HandleUser(context.Background(), UserInput{Host: "192.168.1.100"})
	res := f.HandleSettings(context.Background(), DefaultSettings())

	created, ok := res.(Created)
	if !ok {
		t.Fatalf("HandleSettings() returned %T, want Created", res)
	}
	if created.Entry.UniqueID != "AVR-X1500H-00:05:cd:12:34:56" {
		t.Errorf("unique id = %v, want AVR-X1500H-00:05:cd:12:34:56", created.Entry.UniqueID)
	}
	if created.Entry.Data.MacAddress != "00:05:cd:12:34:56" {
		t.Errorf("entry mac = %v, want 00:05:cd:12:34:56", created.Entry.Data.MacAddress)
	}
	if created.Entry.Data.SerialNumber != "" {
		t.Errorf("entry serial = %v, want empty (device reported none)", created.Entry.Data.SerialNumber)
	}
}

func TestConnect_NoSerialNoMAC(t *testing.T) {
	m, store := testManager(t)
	receiver := testReceiver()
	receiver.SerialNumber = ""
	m.Connect = connectorFactory(&fakeConnector{receiver: receiver})
	m.Resolver = &fakeResolver{
		byIP:       netid.Result{Status: netid.StatusNotFound},
		byHostname: netid.Result{Status: netid.StatusNotFound},
	}

	f := m.NewFlow()
	f.HandleUser(context.Background(), UserInput{Host: "192.168.1.100"})
	res := f.HandleSettings(context.Background(), DefaultSettings())

	abort, ok := res.(Abort)
	if !ok {
		t.Fatalf("HandleSettings() returned %T, want Abort", res)
	}
	if abort.Reason != AbortNoMAC {
		t.Errorf("abort reason = %v, want %v", abort.Reason, AbortNoMAC)
	}
	if got := store.List(); len(got) != 0 {
		t.Errorf("store has %d entries, want 0", len(got))
	}
}

func TestConnect_MACByHostnameFallback(t *testing.T) {
	m, _ := testManager(t)
	fr := &fakeResolver{
		byIP:       netid.Result{Status: netid.StatusNotFound},
		byHostname: netid.Result{Status: netid.StatusFound, MAC: "a0:b1:c2:d3:e4:f5"},
	}
	m.Resolver = fr

	f := m.NewFlow()
	f.HandleUser(context.Background(), UserInput{Host: "receiver.local"})
	res := f.HandleSettings(context.Background(), DefaultSettings())

	created, ok := res.(Created)
	if !ok {
		t.Fatalf("HandleSettings() returned %T, want Created", res)
	}
	if created.Entry.Data.MacAddress != "a0:b1:c2:d3:e4:f5" {
		t.Errorf("entry mac = %v, want a0:b1:c2:d3:e4:f5", created.Entry.Data.MacAddress)
	}
	if fr.ipCalls != 1 || fr.hostnameCalls != 1 {
		t.Errorf("resolver calls = %d by ip, %d by hostname, want 1 and 1",
			fr.ipCalls, fr.hostnameCalls)
	}
}

func TestConnect_MACLookupErrorsAreNotFatal(t *testing.T) {
	m, _ := testManager(t)
	m.Resolver = &fakeResolver{
		byIP:       netid.Result{Status: netid.StatusError, Err: errors.New("pcap: permission denied")},
		byHostname: netid.Result{Status: netid.StatusError, Err: errors.New("pcap: permission denied")},
	}

	f := m.NewFlow()
	f.HandleUser(context.Background(), UserInput{Host: "192.168.1.100"})
	res := f.HandleSettings(context.Background(), DefaultSettings())

	// Serial number is known, so the failed lookup only costs the mac field
	created, ok := res.(Created)
	if !ok {
		t.Fatalf("HandleSettings() returned %T, want Created", res)
	}
	if created.Entry.Data.MacAddress != "" {
		t.Errorf("entry mac = %v, want empty", created.Entry.Data.MacAddress)
	}
	if created.Entry.UniqueID != "AVR-X1500H-0123456789" {
		t.Errorf("unique id = %v, want AVR-X1500H-0123456789", created.Entry.UniqueID)
	}
}

func TestConnect_SecondAttemptAborts(t *testing.T) {
	m, store := testManager(t)

	f1 := m.NewFlow()
	f1.HandleUser(context.Background(), UserInput{Host: "192.168.1.100"})
	if _, ok := f1.HandleSettings(context.Background(), DefaultSettings()).(Created); !ok {
		t.Fatal("first flow should create an entry")
	}

	// Same receiver reached at a different address
	f2 := m.NewFlow()
	f2.HandleUser(context.Background(), UserInput{Host: "192.168.1.222"})
	res := f2.HandleSettings(context.Background(), DefaultSettings())

	abort, ok := res.(Abort)
	if !ok {
		t.Fatalf("second flow returned %T, want Abort", res)
	}
	if abort.Reason != AbortAlreadyConfigured {
		t.Errorf("abort reason = %v, want %v", abort.Reason, AbortAlreadyConfigured)
	}

	list := store.List()
	if len(list) != 1 {
		t.Fatalf("store has %d entries, want 1", len(list))
	}
	if list[0].Data.Host != "192.168.1.100" {
		t.Errorf("first entry host = %v, want 192.168.1.100 (unchanged)", list[0].Data.Host)
	}
}

func TestHandleSSDP_Filters(t *testing.T) {
	tests := []struct {
		name    string
		payload avr.SSDPDiscovery
		want    string
	}{
		{
			name: "unsupported manufacturer",
			payload: avr.SSDPDiscovery{
				Manufacturer: "Sony Corporation",
				ModelName:    "KD-55XG9505",
				SerialNumber: "S123",
				Location:     "http://192.168.1.60:8080/description.xml",
			},
			want: AbortWrongManufacturer,
		},
		{
			name: "manufacturer case mismatch",
			payload: avr.SSDPDiscovery{
				Manufacturer: "denon",
				ModelName:    "AVR-X1500H",
				SerialNumber: "0123456789",
				Location:     "http://192.168.1.60:8080/description.xml",
			},
			want: AbortWrongManufacturer,
		},
		{
			name: "missing manufacturer",
			payload: avr.SSDPDiscovery{
				ModelName:    "AVR-X1500H",
				SerialNumber: "0123456789",
			},
			want: AbortWrongManufacturer,
		},
		{
			name: "missing model",
			payload: avr.SSDPDiscovery{
				Manufacturer: "Denon",
				SerialNumber: "0123456789",
				Location:     "http://192.168.1.60:8080/description.xml",
			},
			want: AbortMissingDetails,
		},
		{
			name: "missing serial",
			payload: avr.SSDPDiscovery{
				Manufacturer: "Marantz",
				ModelName:    "SR6012",
				Location:     "http://192.168.1.60:8080/description.xml",
			},
			want: AbortMissingDetails,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := testManager(t)
			f := m.NewFlow()

			res := f.HandleSSDP(context.Background(), tt.payload)

			abort, ok := res.(Abort)
			if !ok {
				t.Fatalf("HandleSSDP() returned %T, want Abort", res)
			}
			if abort.Reason != tt.want {
				t.Errorf("abort reason = %v, want %v", abort.Reason, tt.want)
			}
		})
	}
}

func TestHandleSSDP_NewReceiver(t *testing.T) {
	m, _ := testManager(t)
	f := m.NewFlow()

	res := f.HandleSSDP(context.Background(), avr.SSDPDiscovery{
		Manufacturer: "Denon",
		ModelName:    "*AVR-X1500H",
		SerialNumber: "9876543210",
		Location:     "http://192.168.1.150:8080/description.xml",
	})

	form, ok := res.(ShowForm)
	if !ok {
		t.Fatalf("HandleSSDP() returned %T, want ShowForm", res)
	}
	if form.Step != StepSettings {
		t.Errorf("HandleSSDP() step = %v, want %v", form.Step, StepSettings)
	}
	if f.host != "192.168.1.150" {
		t.Errorf("flow host = %v, want 192.168.1.150 (parsed from location)", f.host)
	}
	if f.modelName != "AVR-X1500H" {
		t.Errorf("flow model = %v, want AVR-X1500H (asterisk stripped)", f.modelName)
	}

	// Completing the flow keeps the announced identity over the one the
	// connected receiver reports
	created, ok := f.HandleSettings(context.Background(), DefaultSettings()).(Created)
	if !ok {
		t.Fatal("settings submission should create an entry")
	}
	if created.Entry.UniqueID != "AVR-X1500H-9876543210" {
		t.Errorf("unique id = %v, want AVR-X1500H-9876543210", created.Entry.UniqueID)
	}
	if created.Entry.Data.Host != "192.168.1.150" {
		t.Errorf("entry host = %v, want 192.168.1.150", created.Entry.Data.Host)
	}
	if created.Entry.Data.SerialNumber != "9876543210" {
		t.Errorf("entry serial = %v, want 9876543210", created.Entry.Data.SerialNumber)
	}
}

func TestHandleSSDP_KnownReceiverRefreshesHost(t *testing.T) {
	m, store := testManager(t)

	f1 := m.NewFlow()
	f1.HandleUser(context.Background(), UserInput{Host: "192.168.1.100"})
	if _, ok := f1.HandleSettings(context.Background(), DefaultSettings()).(Created); !ok {
		t.Fatal("first flow should create an entry")
	}

	f2 := m.NewFlow()
	res := f2.HandleSSDP(context.Background(), avr.SSDPDiscovery{
		Manufacturer: "Denon",
		ModelName:    "*AVR-X1500H",
		SerialNumber: "0123456789",
		Location:     "http://192.168.1.200:8080/description.xml",
	})

	abort, ok := res.(Abort)
	if !ok {
		t.Fatalf("HandleSSDP() returned %T, want Abort", res)
	}
	if abort.Reason != AbortAlreadyConfigured {
		t.Errorf("abort reason = %v, want %v", abort.Reason, AbortAlreadyConfigured)
	}

	// Only the host moves with the announcement
	entry, err := store.Get("AVR-X1500H-0123456789")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry.Data.Host != "192.168.1.200" {
		t.Errorf("entry host = %v, want 192.168.1.200 (refreshed)", entry.Data.Host)
	}
	if entry.Data.MacAddress != "00:05:cd:12:34:56" {
		t.Errorf("entry mac = %v, want 00:05:cd:12:34:56 (untouched)", entry.Data.MacAddress)
	}
	if entry.Title != "Denon AVR-X1500H" {
		t.Errorf("entry title = %v, want 'Denon AVR-X1500H' (untouched)", entry.Title)
	}
}

func TestConstructUniqueID(t *testing.T) {
	tests := []struct {
		name   string
		model  string
		serial string
		want   string
	}{
		{"plain", "AVR-X1500H", "0123456789", "AVR-X1500H-0123456789"},
		{"asterisk prefix", "*AVR-X1500H", "0123456789", "AVR-X1500H-0123456789"},
		{"asterisk suffix", "X100*", "SN1", "X100-SN1"},
		{"multiple asterisks", "*X1*00*", "SN1", "X100-SN1"},
		{"mac as serial", "AVR-X1500H", "00:05:cd:12:34:56", "AVR-X1500H-00:05:cd:12:34:56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConstructUniqueID(tt.model, tt.serial); got != tt.want {
				t.Errorf("ConstructUniqueID(%q, %q) = %v, want %v",
					tt.model, tt.serial, got, tt.want)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Timeout != 2 {
		t.Errorf("DefaultSettings().Timeout = %v, want 2", s.Timeout)
	}
	if s.ShowAllSources || s.Zone2 || s.Zone3 {
		t.Errorf("DefaultSettings() booleans = %v/%v/%v, want all false",
			s.ShowAllSources, s.Zone2, s.Zone3)
	}
}

func TestManager_FlowLifecycle(t *testing.T) {
	m, _ := testManager(t)

	f1 := m.NewFlow()
	f2 := m.NewFlow()
	if f1.ID == f2.ID {
		t.Errorf("two flows share the id %v", f1.ID)
	}

	got, ok := m.Get(f1.ID)
	if !ok || got != f1 {
		t.Errorf("Get(%v) = %v, %v, want the registered flow", f1.ID, got, ok)
	}

	m.Dispose(f1.ID)
	if _, ok := m.Get(f1.ID); ok {
		t.Errorf("Get(%v) found a disposed flow", f1.ID)
	}
	if _, ok := m.Get(f2.ID); !ok {
		t.Error("disposing one flow removed another")
	}
}

// Helper functions

func testStore(t *testing.T) *entries.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "avrsetup-flow-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	store, err := entries.Open(filepath.Join(tmpDir, "entries.yaml"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return store
}

// testManager wires a Manager whose collaborators all succeed: a
// discoverer that finds nothing, a connector that answers with the
// standard test receiver and a resolver that knows its MAC.
func testManager(t *testing.T) (*Manager, *entries.Store) {
	t.Helper()

	store := testStore(t)
	m := NewManager(store)
	m.Discoverer = &fakeDiscoverer{}
	m.Connect = connectorFactory(&fakeConnector{receiver: testReceiver()})
	m.Resolver = &fakeResolver{
		byIP:       netid.Result{Status: netid.StatusFound, MAC: "00:05:cd:12:34:56"},
		byHostname: netid.Result{Status: netid.StatusNotFound},
	}
	return m, store
}

func testReceiver() *avr.Receiver {
	return &avr.Receiver{
		Host:         "192.168.1.100",
		Type:         avr.ReceiverTypeAVRX2016,
		Name:         "Denon AVR-X1500H",
		ModelName:    "*AVR-X1500H",
		SerialNumber: "0123456789",
		Manufacturer: "Denon",
	}
}

func connectorFactory(c Connector) ConnectorFactory {
	return func(string, time.Duration, bool, bool, bool) Connector { return c }
}

type fakeDiscoverer struct {
	devices []avr.DiscoveredDevice
	err     error
	calls   int
}

func (d *fakeDiscoverer) Discover(ctx context.Context) ([]avr.DiscoveredDevice, error) {
	d.calls++
	return d.devices, d.err
}

type fakeConnector struct {
	receiver *avr.Receiver
	err      error
}

func (c *fakeConnector) Connect(ctx context.Context) (*avr.Receiver, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.receiver, nil
}

type fakeResolver struct {
	byIP          netid.Result
	byHostname    netid.Result
	ipCalls       int
	hostnameCalls int
}

func (r *fakeResolver) ByIP(ctx context.Context, addr string) netid.Result {
	r.ipCalls++
	return r.byIP
}

func (r *fakeResolver) ByHostname(ctx context.Context, hostname string) netid.Result {
	r.hostnameCalls++
	return r.byHostname
}

// Benchmark tests

func BenchmarkConstructUniqueID(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ConstructUniqueID("*AVR-X1500H", "0123456789")
	}
}
