package protocol

import (
	"time"

	"github.com/dalymople/avrsetup/internal/entries"
)

// Result kinds. Every step outcome is exactly one of these.
const (
	// KindForm asks the client to render and submit the named form
	KindForm = "form"

	// KindAbort ends the flow without an entry
	KindAbort = "abort"

	// KindEntry ends the flow with a persisted entry
	KindEntry = "entry"
)

// Event types carried on the WebSocket stream.
const (
	// EventFlowResult is a step outcome of a client-driven flow
	EventFlowResult = "flow_result"

	// EventDiscovery is the outcome of a passive SSDP announcement
	EventDiscovery = "discovery"
)

// MaxInputSize is the largest step submission body the server accepts.
// Step inputs are a handful of scalar fields; anything bigger is garbage.
const MaxInputSize = 4096

// StepResult is the JSON rendering of one flow step outcome.
//
// Kind discriminates the shape:
//
//	form   step, errors, hosts
//	abort  reason
//	entry  entry
//
// Fields belonging to the other kinds are omitted from the encoding.
type StepResult struct {
	FlowID string `json:"flow_id"`
	Kind   string `json:"kind"`

	// Step names the form to render next ("user", "select", "settings")
	Step string `json:"step,omitempty"`

	// Errors carries field-keyed error codes when a form is re-shown.
	// The key "base" addresses the whole form.
	Errors map[string]string `json:"errors,omitempty"`

	// Hosts lists the candidate hosts for the select form
	Hosts []string `json:"hosts,omitempty"`

	// Reason is the abort reason code (e.g. "connection_error")
	Reason string `json:"reason,omitempty"`

	// Entry is the persisted entry for kind "entry"
	Entry *EntryPayload `json:"entry,omitempty"`
}

// Terminal reports whether the result ended the flow. The flow instance
// behind a terminal result is disposed and its id becomes invalid.
func (r *StepResult) Terminal() bool {
	return r.Kind != KindForm
}

// EntryPayload is the JSON rendering of a paired receiver.
type EntryPayload struct {
	Title          string    `json:"title"`
	UniqueID       string    `json:"unique_id"`
	CreatedAt      time.Time `json:"created_at"`
	Host           string    `json:"host"`
	MacAddress     string    `json:"mac,omitempty"`
	Timeout        int       `json:"timeout"`
	ShowAllSources bool      `json:"show_all_sources"`
	Zone2          bool      `json:"zone2"`
	Zone3          bool      `json:"zone3"`
	ReceiverType   string    `json:"type"`
	Model          string    `json:"model"`
	Manufacturer   string    `json:"manufacturer"`
	SerialNumber   string    `json:"serial_number,omitempty"`
}

// NewEntryPayload flattens a registry entry into its wire form.
func NewEntryPayload(e *entries.Entry) *EntryPayload {
	if e == nil {
		return nil
	}
	return &EntryPayload{
		Title:          e.Title,
		UniqueID:       e.UniqueID,
		CreatedAt:      e.CreatedAt,
		Host:           e.Data.Host,
		MacAddress:     e.Data.MacAddress,
		Timeout:        e.Data.Timeout,
		ShowAllSources: e.Data.ShowAllSources,
		Zone2:          e.Data.Zone2,
		Zone3:          e.Data.Zone3,
		ReceiverType:   e.Data.ReceiverType,
		Model:          e.Data.Model,
		Manufacturer:   e.Data.Manufacturer,
		SerialNumber:   e.Data.SerialNumber,
	}
}

// Event is one message on the WebSocket stream. Type discriminates the
// payload: flow_result events carry Flow alone, discovery events carry
// both the announcement and the result it produced.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	Flow *StepResult `json:"flow,omitempty"`

	Discovery *Announcement `json:"discovery,omitempty"`
}

// Announcement describes the SSDP announcement behind a discovery event.
type Announcement struct {
	Host         string `json:"host"`
	Manufacturer string `json:"manufacturer,omitempty"`
	ModelName    string `json:"model_name,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
}
