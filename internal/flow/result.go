package flow

import "github.com/dalymople/avrsetup/internal/entries"

// Step identifies a stage of the setup flow.
type Step string

const (
	// StepUser is the initial form: manual host entry or discovery
	StepUser Step = "user"

	// StepSelect is the candidate choice form, shown when discovery finds
	// more than one receiver
	StepSelect Step = "select"

	// StepSettings is the behavioral settings form
	StepSettings Step = "settings"

	// StepConnect is the connect-and-persist stage. It never renders a
	// form; submitting settings runs it directly.
	StepConnect Step = "connect"
)

// Abort reasons. These end a flow without an entry.
const (
	// AbortAlreadyConfigured means an entry with the same unique id exists
	AbortAlreadyConfigured = "already_configured"

	// AbortConnectionError means the receiver did not answer the connect
	AbortConnectionError = "connection_error"

	// AbortNoMAC means the receiver reported no serial number and the MAC
	// address could not be resolved, so no stable identity exists
	AbortNoMAC = "no_mac"

	// AbortWrongManufacturer means an announcement came from a device
	// whose manufacturer is not on the supported list
	AbortWrongManufacturer = "not_denonavr_manufacturer"

	// AbortMissingDetails means an announcement lacked the model name or
	// serial number needed to build an identity
	AbortMissingDetails = "not_denonavr_missing"

	// AbortUnknown covers internal failures such as an unwritable registry
	AbortUnknown = "unknown"
)

// Form error codes, keyed by field in ShowForm.Errors. The "base" key
// addresses the whole form.
const (
	// ErrorDiscovery: discovery found no receivers (or could not run)
	ErrorDiscovery = "discovery_error"

	// ErrorInvalidHost: the selected host is not one of the candidates
	ErrorInvalidHost = "invalid_host"

	// ErrorInvalidTimeout: the timeout is not a positive integer
	ErrorInvalidTimeout = "invalid_timeout"
)

// Result is the outcome of executing one step: exactly one of ShowForm,
// Abort or Created.
type Result interface {
	isResult()
}

// ShowForm tells the frontend which form to render next. Errors carries
// field-keyed error codes when a form is re-shown after invalid input.
// Hosts is populated only for the select form.
type ShowForm struct {
	Step   Step
	Errors map[string]string
	Hosts  []string
}

// Abort ends the flow without an entry.
type Abort struct {
	Reason string
}

// Created ends the flow with a persisted entry.
type Created struct {
	Entry *entries.Entry
}

func (ShowForm) isResult() {}
func (Abort) isResult()    {}
func (Created) isResult()  {}
