package protocol

import (
	"time"

	"github.com/dalymople/avrsetup/internal/avr"
	"github.com/dalymople/avrsetup/internal/flow"
)

// EncodeResult renders a flow result as its wire message.
func EncodeResult(flowID string, r flow.Result) StepResult {
	switch v := r.(type) {
	case flow.ShowForm:
		return StepResult{
			FlowID: flowID,
			Kind:   KindForm,
			Step:   string(v.Step),
			Errors: v.Errors,
			Hosts:  v.Hosts,
		}
	case flow.Abort:
		return StepResult{
			FlowID: flowID,
			Kind:   KindAbort,
			Reason: v.Reason,
		}
	case flow.Created:
		return StepResult{
			FlowID: flowID,
			Kind:   KindEntry,
			Entry:  NewEntryPayload(v.Entry),
		}
	}

	// Result is a closed union; reaching here means a variant was added
	// without a wire rendering.
	return StepResult{FlowID: flowID, Kind: KindAbort, Reason: flow.AbortUnknown}
}

// NewFlowEvent wraps a step result for the event stream.
func NewFlowEvent(result StepResult) Event {
	return Event{
		Type:      EventFlowResult,
		Timestamp: time.Now(),
		Flow:      &result,
	}
}

// NewDiscoveryEvent wraps a passive announcement and the result it
// produced for the event stream.
func NewDiscoveryEvent(payload avr.SSDPDiscovery, result StepResult) Event {
	return Event{
		Type:      EventDiscovery,
		Timestamp: time.Now(),
		Flow:      &result,
		Discovery: &Announcement{
			Host:         payload.Host(),
			Manufacturer: payload.Manufacturer,
			ModelName:    payload.ModelName,
			SerialNumber: payload.SerialNumber,
		},
	}
}
