// Package flow implements the multi-step setup flow that pairs a network
// AV receiver and produces a persisted entry.
//
// # Step Model
//
// A flow advances through explicit steps, each backed by a handler:
//
//   - user: optional manual host entry; an empty submission runs active
//     discovery instead
//   - select: candidate choice, shown only when discovery finds more than
//     one receiver
//   - settings: connection timeout and zone/source options
//   - connect: internal; opens the control connection, resolves the device
//     identity and persists the entry
//
// A second entry point, HandleSSDP, starts a flow from an unsolicited
// SSDP announcement and joins the normal path at the settings step.
//
// # Results
//
// Every handler returns a Result, which is exactly one of three shapes:
//
//   - ShowForm: render (or re-render, with field errors) a form
//   - Abort: terminal, nothing persisted
//   - Created: terminal, an entry was persisted
//
// Recoverable problems (no receivers discovered, an invalid selection, a
// malformed timeout) re-show the current form with an error code; only
// unrecoverable conditions abort.
//
// # Identity
//
// A finished entry is keyed by ConstructUniqueID(model, serial). The serial
// number comes from the announcement or the connected receiver; when the
// receiver does not report one, the flow falls back to the MAC address
// resolved over the network. With neither available the flow aborts, since
// an entry without a stable identity cannot be deduplicated.
//
// # Concurrency
//
// Flow instances are independent; a per-instance mutex serializes step
// execution, so frontends may run handlers from any goroutine but at most
// one step of a given flow executes at a time. Handlers that touch the
// network (discovery, connect, MAC resolution) block and take a context;
// interactive frontends run them off their event loop.
//
// # Usage
//
//	store, err := entries.OpenDefault()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	manager := flow.NewManager(store)
//	f := manager.NewFlow()
//
//	res := f.HandleUser(ctx, flow.UserInput{})
//	switch r := res.(type) {
//	case flow.ShowForm:
//	    // render r.Step
//	case flow.Abort:
//	    // show r.Reason
//	case flow.Created:
//	    // show r.Entry
//	}
package flow
