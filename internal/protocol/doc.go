// Package protocol defines the wire messages of the flow API.
//
// The setup flow engine returns results as Go types; this package gives
// them a stable JSON rendering shared by the HTTP endpoints and the
// WebSocket event stream, and parses the step submissions coming back.
// It is the single place where wire shapes are defined, so a client
// package could import it without pulling in the server.
//
// # Step Results
//
// Every step outcome encodes as a StepResult discriminated by Kind:
//
//	{"flow_id":"...","kind":"form","step":"settings"}
//	{"flow_id":"...","kind":"form","step":"select","hosts":["192.168.1.40","192.168.1.41"]}
//	{"flow_id":"...","kind":"abort","reason":"connection_error"}
//	{"flow_id":"...","kind":"entry","entry":{...}}
//
// A re-shown form carries field-keyed error codes in "errors"; the key
// "base" addresses the whole form.
//
// # Step Submissions
//
// Submissions are small JSON objects decoded by the DecodeXxxInput
// functions. Settings submissions decode over the form defaults, so a
// client may send only the fields it changed.
//
// # Events
//
// The WebSocket stream carries Event envelopes discriminated by Type.
// A flow_result event wraps a step outcome; a discovery event adds the
// SSDP announcement that produced it:
//
//	{"type":"flow_result","timestamp":"...","flow":{...}}
//	{"type":"discovery","timestamp":"...","discovery":{"host":"192.168.1.40",...},"flow":{...}}
//
// # Thread Safety
//
// All encoding and decoding functions are stateless and safe for
// concurrent use.
package protocol
