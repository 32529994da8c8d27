// Package server exposes the setup flow engine over HTTP for headless
// use: a wall-mounted panel, a web frontend or a script can pair
// receivers without the terminal wizard.
//
// # API
//
// The server speaks JSON over a small REST surface:
//
//	POST   /api/flows             open a flow, returns its first form
//	GET    /api/flows             flows awaiting input (including passive ones)
//	GET    /api/flows/{id}        last result of one flow
//	POST   /api/flows/{id}/{step} submit input to the named step
//	DELETE /api/flows/{id}        abandon a flow
//	GET    /api/entries           paired receivers
//	GET    /ws                    event stream (WebSocket)
//
// Step outcomes and submissions use the wire shapes from
// internal/protocol. A terminal outcome (abort or entry) disposes the
// flow; its id stops resolving.
//
// # Event Stream
//
// Every step outcome is broadcast to /ws subscribers, so a second UI can
// mirror a flow's progress. The stream is one-way; inbound messages are
// ignored. Subscribers that stop reading are dropped rather than allowed
// to stall the fan-out.
//
// # Passive Discovery
//
// With passive discovery enabled, the server runs the SSDP announcement
// monitor. An announcement from a new supported receiver opens a flow
// that waits at the settings step; subscribers learn about it through a
// discovery event and any client may finish it over the API. A receiver
// that is already paired gets its entry's host refreshed instead.
//
// # Lifecycle
//
// Start blocks until SIGINT or SIGTERM, then drains in-flight requests,
// stops the monitor and closes subscriber connections, with a timeout
// before forcing the remainder.
package server
