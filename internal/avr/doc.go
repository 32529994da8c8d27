// Package avr implements discovery of and communication with Denon and
// Marantz network AV receivers over their HTTP/XML control interface.
//
// This package provides the device-facing half of the setup flow: finding
// candidate receivers on the local network, validating that a host really is
// a reachable receiver, and reading back the identity fields (name, model,
// serial number, manufacturer) that the flow needs to build a configuration
// entry. It deliberately contains no control operations: no power, volume,
// or source commands are ever sent.
//
// # Receiver Generations
//
// Denon and Marantz shipped three HTTP API generations, distinguished by
// which status endpoint answers:
//
//   - "avr-x-2016": AVR-X models from 2016 onwards. Deviceinfo.xml on
//     port 8080, UPnP description served by the HEOS stack on port 60006.
//   - "avr-x": older AVR-X models. Deviceinfo.xml on port 80, UPnP
//     description on port 8080.
//   - "avr": legacy receivers without Deviceinfo.xml. Identified through
//     the main zone status page on port 80.
//
// Connect probes these generations in order and records which one answered
// as the receiver type:
//
//	conn := avr.NewConnector("192.168.1.100", 2*time.Second, false, false, false)
//	receiver, err := conn.Connect(ctx)
//	if err != nil {
//	    // classified; see errors.go
//	}
//	fmt.Println(receiver.ModelName, receiver.SerialNumber, receiver.Type)
//
// # Discovery
//
// Active discovery sends an SSDP M-SEARCH for MediaRenderer devices and
// fetches each responder's UPnP device description, keeping only devices
// whose manufacturer is on the supported list:
//
//	devices, err := avr.Discover(ctx, 5*time.Second)
//
// Passive discovery wraps an SSDP monitor: unsolicited alive announcements
// are resolved to the same description payloads and delivered on a channel.
// HEOS-capable receivers additionally announce _heos-audio._tcp over mDNS;
// BrowseHEOS lists those for diagnostic purposes.
//
// # XML Quirks
//
// Receivers predate strict XML tooling. Deviceinfo.xml is declared as
// utf-8 but some firmware emits latin-1 bytes in renamed zone labels, and
// the legacy status pages wrap every field in a <value> element. The
// parsers here tolerate both.
package avr
