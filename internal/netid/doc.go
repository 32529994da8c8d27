// Package netid resolves hardware (MAC) addresses for hosts on the local
// network.
//
// The setup flow uses a receiver's MAC address as its identity when the
// device does not report a serial number. A failed lookup and a host that
// genuinely has no resolvable address are different situations, so every
// lookup returns an explicit tri-state Result instead of an (string, error)
// pair that conflates them:
//
//	res := resolver.ByIP(ctx, "192.168.1.100")
//	switch res.Status {
//	case netid.StatusFound:    // res.MAC is canonical
//	case netid.StatusNotFound: // host did not answer; not an error
//	case netid.StatusError:    // the lookup itself failed; res.Err says why
//	}
//
// # Resolution strategy
//
// ByIP consults the OS ARP table first (/proc/net/arp on Linux). On a miss
// it sends an ARP request on the interface routing to the target and waits
// briefly for the reply. The active probe requires packet capture
// privileges; without them the probe reports StatusError and callers fall
// back gracefully.
//
// ByHostname resolves the name to IPv4 addresses and tries ByIP on each.
//
// # Canonical form
//
// FormatMAC normalizes the common MAC spellings (colon, dash, Cisco dot,
// bare hex) to colon-separated lower case. Unrecognized input is returned
// unchanged so callers never lose information.
package netid
