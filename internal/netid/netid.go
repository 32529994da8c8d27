package netid

import (
	"fmt"
	"strings"
)

// Status describes the outcome of one MAC lookup
type Status int

const (
	// StatusFound means the lookup succeeded and Result.MAC is set
	StatusFound Status = iota
	// StatusNotFound means the lookup worked but the host has no resolvable
	// hardware address (did not answer ARP, not in any table)
	StatusNotFound
	// StatusError means the lookup itself failed (no capture privileges,
	// DNS failure, no usable interface)
	StatusError
)

// String returns a human-readable name for the status
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not found"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of one MAC lookup. Exactly one of MAC and Err is
// meaningful, selected by Status.
type Result struct {
	Status Status
	MAC    string // canonical colon-separated lower case, set when Found
	Err    error  // set when Status is StatusError
}

// String returns a human-readable summary of the result
func (r Result) String() string {
	switch r.Status {
	case StatusFound:
		return r.MAC
	case StatusNotFound:
		return "not found"
	case StatusError:
		return fmt.Sprintf("error: %v", r.Err)
	default:
		return r.Status.String()
	}
}

// found builds a Found result with the MAC normalized
func found(mac string) Result {
	return Result{Status: StatusFound, MAC: FormatMAC(mac)}
}

func notFound() Result {
	return Result{Status: StatusNotFound}
}

func errored(err error) Result {
	return Result{Status: StatusError, Err: err}
}

// FormatMAC normalizes a MAC address to colon-separated lower case.
// Accepted spellings:
//
//	aa:bb:cc:dd:ee:ff  (already canonical, case folded)
//	AA-BB-CC-DD-EE-FF
//	aabb.ccdd.eeff     (Cisco)
//	AABBCCDDEEFF       (bare hex, as receivers report it)
//
// Anything else is returned unchanged so callers never lose information.
func FormatMAC(mac string) string {
	toTest := mac

	if len(toTest) == 17 && strings.Count(toTest, ":") == 5 {
		return strings.ToLower(toTest)
	}
	if len(toTest) == 17 && strings.Count(toTest, "-") == 5 {
		toTest = strings.ReplaceAll(toTest, "-", "")
	} else if len(toTest) == 14 && strings.Count(toTest, ".") == 2 {
		toTest = strings.ReplaceAll(toTest, ".", "")
	}

	if len(toTest) == 12 && isHex(toTest) {
		toTest = strings.ToLower(toTest)
		parts := make([]string, 0, 6)
		for i := 0; i < 12; i += 2 {
			parts = append(parts, toTest[i:i+2])
		}
		return strings.Join(parts, ":")
	}

	// Not sure how it is formatted, return the original
	return mac
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
