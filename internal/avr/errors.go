package avr

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// Error types for receiver communication

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (host unreachable, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP indicates an HTTP-level error (non-200 status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a parsing error (malformed XML, invalid response)
	ErrTypeParse
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the host refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeNotReceiver indicates the host answered but is not a supported receiver
	ErrTypeNotReceiver
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeNotReceiver:
		return "Not A Receiver"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError represents an error that occurred while talking to a receiver
type DeviceError struct {
	Type           ErrorType           // Category of error
	Message        string              // Human-readable error message
	StatusCode     int                 // HTTP status code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific network error type
	Host           string              // Receiver host (for context)
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes an error and returns a more specific error type
func ClassifyNetworkError(err error, host string) *DeviceError {
	if err == nil {
		return nil
	}

	// Check for timeout errors
	if os.IsTimeout(err) {
		return &DeviceError{
			Type:           ErrTypeTimeout,
			Message:        "Request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
			Host:           host,
		}
	}

	// Check for DNS errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &DeviceError{
			Type:           ErrTypeDNS,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
			Host:           host,
		}
	}

	// Check for connection refused
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &DeviceError{
				Type:           ErrTypeConnectionRefused,
				Message:        "Receiver refused connection",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
				Host:           host,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &DeviceError{
				Type:           ErrTypeNetwork,
				Message:        "Host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
				Host:           host,
			}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &DeviceError{
				Type:           ErrTypeNetwork,
				Message:        "Network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
				Host:           host,
			}
		}
	}

	// Check for URL errors
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Recursively classify the underlying error
		return ClassifyNetworkError(urlErr.Err, host)
	}

	// Generic network error
	return &DeviceError{
		Type:           ErrTypeNetwork,
		Message:        "Network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
		Host:           host,
	}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error, host string) *DeviceError {
	classified := ClassifyNetworkError(err, host)
	if classified != nil {
		classified.Message = message
		return classified
	}
	return &DeviceError{
		Type:    ErrTypeNetwork,
		Message: message,
		Err:     err,
		Host:    host,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string, host string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Host:       host,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error, host string) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeParse,
		Message: message,
		Err:     err,
		Host:    host,
	}
}

// NewNotReceiverError creates an error for hosts that answer but are not
// supported receivers
func NewNotReceiverError(message string, host string) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeNotReceiver,
		Message: message,
		Host:    host,
	}
}

// IsNetworkError checks if an error is a network error (including timeout,
// connection refused, DNS, etc.)
func IsNetworkError(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Type == ErrTypeNetwork ||
			devErr.Type == ErrTypeTimeout ||
			devErr.Type == ErrTypeConnectionRefused ||
			devErr.Type == ErrTypeDNS
	}
	return false
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Type == ErrTypeTimeout
	}
	return false
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Type == ErrTypeHTTP
	}
	return false
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Type == ErrTypeParse
	}
	return false
}

// IsNotReceiver checks if an error means the host is not a supported receiver
func IsNotReceiver(err error) bool {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Type == ErrTypeNotReceiver
	}
	return false
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The receiver did not respond in time.",
			"Troubleshooting:",
			"  • Check that the receiver is powered on or in network standby",
			"  • Set Network Control to 'Always On' in the receiver's network setup",
			"  • Try increasing the timeout in the settings step",
			"  • Verify the receiver and this machine are on the same network",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The host refused the connection.",
			"Troubleshooting:",
			"  • Verify the host address really belongs to the receiver",
			"  • The receiver's web server may be rebooting - wait and retry",
			"  • Some models disable HTTP control when Network Control is off",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the receiver hostname.",
			"Troubleshooting:",
			"  • Use the IP address instead of the hostname",
			"  • Check your network DNS settings",
			"  • Verify you're on the same network as the receiver",
		}, "\n")

	case ErrTypeNetwork:
		hint := []string{"Network communication failed."}

		switch devErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			hint = append(hint, "The receiver is not reachable on the network.",
				"Troubleshooting:",
				"  • Verify the receiver IP address is correct",
				"  • Check that you're on the same network as the receiver",
				"  • Ensure the receiver's network cable or WiFi is connected",
				"  • Try pinging the receiver: ping "+devErr.Host)

		case NetworkErrorNetworkUnreachable:
			hint = append(hint, "Your computer cannot reach the receiver's network.",
				"Troubleshooting:",
				"  • Check your network adapter settings",
				"  • Verify WiFi or ethernet is connected",
				"  • Check for VLAN separation between you and the receiver")

		default:
			hint = append(hint, "Troubleshooting:",
				"  • Check your network connection",
				"  • Verify the receiver is powered on",
				"  • Ensure you're connected to the correct network")
		}

		return strings.Join(hint, "\n")

	case ErrTypeHTTP:
		if devErr.StatusCode >= 500 {
			return strings.Join([]string{
				fmt.Sprintf("The receiver returned an error (HTTP %d).", devErr.StatusCode),
				"This is usually a firmware hiccup.",
				"Troubleshooting:",
				"  • Power cycle the receiver",
				"  • Check if a firmware update is available",
			}, "\n")
		}
		return fmt.Sprintf("The receiver returned HTTP error %d. Check the host address.", devErr.StatusCode)

	case ErrTypeParse:
		return strings.Join([]string{
			"Failed to parse the receiver's response.",
			"The host may not be a Denon or Marantz receiver, or the firmware",
			"returned an unexpected document.",
			"Troubleshooting:",
			"  • Verify the host address belongs to the receiver",
			"  • Power cycle the receiver and retry",
		}, "\n")

	case ErrTypeNotReceiver:
		return strings.Join([]string{
			"The host answered but does not look like a supported receiver.",
			"Troubleshooting:",
			"  • Verify the host address (another device may hold that IP)",
			"  • Supported brands are Denon and Marantz network receivers",
		}, "\n")

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return "Receiver not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Host refused connection - is this the receiver?"
	case ErrTypeDNS:
		return "Cannot resolve receiver hostname"
	case ErrTypeNetwork:
		switch devErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "Receiver unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable - check your connection"
		default:
			return "Network error - check connection"
		}
	case ErrTypeHTTP:
		return fmt.Sprintf("Receiver error (HTTP %d)", devErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse receiver response"
	case ErrTypeNotReceiver:
		return "Host is not a supported receiver"
	default:
		return devErr.Message
	}
}
