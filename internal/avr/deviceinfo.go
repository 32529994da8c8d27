package avr

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// DeviceInfo is the parsed form of /goform/Deviceinfo.xml, the structured
// identification document served by AVR-X generation receivers.
//
// Note: the document declares utf-8 but some firmware emits stray NUL bytes
// and latin-1 sequences in free-text fields. Use ParseDeviceInfo, which
// sanitizes before unmarshaling.
type DeviceInfo struct {
	XMLName xml.Name `xml:"Device_Info"`

	// CommApiVers is the control API version (e.g. "0300")
	CommApiVers string `xml:"CommApiVers"`

	// BrandCode selects the brand: 0 = Denon, 1 = Marantz
	BrandCode int `xml:"BrandCode"`

	// ProductCategory is "AVR" on surround receivers
	ProductCategory string `xml:"ProductCategory"`

	// CategoryName is the marketing category (e.g. "AV SURROUND RECEIVER")
	CategoryName string `xml:"CategoryName"`

	// ModelName as reported, asterisk prefix included on feature-limited SKUs
	ModelName string `xml:"ModelName"`

	// ManualModelName is the model family used for manuals (no asterisk)
	ManualModelName string `xml:"ManualModelName"`

	// MacAddress is the wired interface MAC without separators
	// (e.g. "0005CD123456")
	MacAddress string `xml:"MacAddress"`

	// DeviceZones is the number of zones the hardware supports
	DeviceZones int `xml:"DeviceZones"`
}

// BrandName maps the numeric brand code to the manufacturer name.
// Returns an empty string for unknown codes.
func (di *DeviceInfo) BrandName() string {
	switch di.BrandCode {
	case 0:
		return "Denon"
	case 1:
		return "Marantz"
	default:
		return ""
	}
}

// ParseDeviceInfo parses a Deviceinfo.xml document.
// The raw bytes are sanitized first because receiver firmware is not strict
// about the declared encoding.
func ParseDeviceInfo(data []byte) (*DeviceInfo, error) {
	var info DeviceInfo
	if err := xml.Unmarshal(sanitizeXML(data), &info); err != nil {
		return nil, fmt.Errorf("failed to parse Deviceinfo.xml: %w", err)
	}
	if info.ModelName == "" && info.ManualModelName == "" {
		return nil, fmt.Errorf("Deviceinfo.xml has no model name")
	}
	return &info, nil
}

// sanitizeXML makes receiver XML safe for the strict Go decoder: NUL bytes
// are dropped and invalid UTF-8 sequences are replaced.
func sanitizeXML(data []byte) []byte {
	data = bytes.ReplaceAll(data, []byte{0}, nil)
	return bytes.ToValidUTF8(data, []byte("?"))
}
