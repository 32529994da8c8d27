package avr

import (
	"encoding/xml"
	"fmt"
)

// DeviceDescription is the parsed form of a UPnP device description
// (description.xml on AVR/AVR-X receivers, aios_device.xml on 2016+ models).
// Identity fields come from the root device element; embedded device lists
// are ignored.
type DeviceDescription struct {
	// DeviceType is the UPnP device type URN of the root device
	DeviceType string

	// FriendlyName is the user-visible name (e.g. "Denon AVR-X1500H").
	// Receivers renamed through the on-screen setup report the custom name.
	FriendlyName string

	// Manufacturer as reported ("Denon", "DENON" or "Marantz" on supported
	// devices; anything on unrelated UPnP hardware)
	Manufacturer string

	// ModelName as reported, asterisk prefix included when present
	ModelName string

	// SerialNumber of the device, may be absent on some firmware
	SerialNumber string

	// UDN is the unique device name URN
	UDN string
}

type descriptionXML struct {
	XMLName xml.Name `xml:"root"`
	Device  struct {
		DeviceType   string `xml:"deviceType"`
		FriendlyName string `xml:"friendlyName"`
		Manufacturer string `xml:"manufacturer"`
		ModelName    string `xml:"modelName"`
		SerialNumber string `xml:"serialNumber"`
		UDN          string `xml:"UDN"`
	} `xml:"device"`
}

// ParseDescription parses a UPnP device description document.
func ParseDescription(data []byte) (*DeviceDescription, error) {
	var doc descriptionXML
	if err := xml.Unmarshal(sanitizeXML(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse device description: %w", err)
	}
	if doc.Device.FriendlyName == "" && doc.Device.ModelName == "" {
		return nil, fmt.Errorf("device description has no identity fields")
	}
	return &DeviceDescription{
		DeviceType:   doc.Device.DeviceType,
		FriendlyName: doc.Device.FriendlyName,
		Manufacturer: doc.Device.Manufacturer,
		ModelName:    doc.Device.ModelName,
		SerialNumber: doc.Device.SerialNumber,
		UDN:          doc.Device.UDN,
	}, nil
}
