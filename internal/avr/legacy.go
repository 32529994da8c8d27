package avr

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// ZoneStatus is the parsed form of the legacy zone status pages
// (formMainZone_MainZoneXmlStatus.xml and the Zone2/Zone3 variants).
//
// The legacy format wraps every scalar in a <value> element:
//
//	<item>
//	<FriendlyName><value>Denon AVR-3311CI</value></FriendlyName>
//	<Power><value>ON</value></Power>
//	...
//	</item>
type ZoneStatus struct {
	// FriendlyName is the receiver name shown in apps. Only present on the
	// main zone page.
	FriendlyName string

	// Power is the main power state ("ON" or "STANDBY")
	Power string

	// ZonePower is the power state of the zone the page describes
	ZonePower string

	// ZoneName is the rename label of the zone (e.g. "MAIN ZONE", "ZONE2")
	ZoneName string

	// Sources is the receiver's input function list as reported. Includes
	// hidden inputs; consumers deciding what to show filter it themselves.
	Sources []string
}

type valueXML struct {
	Value string `xml:"value"`
}

type zoneStatusXML struct {
	XMLName       xml.Name `xml:"item"`
	FriendlyName  valueXML `xml:"FriendlyName"`
	Power         valueXML `xml:"Power"`
	ZonePower     valueXML `xml:"ZonePower"`
	RenameZone    valueXML `xml:"RenameZone"`
	InputFuncList struct {
		Values []string `xml:"value"`
	} `xml:"InputFuncList"`
}

// ParseZoneStatus parses a legacy zone status page.
func ParseZoneStatus(data []byte) (*ZoneStatus, error) {
	var doc zoneStatusXML
	if err := xml.Unmarshal(sanitizeXML(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse zone status: %w", err)
	}

	sources := make([]string, 0, len(doc.InputFuncList.Values))
	for _, s := range doc.InputFuncList.Values {
		s = strings.TrimSpace(s)
		if s != "" {
			sources = append(sources, s)
		}
	}

	return &ZoneStatus{
		FriendlyName: strings.TrimSpace(doc.FriendlyName.Value),
		Power:        strings.TrimSpace(doc.Power.Value),
		ZonePower:    strings.TrimSpace(doc.ZonePower.Value),
		ZoneName:     strings.TrimSpace(doc.RenameZone.Value),
		Sources:      sources,
	}, nil
}
