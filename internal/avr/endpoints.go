package avr

// HTTP endpoints exposed by the three receiver generations. Ports differ per
// generation; paths are stable across firmware versions.

const (
	// EndpointDeviceInfo serves the structured device info document on
	// AVR-X receivers (port 80) and AVR-X 2016+ receivers (port 8080)
	EndpointDeviceInfo = "/goform/Deviceinfo.xml"

	// EndpointMainZoneStatus is the legacy main zone status page. It is the
	// only identification source on receivers without Deviceinfo.xml.
	EndpointMainZoneStatus = "/goform/formMainZone_MainZoneXmlStatus.xml"

	// EndpointZone2Status and EndpointZone3Status report per-zone status;
	// used to confirm a requested zone actually exists
	EndpointZone2Status = "/goform/formZone2_Zone2XmlStatus.xml"
	EndpointZone3Status = "/goform/formZone3_Zone3XmlStatus.xml"

	// EndpointDescription is the UPnP device description served on port 8080
	// by AVR and AVR-X receivers
	EndpointDescription = "/description.xml"

	// EndpointAiosDescription is the UPnP device description served by the
	// HEOS stack on port 60006 on AVR-X 2016+ receivers
	EndpointAiosDescription = "/upnp/desc/aios_device/aios_device.xml"
)

const (
	// PortAVRX is the status port for legacy and AVR-X receivers
	PortAVRX = 80

	// PortAVRX2016 is the status port for AVR-X 2016+ receivers
	PortAVRX2016 = 8080

	// PortDescription serves the UPnP description on AVR and AVR-X receivers
	PortDescription = 8080

	// PortAiosDescription serves the HEOS UPnP description on 2016+ receivers
	PortAiosDescription = 60006
)
