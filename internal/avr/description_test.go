package avr

import (
	"testing"
)

// description.xml as served by an AVR-X1500H on port 8080
const mockDescriptionDenon = `<?xml version="1.0"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <specVersion><major>1</major><minor>0</minor></specVersion>
  <device>
    <deviceType>urn:schemas-upnp-org:device:MediaRenderer:1</deviceType>
    <friendlyName>Denon AVR-X1500H</friendlyName>
    <manufacturer>Denon</manufacturer>
    <manufacturerURL>http://www.denon.com</manufacturerURL>
    <modelName>*AVR-X1500H</modelName>
    <modelNumber>X1500H</modelNumber>
    <serialNumber>0123456789</serialNumber>
    <UDN>uuid:5f9ec1b3-ed59-1900-4530-0005cd123456</UDN>
  </device>
</root>`

// aios_device.xml root device on a 2016+ model. The embedded device list is
// ignored by the parser.
const mockDescriptionAios = `<?xml version="1.0"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <device>
    <deviceType>urn:schemas-denon-com:device:AiosDevice:1</deviceType>
    <friendlyName>Living Room</friendlyName>
    <manufacturer>Denon</manufacturer>
    <modelName>Denon AVR-X1600H</modelName>
    <serialNumber>ADN12190812345</serialNumber>
    <UDN>uuid:ea6e8d54-2cef-11ea-978f-0005cd654321</UDN>
    <deviceList>
      <device>
        <deviceType>urn:schemas-upnp-org:device:MediaRenderer:1</deviceType>
        <friendlyName>Living Room</friendlyName>
        <manufacturer>Denon</manufacturer>
      </device>
    </deviceList>
  </device>
</root>`

const mockDescriptionSony = `<?xml version="1.0"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
  <device>
    <deviceType>urn:schemas-upnp-org:device:MediaRenderer:1</deviceType>
    <friendlyName>Sony Bravia TV</friendlyName>
    <manufacturer>Sony Corporation</manufacturer>
    <modelName>KD-55X</modelName>
  </device>
</root>`

func TestParseDescription(t *testing.T) {
	desc, err := ParseDescription([]byte(mockDescriptionDenon))
	if err != nil {
		t.Fatalf("ParseDescription() error = %v, want nil", err)
	}

	if desc.FriendlyName != "Denon AVR-X1500H" {
		t.Errorf("FriendlyName = %q, want Denon AVR-X1500H", desc.FriendlyName)
	}

	if desc.Manufacturer != "Denon" {
		t.Errorf("Manufacturer = %q, want Denon", desc.Manufacturer)
	}

	if desc.ModelName != "*AVR-X1500H" {
		t.Errorf("ModelName = %q, want *AVR-X1500H (asterisk preserved)", desc.ModelName)
	}

	if desc.SerialNumber != "0123456789" {
		t.Errorf("SerialNumber = %q, want 0123456789", desc.SerialNumber)
	}

	if desc.UDN != "uuid:5f9ec1b3-ed59-1900-4530-0005cd123456" {
		t.Errorf("UDN = %q", desc.UDN)
	}
}

func TestParseDescription_AiosRootDevice(t *testing.T) {
	desc, err := ParseDescription([]byte(mockDescriptionAios))
	if err != nil {
		t.Fatalf("ParseDescription() error = %v, want nil", err)
	}

	// Renamed receivers report the custom name
	if desc.FriendlyName != "Living Room" {
		t.Errorf("FriendlyName = %q, want Living Room", desc.FriendlyName)
	}

	if desc.ModelName != "Denon AVR-X1600H" {
		t.Errorf("ModelName = %q, want Denon AVR-X1600H", desc.ModelName)
	}

	if desc.SerialNumber != "ADN12190812345" {
		t.Errorf("SerialNumber = %q, want ADN12190812345", desc.SerialNumber)
	}

	// Root device type wins over the embedded device list
	if desc.DeviceType != "urn:schemas-denon-com:device:AiosDevice:1" {
		t.Errorf("DeviceType = %q", desc.DeviceType)
	}
}

func TestParseDescription_UnsupportedManufacturerStillParses(t *testing.T) {
	// The parser does not filter; the manufacturer check is the caller's job
	desc, err := ParseDescription([]byte(mockDescriptionSony))
	if err != nil {
		t.Fatalf("ParseDescription() error = %v, want nil", err)
	}

	if desc.Manufacturer != "Sony Corporation" {
		t.Errorf("Manufacturer = %q, want Sony Corporation", desc.Manufacturer)
	}

	if IsSupportedManufacturer(desc.Manufacturer) {
		t.Error("Sony should not be a supported manufacturer")
	}
}

func TestParseDescription_NoIdentity(t *testing.T) {
	doc := `<?xml version="1.0"?><root><device><UDN>uuid:123</UDN></device></root>`

	_, err := ParseDescription([]byte(doc))
	if err == nil {
		t.Error("ParseDescription() should return error when identity fields are missing")
	}
}

func TestParseDescription_NotXML(t *testing.T) {
	_, err := ParseDescription([]byte("404 page not found"))
	if err == nil {
		t.Error("ParseDescription() should return error for non-XML input")
	}
}
