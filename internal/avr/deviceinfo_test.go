package avr

import (
	"strings"
	"testing"
)

// Deviceinfo.xml as served by an AVR-X1500H. The asterisk model prefix marks
// a feature-limited SKU and is preserved by the parser.
const mockDeviceInfoDenon = `<?xml version="1.0" encoding="utf-8"?>
<Device_Info>
<DeviceInfoVers>3</DeviceInfoVers>
<CommApiVers>0300</CommApiVers>
<BrandCode>0</BrandCode>
<ProductCategory>AVR</ProductCategory>
<CategoryName>AV SURROUND RECEIVER</CategoryName>
<ManualModelName>AVR-X1500H</ManualModelName>
<DeliveryCode>0020</DeliveryCode>
<ModelName>*AVR-X1500H</ModelName>
<MacAddress>0005CD123456</MacAddress>
<DeviceZones>2</DeviceZones>
</Device_Info>`

const mockDeviceInfoMarantz = `<?xml version="1.0" encoding="utf-8"?>
<Device_Info>
<CommApiVers>0300</CommApiVers>
<BrandCode>1</BrandCode>
<ProductCategory>AVR</ProductCategory>
<ModelName>SR6012</ModelName>
<ManualModelName>SR6012</ManualModelName>
<MacAddress>0006781A2B3C</MacAddress>
<DeviceZones>3</DeviceZones>
</Device_Info>`

func TestParseDeviceInfo(t *testing.T) {
	info, err := ParseDeviceInfo([]byte(mockDeviceInfoDenon))
	if err != nil {
		t.Fatalf("ParseDeviceInfo() error = %v, want nil", err)
	}

	if info.CommApiVers != "0300" {
		t.Errorf("CommApiVers = %q, want 0300", info.CommApiVers)
	}

	if info.BrandCode != 0 {
		t.Errorf("BrandCode = %d, want 0", info.BrandCode)
	}

	if info.ModelName != "*AVR-X1500H" {
		t.Errorf("ModelName = %q, want *AVR-X1500H (asterisk preserved)", info.ModelName)
	}

	if info.ManualModelName != "AVR-X1500H" {
		t.Errorf("ManualModelName = %q, want AVR-X1500H", info.ManualModelName)
	}

	if info.MacAddress != "0005CD123456" {
		t.Errorf("MacAddress = %q, want 0005CD123456", info.MacAddress)
	}

	if info.DeviceZones != 2 {
		t.Errorf("DeviceZones = %d, want 2", info.DeviceZones)
	}
}

func TestParseDeviceInfo_Marantz(t *testing.T) {
	info, err := ParseDeviceInfo([]byte(mockDeviceInfoMarantz))
	if err != nil {
		t.Fatalf("ParseDeviceInfo() error = %v, want nil", err)
	}

	if info.BrandCode != 1 {
		t.Errorf("BrandCode = %d, want 1", info.BrandCode)
	}

	if info.BrandName() != "Marantz" {
		t.Errorf("BrandName() = %q, want Marantz", info.BrandName())
	}
}

func TestParseDeviceInfo_NULBytes(t *testing.T) {
	// Some firmware pads free-text fields with NUL bytes
	dirty := strings.Replace(mockDeviceInfoDenon, "*AVR-X1500H", "*AVR-X1500H\x00\x00", 1)

	info, err := ParseDeviceInfo([]byte(dirty))
	if err != nil {
		t.Fatalf("ParseDeviceInfo() should tolerate NUL bytes, error = %v", err)
	}

	if info.ModelName != "*AVR-X1500H" {
		t.Errorf("ModelName = %q, want *AVR-X1500H", info.ModelName)
	}
}

func TestParseDeviceInfo_InvalidUTF8(t *testing.T) {
	dirty := strings.Replace(mockDeviceInfoDenon, "AV SURROUND RECEIVER", "AV SURROUND RECEIVER\xff", 1)

	_, err := ParseDeviceInfo([]byte(dirty))
	if err != nil {
		t.Fatalf("ParseDeviceInfo() should tolerate invalid UTF-8, error = %v", err)
	}
}

func TestParseDeviceInfo_NoModel(t *testing.T) {
	doc := `<?xml version="1.0"?><Device_Info><BrandCode>0</BrandCode></Device_Info>`

	_, err := ParseDeviceInfo([]byte(doc))
	if err == nil {
		t.Error("ParseDeviceInfo() should return error when no model name is present")
	}
}

func TestParseDeviceInfo_NotXML(t *testing.T) {
	_, err := ParseDeviceInfo([]byte("<html><body>router admin page</body></html>"))
	if err == nil {
		t.Error("ParseDeviceInfo() should return error for non-receiver documents")
	}
}

func TestBrandName(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{0, "Denon"},
		{1, "Marantz"},
		{2, ""},
		{-1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			info := &DeviceInfo{BrandCode: tt.code}
			if got := info.BrandName(); got != tt.expected {
				t.Errorf("BrandName() = %q, want %q", got, tt.expected)
			}
		})
	}
}
