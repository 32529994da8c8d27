package urls

// Documentation URLs for guides and troubleshooting
// All URLs point to the documentation site at https://dalymople.github.io/avrsetup/

// GettingStarted is the quick start guide for new users
// to pair their first receiver with the setup wizard.
const GettingStarted = "https://dalymople.github.io/avrsetup/getting-started/overview/"

// DiscoveryGuide covers network discovery, covering mDNS and SSDP,
// multicast requirements, and what to do when no receivers are found.
const DiscoveryGuide = "https://dalymople.github.io/avrsetup/guides/discovery/"

// ZonesAndSources explains the zone 2 / zone 3 options and the
// show-all-sources setting, and which receiver ranges support them.
const ZonesAndSources = "https://dalymople.github.io/avrsetup/guides/zones-and-sources/"

// TroubleshootingGuide provides solutions to common issues
// encountered when connecting to receivers over the network.
const TroubleshootingGuide = "https://dalymople.github.io/avrsetup/guides/troubleshooting/"

// ServerAPI documents the HTTP and WebSocket interface exposed
// by the avrsetup serve command.
const ServerAPI = "https://dalymople.github.io/avrsetup/reference/server-api/"

// SupportedReceivers lists the Denon and Marantz model ranges the
// tool has been tested against.
const SupportedReceivers = "https://dalymople.github.io/avrsetup/reference/supported-receivers/"
