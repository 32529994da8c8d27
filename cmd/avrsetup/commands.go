package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dalymople/avrsetup/internal/avr"
	"github.com/dalymople/avrsetup/internal/entries"
	"github.com/dalymople/avrsetup/internal/flow"
	"github.com/dalymople/avrsetup/internal/netid"
	"github.com/dalymople/avrsetup/internal/ui"
	"github.com/dalymople/avrsetup/internal/urls"
	"github.com/dalymople/avrsetup/internal/wizard/tui"
)

// Command flags
var (
	logLevel    string
	entriesFile string
	scanTimeout int
	heosBrowse  bool
)

func init() {
	// Common flags (persistent on root)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); AVRSETUP_LOG_LEVEL works too")
	rootCmd.PersistentFlags().StringVar(&entriesFile, "entries-file", "", "Path to the entries file (default: user config dir)")

	// Add subcommands directly to root
	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(resolveMACCmd)
}

// openStore opens the entries file, honoring the --entries-file flag.
func openStore() (*entries.Store, error) {
	if entriesFile != "" {
		return entries.Open(entriesFile)
	}
	return entries.OpenDefault()
}

// wizardCmd launches the interactive TUI wizard
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Launch the interactive setup wizard",
	Long: `Launch the interactive TUI wizard for pairing a receiver.

The wizard walks through the pairing steps: enter a host or scan the
network, pick a receiver, adjust connection settings, then connect and
save the entry.

This is the recommended way to pair receivers for most users.`,
	Example: `  # Launch the wizard
  avrsetup wizard
  # Or simply (wizard is default):
  avrsetup`,
	RunE: runWizard,
}

func runWizard(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open entries file: %w", err)
	}

	manager := flow.NewManager(store)
	return tui.Run(manager, store)
}

// discoverCmd scans the network for receivers
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scan the network for receivers",
	Long: `Scan for Denon and Marantz receivers using SSDP discovery.

This command searches for MediaRenderer devices, reads their UPnP
descriptions and lists the ones with a supported manufacturer. With
--heos it browses mDNS HEOS announcements instead; HEOS-capable
receivers answer both, older models only the SSDP search.`,
	Example: `  # Scan for 5 seconds (default)
  avrsetup discover

  # Longer scan for slow networks
  avrsetup discover --timeout 15

  # Browse HEOS announcements instead of SSDP
  avrsetup discover --heos`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")
	discoverCmd.Flags().BoolVar(&heosBrowse, "heos", false, "Browse HEOS mDNS announcements instead of SSDP")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	timeout := time.Duration(scanTimeout) * time.Second

	if heosBrowse {
		return discoverHEOS(timeout)
	}
	return discoverSSDP(timeout)
}

func discoverSSDP(timeout time.Duration) error {
	ui.PrintPleaseWait("Scanning for receivers", fmt.Sprintf("up to %d seconds", scanTimeout))

	devices, err := avr.Discover(context.Background(), timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No receivers found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the receiver is powered on (network standby may not answer)")
		fmt.Println("  - Check that this machine is on the same subnet as the receiver")
		fmt.Println("  - Verify multicast traffic is allowed on your network")
		fmt.Println("  - Try increasing --timeout for slower networks")
		fmt.Printf("  - See %s\n", urls.DiscoveryGuide)
		return nil
	}

	fmt.Printf("Found %d receiver(s):\n\n", len(devices))

	for i, device := range devices {
		name := device.FriendlyName
		if name == "" {
			name = device.ModelName
		}
		fmt.Printf("%d. %s\n", i+1, name)
		fmt.Printf("   Host:         %s\n", device.Host)
		fmt.Printf("   Model:        %s\n", device.ModelName)
		fmt.Printf("   Manufacturer: %s\n", device.Manufacturer)
		if device.SerialNumber != "" {
			fmt.Printf("   Serial:       %s\n", device.SerialNumber)
		}
		fmt.Println()
	}

	fmt.Println("Run 'avrsetup' to pair one of these receivers")
	return nil
}

func discoverHEOS(timeout time.Duration) error {
	ui.PrintPleaseWait("Browsing HEOS announcements", fmt.Sprintf("up to %d seconds", scanTimeout))

	devices, err := avr.BrowseHEOS(context.Background(), timeout)
	if err != nil {
		return fmt.Errorf("browse failed: %w", err)
	}

	if len(devices) == 0 {
		fmt.Println("No HEOS announcements heard.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Only HEOS-capable receivers announce; try a plain 'avrsetup discover'")
		fmt.Println("  - Check that mDNS traffic is allowed on your network")
		fmt.Printf("  - See %s\n", urls.DiscoveryGuide)
		return nil
	}

	fmt.Printf("Heard %d HEOS device(s):\n\n", len(devices))

	for i, device := range devices {
		fmt.Printf("%d. %s\n", i+1, device.Name)
		fmt.Printf("   Address: %s:%d\n", device.IP, device.Port)
		if model := device.GetMetadata("model"); model != "" {
			fmt.Printf("   Model:   %s\n", model)
		}
		if did := device.GetMetadata("did"); did != "" {
			fmt.Printf("   DID:     %s\n", did)
		}
		fmt.Println()
	}

	return nil
}

// entriesCmd groups the entries file subcommands
var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage paired receivers",
	Long: `Inspect and manage the entries file that records paired receivers.

Each entry is keyed by the receiver's unique id, a model-serial pair
that survives address changes.`,
}

func init() {
	entriesCmd.AddCommand(entriesListCmd)
	entriesCmd.AddCommand(entriesShowCmd)
	entriesCmd.AddCommand(entriesDeleteCmd)
}

var entriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List paired receivers",
	Example: `  # List all paired receivers
  avrsetup entries list`,
	RunE: runEntriesList,
}

func runEntriesList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open entries file: %w", err)
	}

	list := store.List()
	if len(list) == 0 {
		fmt.Println("No receivers paired yet.")
		fmt.Println("\nRun 'avrsetup' to pair one.")
		return nil
	}

	fmt.Printf("%d paired receiver(s):\n\n", len(list))

	for i, e := range list {
		title := e.Title
		if title == "" {
			title = e.Data.Model
		}
		fmt.Printf("%d. %s\n", i+1, title)
		fmt.Printf("   Unique ID: %s\n", e.UniqueID)
		fmt.Printf("   Host:      %s\n", e.Data.Host)
		fmt.Printf("   Model:     %s %s\n", e.Data.Manufacturer, e.Data.Model)
		fmt.Printf("   Paired:    %s\n", e.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Println()
	}

	fmt.Printf("Entries file: %s\n", store.Path())
	return nil
}

var entriesShowCmd = &cobra.Command{
	Use:   "show <unique-id>",
	Short: "Show one paired receiver",
	Long:  `Display the full record of one paired receiver.`,
	Example: `  # Show an entry by its unique id
  avrsetup entries show AVR-X1500H-0123456789`,
	Args: cobra.ExactArgs(1),
	RunE: runEntriesShow,
}

func runEntriesShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open entries file: %w", err)
	}

	e, err := store.Get(args[0])
	if err != nil {
		if errors.Is(err, entries.ErrNotFound) {
			return fmt.Errorf("no entry with unique id %q (try 'avrsetup entries list')", args[0])
		}
		return err
	}

	data, err := yaml.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to render entry: %w", err)
	}

	title := e.Title
	if title == "" {
		title = e.UniqueID
	}
	ui.PrintOutputBox(title, strings.TrimRight(string(data), "\n"))
	return nil
}

var entriesDeleteCmd = &cobra.Command{
	Use:   "delete <unique-id>",
	Short: "Remove a paired receiver",
	Long: `Remove one receiver's record from the entries file.

The receiver itself is not touched; pairing it again just takes another
run of the wizard.`,
	Example: `  # Remove an entry by its unique id
  avrsetup entries delete AVR-X1500H-0123456789`,
	Args: cobra.ExactArgs(1),
	RunE: runEntriesDelete,
}

func runEntriesDelete(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open entries file: %w", err)
	}

	e, err := store.Get(args[0])
	if err != nil {
		if errors.Is(err, entries.ErrNotFound) {
			return fmt.Errorf("no entry with unique id %q (try 'avrsetup entries list')", args[0])
		}
		return err
	}

	if !ui.DeleteEntryConfirmation(e.Title, e.UniqueID) {
		return nil
	}

	if err := store.Delete(e.UniqueID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	ui.PrintSuccess("Receiver removed", map[string]string{
		"Unique ID":    e.UniqueID,
		"Entries file": store.Path(),
	})
	return nil
}

// resolveMACCmd resolves the hardware address behind a host
var resolveMACCmd = &cobra.Command{
	Use:   "resolve-mac <host>",
	Short: "Resolve the MAC address behind a host",
	Long: `Resolve the hardware address of a receiver by IP or hostname.

The lookup checks the system ARP table, sends an active ARP probe when
that misses, then repeats the lookup against the address the hostname
resolves to. This is the same resolution the setup flow runs when a
receiver does not report a serial number.

The active probe needs packet capture privileges; without them the
lookup falls back to the ARP table alone.`,
	Example: `  # Resolve by IP
  avrsetup resolve-mac 192.168.1.40

  # Resolve by hostname
  avrsetup resolve-mac denon-avr.local`,
	Args: cobra.ExactArgs(1),
	RunE: runResolveMAC,
}

func runResolveMAC(cmd *cobra.Command, args []string) error {
	host := args[0]

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:      "RESOLVE MAC ADDRESS",
		Command:    "avrsetup resolve-mac",
		Params:     map[string]string{"Host": host},
		TotalSteps: 2,
		StepNames:  []string{"Look up by IP address", "Look up by hostname"},
	})

	ctx := context.Background()
	_, err := runner.RunWithResult(ctx, func(onStep ui.StepCallback) (map[string]string, error) {
		resolver := netid.NewResolver()

		onStep(1, "", ui.StepRunning, "")
		res := resolver.ByIP(ctx, host)
		switch res.Status {
		case netid.StatusFound:
			onStep(1, "", ui.StepComplete, res.MAC)
			onStep(2, "", ui.StepSkipped, "")
			return map[string]string{"MAC address": res.MAC, "Source": "ip lookup"}, nil
		case netid.StatusError:
			onStep(1, "", ui.StepFailed, res.Err.Error())
		default:
			onStep(1, "", ui.StepComplete, "not found")
		}

		onStep(2, "", ui.StepRunning, "")
		res = resolver.ByHostname(ctx, host)
		switch res.Status {
		case netid.StatusFound:
			onStep(2, "", ui.StepComplete, res.MAC)
			return map[string]string{"MAC address": res.MAC, "Source": "hostname lookup"}, nil
		case netid.StatusError:
			onStep(2, "", ui.StepFailed, res.Err.Error())
			return nil, fmt.Errorf("lookup failed: %w", res.Err)
		default:
			onStep(2, "", ui.StepComplete, "not found")
			return nil, fmt.Errorf("no hardware address found for %s", host)
		}
	})
	return err
}
