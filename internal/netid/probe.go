package netid

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// ErrNoReply means the probe went out but the target never answered
var ErrNoReply = errors.New("no ARP reply")

const probeSnapLen = 65536

// probeARP broadcasts an ARP request for targetIP out of iface and waits for
// the reply. Opening the capture handle needs CAP_NET_RAW or root.
func probeARP(ctx context.Context, iface *net.Interface, srcIP, targetIP net.IP, timeout time.Duration) (net.HardwareAddr, error) {
	src4 := srcIP.To4()
	target4 := targetIP.To4()
	if src4 == nil || target4 == nil {
		return nil, fmt.Errorf("ARP probe needs IPv4 addresses, got %s -> %s", srcIP, targetIP)
	}

	handle, err := pcap.OpenLive(iface.Name, probeSnapLen, true, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("opening capture on %s: %w", iface.Name, err)
	}
	defer handle.Close()

	eth := layers.Ethernet{
		SrcMAC:       iface.HardwareAddr,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	arp := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte(iface.HardwareAddr),
		SourceProtAddress: []byte(src4),
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte(target4),
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}
	if err := gopacket.SerializeLayers(buf, opts, &eth, &arp); err != nil {
		return nil, fmt.Errorf("serializing ARP request: %w", err)
	}
	if err := handle.WritePacketData(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("sending ARP request on %s: %w", iface.Name, err)
	}

	packets := gopacket.NewPacketSource(handle, handle.LinkType()).Packets()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return nil, ErrNoReply
		case packet, ok := <-packets:
			if !ok {
				return nil, fmt.Errorf("capture on %s closed unexpectedly", iface.Name)
			}
			arpLayer := packet.Layer(layers.LayerTypeARP)
			if arpLayer == nil {
				continue
			}
			reply, ok := arpLayer.(*layers.ARP)
			if !ok || reply.Operation != layers.ARPReply {
				continue
			}
			if !net.IP(reply.SourceProtAddress).Equal(target4) {
				continue
			}
			return net.HardwareAddr(reply.SourceHwAddress), nil
		}
	}
}
