package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/dalymople/avrsetup/internal/avr"
	"github.com/dalymople/avrsetup/internal/flow"
	"github.com/dalymople/avrsetup/internal/logging"
	"github.com/dalymople/avrsetup/internal/protocol"
)

// watchAnnouncements feeds passive SSDP announcements through the flow
// engine until the payload channel closes.
func (s *Server) watchAnnouncements(ctx context.Context, payloads <-chan avr.SSDPDiscovery) {
	for payload := range payloads {
		s.handleAnnouncement(ctx, payload)
	}
}

// handleAnnouncement runs one announcement through a fresh flow. A new
// supported receiver leaves a flow waiting at the settings step for a
// client to finish; a known receiver gets its entry's host refreshed.
// One pending flow per receiver identity at a time.
func (s *Server) handleAnnouncement(ctx context.Context, payload avr.SSDPDiscovery) {
	uniqueID := flow.ConstructUniqueID(payload.ModelName, payload.SerialNumber)

	s.mu.Lock()
	pendingID, pending := s.passive[uniqueID]
	s.mu.Unlock()
	if pending {
		logging.Debug("Announcement for a receiver with a pending flow",
			zap.String("unique_id", uniqueID),
			zap.String("flow_id", pendingID),
		)
		return
	}

	f := s.manager.NewFlow()
	result := protocol.EncodeResult(f.ID, f.HandleSSDP(ctx, payload))

	if result.Kind == protocol.KindForm {
		s.mu.Lock()
		s.passive[uniqueID] = f.ID
		s.mu.Unlock()
	}
	s.record(result)

	// Announcements rejected before an identity exists are noise (every
	// smart TV is a MediaRenderer); they never reach the stream
	if result.Reason == flow.AbortWrongManufacturer || result.Reason == flow.AbortMissingDetails {
		logging.Debug("Announcement rejected",
			zap.String("location", payload.Location),
			zap.String("reason", result.Reason),
		)
		return
	}

	logging.Info("Passive discovery processed",
		zap.String("flow_id", result.FlowID),
		zap.String("host", payload.Host()),
		zap.String("model", payload.ModelName),
		zap.String("kind", result.Kind),
		zap.String("reason", result.Reason),
	)

	s.hub.Broadcast(protocol.NewDiscoveryEvent(payload, result))
}
