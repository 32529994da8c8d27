package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/dalymople/avrsetup/internal/flow"
	"github.com/dalymople/avrsetup/internal/logging"
	"github.com/dalymople/avrsetup/internal/protocol"
)

// routes builds the API handler.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/flows", s.handleCreateFlow)
	mux.HandleFunc("GET /api/flows", s.handleListFlows)
	mux.HandleFunc("GET /api/flows/{id}", s.handleGetFlow)
	mux.HandleFunc("POST /api/flows/{id}/{step}", s.handleFlowStep)
	mux.HandleFunc("DELETE /api/flows/{id}", s.handleDeleteFlow)
	mux.HandleFunc("GET /api/entries", s.handleListEntries)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return s.logRequests(mux)
}

// handleCreateFlow opens a fresh flow and returns its first form.
func (s *Server) handleCreateFlow(w http.ResponseWriter, r *http.Request) {
	f := s.manager.NewFlow()
	result := protocol.EncodeResult(f.ID, f.Start())
	s.record(result)

	logging.Info("Flow created",
		zap.String("flow_id", f.ID),
		zap.String("remote_addr", r.RemoteAddr),
	)

	s.hub.Broadcast(protocol.NewFlowEvent(result))
	s.writeJSON(w, http.StatusCreated, result)
}

// handleListFlows returns the last result of every flow awaiting input.
func (s *Server) handleListFlows(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	flows := make([]protocol.StepResult, 0, len(s.results))
	for _, res := range s.results {
		flows = append(flows, res)
	}
	s.mu.Unlock()

	sort.Slice(flows, func(i, j int) bool { return flows[i].FlowID < flows[j].FlowID })
	s.writeJSON(w, http.StatusOK, flows)
}

// handleGetFlow returns the last result of one flow.
func (s *Server) handleGetFlow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	result, ok := s.results[id]
	s.mu.Unlock()

	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown flow")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleFlowStep submits input to a flow step and returns the outcome.
// A terminal outcome disposes the flow; its id is gone afterwards.
func (s *Server) handleFlowStep(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	f, ok := s.manager.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown flow")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, protocol.MaxInputSize)

	var result flow.Result
	switch flow.Step(r.PathValue("step")) {
	case flow.StepUser:
		input, err := protocol.DecodeUserInput(r.Body)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		result = f.HandleUser(r.Context(), input)

	case flow.StepSelect:
		input, err := protocol.DecodeSelectInput(r.Body)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		result = f.HandleSelect(r.Context(), input)

	case flow.StepSettings:
		input, err := protocol.DecodeSettingsInput(r.Body)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		result = f.HandleSettings(r.Context(), input)

	default:
		s.writeError(w, http.StatusNotFound, "unknown step")
		return
	}

	encoded := protocol.EncodeResult(id, result)
	s.record(encoded)
	s.hub.Broadcast(protocol.NewFlowEvent(encoded))
	s.writeJSON(w, http.StatusOK, encoded)
}

// handleDeleteFlow abandons a flow that will not be finished.
func (s *Server) handleDeleteFlow(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.manager.Get(id); !ok {
		s.writeError(w, http.StatusNotFound, "unknown flow")
		return
	}

	s.dropFlow(id)
	logging.Info("Flow abandoned",
		zap.String("flow_id", id),
		zap.String("remote_addr", r.RemoteAddr),
	)
	w.WriteHeader(http.StatusNoContent)
}

// handleListEntries returns every paired receiver.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	list := s.store.List()
	payload := make([]*protocol.EntryPayload, 0, len(list))
	for _, e := range list {
		payload = append(payload, protocol.NewEntryPayload(e))
	}
	s.writeJSON(w, http.StatusOK, payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// logRequests logs every request and its response status.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logging.LogHTTPResponse(r.RemoteAddr, rec.status, r.URL.Path)
	})
}

// statusRecorder captures the response status for the request log. It
// passes hijacking through so the WebSocket upgrade keeps working.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return h.Hijack()
}
