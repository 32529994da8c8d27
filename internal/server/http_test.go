package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dalymople/avrsetup/internal/avr"
	"github.com/dalymople/avrsetup/internal/entries"
	"github.com/dalymople/avrsetup/internal/flow"
	"github.com/dalymople/avrsetup/internal/netid"
	"github.com/dalymople/avrsetup/internal/protocol"
)

type fakeDiscoverer struct {
	devices []avr.DiscoveredDevice
	err     error
}

func (d *fakeDiscoverer) Discover(ctx context.Context) ([]avr.DiscoveredDevice, error) {
	return d.devices, d.err
}

type fakeConnector struct {
	receiver *avr.Receiver
	err      error
}

func (c *fakeConnector) Connect(ctx context.Context) (*avr.Receiver, error) {
	return c.receiver, c.err
}

type fakeResolver struct {
	byIP       netid.Result
	byHostname netid.Result
}

func (r *fakeResolver) ByIP(ctx context.Context, addr string) netid.Result { return r.byIP }
func (r *fakeResolver) ByHostname(ctx context.Context, hostname string) netid.Result {
	return r.byHostname
}

// testServer wires a server whose flow collaborators all succeed without
// touching the network.
func testServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	store, err := entries.Open(filepath.Join(t.TempDir(), "entries.yaml"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}

	manager := flow.NewManager(store)
	manager.Discoverer = &fakeDiscoverer{}
	manager.Connect = func(string, time.Duration, bool, bool, bool) flow.Connector {
		return &fakeConnector{receiver: &avr.Receiver{
			Host:         "192.168.1.40",
			Type:         avr.ReceiverTypeAVRX2016,
			Name:         "Denon AVR-X1500H",
			ModelName:    "AVR-X1500H",
			SerialNumber: "0123456789",
			Manufacturer: "Denon",
		}}
	}
	manager.Resolver = &fakeResolver{
		byIP:       netid.Result{Status: netid.StatusFound, MAC: "00:05:cd:12:34:56"},
		byHostname: netid.Result{Status: netid.StatusNotFound},
	}

	srv, err := New(&Config{Host: "127.0.0.1", Port: 0}, manager, store)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv, srv.routes()
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, protocol.StepResult) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var result protocol.StepResult
	if rec.Code < 300 && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("%s %s returned unparseable body: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec, result
}

func TestCreateFlow(t *testing.T) {
	_, handler := testServer(t)

	rec, result := doJSON(t, handler, http.MethodPost, "/api/flows", "")

	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/flows status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if result.Kind != protocol.KindForm {
		t.Errorf("result kind = %q, want %q", result.Kind, protocol.KindForm)
	}
	if result.Step != string(flow.StepUser) {
		t.Errorf("first form = %q, want %q", result.Step, flow.StepUser)
	}
	if result.FlowID == "" {
		t.Error("created flow has no id")
	}

	rec, got := doJSON(t, handler, http.MethodGet, "/api/flows/"+result.FlowID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET flow status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got.FlowID != result.FlowID || got.Step != result.Step {
		t.Errorf("GET flow = %+v, want the create result %+v", got, result)
	}
}

func TestFlowStep_FullRun(t *testing.T) {
	srv, handler := testServer(t)

	_, created := doJSON(t, handler, http.MethodPost, "/api/flows", "")

	rec, result := doJSON(t, handler, http.MethodPost,
		"/api/flows/"+created.FlowID+"/user", `{"host": "192.168.1.40"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST user step status = %d, want %d", rec.Code, http.StatusOK)
	}
	if result.Kind != protocol.KindForm || result.Step != string(flow.StepSettings) {
		t.Fatalf("user step result = %+v, want the settings form", result)
	}

	// An empty settings body submits the defaults
	rec, result = doJSON(t, handler, http.MethodPost,
		"/api/flows/"+created.FlowID+"/settings", `{}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST settings step status = %d, want %d", rec.Code, http.StatusOK)
	}
	if result.Kind != protocol.KindEntry {
		t.Fatalf("settings step result kind = %q, want %q", result.Kind, protocol.KindEntry)
	}
	if result.Entry == nil {
		t.Fatal("entry result carries no entry")
	}
	if result.Entry.Timeout != flow.DefaultTimeout {
		t.Errorf("entry timeout = %d, want the default %d", result.Entry.Timeout, flow.DefaultTimeout)
	}
	if result.Entry.Host != "192.168.1.40" {
		t.Errorf("entry host = %q, want 192.168.1.40", result.Entry.Host)
	}
	if result.Entry.UniqueID != "AVR-X1500H-0123456789" {
		t.Errorf("entry unique id = %q, want AVR-X1500H-0123456789", result.Entry.UniqueID)
	}

	// Terminal results dispose the flow
	rec, _ = doJSON(t, handler, http.MethodGet, "/api/flows/"+created.FlowID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET finished flow status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if srv.ActiveFlows() != 0 {
		t.Errorf("ActiveFlows() = %d after a terminal result, want 0", srv.ActiveFlows())
	}

	// The entry is listed
	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	entriesRec := httptest.NewRecorder()
	handler.ServeHTTP(entriesRec, req)
	if entriesRec.Code != http.StatusOK {
		t.Fatalf("GET /api/entries status = %d, want %d", entriesRec.Code, http.StatusOK)
	}
	var list []*protocol.EntryPayload
	if err := json.Unmarshal(entriesRec.Body.Bytes(), &list); err != nil {
		t.Fatalf("entries list unparseable: %v", err)
	}
	if len(list) != 1 || list[0].UniqueID != "AVR-X1500H-0123456789" {
		t.Errorf("entries list = %+v, want the one created entry", list)
	}
}

func TestFlowStep_InvalidInput(t *testing.T) {
	_, handler := testServer(t)

	_, created := doJSON(t, handler, http.MethodPost, "/api/flows", "")

	rec, _ := doJSON(t, handler, http.MethodPost,
		"/api/flows/"+created.FlowID+"/user", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	// The flow survives a bad submission
	rec, _ = doJSON(t, handler, http.MethodGet, "/api/flows/"+created.FlowID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("GET flow after bad input status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestFlowStep_UnknownFlowAndStep(t *testing.T) {
	_, handler := testServer(t)

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/flows/nope/user", `{}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown flow status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	_, created := doJSON(t, handler, http.MethodPost, "/api/flows", "")
	rec, _ = doJSON(t, handler, http.MethodPost,
		"/api/flows/"+created.FlowID+"/reboot", `{}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown step status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestDeleteFlow(t *testing.T) {
	srv, handler := testServer(t)

	_, created := doJSON(t, handler, http.MethodPost, "/api/flows", "")

	req := httptest.NewRequest(http.MethodDelete, "/api/flows/"+created.FlowID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE flow status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	getRec, _ := doJSON(t, handler, http.MethodGet, "/api/flows/"+created.FlowID, "")
	if getRec.Code != http.StatusNotFound {
		t.Errorf("GET abandoned flow status = %d, want %d", getRec.Code, http.StatusNotFound)
	}
	if srv.ActiveFlows() != 0 {
		t.Errorf("ActiveFlows() = %d after abandon, want 0", srv.ActiveFlows())
	}
}

func TestListFlows(t *testing.T) {
	_, handler := testServer(t)

	_, first := doJSON(t, handler, http.MethodPost, "/api/flows", "")
	_, second := doJSON(t, handler, http.MethodPost, "/api/flows", "")

	req := httptest.NewRequest(http.MethodGet, "/api/flows", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/flows status = %d, want %d", rec.Code, http.StatusOK)
	}

	var list []protocol.StepResult
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("flow list unparseable: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("flow list has %d flows, want 2", len(list))
	}
	ids := map[string]bool{list[0].FlowID: true, list[1].FlowID: true}
	if !ids[first.FlowID] || !ids[second.FlowID] {
		t.Errorf("flow list ids = %v, want %v and %v", ids, first.FlowID, second.FlowID)
	}
}
