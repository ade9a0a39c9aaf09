package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/hydroeco/hydrosim/internal/config"
	"github.com/hydroeco/hydrosim/internal/sim"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	config.Profiles["server_pond"] = &config.Profile{
		ID:            "server_pond",
		Name:          "Server Pond",
		GridNx:        10,
		GridNy:        10,
		DomainLx:      20.0,
		DomainLy:      20.0,
		WaterbodyType: "warm_water_fishery",
		MeanDepth:     5.0,
		EddyViscosity: 0.01,
		Kinetics:      config.DefaultKinetics(),
	}

	simulation, err := sim.New("server_pond")
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	ts := httptest.NewServer(New(simulation, 0.5, log).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func postJSON(t *testing.T, url string, body any, out any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestStatusEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var snap sim.Snapshot
	resp := getJSON(t, ts.URL+"/api/status", &snap)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if snap.Step != 0 {
		t.Errorf("fresh simulation should be at step 0, got %d", snap.Step)
	}
	if snap.Means["dissolved_oxygen"] != 8.0 {
		t.Errorf("expected baseline DO 8, got %v", snap.Means["dissolved_oxygen"])
	}
}

func TestStepAdvancesSimulation(t *testing.T) {
	ts := newTestServer(t)

	var snap sim.Snapshot
	resp := postJSON(t, ts.URL+"/api/step", map[string]any{"steps": 3}, &snap)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if snap.Step != 3 {
		t.Errorf("expected step 3, got %d", snap.Step)
	}
}

func TestStepLimitRejected(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/step", map[string]any{"steps": 50000}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for oversized step request, got %d", resp.StatusCode)
	}
}

func TestInjectAndTracerRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/inject",
		map[string]any{"kind": "nutrient", "x": 5, "y": 5, "radius": 2, "amount": 20.0}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("inject status %d", resp.StatusCode)
	}

	var tracer struct {
		Nx     int         `json:"nx"`
		Ny     int         `json:"ny"`
		Mean   float64     `json:"mean"`
		Values [][]float64 `json:"values"`
	}
	getJSON(t, ts.URL+"/api/tracer/nutrient", &tracer)
	if tracer.Nx != 10 || tracer.Ny != 10 {
		t.Fatalf("unexpected shape %dx%d", tracer.Nx, tracer.Ny)
	}
	if tracer.Values[5][5] != 30.0 {
		t.Errorf("expected injected cell at 30, got %v", tracer.Values[5][5])
	}
	if tracer.Values[0][0] != 10.0 {
		t.Errorf("expected baseline cell at 10, got %v", tracer.Values[0][0])
	}
}

func TestInjectUnknownKind(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/inject", map[string]any{"kind": "glitter"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestFlowQuery(t *testing.T) {
	ts := newTestServer(t)

	postJSON(t, ts.URL+"/api/inject",
		map[string]any{"kind": "momentum", "x": 5, "y": 5, "radius": 1, "du": 0.3, "dv": -0.1}, nil)

	var flow map[string]float64
	getJSON(t, ts.URL+"/api/flow?i=5&j=5", &flow)
	if flow["u"] != 0.3 || flow["v"] != -0.1 {
		t.Errorf("unexpected flow %v", flow)
	}

	resp := getJSON(t, ts.URL+"/api/flow?i=abc&j=0", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad coordinates, got %d", resp.StatusCode)
	}
}

func TestResetEndpoint(t *testing.T) {
	ts := newTestServer(t)

	postJSON(t, ts.URL+"/api/step", map[string]any{"steps": 2}, nil)

	var snap sim.Snapshot
	resp := postJSON(t, ts.URL+"/api/reset", map[string]any{}, &snap)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if snap.Step != 0 || snap.Clock != 0 {
		t.Errorf("reset should zero the counters, got %+v", snap)
	}
}

func TestHeatwaveEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var ack map[string]any
	resp := postJSON(t, ts.URL+"/api/heatwave", map[string]any{"active": true, "intensity": 3.0}, &ack)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ack["active"] != true {
		t.Errorf("expected active ack, got %v", ack)
	}
}

func TestRemediationLifecycle(t *testing.T) {
	ts := newTestServer(t)

	var zone struct {
		ID   int    `json:"id"`
		Type string `json:"type"`
	}
	resp := postJSON(t, ts.URL+"/api/remediation",
		map[string]any{"x": 5, "y": 5, "radius": 2, "type": "aeration"}, &zone)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("deploy status %d", resp.StatusCode)
	}

	var summary struct {
		Total int `json:"total_interventions"`
	}
	getJSON(t, ts.URL+"/api/remediation", &summary)
	if summary.Total != 1 {
		t.Errorf("expected 1 zone, got %d", summary.Total)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/remediation/0", nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status %d", delResp.StatusCode)
	}

	getJSON(t, ts.URL+"/api/remediation", &summary)
	if summary.Total != 0 {
		t.Errorf("expected 0 zones after removal, got %d", summary.Total)
	}
}

func TestRemediationUnknownType(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/remediation",
		map[string]any{"x": 5, "y": 5, "radius": 2, "type": "dredging"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestComplianceEndpoint(t *testing.T) {
	ts := newTestServer(t)

	postJSON(t, ts.URL+"/api/inject",
		map[string]any{"kind": "pollutant", "x": 5, "y": 5, "radius": 8, "amount": 8.0}, nil)
	postJSON(t, ts.URL+"/api/step", map[string]any{"steps": 1}, nil)

	var compliance struct {
		Report struct {
			Status     string `json:"status"`
			Violations []struct {
				Parameter string `json:"parameter"`
			} `json:"violations"`
		} `json:"report"`
	}
	getJSON(t, ts.URL+"/api/compliance", &compliance)
	if len(compliance.Report.Violations) == 0 {
		t.Error("a heavy spill should produce violations")
	}
}

func TestEcosystemEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var eco map[string]any
	getJSON(t, ts.URL+"/api/ecosystem", &eco)
	if eco["health"] == "" || eco["stoneflies"] == nil {
		t.Errorf("unexpected ecosystem payload: %v", eco)
	}
}

func TestProfilesAndLessonsEndpoints(t *testing.T) {
	ts := newTestServer(t)

	var profiles []config.Profile
	getJSON(t, ts.URL+"/api/profiles", &profiles)
	if len(profiles) < 3 {
		t.Errorf("expected at least the builtin profiles, got %d", len(profiles))
	}

	var lessons []config.Lesson
	getJSON(t, ts.URL+"/api/lessons?profile=urban_lake", &lessons)
	if len(lessons) == 0 {
		t.Error("expected urban lake lessons")
	}
	for _, l := range lessons {
		if l.Profile != "urban_lake" {
			t.Errorf("lesson %s has profile %s", l.ID, l.Profile)
		}
	}
}

func TestLessonRunProfileMismatch(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/lessons/lake_bloom_then_hypoxia/run", map[string]any{}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("lesson for another profile should 400, got %d", resp.StatusCode)
	}
}

func TestLessonRunUnknown(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts.URL+"/api/lessons/nope/run", map[string]any{}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
