// Package server exposes a simulation over a JSON HTTP API. One mutex
// serializes every request; the simulation itself is single-threaded.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hydroeco/hydrosim/internal/config"
	"github.com/hydroeco/hydrosim/internal/remediation"
	"github.com/hydroeco/hydrosim/internal/sim"
)

const maxStepsPerRequest = 10000

type Server struct {
	mu  sync.Mutex
	sim *sim.Simulation
	dt  float64
	log *logrus.Logger
}

// New wraps a simulation with the HTTP facade. dt is the tick length used by
// step and lesson requests that do not override it.
func New(s *sim.Simulation, dt float64, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.New()
	}
	return &Server{sim: s, dt: dt, log: log}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/step", s.handleStep)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /api/flow", s.handleFlow)
	mux.HandleFunc("GET /api/tracer/{name}", s.handleTracer)
	mux.HandleFunc("POST /api/inject", s.handleInject)
	mux.HandleFunc("POST /api/heatwave", s.handleHeatwave)
	mux.HandleFunc("GET /api/remediation", s.handleRemediationSummary)
	mux.HandleFunc("POST /api/remediation", s.handleRemediationDeploy)
	mux.HandleFunc("DELETE /api/remediation/{id}", s.handleRemediationRemove)
	mux.HandleFunc("GET /api/compliance", s.handleCompliance)
	mux.HandleFunc("GET /api/ecosystem", s.handleEcosystem)
	mux.HandleFunc("GET /api/profiles", s.handleProfiles)
	mux.HandleFunc("GET /api/lessons", s.handleLessons)
	mux.HandleFunc("POST /api/lessons/{id}/run", s.handleLessonRun)

	return s.logged(mux)
}

// logged records method, path, and latency for every request.
func (s *Server) logged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"elapsed": time.Since(start).String(),
		}).Info("request")
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.sim.Status()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, snap)
}

type stepRequest struct {
	Steps int     `json:"steps"`
	Dt    float64 `json:"dt,omitempty"`
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Steps <= 0 {
		req.Steps = 1
	}
	if req.Steps > maxStepsPerRequest {
		s.writeError(w, http.StatusBadRequest,
			fmt.Errorf("steps %d exceeds limit %d", req.Steps, maxStepsPerRequest))
		return
	}
	dt := req.Dt
	if dt <= 0 {
		dt = s.dt
	}

	s.mu.Lock()
	result, err := s.sim.Run(r.Context(), req.Steps, dt)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result.Snapshots[len(result.Snapshots)-1])
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.sim.Reset()
	snap := s.sim.Status()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleFlow(w http.ResponseWriter, r *http.Request) {
	i, errI := strconv.Atoi(r.URL.Query().Get("i"))
	j, errJ := strconv.Atoi(r.URL.Query().Get("j"))
	if errI != nil || errJ != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("i and j query parameters required"))
		return
	}

	s.mu.Lock()
	u, v := s.sim.FlowAt(i, j)
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, map[string]float64{"u": u, "v": v})
}

func (s *Server) handleTracer(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	s.mu.Lock()
	f := s.sim.Tracer(name)
	resp := map[string]any{
		"tracer": name,
		"nx":     f.Nx,
		"ny":     f.Ny,
		"mean":   f.Mean(),
		"max":    f.Max(),
		"values": f.Rows(),
	}
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

type injectRequest struct {
	Kind   string  `json:"kind"` // nutrient, pollutant, temperature, momentum
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Radius int     `json:"radius"`
	Amount float64 `json:"amount"`
	Du     float64 `json:"du"`
	Dv     float64 `json:"dv"`
}

func (s *Server) handleInject(w http.ResponseWriter, r *http.Request) {
	var req injectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Radius <= 0 {
		req.Radius = 5
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Kind {
	case "nutrient":
		s.sim.InjectNutrient(req.X, req.Y, req.Radius, req.Amount)
	case "pollutant":
		s.sim.InjectPollutant(req.X, req.Y, req.Radius, req.Amount)
	case "temperature":
		s.sim.InjectTemperature(req.X, req.Y, req.Radius, req.Amount)
	case "momentum":
		s.sim.InjectMomentum(req.X, req.Y, req.Radius, req.Du, req.Dv)
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown injection kind %q", req.Kind))
		return
	}
	s.writeJSON(w, http.StatusOK, s.sim.Status())
}

type heatwaveRequest struct {
	Active    bool    `json:"active"`
	Intensity float64 `json:"intensity"`
}

func (s *Server) handleHeatwave(w http.ResponseWriter, r *http.Request) {
	var req heatwaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	if req.Active {
		s.sim.ActivateHeatwave(req.Intensity)
	} else {
		s.sim.DeactivateHeatwave()
	}
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, map[string]any{"active": req.Active, "intensity": req.Intensity})
}

func (s *Server) handleRemediationSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	summary := s.sim.Remediation().Summarize()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, summary)
}

type deployRequest struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Radius    int     `json:"radius"`
	Type      string  `json:"type"`
	Intensity float64 `json:"intensity"`
}

func (s *Server) handleRemediationDeploy(w http.ResponseWriter, r *http.Request) {
	var req deployRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Intensity <= 0 {
		req.Intensity = 1.0
	}
	if req.Radius <= 0 {
		req.Radius = 5
	}

	s.mu.Lock()
	zone, err := s.sim.Deploy(req.X, req.Y, req.Radius, remediation.Type(req.Type), req.Intensity)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, zone)
}

func (s *Server) handleRemediationRemove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	err = s.sim.RemoveZone(id)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompliance(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{
		"report":  s.sim.Compliance(),
		"history": s.sim.ComplianceHistory(),
	}
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEcosystem(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	eco := s.sim.Ecosystem()
	resp := map[string]any{
		"stoneflies":   eco.Stoneflies,
		"leeches":      eco.Leeches,
		"seagrass":     eco.Seagrass,
		"top_predator": eco.TopPredator,
		"health":       eco.HealthStatus(),
	}
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := make([]*config.Profile, 0)
	for _, id := range config.ListProfiles() {
		profiles = append(profiles, config.GetProfile(id))
	}
	s.writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleLessons(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, config.ListLessons(r.URL.Query().Get("profile")))
}

func (s *Server) handleLessonRun(w http.ResponseWriter, r *http.Request) {
	lesson := config.GetLesson(r.PathValue("id"))
	if lesson == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("unknown lesson %q", r.PathValue("id")))
		return
	}

	s.mu.Lock()
	snaps, err := s.sim.RunLesson(r.Context(), lesson, s.dt)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"lesson":    lesson.ID,
		"snapshots": snaps,
	})
}
