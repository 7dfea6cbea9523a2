package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/san-kum/fluidmind/internal/command"
	"github.com/san-kum/fluidmind/internal/division"
	"github.com/san-kum/fluidmind/internal/entity"
	"github.com/san-kum/fluidmind/internal/fluid"
)

// submit posts cmd to the loop and maps a dispatch error onto the
// error taxonomy in spec.md §7, writing a response only on error. It
// returns ok=false once it has written the error response, so the
// caller should return immediately.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, cmd command.Command) (command.Result, bool) {
	res, err := s.loop.Submit(r.Context(), cmd)
	if err == nil {
		return res, true
	}
	writeDispatchError(w, err)
	return command.Result{}, false
}

func writeDispatchError(w http.ResponseWriter, err error) {
	switch err {
	case fluid.ErrNoSuchConcept:
		writeError(w, http.StatusNotFound, "no such concept", "")
	case fluid.ErrNoSuchVent:
		writeError(w, http.StatusNotFound, "no such vent", "")
	case fluid.ErrExperimentBusy:
		writeError(w, http.StatusConflict, "division experiment already active", "")
	case division.ErrInvalidDividend:
		writeError(w, http.StatusBadRequest, "dividend out of range [1,100]", "dividend")
	case division.ErrInvalidDivisor:
		writeError(w, http.StatusBadRequest, "divisor out of range [1,20]", "divisor")
	case division.ErrInvalidSalinity:
		writeError(w, http.StatusBadRequest, "salinity_boost out of range [0,10]", "salinity")
	default:
		if oor, ok := err.(*command.ErrOutOfRange); ok {
			writeError(w, http.StatusBadRequest, "value out of range", oor.Field)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error(), "")
	}
}

type injectRequest struct {
	Concept string  `json:"concept"`
	Density float64 `json:"density"`
	Volume  float64 `json:"volume"`
}

func (s *Server) handleInject(w http.ResponseWriter, r *http.Request) {
	var req injectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, ok := s.submit(w, r, command.Command{
		Kind:        command.KindInject,
		ConceptName: req.Concept,
		Density:     req.Density,
		Volume:      req.Volume,
	})
	if !ok {
		return
	}

	s.loop.Fluid().RLock()
	c := s.loop.Fluid().Concepts()[res.ConceptID]
	view := entity.ConceptViewOf(c)
	s.loop.Fluid().RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"id":            view.ID,
		"name":          view.Name,
		"density":       view.Density,
		"area":          view.Area,
		"initial_layer": view.Layer,
	})
}

type ballastRequest struct {
	ID          string  `json:"id"`
	WeightDelta float64 `json:"weight_delta"`
}

func (s *Server) handleBallast(w http.ResponseWriter, r *http.Request) {
	var req ballastRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, "no such concept", "")
		return
	}
	if _, ok := s.submit(w, r, command.Command{Kind: command.KindBallast, ConceptID: id, Delta: req.WeightDelta}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStrata(w http.ResponseWriter, r *http.Request) {
	depthMin := parseFloatQuery(r, "depth_min", 0)
	depthMax := parseFloatQuery(r, "depth_max", 1)

	f := s.loop.Fluid()
	f.RLock()
	strata := f.Strata(depthMin, depthMax)
	f.RUnlock()
	writeJSON(w, http.StatusOK, strata)
}

func (s *Server) handleListVents(w http.ResponseWriter, r *http.Request) {
	f := s.loop.Fluid()
	f.RLock()
	vents := f.ListVents()
	f.RUnlock()
	writeJSON(w, http.StatusOK, vents)
}

func (s *Server) handleGetVent(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.PathValue("i"))
	if err != nil {
		writeError(w, http.StatusNotFound, "no such vent", "")
		return
	}
	f := s.loop.Fluid()
	f.RLock()
	view, verr := f.GetVent(i)
	f.RUnlock()
	if verr != nil {
		writeError(w, http.StatusNotFound, "no such vent", "")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type addVentRequest struct {
	Name       string  `json:"name"`
	HeatOutput float64 `json:"heat_output"`
	Depth      float64 `json:"depth"`
	Radius     float64 `json:"radius"`
}

func (s *Server) handleAddVent(w http.ResponseWriter, r *http.Request) {
	var req addVentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, ok := s.submit(w, r, command.Command{
		Kind:       command.KindAddCoreTruth,
		VentName:   req.Name,
		HeatOutput: req.HeatOutput,
		Depth:      req.Depth,
		Radius:     req.Radius,
	}); !ok {
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleListContinents(w http.ResponseWriter, r *http.Request) {
	f := s.loop.Fluid()
	f.RLock()
	defer f.RUnlock()
	continents := make([]entity.ContinentView, 0, len(f.Continents()))
	for _, c := range f.Continents() {
		continents = append(continents, entity.ContinentViewOf(c))
	}
	writeJSON(w, http.StatusOK, continents)
}

type triggerContinentRequest struct {
	PressureThreshold float64 `json:"pressure_threshold"`
}

func (s *Server) handleTriggerContinent(w http.ResponseWriter, r *http.Request) {
	var req triggerContinentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.loop.Submit(r.Context(), command.Command{Kind: command.KindTriggerContinent, PressureThreshold: req.PressureThreshold})
	if err == fluid.ErrPressureBelowThreshold {
		f := s.loop.Fluid()
		f.RLock()
		current := f.OrePressure
		f.RUnlock()
		writeJSON(w, http.StatusOK, map[string]any{"status": "pending", "current_pressure": current})
		return
	}
	if err != nil {
		writeDispatchError(w, err)
		return
	}
	_ = res
	writeJSON(w, http.StatusOK, map[string]any{"status": "formed"})
}

func (s *Server) handleThaw(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.submit(w, r, command.Command{Kind: command.KindThaw}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type breathRequest struct {
	Strength float64 `json:"strength"`
}

func (s *Server) handleDeepBreath(w http.ResponseWriter, r *http.Request) {
	var req breathRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, ok := s.submit(w, r, command.Command{Kind: command.KindDeepBreath, Strength: req.Strength}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type flashHealConcept struct {
	Name    string  `json:"name"`
	Density float64 `json:"density"`
	Area    float64 `json:"area"`
}

type flashHealRequest struct {
	Concepts         []flashHealConcept `json:"concepts"`
	DilutionStrength float64            `json:"dilution_strength"`
}

func (s *Server) handleFlashHeal(w http.ResponseWriter, r *http.Request) {
	var req flashHealRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	concepts := make([]fluid.FlashHealConcept, len(req.Concepts))
	for i, c := range req.Concepts {
		concepts[i] = fluid.FlashHealConcept{Name: c.Name, Density: c.Density, Area: c.Area}
	}
	if _, ok := s.submit(w, r, command.Command{Kind: command.KindFlashHeal, HealConcepts: concepts, DilutionStrength: req.DilutionStrength}); !ok {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFullState(w http.ResponseWriter, r *http.Request) {
	f := s.loop.Fluid()
	f.RLock()
	state := f.FullState()
	f.RUnlock()
	writeJSON(w, http.StatusOK, state)
}

type startDivideRequest struct {
	Dividend int     `json:"dividend"`
	Divisor  int     `json:"divisor"`
	Salinity float64 `json:"salinity"`
}

func (s *Server) handleStartDivide(w http.ResponseWriter, r *http.Request) {
	var req startDivideRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, ok := s.submit(w, r, command.Command{
		Kind:          command.KindStartDivision,
		Dividend:      req.Dividend,
		Divisor:       req.Divisor,
		SalinityBoost: req.Salinity,
	}); !ok {
		return
	}

	f := s.loop.Fluid()
	f.RLock()
	exp := f.Experiment
	f.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"dividend":  exp.Dividend,
		"divisor":   exp.Divisor,
		"max_ticks": exp.MaxTicks,
	})
}

func (s *Server) handleDivideStatus(w http.ResponseWriter, r *http.Request) {
	f := s.loop.Fluid()
	f.RLock()
	defer f.RUnlock()
	exp := f.Experiment
	if exp == nil {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":         true,
		"dividend":       exp.Dividend,
		"divisor":        exp.Divisor,
		"ticks_elapsed":  f.Tick - exp.StartTick,
		"peak_jitter":    exp.PeakJitter,
		"node_occupancy": exp.NodeOccupancy,
	})
}

func (s *Server) handleDivideResults(w http.ResponseWriter, r *http.Request) {
	f := s.loop.Fluid()
	f.RLock()
	defer f.RUnlock()
	writeJSON(w, http.StatusOK, f.ExperimentResults)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed json body", "")
		return false
	}
	return true
}

func parseFloatQuery(r *http.Request, key string, def float64) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}
