/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario is a YAML fixture embedded
	from fixtures/ and replayed through the record factory, so stored
	records carry the same derived values as ones entered by hand.

AVAILABLE SCENARIOS:

	eligible-month:   All three commercial conditions met
	ineligible-month: Mix condition fails at 133%
	health-month:     3% bracket with the revision gate open
	partial-year:     Five booked months, one breaking even

HOW SCENARIOS WORK:
 1. Reset the store (clear all data)
 2. Create salespeople
 3. Replay commercial and health acts on a fixed clock starting at
    the fixture's start time, one minute apart
 4. Upsert monthly entries for their stated period

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "eligible-month"}

ADDING NEW SCENARIOS:

	Drop a NN-name.yaml file into fixtures/. Files load in name order.

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - fixtures/*.yaml: Scenario data
  - factory/activity.go: Record construction
*/
package api

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/warp/commission-engine/factory"
	"github.com/warp/commission-engine/generic"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// Scenario is one demo data set.
type Scenario struct {
	ID          string                `yaml:"id"`
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
	Category    string                `yaml:"category"`
	Start       time.Time             `yaml:"start"`
	Agency      string                `yaml:"agency"`
	Salespeople []scenarioSalesperson `yaml:"salespeople"`
	Commercial  []scenarioCommercial  `yaml:"commercial"`
	Health      []scenarioHealth      `yaml:"health"`
	Entries     []scenarioEntry       `yaml:"entries"`
}

type scenarioSalesperson struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

type scenarioCommercial struct {
	Salesperson string `yaml:"salesperson"`
	Repeat      int    `yaml:"repeat"`

	factory.CommercialInput `yaml:",inline"`
}

type scenarioHealth struct {
	Salesperson string `yaml:"salesperson"`
	Repeat      int    `yaml:"repeat"`

	factory.HealthInput `yaml:",inline"`
}

type scenarioEntry struct {
	Period string `yaml:"period"`

	factory.MonthlyEntryInput `yaml:",inline"`
}

func (s *Scenario) DTO() ScenarioDTO {
	return ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description, Category: s.Category}
}

var (
	loadOnce      sync.Once
	scenarioList  []*Scenario
	scenarioByID  map[string]*Scenario
	scenarioError error
)

// Scenarios returns every embedded scenario in file-name order.
func Scenarios() ([]*Scenario, error) {
	loadOnce.Do(func() {
		scenarioList, scenarioByID, scenarioError = parseFixtures(fixtureFS)
	})
	return scenarioList, scenarioError
}

// LookupScenario returns the scenario with id, or nil.
func LookupScenario(id string) (*Scenario, error) {
	if _, err := Scenarios(); err != nil {
		return nil, err
	}
	return scenarioByID[id], nil
}

func parseFixtures(fsys fs.FS) ([]*Scenario, map[string]*Scenario, error) {
	names, err := fs.Glob(fsys, "fixtures/*.yaml")
	if err != nil {
		return nil, nil, eris.Wrap(err, "scenarios: glob fixtures")
	}
	sort.Strings(names)

	list := make([]*Scenario, 0, len(names))
	byID := make(map[string]*Scenario, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "scenarios: read %s", name)
		}
		var s Scenario
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, nil, eris.Wrapf(err, "scenarios: parse %s", name)
		}
		if s.ID == "" {
			return nil, nil, eris.Errorf("scenarios: %s has no id", name)
		}
		if _, dup := byID[s.ID]; dup {
			return nil, nil, eris.Errorf("scenarios: duplicate id %q", s.ID)
		}
		list = append(list, &s)
		byID[s.ID] = &s
	}
	return list, byID, nil
}

// =============================================================================
// LOADING
// =============================================================================

// Apply resets store and replays the scenario. defaultAgency is used when
// the fixture names none.
func (s *Scenario) Apply(ctx context.Context, store Store, defaultAgency generic.AgencyID) error {
	if err := store.Reset(ctx); err != nil {
		return eris.Wrap(err, "scenarios: reset store")
	}

	agency := generic.AgencyID(s.Agency)
	if agency == "" {
		agency = defaultAgency
	}

	clock := generic.NewFixedClock(s.Start)
	f := factory.NewRecordFactory(clock)
	tick := 0
	advance := func() {
		clock.Set(s.Start.Add(time.Duration(tick) * time.Minute))
		tick++
	}

	for _, p := range s.Salespeople {
		err := store.SaveSalesperson(ctx, generic.Salesperson{
			ID:        generic.SalespersonID(p.ID),
			Name:      p.Name,
			Email:     p.Email,
			AgencyID:  agency,
			CreatedAt: s.Start,
		})
		if err != nil {
			return eris.Wrapf(err, "scenarios: save salesperson %s", p.ID)
		}
	}

	for _, c := range s.Commercial {
		for i := 0; i < max(c.Repeat, 1); i++ {
			advance()
			a, err := f.NewCommercial(generic.SalespersonID(c.Salesperson), c.CommercialInput)
			if err != nil {
				return eris.Wrapf(err, "scenarios: %s commercial act", s.ID)
			}
			if err := store.SaveCommercial(ctx, a); err != nil {
				return err
			}
		}
	}

	for _, hc := range s.Health {
		for i := 0; i < max(hc.Repeat, 1); i++ {
			advance()
			a, err := f.NewHealth(generic.SalespersonID(hc.Salesperson), hc.HealthInput)
			if err != nil {
				return eris.Wrapf(err, "scenarios: %s health act", s.ID)
			}
			if err := store.SaveHealth(ctx, a); err != nil {
				return err
			}
		}
	}

	for _, e := range s.Entries {
		advance()
		period, err := generic.ParsePeriod(e.Period)
		if err != nil {
			return eris.Wrapf(err, "scenarios: %s entry", s.ID)
		}
		entry, err := f.NewMonthlyEntry(agency, period, e.MonthlyEntryInput)
		if err != nil {
			return eris.Wrapf(err, "scenarios: %s entry %s", s.ID, e.Period)
		}
		if err := store.UpsertMonthlyEntry(ctx, entry); err != nil {
			return err
		}
	}

	return store.AppendAudit(ctx, generic.AuditEntry{
		ID:        f.NewID(),
		Timestamp: time.Now(),
		Action:    generic.AuditScenario,
		Kind:      "scenario",
		RecordID:  s.ID,
	})
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	list, err := Scenarios()
	if err != nil {
		h.writeDomainError(w, r, "Failed to load scenarios", err)
		return
	}
	dtos := make([]ScenarioDTO, len(list))
	for i, s := range list {
		dtos[i] = s.DTO()
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	s, err := LookupScenario(current)
	if err != nil || s == nil {
		writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
		return
	}
	writeJSON(w, http.StatusOK, s.DTO())
}

// LoadScenario resets the store and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s, err := LookupScenario(req.ScenarioID)
	if err != nil {
		h.writeDomainError(w, r, "Failed to load scenarios", err)
		return
	}
	if s == nil {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.currentScenario = ""
	if err := s.Apply(r.Context(), h.Store, h.Agency); err != nil {
		h.writeDomainError(w, r, "Failed to load scenario", err)
		return
	}
	h.currentScenario = s.ID

	zap.L().Info("scenario loaded", zap.String("scenario", s.ID))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "loaded",
		"scenario": s.DTO(),
	})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		h.writeDomainError(w, r, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	zap.L().Info("store reset")
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}
