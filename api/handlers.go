/*
handlers.go - HTTP API handlers for the commission engine

PURPOSE:
  Exposes activity entry, monthly bookkeeping and the derived views
  (KPIs, eligibility, commissions, projection) via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Salespeople:
    GET    /api/salespeople                            List salespeople
    POST   /api/salespeople                            Create salesperson

  Commercial:
    GET    /api/salespeople/{id}/commercial?period=    Activities of a month
    POST   /api/salespeople/{id}/commercial            Record an activity
    PUT    /api/commercial/{activityID}                Edit an activity
    DELETE /api/commercial/{activityID}                Remove an activity
    GET    /api/salespeople/{id}/commercial/summary    Monthly KPI + eligibility
    GET    /api/salespeople/{id}/commercial/yearly     Per-month table of a year

  Health:
    GET    /api/salespeople/{id}/health?period=        Activities of a month
    POST   /api/salespeople/{id}/health                Record an activity
    PUT    /api/health-acts/{activityID}               Edit an activity
    DELETE /api/health-acts/{activityID}               Remove an activity
    GET    /api/salespeople/{id}/health/summary        Bracket + revision gate

  Finance:
    GET    /api/finance/{agency}/entries?year=         Monthly entries
    PUT    /api/finance/{agency}/entries/{year}/{month} Upsert a month
    DELETE /api/finance/{agency}/entries/{year}/{month} Remove a month
    GET    /api/finance/{agency}/summary?year=         Totals + projection

  Other:
    GET    /api/salespeople/{id}/dashboard?period=     Everything above at once
    GET    /api/audit?limit=                           Mutation history

RECOMPUTE ON READ:
  Nothing derived is stored. Every summary and every real-commission figure
  is recomputed from the complete record set of its period, so an edit or
  delete is reflected on the next read.

PERIOD DEFAULTS:
  A missing ?period= means the clock's current month; a missing ?year=
  means the clock's current year.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Unknown enum values, malformed periods/dates, negative amounts
  - 404: Salesperson or record not found
  - 409: Duplicate record
  - 500: Internal errors (logged with the request ID)

SECURITY NOTE:
  No authentication. The X-Actor-ID header is recorded in the audit log
  as-is.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/warp/commission-engine/commercial"
	"github.com/warp/commission-engine/factory"
	"github.com/warp/commission-engine/finance"
	"github.com/warp/commission-engine/generic"
	"github.com/warp/commission-engine/health"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is everything the handlers persist. Implemented by sqlite.Store
// and store.Memory.
type Store interface {
	commercial.Store
	health.Store
	finance.Store
	generic.SalespersonStore
	generic.AuditLog
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   Store
	Factory *factory.RecordFactory
	Clock   generic.Clock

	// Agency used when a salesperson has none
	Agency generic.AgencyID

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler. A nil clock means the system clock.
func NewHandler(store Store, agency generic.AgencyID, clock generic.Clock) *Handler {
	if clock == nil {
		clock = generic.SystemClock{}
	}
	return &Handler{
		Store:   store,
		Factory: factory.NewRecordFactory(clock),
		Clock:   clock,
		Agency:  agency,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"agency": h.Agency,
		"period": generic.CurrentPeriod(h.Clock).String(),
	})
}

// =============================================================================
// SALESPERSON HANDLERS
// =============================================================================

// ListSalespeople returns all salespeople.
func (h *Handler) ListSalespeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.Store.ListSalespeople(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "Failed to list salespeople", err)
		return
	}

	dtos := make([]SalespersonDTO, len(people))
	for i, p := range people {
		dtos[i] = toSalespersonDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSalesperson creates a new salesperson.
func (h *Handler) CreateSalesperson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateSalespersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = h.Factory.NewID()
	}

	existing, err := h.Store.GetSalesperson(ctx, generic.SalespersonID(req.ID))
	if err != nil {
		h.writeDomainError(w, r, "Failed to create salesperson", err)
		return
	}
	if existing != nil {
		h.writeDomainError(w, r, "Salesperson already exists",
			&generic.InvalidInputError{Field: "id", Value: req.ID, Err: generic.ErrDuplicateRecord})
		return
	}

	agency := generic.AgencyID(req.AgencyID)
	if agency == "" {
		agency = h.Agency
	}
	sp := generic.Salesperson{
		ID:        generic.SalespersonID(req.ID),
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		AgencyID:  agency,
		CreatedAt: h.Clock.Now(),
	}
	if err := h.Store.SaveSalesperson(ctx, sp); err != nil {
		h.writeDomainError(w, r, "Failed to create salesperson", err)
		return
	}

	h.audit(r, generic.AuditCreated, "salesperson", string(sp.ID), "", map[string]any{"name": sp.Name})
	writeJSON(w, http.StatusCreated, toSalespersonDTO(sp))
}

// =============================================================================
// COMMERCIAL HANDLERS
// =============================================================================

// ListCommercial returns a salesperson's activities of a month, each with
// its real commission under the month's verdict.
// GET /api/salespeople/{id}/commercial?period=2025-03
func (h *Handler) ListCommercial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sp, period, err := h.salespersonAndPeriod(r)
	if err != nil {
		h.writeDomainError(w, r, "Failed to list commercial activities", err)
		return
	}

	acts, err := h.Store.ListCommercialByPeriod(ctx, sp.ID, period)
	if err != nil {
		h.writeDomainError(w, r, "Failed to list commercial activities", err)
		return
	}

	eligible := commercial.IsCommissionReal(acts)
	dtos := make([]CommercialActivityDTO, len(acts))
	for i, a := range acts {
		dtos[i] = toCommercialDTO(a, eligible)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCommercial records a commercial act in the current period.
// POST /api/salespeople/{id}/commercial
func (h *Handler) CreateCommercial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sp, err := h.salesperson(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, "Failed to create commercial activity", err)
		return
	}

	var in factory.CommercialInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	a, err := h.Factory.NewCommercial(sp.ID, in)
	if err != nil {
		h.writeDomainError(w, r, "Invalid commercial activity", err)
		return
	}

	// A caller-supplied ID must not overwrite another record
	existing, err := h.Store.GetCommercial(ctx, a.ID)
	if err != nil {
		h.writeDomainError(w, r, "Failed to create commercial activity", err)
		return
	}
	if existing != nil {
		h.writeDomainError(w, r, "Commercial activity already exists", duplicateID(a.ID))
		return
	}

	if err := h.Store.SaveCommercial(ctx, a); err != nil {
		h.writeDomainError(w, r, "Failed to save commercial activity", err)
		return
	}

	h.audit(r, generic.AuditCreated, "commercial", string(a.ID), a.Period.String(), commercialPayload(a))
	h.writeCommercial(w, r, http.StatusCreated, a)
}

// UpdateCommercial edits an activity. The period never changes.
// PUT /api/commercial/{activityID}
func (h *Handler) UpdateCommercial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := generic.RecordID(chi.URLParam(r, "activityID"))

	existing, err := h.Store.GetCommercial(ctx, id)
	if err != nil {
		h.writeDomainError(w, r, "Failed to get commercial activity", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Commercial activity not found", nil)
		return
	}

	var in factory.CommercialInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updated, err := h.Factory.ApplyCommercialUpdate(*existing, in)
	if err != nil {
		h.writeDomainError(w, r, "Invalid commercial activity", err)
		return
	}
	if err := h.Store.SaveCommercial(ctx, updated); err != nil {
		h.writeDomainError(w, r, "Failed to save commercial activity", err)
		return
	}

	h.audit(r, generic.AuditUpdated, "commercial", string(updated.ID), updated.Period.String(), commercialPayload(updated))
	h.writeCommercial(w, r, http.StatusOK, updated)
}

// DeleteCommercial removes an activity. The month's verdict is
// re-evaluated on the next read.
// DELETE /api/commercial/{activityID}
func (h *Handler) DeleteCommercial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := generic.RecordID(chi.URLParam(r, "activityID"))

	existing, err := h.Store.GetCommercial(ctx, id)
	if err != nil {
		h.writeDomainError(w, r, "Failed to get commercial activity", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Commercial activity not found", nil)
		return
	}

	if err := h.Store.DeleteCommercial(ctx, id); err != nil {
		h.writeDomainError(w, r, "Failed to delete commercial activity", err)
		return
	}

	h.audit(r, generic.AuditDeleted, "commercial", string(id), existing.Period.String(), commercialPayload(*existing))
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "id": id})
}

// CommercialSummary returns the monthly KPI and eligibility verdict.
// GET /api/salespeople/{id}/commercial/summary?period=2025-03
func (h *Handler) CommercialSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sp, period, err := h.salespersonAndPeriod(r)
	if err != nil {
		h.writeDomainError(w, r, "Failed to summarize commercial activities", err)
		return
	}

	acts, err := h.Store.ListCommercialByPeriod(ctx, sp.ID, period)
	if err != nil {
		h.writeDomainError(w, r, "Failed to summarize commercial activities", err)
		return
	}

	writeJSON(w, http.StatusOK, toCommercialSummaryDTO(sp.ID, period, commercial.Summarize(acts)))
}

// CommercialYearly returns the per-month table of a calendar year.
// GET /api/salespeople/{id}/commercial/yearly?year=2025
func (h *Handler) CommercialYearly(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sp, err := h.salesperson(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, "Failed to build yearly table", err)
		return
	}
	year, err := h.yearParam(r)
	if err != nil {
		h.writeDomainError(w, r, "Invalid year", err)
		return
	}

	acts, err := h.Store.ListCommercialByYear(ctx, sp.ID, year)
	if err != nil {
		h.writeDomainError(w, r, "Failed to build yearly table", err)
		return
	}

	writeJSON(w, http.StatusOK, toYearlyDTO(sp.ID, commercial.Yearly(acts, year)))
}

// writeCommercial responds with one activity, its real commission computed
// against the whole period as it stands after the mutation.
func (h *Handler) writeCommercial(w http.ResponseWriter, r *http.Request, status int, a commercial.Activity) {
	acts, err := h.Store.ListCommercialByPeriod(r.Context(), a.SalespersonID, a.Period)
	if err != nil {
		h.writeDomainError(w, r, "Failed to evaluate period", err)
		return
	}
	writeJSON(w, status, toCommercialDTO(a, commercial.IsCommissionReal(acts)))
}

func commercialPayload(a commercial.Activity) map[string]any {
	return map[string]any{
		"act_type":             string(a.ActType),
		"product_type":         string(a.Product),
		"annual_premium":       a.AnnualPremium.String(),
		"potential_commission": a.PotentialCommission.String(),
	}
}

// =============================================================================
// HEALTH HANDLERS
// =============================================================================

// ListHealth returns a salesperson's health acts of a month.
// GET /api/salespeople/{id}/health?period=2025-03
func (h *Handler) ListHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sp, period, err := h.salespersonAndPeriod(r)
	if err != nil {
		h.writeDomainError(w, r, "Failed to list health activities", err)
		return
	}

	acts, err := h.Store.ListHealthByPeriod(ctx, sp.ID, period)
	if err != nil {
		h.writeDomainError(w, r, "Failed to list health activities", err)
		return
	}

	dtos := make([]HealthActivityDTO, len(acts))
	for i, a := range acts {
		dtos[i] = toHealthDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHealth records a health act in the current period.
// POST /api/salespeople/{id}/health
func (h *Handler) CreateHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sp, err := h.salesperson(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, "Failed to create health activity", err)
		return
	}

	var in factory.HealthInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	a, err := h.Factory.NewHealth(sp.ID, in)
	if err != nil {
		h.writeDomainError(w, r, "Invalid health activity", err)
		return
	}

	existing, err := h.Store.GetHealth(ctx, a.ID)
	if err != nil {
		h.writeDomainError(w, r, "Failed to create health activity", err)
		return
	}
	if existing != nil {
		h.writeDomainError(w, r, "Health activity already exists", duplicateID(a.ID))
		return
	}

	if err := h.Store.SaveHealth(ctx, a); err != nil {
		h.writeDomainError(w, r, "Failed to save health activity", err)
		return
	}

	h.audit(r, generic.AuditCreated, "health", string(a.ID), a.Period.String(), healthPayload(a))
	writeJSON(w, http.StatusCreated, toHealthDTO(a))
}

// UpdateHealth edits a health act. The weighted premium is recomputed.
// PUT /api/health-acts/{activityID}
func (h *Handler) UpdateHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := generic.RecordID(chi.URLParam(r, "activityID"))

	existing, err := h.Store.GetHealth(ctx, id)
	if err != nil {
		h.writeDomainError(w, r, "Failed to get health activity", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Health activity not found", nil)
		return
	}

	var in factory.HealthInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updated, err := h.Factory.ApplyHealthUpdate(*existing, in)
	if err != nil {
		h.writeDomainError(w, r, "Invalid health activity", err)
		return
	}
	if err := h.Store.SaveHealth(ctx, updated); err != nil {
		h.writeDomainError(w, r, "Failed to save health activity", err)
		return
	}

	h.audit(r, generic.AuditUpdated, "health", string(updated.ID), updated.Period.String(), healthPayload(updated))
	writeJSON(w, http.StatusOK, toHealthDTO(updated))
}

// DeleteHealth removes a health act.
// DELETE /api/health-acts/{activityID}
func (h *Handler) DeleteHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := generic.RecordID(chi.URLParam(r, "activityID"))

	existing, err := h.Store.GetHealth(ctx, id)
	if err != nil {
		h.writeDomainError(w, r, "Failed to get health activity", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Health activity not found", nil)
		return
	}

	if err := h.Store.DeleteHealth(ctx, id); err != nil {
		h.writeDomainError(w, r, "Failed to delete health activity", err)
		return
	}

	h.audit(r, generic.AuditDeleted, "health", string(id), existing.Period.String(), healthPayload(*existing))
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "id": id})
}

// HealthSummary returns the bracket, potential and real health commission.
// GET /api/salespeople/{id}/health/summary?period=2025-03
func (h *Handler) HealthSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sp, period, err := h.salespersonAndPeriod(r)
	if err != nil {
		h.writeDomainError(w, r, "Failed to summarize health activities", err)
		return
	}

	acts, err := h.Store.ListHealthByPeriod(ctx, sp.ID, period)
	if err != nil {
		h.writeDomainError(w, r, "Failed to summarize health activities", err)
		return
	}

	writeJSON(w, http.StatusOK, toHealthSummaryDTO(sp.ID, period, health.Summarize(acts)))
}

func healthPayload(a health.Activity) map[string]any {
	return map[string]any{
		"act_type":         string(a.ActType),
		"annual_premium":   a.AnnualPremium.String(),
		"weighted_premium": a.WeightedPremium.String(),
	}
}

// =============================================================================
// FINANCE HANDLERS
// =============================================================================

// ListMonthlyEntries returns an agency's entries of a year.
// GET /api/finance/{agency}/entries?year=2025
func (h *Handler) ListMonthlyEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agency := generic.AgencyID(chi.URLParam(r, "agency"))

	year, err := h.yearParam(r)
	if err != nil {
		h.writeDomainError(w, r, "Invalid year", err)
		return
	}

	entries, err := h.Store.ListMonthlyEntries(ctx, agency, year)
	if err != nil {
		h.writeDomainError(w, r, "Failed to list monthly entries", err)
		return
	}

	dtos := make([]MonthlyEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toMonthlyEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PutMonthlyEntry creates or replaces the entry of one month.
// PUT /api/finance/{agency}/entries/{year}/{month}
func (h *Handler) PutMonthlyEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agency := generic.AgencyID(chi.URLParam(r, "agency"))

	period, err := periodFromPath(r)
	if err != nil {
		h.writeDomainError(w, r, "Invalid period", err)
		return
	}

	var in factory.MonthlyEntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	existing, err := h.Store.GetMonthlyEntry(ctx, agency, period)
	if err != nil {
		h.writeDomainError(w, r, "Failed to get monthly entry", err)
		return
	}

	e, err := h.Factory.NewMonthlyEntry(agency, period, in)
	if err != nil {
		h.writeDomainError(w, r, "Invalid monthly entry", err)
		return
	}
	if err := h.Store.UpsertMonthlyEntry(ctx, e); err != nil {
		h.writeDomainError(w, r, "Failed to save monthly entry", err)
		return
	}

	action, status := generic.AuditCreated, http.StatusCreated
	if existing != nil {
		action, status = generic.AuditUpdated, http.StatusOK
	}
	h.audit(r, action, "finance", string(agency), period.String(), map[string]any{
		"total_income": e.TotalIncome().String(),
		"expenses":     e.Expenses.String(),
		"drawings":     e.Drawings.Total().String(),
	})
	writeJSON(w, status, toMonthlyEntryDTO(e))
}

// DeleteMonthlyEntry removes the entry of one month. The month drops out of
// the projection.
// DELETE /api/finance/{agency}/entries/{year}/{month}
func (h *Handler) DeleteMonthlyEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agency := generic.AgencyID(chi.URLParam(r, "agency"))

	period, err := periodFromPath(r)
	if err != nil {
		h.writeDomainError(w, r, "Invalid period", err)
		return
	}

	if err := h.Store.DeleteMonthlyEntry(ctx, agency, period); err != nil {
		h.writeDomainError(w, r, "Failed to delete monthly entry", err)
		return
	}

	h.audit(r, generic.AuditDeleted, "finance", string(agency), period.String(), nil)
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted", "period": period.String()})
}

// FinanceSummary returns yearly totals and the extrapolated income.
// GET /api/finance/{agency}/summary?year=2025
func (h *Handler) FinanceSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	agency := generic.AgencyID(chi.URLParam(r, "agency"))

	year, err := h.yearParam(r)
	if err != nil {
		h.writeDomainError(w, r, "Invalid year", err)
		return
	}

	entries, err := h.Store.ListMonthlyEntries(ctx, agency, year)
	if err != nil {
		h.writeDomainError(w, r, "Failed to summarize finances", err)
		return
	}

	writeJSON(w, http.StatusOK, toFinanceSummaryDTO(agency, finance.Summarize(entries, year)))
}

// =============================================================================
// DASHBOARD
// =============================================================================

// Dashboard returns a salesperson's commercial and health month together
// with the agency's year. The three record sets load concurrently.
// GET /api/salespeople/{id}/dashboard?period=2025-03
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sp, period, err := h.salespersonAndPeriod(r)
	if err != nil {
		h.writeDomainError(w, r, "Failed to build dashboard", err)
		return
	}

	agency := sp.AgencyID
	if agency == "" {
		agency = h.Agency
	}

	var (
		commercialActs []commercial.Activity
		healthActs     []health.Activity
		entries        []finance.MonthlyEntry
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		commercialActs, err = h.Store.ListCommercialByPeriod(ctx, sp.ID, period)
		return err
	})
	g.Go(func() error {
		var err error
		healthActs, err = h.Store.ListHealthByPeriod(ctx, sp.ID, period)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = h.Store.ListMonthlyEntries(ctx, agency, period.Year)
		return err
	})
	if err := g.Wait(); err != nil {
		h.writeDomainError(w, r, "Failed to build dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, DashboardDTO{
		Salesperson: toSalespersonDTO(*sp),
		Period:      period.String(),
		Commercial:  toCommercialSummaryDTO(sp.ID, period, commercial.Summarize(commercialActs)),
		Health:      toHealthSummaryDTO(sp.ID, period, health.Summarize(healthActs)),
		Agency:      toFinanceSummaryDTO(agency, finance.Summarize(entries, period.Year)),
	})
}

// =============================================================================
// AUDIT
// =============================================================================

const defaultAuditLimit = 50

// ListAudit returns the most recent audit entries.
// GET /api/audit?limit=50&kind=commercial&record_id=...
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultAuditLimit
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	entries, err := h.Store.QueryAudit(r.Context(), generic.AuditFilter{
		Kind:     q.Get("kind"),
		RecordID: q.Get("record_id"),
		Limit:    limit,
	})
	if err != nil {
		h.writeDomainError(w, r, "Failed to query audit log", err)
		return
	}

	dtos := make([]AuditEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toAuditDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// audit appends an entry for a mutation that already succeeded. A failure
// here is logged rather than undoing the mutation.
func (h *Handler) audit(r *http.Request, action generic.AuditAction, kind, recordID, period string, payload map[string]any) {
	entry := generic.AuditEntry{
		ID:        h.Factory.NewID(),
		Timestamp: h.Clock.Now(),
		ActorID:   r.Header.Get("X-Actor-ID"),
		Action:    action,
		Kind:      kind,
		RecordID:  recordID,
		Period:    period,
		Payload:   payload,
	}
	if err := h.Store.AppendAudit(r.Context(), entry); err != nil {
		zap.L().Error("audit append failed",
			zap.String("kind", kind),
			zap.String("record_id", recordID),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
}

// =============================================================================
// REQUEST HELPERS
// =============================================================================

func (h *Handler) salesperson(ctx context.Context, id string) (*generic.Salesperson, error) {
	sp, err := h.Store.GetSalesperson(ctx, generic.SalespersonID(id))
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, &generic.NotFoundError{Kind: "salesperson", ID: id, Err: generic.ErrSalespersonNotFound}
	}
	return sp, nil
}

func duplicateID(id generic.RecordID) error {
	return &generic.InvalidInputError{Field: "id", Value: string(id), Err: generic.ErrDuplicateRecord}
}

func (h *Handler) salespersonAndPeriod(r *http.Request) (*generic.Salesperson, generic.Period, error) {
	sp, err := h.salesperson(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return nil, generic.Period{}, err
	}
	period, err := h.periodParam(r)
	if err != nil {
		return nil, generic.Period{}, err
	}
	return sp, period, nil
}

// periodParam reads ?period=YYYY-MM, defaulting to the current month.
func (h *Handler) periodParam(r *http.Request) (generic.Period, error) {
	s := r.URL.Query().Get("period")
	if s == "" {
		return generic.CurrentPeriod(h.Clock), nil
	}
	return generic.ParsePeriod(s)
}

// yearParam reads ?year=YYYY, defaulting to the current year.
func (h *Handler) yearParam(r *http.Request) (int, error) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return h.Clock.Now().Year(), nil
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1 {
		return 0, &generic.InvalidInputError{Field: "year", Value: s, Err: generic.ErrInvalidPeriod}
	}
	return year, nil
}

func periodFromPath(r *http.Request) (generic.Period, error) {
	ys, ms := chi.URLParam(r, "year"), chi.URLParam(r, "month")
	year, yerr := strconv.Atoi(ys)
	month, merr := strconv.Atoi(ms)
	p := generic.NewPeriod(year, time.Month(month))
	if yerr != nil || merr != nil || !p.Valid() {
		return generic.Period{}, &generic.InvalidInputError{Field: "period", Value: ys + "/" + ms, Err: generic.ErrInvalidPeriod}
	}
	return p, nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors to a status. Only 500s are logged;
// the rest are the caller's fault.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case errors.Is(err, generic.ErrDuplicateRecord):
		writeError(w, http.StatusConflict, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		zap.L().Error(message,
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
