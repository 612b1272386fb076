/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts are decimal.Decimal and marshal as JSON strings ("1200.5"), so
  the dashboard never sees float rounding.

TYPES:
  Salespeople:  SalespersonDTO, CreateSalespersonRequest
  Commercial:   CommercialActivityDTO, CommercialSummaryDTO, EligibilityDTO, YearlyDTO
  Health:       HealthActivityDTO, HealthSummaryDTO
  Finance:      MonthlyEntryDTO, FinanceSummaryDTO, ProjectionDTO
  Dashboard:    DashboardDTO
  Audit:        AuditEntryDTO
  Scenarios:    ScenarioDTO, LoadScenarioRequest

SEE ALSO:
  - handlers.go: Uses these types
  - factory/activity.go: Request bodies for activities and entries
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/commission-engine/commercial"
	"github.com/warp/commission-engine/finance"
	"github.com/warp/commission-engine/generic"
	"github.com/warp/commission-engine/health"
)

// =============================================================================
// SALESPEOPLE
// =============================================================================

type SalespersonDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	AgencyID  string `json:"agency_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type CreateSalespersonRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	AgencyID string `json:"agency_id"`
}

func toSalespersonDTO(s generic.Salesperson) SalespersonDTO {
	dto := SalespersonDTO{
		ID:       string(s.ID),
		Name:     s.Name,
		Email:    s.Email,
		AgencyID: string(s.AgencyID),
	}
	if !s.CreatedAt.IsZero() {
		dto.CreatedAt = s.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// COMMERCIAL
// =============================================================================

// CommercialActivityDTO represents a commercial act. RealCommission is
// filled against the full record set of the act's period.
type CommercialActivityDTO struct {
	ID                  string          `json:"id"`
	SalespersonID       string          `json:"salesperson_id"`
	Period              string          `json:"period"`
	ActType             string          `json:"act_type"`
	ClientName          string          `json:"client_name,omitempty"`
	ContractRef         string          `json:"contract_ref,omitempty"`
	EffectiveDate       string          `json:"effective_date,omitempty"`
	ProductType         string          `json:"product_type,omitempty"`
	Company             string          `json:"company,omitempty"`
	AnnualPremium       decimal.Decimal `json:"annual_premium"`
	PotentialCommission decimal.Decimal `json:"potential_commission"`
	RealCommission      decimal.Decimal `json:"real_commission"`
	CreatedAt           string          `json:"created_at"`
	UpdatedAt           string          `json:"updated_at"`
}

func toCommercialDTO(a commercial.Activity, eligible bool) CommercialActivityDTO {
	return CommercialActivityDTO{
		ID:                  string(a.ID),
		SalespersonID:       string(a.SalespersonID),
		Period:              a.Period.String(),
		ActType:             string(a.ActType),
		ClientName:          a.ClientName,
		ContractRef:         a.ContractRef,
		EffectiveDate:       formatDate(a.EffectiveDate),
		ProductType:         string(a.Product),
		Company:             a.Company,
		AnnualPremium:       a.EffectivePremium(),
		PotentialCommission: a.EffectiveCommission(),
		RealCommission:      commercial.RealCommission(a, eligible),
		CreatedAt:           a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           a.UpdatedAt.Format(time.RFC3339),
	}
}

// EligibilityDTO reports each condition of the commission gate.
type EligibilityDTO struct {
	ProcessCount     int             `json:"process_count"`
	AutoCount        int             `json:"auto_count"`
	NonAutoCount     int             `json:"non_auto_count"`
	Ratio            decimal.Decimal `json:"ratio"`
	PotentialTotal   decimal.Decimal `json:"potential_total"`
	VolumeMet        bool            `json:"volume_met"`
	MixMet           bool            `json:"mix_met"`
	CommissionMet    bool            `json:"commission_met"`
	IsCommissionReal bool            `json:"is_commission_real"`
}

// CommercialSummaryDTO is the monthly KPI view.
type CommercialSummaryDTO struct {
	SalespersonID  string          `json:"salesperson_id"`
	Period         string          `json:"period"`
	TotalCount     int             `json:"total_count"`
	TotalPremium   decimal.Decimal `json:"total_premium"`
	AutoCount      int             `json:"auto_count"`
	NonAutoCount   int             `json:"non_auto_count"`
	Ratio          decimal.Decimal `json:"ratio"`
	ProcessCount   int             `json:"process_count"`
	PotentialTotal decimal.Decimal `json:"potential_total"`
	RealTotal      decimal.Decimal `json:"real_total"`
	CountByActType map[string]int  `json:"count_by_act_type"`
	CountByProduct map[string]int  `json:"count_by_product"`
	Eligibility    EligibilityDTO  `json:"eligibility"`
}

func toCommercialSummaryDTO(sp generic.SalespersonID, period generic.Period, k commercial.KPI) CommercialSummaryDTO {
	dto := CommercialSummaryDTO{
		SalespersonID:  string(sp),
		Period:         period.String(),
		TotalCount:     k.TotalCount,
		TotalPremium:   k.TotalPremium,
		AutoCount:      k.AutoCount,
		NonAutoCount:   k.NonAutoCount,
		Ratio:          k.Ratio,
		ProcessCount:   k.ProcessCount,
		PotentialTotal: k.PotentialTotal,
		RealTotal:      k.RealTotal,
		CountByActType: make(map[string]int, len(k.CountByActType)),
		CountByProduct: make(map[string]int, len(k.CountByProduct)),
		Eligibility: EligibilityDTO{
			ProcessCount:     k.Eligibility.ProcessCount,
			AutoCount:        k.Eligibility.AutoCount,
			NonAutoCount:     k.Eligibility.NonAutoCount,
			Ratio:            k.Eligibility.Ratio,
			PotentialTotal:   k.Eligibility.PotentialTotal,
			VolumeMet:        k.Eligibility.VolumeMet,
			MixMet:           k.Eligibility.MixMet,
			CommissionMet:    k.Eligibility.CommissionMet,
			IsCommissionReal: k.Eligibility.IsCommissionReal,
		},
	}
	for t, n := range k.CountByActType {
		dto.CountByActType[string(t)] = n
	}
	for p, n := range k.CountByProduct {
		dto.CountByProduct[string(p)] = n
	}
	return dto
}

// YearlyMonthDTO is one row of the commercial yearly table.
type YearlyMonthDTO struct {
	Period         string          `json:"period"`
	TotalCount     int             `json:"total_count"`
	TotalPremium   decimal.Decimal `json:"total_premium"`
	PotentialTotal decimal.Decimal `json:"potential_total"`
	RealTotal      decimal.Decimal `json:"real_total"`
	Eligible       bool            `json:"eligible"`
}

type YearlyDTO struct {
	SalespersonID  string           `json:"salesperson_id"`
	Year           int              `json:"year"`
	Months         []YearlyMonthDTO `json:"months"`
	TotalPremium   decimal.Decimal  `json:"total_premium"`
	PotentialTotal decimal.Decimal  `json:"potential_total"`
	RealTotal      decimal.Decimal  `json:"real_total"`
	EligibleMonths int              `json:"eligible_months"`
}

func toYearlyDTO(sp generic.SalespersonID, y commercial.YearKPI) YearlyDTO {
	dto := YearlyDTO{
		SalespersonID:  string(sp),
		Year:           y.Year,
		Months:         make([]YearlyMonthDTO, 0, len(y.Months)),
		TotalPremium:   y.TotalPremium,
		PotentialTotal: y.PotentialTotal,
		RealTotal:      y.RealTotal,
		EligibleMonths: y.EligibleMonths,
	}
	for _, m := range y.Months {
		dto.Months = append(dto.Months, YearlyMonthDTO{
			Period:         m.Period.String(),
			TotalCount:     m.KPI.TotalCount,
			TotalPremium:   m.KPI.TotalPremium,
			PotentialTotal: m.KPI.PotentialTotal,
			RealTotal:      m.KPI.RealTotal,
			Eligible:       m.KPI.Eligibility.IsCommissionReal,
		})
	}
	return dto
}

// =============================================================================
// HEALTH
// =============================================================================

type HealthActivityDTO struct {
	ID              string          `json:"id"`
	SalespersonID   string          `json:"salesperson_id"`
	Period          string          `json:"period"`
	ActType         string          `json:"act_type"`
	ClientName      string          `json:"client_name,omitempty"`
	ContractRef     string          `json:"contract_ref,omitempty"`
	EffectiveDate   string          `json:"effective_date,omitempty"`
	AnnualPremium   decimal.Decimal `json:"annual_premium"`
	WeightedPremium decimal.Decimal `json:"weighted_premium"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

func toHealthDTO(a health.Activity) HealthActivityDTO {
	return HealthActivityDTO{
		ID:              string(a.ID),
		SalespersonID:   string(a.SalespersonID),
		Period:          a.Period.String(),
		ActType:         string(a.ActType),
		ClientName:      a.ClientName,
		ContractRef:     a.ContractRef,
		EffectiveDate:   formatDate(a.EffectiveDate),
		AnnualPremium:   a.AnnualPremium,
		WeightedPremium: a.WeightedPremium,
		CreatedAt:       a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       a.UpdatedAt.Format(time.RFC3339),
	}
}

// HealthSummaryDTO is the monthly health view.
type HealthSummaryDTO struct {
	SalespersonID    string          `json:"salesperson_id"`
	Period           string          `json:"period"`
	TotalCount       int             `json:"total_count"`
	CountByActType   map[string]int  `json:"count_by_act_type"`
	TotalPremium     decimal.Decimal `json:"total_premium"`
	TotalWeighted    decimal.Decimal `json:"total_weighted"`
	BracketFrom      decimal.Decimal `json:"bracket_from"`
	BracketPercent   int64           `json:"bracket_percent"`
	Potential        decimal.Decimal `json:"potential_commission"`
	RevisionCount    int             `json:"revision_count"`
	IsCommissionReal bool            `json:"is_commission_real"`
	Real             decimal.Decimal `json:"real_commission"`
}

func toHealthSummaryDTO(sp generic.SalespersonID, period generic.Period, s health.PeriodSummary) HealthSummaryDTO {
	dto := HealthSummaryDTO{
		SalespersonID:    string(sp),
		Period:           period.String(),
		TotalCount:       s.TotalCount,
		CountByActType:   make(map[string]int, len(s.CountByActType)),
		TotalPremium:     s.TotalPremium,
		TotalWeighted:    s.Commission.TotalWeighted,
		BracketFrom:      s.Commission.Bracket.From,
		BracketPercent:   s.Commission.Bracket.Percent,
		Potential:        s.Commission.Potential,
		RevisionCount:    s.Commission.RevisionCount,
		IsCommissionReal: s.Commission.IsReal,
		Real:             s.Commission.Real,
	}
	for t, n := range s.CountByActType {
		dto.CountByActType[string(t)] = n
	}
	return dto
}

// =============================================================================
// FINANCE
// =============================================================================

type MonthlyEntryDTO struct {
	AgencyID                string                     `json:"agency_id"`
	Period                  string                     `json:"period"`
	PCCommissions           decimal.Decimal            `json:"pc_commissions"`
	LifeCommissions         decimal.Decimal            `json:"life_commissions"`
	BrokerageCommissions    decimal.Decimal            `json:"brokerage_commissions"`
	PCExceptionalProfits    decimal.Decimal            `json:"pc_exceptional_profits"`
	LifeExceptionalProfits  decimal.Decimal            `json:"life_exceptional_profits"`
	OtherExceptionalProfits decimal.Decimal            `json:"other_exceptional_profits"`
	TotalIncome             decimal.Decimal            `json:"total_income"`
	Expenses                decimal.Decimal            `json:"expenses"`
	Result                  decimal.Decimal            `json:"result"`
	Drawings                map[string]decimal.Decimal `json:"drawings"`
	DrawingsTotal           decimal.Decimal            `json:"drawings_total"`
	Notes                   string                     `json:"notes,omitempty"`
	UpdatedAt               string                     `json:"updated_at"`
}

func toMonthlyEntryDTO(e finance.MonthlyEntry) MonthlyEntryDTO {
	drawings := make(map[string]decimal.Decimal, len(e.Drawings))
	for p, amt := range e.Drawings {
		drawings[p] = amt
	}
	return MonthlyEntryDTO{
		AgencyID:                string(e.AgencyID),
		Period:                  e.Period.String(),
		PCCommissions:           e.Income.PCCommissions,
		LifeCommissions:         e.Income.LifeCommissions,
		BrokerageCommissions:    e.Income.BrokerageCommissions,
		PCExceptionalProfits:    e.Income.PCExceptionalProfits,
		LifeExceptionalProfits:  e.Income.LifeExceptionalProfits,
		OtherExceptionalProfits: e.Income.OtherExceptionalProfits,
		TotalIncome:             e.TotalIncome(),
		Expenses:                e.Expenses,
		Result:                  e.Result(),
		Drawings:                drawings,
		DrawingsTotal:           e.Drawings.Total(),
		Notes:                   e.Notes,
		UpdatedAt:               e.UpdatedAt.Format(time.RFC3339),
	}
}

// ProjectionDTO is the yearly extrapolation.
type ProjectionDTO struct {
	Year              int             `json:"year"`
	CompleteMonths    int             `json:"complete_months"`
	IncludedIncome    decimal.Decimal `json:"included_income"`
	AverageIncome     decimal.Decimal `json:"average_income"`
	ExtrapolatedTotal decimal.Decimal `json:"extrapolated_total"`
}

func toProjectionDTO(p finance.Projection) ProjectionDTO {
	return ProjectionDTO{
		Year:              p.Year,
		CompleteMonths:    p.CompleteMonths,
		IncludedIncome:    p.IncludedIncome,
		AverageIncome:     p.AverageIncome,
		ExtrapolatedTotal: p.ExtrapolatedTotal,
	}
}

type MonthRowDTO struct {
	Period      string          `json:"period"`
	Present     bool            `json:"present"`
	Complete    bool            `json:"complete"`
	TotalIncome decimal.Decimal `json:"total_income"`
	Expenses    decimal.Decimal `json:"expenses"`
	Result      decimal.Decimal `json:"result"`
	Drawings    decimal.Decimal `json:"drawings"`
}

// FinanceSummaryDTO is the agency's yearly table.
type FinanceSummaryDTO struct {
	AgencyID          string                     `json:"agency_id"`
	Year              int                        `json:"year"`
	Months            []MonthRowDTO              `json:"months"`
	TotalIncome       decimal.Decimal            `json:"total_income"`
	TotalExpenses     decimal.Decimal            `json:"total_expenses"`
	TotalResult       decimal.Decimal            `json:"total_result"`
	TotalDrawings     decimal.Decimal            `json:"total_drawings"`
	DrawingsByPartner map[string]decimal.Decimal `json:"drawings_by_partner"`
	Projection        ProjectionDTO              `json:"projection"`
}

func toFinanceSummaryDTO(agency generic.AgencyID, s finance.YearSummary) FinanceSummaryDTO {
	dto := FinanceSummaryDTO{
		AgencyID:          string(agency),
		Year:              s.Year,
		Months:            make([]MonthRowDTO, 0, len(s.Months)),
		TotalIncome:       s.TotalIncome,
		TotalExpenses:     s.TotalExpenses,
		TotalResult:       s.TotalResult,
		TotalDrawings:     s.TotalDrawings,
		DrawingsByPartner: s.DrawingsByPartner,
		Projection:        toProjectionDTO(s.Projection),
	}
	for _, m := range s.Months {
		dto.Months = append(dto.Months, MonthRowDTO{
			Period:      m.Period.String(),
			Present:     m.Present,
			Complete:    m.Complete,
			TotalIncome: m.TotalIncome,
			Expenses:    m.Expenses,
			Result:      m.Result,
			Drawings:    m.Drawings,
		})
	}
	return dto
}

// =============================================================================
// DASHBOARD
// =============================================================================

// DashboardDTO combines a salesperson's month with the agency's year.
type DashboardDTO struct {
	Salesperson SalespersonDTO       `json:"salesperson"`
	Period      string               `json:"period"`
	Commercial  CommercialSummaryDTO `json:"commercial"`
	Health      HealthSummaryDTO     `json:"health"`
	Agency      FinanceSummaryDTO    `json:"agency"`
}

// =============================================================================
// AUDIT
// =============================================================================

type AuditEntryDTO struct {
	ID        string         `json:"id"`
	Timestamp string         `json:"timestamp"`
	ActorID   string         `json:"actor_id,omitempty"`
	Action    string         `json:"action"`
	Kind      string         `json:"kind"`
	RecordID  string         `json:"record_id,omitempty"`
	Period    string         `json:"period,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}

func toAuditDTO(e generic.AuditEntry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format(time.RFC3339),
		ActorID:   e.ActorID,
		Action:    string(e.Action),
		Kind:      e.Kind,
		RecordID:  e.RecordID,
		Period:    e.Period,
		Payload:   e.Payload,
	}
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is returned for all errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
