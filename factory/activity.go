/*
Package factory turns data-entry input into validated records.

PURPOSE:
  Converts the JSON payloads of the dashboard's forms into commercial and
  health activities and monthly entries. This is the only place records are
  born, so it is also the only place their immutable period is stamped and
  their derived fields are first computed.

RULES APPLIED:
  - Enum values are validated (act type, product)
  - New business must name a product
  - Process acts lose any product, company and premium they were sent
  - Premiums must be non-negative
  - Period comes from the clock, never from the effective date
  - ID is a fresh UUID unless the caller supplies one
  - PotentialCommission / WeightedPremium computed from the rate tables

UPDATES:
  ApplyCommercialUpdate and ApplyHealthUpdate merge a partial update into an
  existing record, keep its period and recompute the derived field.

JSON SCHEMA (commercial):
  {
    "act_type": "new_business",
    "product_type": "pc_professional",
    "company": "Allianz",
    "client_name": "Dupont SARL",
    "contract_ref": "PRO-2025-0042",
    "effective_date": "2025-03-14",
    "annual_premium": "2450.00"
  }

SEE ALSO:
  - commercial/commission.go: Recompute
  - health/premium.go: Recompute
  - api/handlers.go: Decodes payloads into these inputs
*/
package factory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/commercial"
	"github.com/warp/commission-engine/finance"
	"github.com/warp/commission-engine/generic"
	"github.com/warp/commission-engine/health"
)

// =============================================================================
// INPUT TYPES
// =============================================================================

// CommercialInput is the JSON representation of a commercial act form.
type CommercialInput struct {
	ID            string           `json:"id,omitempty" yaml:"id"`
	ActType       string           `json:"act_type" yaml:"act_type"`
	ProductType   string           `json:"product_type,omitempty" yaml:"product_type"`
	Company       string           `json:"company,omitempty" yaml:"company"`
	ClientName    string           `json:"client_name,omitempty" yaml:"client_name"`
	ContractRef   string           `json:"contract_ref,omitempty" yaml:"contract_ref"`
	EffectiveDate string           `json:"effective_date,omitempty" yaml:"effective_date"`
	AnnualPremium *decimal.Decimal `json:"annual_premium,omitempty" yaml:"annual_premium"`
}

// HealthInput is the JSON representation of a health act form.
type HealthInput struct {
	ID            string           `json:"id,omitempty" yaml:"id"`
	ActType       string           `json:"act_type" yaml:"act_type"`
	ClientName    string           `json:"client_name,omitempty" yaml:"client_name"`
	ContractRef   string           `json:"contract_ref,omitempty" yaml:"contract_ref"`
	EffectiveDate string           `json:"effective_date,omitempty" yaml:"effective_date"`
	AnnualPremium *decimal.Decimal `json:"annual_premium,omitempty" yaml:"annual_premium"`
}

// MonthlyEntryInput is the JSON representation of the bookkeeping form.
type MonthlyEntryInput struct {
	PCCommissions           decimal.Decimal            `json:"pc_commissions" yaml:"pc_commissions"`
	LifeCommissions         decimal.Decimal            `json:"life_commissions" yaml:"life_commissions"`
	BrokerageCommissions    decimal.Decimal            `json:"brokerage_commissions" yaml:"brokerage_commissions"`
	PCExceptionalProfits    decimal.Decimal            `json:"pc_exceptional_profits" yaml:"pc_exceptional_profits"`
	LifeExceptionalProfits  decimal.Decimal            `json:"life_exceptional_profits" yaml:"life_exceptional_profits"`
	OtherExceptionalProfits decimal.Decimal            `json:"other_exceptional_profits" yaml:"other_exceptional_profits"`
	Expenses                decimal.Decimal            `json:"expenses" yaml:"expenses"`
	Drawings                map[string]decimal.Decimal `json:"drawings,omitempty" yaml:"drawings"`
	Notes                   string                     `json:"notes,omitempty" yaml:"notes"`
}

// =============================================================================
// FACTORY
// =============================================================================

// RecordFactory builds records stamped with the clock's current period.
type RecordFactory struct {
	Clock generic.Clock
	NewID func() string
}

// NewRecordFactory creates a factory using the given clock and UUID IDs.
func NewRecordFactory(clock generic.Clock) *RecordFactory {
	if clock == nil {
		clock = generic.SystemClock{}
	}
	return &RecordFactory{
		Clock: clock,
		NewID: func() string { return uuid.New().String() },
	}
}

// NewCommercial builds a commercial activity for a salesperson.
func (f *RecordFactory) NewCommercial(salesperson generic.SalespersonID, in CommercialInput) (commercial.Activity, error) {
	actType, err := commercial.ParseActType(in.ActType)
	if err != nil {
		return commercial.Activity{}, err
	}
	product, err := commercial.ParseProduct(in.ProductType)
	if err != nil {
		return commercial.Activity{}, err
	}
	premium, err := premiumOf(in.AnnualPremium)
	if err != nil {
		return commercial.Activity{}, err
	}
	effective, err := parseDate(in.EffectiveDate)
	if err != nil {
		return commercial.Activity{}, err
	}

	now := f.Clock.Now()
	a := commercial.Activity{
		ID:            generic.RecordID(f.idOr(in.ID)),
		SalespersonID: salesperson,
		Period:        generic.PeriodOf(now),
		ActType:       actType,
		ClientName:    strings.TrimSpace(in.ClientName),
		ContractRef:   strings.TrimSpace(in.ContractRef),
		EffectiveDate: effective,
		Product:       product,
		Company:       strings.TrimSpace(in.Company),
		AnnualPremium: premium,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := checkProduct(a); err != nil {
		return commercial.Activity{}, err
	}
	if err := commercial.Recompute(&a); err != nil {
		return commercial.Activity{}, err
	}
	return a, nil
}

// ApplyCommercialUpdate merges in into a and recomputes the commission.
// Empty strings and a nil premium leave the existing value untouched.
func (f *RecordFactory) ApplyCommercialUpdate(a commercial.Activity, in CommercialInput) (commercial.Activity, error) {
	if in.ActType != "" {
		actType, err := commercial.ParseActType(in.ActType)
		if err != nil {
			return a, err
		}
		a.ActType = actType
	}
	if in.ProductType != "" {
		product, err := commercial.ParseProduct(in.ProductType)
		if err != nil {
			return a, err
		}
		a.Product = product
	}
	if in.AnnualPremium != nil {
		premium, err := premiumOf(in.AnnualPremium)
		if err != nil {
			return a, err
		}
		a.AnnualPremium = premium
	}
	if in.EffectiveDate != "" {
		effective, err := parseDate(in.EffectiveDate)
		if err != nil {
			return a, err
		}
		a.EffectiveDate = effective
	}
	if in.Company != "" {
		a.Company = strings.TrimSpace(in.Company)
	}
	if in.ClientName != "" {
		a.ClientName = strings.TrimSpace(in.ClientName)
	}
	if in.ContractRef != "" {
		a.ContractRef = strings.TrimSpace(in.ContractRef)
	}
	if err := checkProduct(a); err != nil {
		return a, err
	}
	a.UpdatedAt = f.Clock.Now()
	if err := commercial.Recompute(&a); err != nil {
		return a, err
	}
	return a, nil
}

// NewHealth builds a health-individual activity for a salesperson.
func (f *RecordFactory) NewHealth(salesperson generic.SalespersonID, in HealthInput) (health.Activity, error) {
	actType, err := health.ParseActType(in.ActType)
	if err != nil {
		return health.Activity{}, err
	}
	premium, err := premiumOf(in.AnnualPremium)
	if err != nil {
		return health.Activity{}, err
	}
	effective, err := parseDate(in.EffectiveDate)
	if err != nil {
		return health.Activity{}, err
	}

	now := f.Clock.Now()
	a := health.Activity{
		ID:            generic.RecordID(f.idOr(in.ID)),
		SalespersonID: salesperson,
		Period:        generic.PeriodOf(now),
		ActType:       actType,
		ClientName:    strings.TrimSpace(in.ClientName),
		ContractRef:   strings.TrimSpace(in.ContractRef),
		EffectiveDate: effective,
		AnnualPremium: premium,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := health.Recompute(&a); err != nil {
		return health.Activity{}, err
	}
	return a, nil
}

// ApplyHealthUpdate merges in into a and recomputes the weighted premium.
func (f *RecordFactory) ApplyHealthUpdate(a health.Activity, in HealthInput) (health.Activity, error) {
	if in.ActType != "" {
		actType, err := health.ParseActType(in.ActType)
		if err != nil {
			return a, err
		}
		a.ActType = actType
	}
	if in.AnnualPremium != nil {
		premium, err := premiumOf(in.AnnualPremium)
		if err != nil {
			return a, err
		}
		a.AnnualPremium = premium
	}
	if in.EffectiveDate != "" {
		effective, err := parseDate(in.EffectiveDate)
		if err != nil {
			return a, err
		}
		a.EffectiveDate = effective
	}
	if in.ClientName != "" {
		a.ClientName = strings.TrimSpace(in.ClientName)
	}
	if in.ContractRef != "" {
		a.ContractRef = strings.TrimSpace(in.ContractRef)
	}
	a.UpdatedAt = f.Clock.Now()
	if err := health.Recompute(&a); err != nil {
		return a, err
	}
	return a, nil
}

// NewMonthlyEntry builds the bookkeeping entry of an agency's month.
// Unlike activities, entries are keyed by the period the user picked.
func (f *RecordFactory) NewMonthlyEntry(agency generic.AgencyID, period generic.Period, in MonthlyEntryInput) (finance.MonthlyEntry, error) {
	if !period.Valid() {
		return finance.MonthlyEntry{}, &generic.InvalidInputError{Field: "period", Value: period.String(), Err: generic.ErrInvalidPeriod}
	}
	amounts := map[string]decimal.Decimal{
		"pc_commissions":            in.PCCommissions,
		"life_commissions":          in.LifeCommissions,
		"brokerage_commissions":     in.BrokerageCommissions,
		"pc_exceptional_profits":    in.PCExceptionalProfits,
		"life_exceptional_profits":  in.LifeExceptionalProfits,
		"other_exceptional_profits": in.OtherExceptionalProfits,
		"expenses":                  in.Expenses,
	}
	for field, v := range amounts {
		if v.IsNegative() {
			return finance.MonthlyEntry{}, &generic.InvalidInputError{Field: field, Value: v.String(), Err: generic.ErrNegativeAmount}
		}
	}

	drawings := make(finance.Drawings, len(in.Drawings))
	for partner, v := range in.Drawings {
		partner = strings.TrimSpace(partner)
		if partner == "" {
			continue
		}
		if v.IsNegative() {
			return finance.MonthlyEntry{}, &generic.InvalidInputError{Field: "drawings." + partner, Value: v.String(), Err: generic.ErrNegativeAmount}
		}
		drawings[partner] = v
	}

	return finance.MonthlyEntry{
		AgencyID: agency,
		Period:   period,
		Income: finance.Income{
			PCCommissions:           in.PCCommissions,
			LifeCommissions:         in.LifeCommissions,
			BrokerageCommissions:    in.BrokerageCommissions,
			PCExceptionalProfits:    in.PCExceptionalProfits,
			LifeExceptionalProfits:  in.LifeExceptionalProfits,
			OtherExceptionalProfits: in.OtherExceptionalProfits,
		},
		Expenses:  in.Expenses,
		Drawings:  drawings,
		Notes:     in.Notes,
		UpdatedAt: f.Clock.Now(),
	}, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (f *RecordFactory) idOr(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return f.NewID()
}

// checkProduct rejects a new_business act without a product. Process acts
// are cleared by Recompute afterwards.
func checkProduct(a commercial.Activity) error {
	if a.IsNewBusiness() && a.Product == "" {
		return &generic.InvalidInputError{Field: "product_type", Value: "", Err: generic.ErrUnknownProduct}
	}
	return nil
}

func premiumOf(p *decimal.Decimal) (decimal.Decimal, error) {
	if p == nil {
		return decimal.Zero, nil
	}
	if p.IsNegative() {
		return decimal.Zero, &generic.InvalidInputError{Field: "annual_premium", Value: p.String(), Err: generic.ErrNegativeAmount}
	}
	return *p, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, &generic.InvalidInputError{Field: "effective_date", Value: s, Err: generic.ErrInvalidDate}
	}
	return t, nil
}
