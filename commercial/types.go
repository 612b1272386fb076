// Package commercial implements commission rules for P&C sales acts.
// It uses the generic primitives with commercial act types, product rate
// tables and the period-wide eligibility gate.
package commercial

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// ACT TYPES
// =============================================================================

// ActType classifies a commercial activity.
type ActType string

const (
	ActNewBusiness           ActType = "new_business"
	ActProcessM3             ActType = "process_m3"
	ActEarlyTerminationAuto  ActType = "early_termination_auto"
	ActEarlyTerminationOther ActType = "early_termination_other"
)

// ActTypes lists every commercial act type in display order.
var ActTypes = []ActType{
	ActNewBusiness,
	ActProcessM3,
	ActEarlyTerminationAuto,
	ActEarlyTerminationOther,
}

// IsProcess reports whether the act is a renewal/termination handling act.
// Process acts carry no product and only count toward the volume condition.
func (a ActType) IsProcess() bool {
	switch a {
	case ActProcessM3, ActEarlyTerminationAuto, ActEarlyTerminationOther:
		return true
	}
	return false
}

// Valid reports whether a is a known act type.
func (a ActType) Valid() bool {
	return a == ActNewBusiness || a.IsProcess()
}

// ParseActType validates a raw act type.
func ParseActType(s string) (ActType, error) {
	a := ActType(s)
	if !a.Valid() {
		return "", &generic.InvalidInputError{Field: "act_type", Value: s, Err: generic.ErrUnknownActType}
	}
	return a, nil
}

// =============================================================================
// ACTIVITY - One sales act
// =============================================================================

// Activity is one commercial act. Only NewBusiness acts carry a product,
// company, premium and commission.
//
// IsCommissionReal is deliberately absent: it is a property of the whole
// period and is derived by Evaluate over the period's full record set.
type Activity struct {
	ID            generic.RecordID
	SalespersonID generic.SalespersonID
	Period        generic.Period
	ActType       ActType
	ClientName    string
	ContractRef   string
	EffectiveDate time.Time

	// NewBusiness only
	Product             ProductType
	Company             string
	AnnualPremium       decimal.Decimal
	PotentialCommission decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsNewBusiness reports whether the act is a newly sold contract.
func (a Activity) IsNewBusiness() bool {
	return a.ActType == ActNewBusiness
}

// IsAuto reports whether the act is an auto-product NewBusiness act.
func (a Activity) IsAuto() bool {
	return a.IsNewBusiness() && a.Product == ProductAutoMoto
}

// IsNonAuto reports whether the act is a NewBusiness act on any product
// other than auto.
func (a Activity) IsNonAuto() bool {
	return a.IsNewBusiness() && a.Product != ProductAutoMoto
}

// EffectivePremium is the premium counted in totals: zero for process acts.
func (a Activity) EffectivePremium() decimal.Decimal {
	if !a.IsNewBusiness() {
		return decimal.Zero
	}
	return a.AnnualPremium
}

// EffectiveCommission is the potential commission counted in totals.
func (a Activity) EffectiveCommission() decimal.Decimal {
	if !a.IsNewBusiness() {
		return decimal.Zero
	}
	return a.PotentialCommission
}
