// Package health implements commission rules for individual health acts.
// Premiums are weighted by act type, the period total is mapped through
// revenue brackets, and the result is gated by a revision count.
package health

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// ActType classifies a health-individual act.
type ActType string

const (
	ActNewBusiness        ActType = "new_business"
	ActRevision           ActType = "revision"
	ActEmployeeEnrollment ActType = "employee_enrollment"
	ActBrokerToDirect     ActType = "broker_to_direct"
	ActDirectToBroker     ActType = "direct_to_broker"
)

// ActTypes lists every health act type in display order.
var ActTypes = []ActType{
	ActNewBusiness,
	ActRevision,
	ActEmployeeEnrollment,
	ActBrokerToDirect,
	ActDirectToBroker,
}

// Valid reports whether a is a known act type.
func (a ActType) Valid() bool {
	_, ok := Coefficients[a]
	return ok
}

// ParseActType validates a raw act type.
func ParseActType(s string) (ActType, error) {
	a := ActType(s)
	if !a.Valid() {
		return "", &generic.InvalidInputError{Field: "act_type", Value: s, Err: generic.ErrUnknownActType}
	}
	return a, nil
}

// Activity is one health-individual act.
type Activity struct {
	ID              generic.RecordID
	SalespersonID   generic.SalespersonID
	Period          generic.Period
	ActType         ActType
	ClientName      string
	ContractRef     string
	EffectiveDate   time.Time
	AnnualPremium   decimal.Decimal
	WeightedPremium decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
