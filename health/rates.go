package health

import (
	"github.com/shopspring/decimal"
	"github.com/warp/commission-engine/generic"
)

// =============================================================================
// RATE TABLES
// =============================================================================

// Coefficients weight an act's premium by act type.
var Coefficients = map[ActType]decimal.Decimal{
	ActNewBusiness:        generic.MustParseDecimal("1.00"),
	ActRevision:           generic.MustParseDecimal("0.50"),
	ActEmployeeEnrollment: generic.MustParseDecimal("0.50"),
	ActBrokerToDirect:     generic.MustParseDecimal("0.75"),
	ActDirectToBroker:     generic.MustParseDecimal("0.50"),
}

// Bracket maps a range of period weighted premium to a commission rate.
// The lower bound is inclusive.
type Bracket struct {
	From    decimal.Decimal
	Percent int64
}

// Rate returns the bracket rate as a multiplier.
func (b Bracket) Rate() decimal.Decimal {
	return generic.Percent(b.Percent)
}

// Brackets are ordered by ascending lower bound.
var Brackets = []Bracket{
	{From: generic.NewMoney(0), Percent: 0},
	{From: generic.NewMoney(10000), Percent: 2},
	{From: generic.NewMoney(14000), Percent: 3},
	{From: generic.NewMoney(18000), Percent: 4},
	{From: generic.NewMoney(22000), Percent: 6},
}

// BracketFor returns the bracket containing total.
func BracketFor(total decimal.Decimal) Bracket {
	found := Brackets[0]
	for _, b := range Brackets {
		if total.GreaterThanOrEqual(b.From) {
			found = b
		}
	}
	return found
}

// MinRevisions is the revision count that makes health commissions real.
const MinRevisions = 4
