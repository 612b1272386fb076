/*
commission.go - Bracket commission on a period's weighted premium

PURPOSE:
  Health-individual commissions are computed on the period total, never per
  act. The total weighted premium selects a bracket rate; the potential
  commission becomes real once the salesperson has logged enough revisions.

BRACKETS (lower bound inclusive):
  < 10 000          0%
  [10 000, 14 000)  2%
  [14 000, 18 000)  3%
  [18 000, 22 000)  4%
  >= 22 000         6%

GATE:
  real = revisions >= 4 ? potential : 0
  Only Revision acts count. There is no ratio or minimum-amount condition,
  unlike the commercial gate.

SEE ALSO:
  - rates.go: Coefficients and bracket table
  - commercial/eligibility.go: The three-condition commercial gate
*/
package health

import (
	"github.com/shopspring/decimal"
)

// Commission is the outcome of the bracket lookup and the revision gate.
type Commission struct {
	TotalWeighted decimal.Decimal
	Bracket       Bracket
	Potential     decimal.Decimal
	RevisionCount int
	IsReal        bool
	Real          decimal.Decimal
}

// ComputeCommission maps a period's weighted premium through the brackets
// and applies the revision gate.
func ComputeCommission(totalWeighted decimal.Decimal, revisionCount int) Commission {
	b := BracketFor(totalWeighted)
	c := Commission{
		TotalWeighted: totalWeighted,
		Bracket:       b,
		Potential:     totalWeighted.Mul(b.Rate()),
		RevisionCount: revisionCount,
		IsReal:        revisionCount >= MinRevisions,
		Real:          decimal.Zero,
	}
	if c.IsReal {
		c.Real = c.Potential
	}
	return c
}
